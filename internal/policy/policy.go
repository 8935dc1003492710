// Package policy holds the role-based authorization table. Every mutating
// operation consults it server-side; nothing here depends on request paths.
package policy

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
)

type Resource string

const (
	ResourceComplaint     Resource = "complaint"
	ResourceNoComplaint   Resource = "no_complaint"
	ResourceComplaintSeen Resource = "complaint_seen"
	ResourceArea          Resource = "area"
	ResourceComplaintType Resource = "complaint_type"
	ResourceUser          Resource = "user"
	ResourceDashboard     Resource = "dashboard"
	ResourceReport        Resource = "report"
	ResourceSuggestion    Resource = "suggestion"
	ResourceFeed          Resource = "feed"
)

type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionResolve  Action = "resolve"
	ActionMarkSeen Action = "mark_seen"
)

// Scope narrows an allowed action to a subset of rows.
type Scope int

const (
	// ScopeNone denies the action.
	ScopeNone Scope = iota
	// ScopeOwn limits the action to rows the acting user owns.
	ScopeOwn
	// ScopeQueue limits the action to in-progress complaints routed to the role's queue.
	ScopeQueue
	// ScopeAll allows the action on every row.
	ScopeAll
)

type grants map[Resource]map[Action]Scope

// table is the complete policy. Admins are handled before lookup.
var table = map[models.Role]grants{
	models.RoleEmployee: {
		ResourceComplaint: {
			ActionCreate: ScopeOwn, ActionRead: ScopeOwn, ActionUpdate: ScopeOwn, ActionDelete: ScopeOwn,
		},
		ResourceNoComplaint: {
			ActionCreate: ScopeOwn, ActionUpdate: ScopeOwn,
		},
		ResourceArea:          {ActionRead: ScopeAll},
		ResourceComplaintType: {ActionRead: ScopeAll},
		ResourceSuggestion:    {ActionRead: ScopeOwn},
	},
	models.RoleManager: {
		ResourceComplaint: {
			ActionRead: ScopeQueue, ActionResolve: ScopeQueue, ActionMarkSeen: ScopeQueue,
		},
		ResourceComplaintSeen: {ActionDelete: ScopeOwn},
		ResourceArea:          {ActionRead: ScopeAll},
		ResourceComplaintType: {ActionRead: ScopeAll},
		ResourceDashboard:     {ActionRead: ScopeAll},
		ResourceFeed:          {ActionRead: ScopeQueue},
	},
	models.RoleITManager: {
		ResourceComplaint: {
			ActionRead: ScopeQueue, ActionResolve: ScopeQueue, ActionMarkSeen: ScopeQueue,
		},
		ResourceComplaintSeen: {ActionDelete: ScopeOwn},
		ResourceArea:          {ActionRead: ScopeAll},
		ResourceComplaintType: {ActionRead: ScopeAll},
		ResourceDashboard:     {ActionRead: ScopeAll},
		ResourceFeed:          {ActionRead: ScopeQueue},
	},
	models.RoleOwner: {
		ResourceArea:          {ActionRead: ScopeAll},
		ResourceComplaintType: {ActionRead: ScopeAll},
		ResourceDashboard:     {ActionRead: ScopeAll},
		ResourceReport:        {ActionRead: ScopeAll},
	},
}

// ScopeFor returns how far role may perform action on resource.
func ScopeFor(role models.Role, resource Resource, action Action) Scope {
	if role == models.RoleAdmin {
		return ScopeAll
	}
	return table[role][resource][action]
}

// Allowed reports whether role may perform action on resource at all.
func Allowed(role models.Role, resource Resource, action Action) bool {
	return ScopeFor(role, resource, action) != ScopeNone
}

// Check is Allowed as an error: Forbidden on deny.
func Check(role models.Role, resource Resource, action Action) error {
	if !Allowed(role, resource, action) {
		return apperr.Forbidden("Unauthorized")
	}
	return nil
}

// QueueFilter selects complaints by the routing queue of their type. With
// Negate set it selects every complaint outside Queue, including those whose
// type was deleted.
type QueueFilter struct {
	Queue  string
	Negate bool
}

// Matches applies the filter to a complaint's queue (nil when its type is gone).
func (f QueueFilter) Matches(queue *string) bool {
	inQueue := queue != nil && *queue == f.Queue
	if f.Negate {
		return !inQueue
	}
	return inQueue
}

// QueueFor returns the routing filter of a queue-scoped role.
func QueueFor(role models.Role) (QueueFilter, bool) {
	switch role {
	case models.RoleManager:
		return QueueFilter{Queue: config.QueueIT, Negate: true}, true
	case models.RoleITManager:
		return QueueFilter{Queue: config.QueueIT}, true
	default:
		return QueueFilter{}, false
	}
}

// Actor is the authenticated principal of a request.
type Actor struct {
	UserID uint
	Role   models.Role
}

// CanAccess decides whether actor may perform action on one complaint,
// applying the scope the table grants.
func CanAccess(actor Actor, action Action, c *models.ComplaintView) bool {
	switch ScopeFor(actor.Role, ResourceComplaint, action) {
	case ScopeAll:
		return true
	case ScopeOwn:
		return c.UserID == actor.UserID
	case ScopeQueue:
		filter, ok := QueueFor(actor.Role)
		return ok && c.Status == models.StatusInProgress && filter.Matches(c.Queue)
	default:
		return false
	}
}
