// Package livefeed pushes complaint lifecycle events to connected dashboards
// over websockets, filtered by what each subscriber's role may read.
package livefeed

import (
	"context"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"

	"github.com/sirupsen/logrus"
)

const eventBuffer = 64

// ManagerService owns the set of connected clients. Only Run touches Clients.
type ManagerService struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	EventCh      chan models.ComplaintEvent

	Subscriber EventSubscriber
	Log        logrus.FieldLogger

	done chan struct{}
}

func NewManagerService(sub EventSubscriber, log logrus.FieldLogger) *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.ComplaintEvent, eventBuffer),
		Subscriber:   sub,
		Log:          log,
		done:         make(chan struct{}),
	}
}

// Run serves registrations and fans events out until ctx is cancelled. With a
// Subscriber set, events published by other instances are received as well.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)
	if m.Subscriber != nil {
		m.StartPubSubListener(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			for id, client := range m.Clients {
				delete(m.Clients, id)
				client.Close()
			}
			return

		case client := <-m.RegisterCh:
			m.Clients[client.GetID()] = client
			m.Log.WithFields(logrus.Fields{"client_id": client.GetID(), "user_id": client.GetActor().UserID}).Debug("feed client registered")

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetID()]; ok {
				delete(m.Clients, client.GetID())
				client.Close()
			}

		case ev := <-m.EventCh:
			m.broadcast(ev)
		}
	}
}

// Register adds a client unless the hub has stopped.
func (m *ManagerService) Register(client Client) bool {
	select {
	case m.RegisterCh <- client:
		return true
	case <-m.done:
		return false
	}
}

// Unregister removes a client unless the hub has stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.done:
	}
}

// PublishComplaintEvent delivers ev to this instance's clients directly. It
// stands in for the redis channel when redis is not configured.
func (m *ManagerService) PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error {
	select {
	case m.EventCh <- ev:
		return nil
	case <-m.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *ManagerService) broadcast(ev models.ComplaintEvent) {
	for id, client := range m.Clients {
		if !Visible(client.GetActor(), ev) {
			continue
		}
		select {
		case client.GetSendChannel() <- ev:
		default:
			// slow consumer
			m.Log.WithField("client_id", id).Warn("feed client too slow, disconnecting")
			delete(m.Clients, id)
			client.Close()
		}
	}
}

// Visible reports whether actor may receive ev. Queue-scoped roles follow
// their queue through every transition, including resolution, so their
// tables can drop resolved rows.
func Visible(actor policy.Actor, ev models.ComplaintEvent) bool {
	switch policy.ScopeFor(actor.Role, policy.ResourceFeed, policy.ActionRead) {
	case policy.ScopeAll:
		return true
	case policy.ScopeOwn:
		return ev.Complaint.UserID == actor.UserID
	case policy.ScopeQueue:
		if ev.Complaint.Status == models.StatusNoComplaint {
			return false
		}
		filter, ok := policy.QueueFor(actor.Role)
		return ok && filter.Matches(ev.Complaint.Queue)
	default:
		return false
	}
}
