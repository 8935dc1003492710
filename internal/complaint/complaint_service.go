// Package complaint implements the complaint lifecycle: submission,
// acknowledgment, resolution, owner edits and "No Complaint" attestations,
// each gated by the authorization policy.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
	"complaintdesk/backend/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SuggestionRecorder remembers values a user typed so the form can offer them again.
type SuggestionRecorder interface {
	RecordSubmission(ctx context.Context, userID uint, building, floor, details string)
}

// Notifier tells the responsible team about a new complaint.
type Notifier interface {
	NotifySubmitted(view models.ComplaintView)
}

// TransitionObserver counts lifecycle transitions.
type TransitionObserver interface {
	ObserveTransition(kind models.EventKind)
}

// Service handles the business logic for complaints.
type Service struct {
	Storage     storage.ComplaintStore
	Events      storage.EventPublisher
	Suggestions SuggestionRecorder
	Notifier    Notifier
	Metrics     TransitionObserver
	Log         logrus.FieldLogger
	Now         func() time.Time

	validate *validator.Validate
}

// NewService creates a new complaint service. The optional collaborators
// (events, suggestions, notifier, metrics) may be set on the returned value.
func NewService(s storage.ComplaintStore, log logrus.FieldLogger) *Service {
	return &Service{
		Storage:  s,
		Log:      log,
		Now:      time.Now,
		validate: validator.New(),
	}
}

// SubmitInput carries the fields of a new complaint. Date defaults to today.
type SubmitInput struct {
	Building        string `validate:"required"`
	Floor           string `validate:"required"`
	AreaID          uint   `validate:"required"`
	ComplaintTypeID uint   `validate:"required"`
	Details         string `validate:"required"`
	Date            string
}

// UpdateInput carries the owner-editable fields of a complaint.
type UpdateInput struct {
	Date            string `validate:"required"`
	Building        string `validate:"required"`
	Floor           string `validate:"required"`
	AreaID          uint   `validate:"required"`
	ComplaintTypeID uint   `validate:"required"`
	Details         string `validate:"required"`
}

// ResolveInput carries the resolution record.
type ResolveInput struct {
	ResolutionDate string `validate:"required"`
	Action         string `validate:"required"`
}

// NoComplaintInput attests that a building had nothing to report on Date
// (today when empty).
type NoComplaintInput struct {
	Building string `validate:"required"`
	Date     string
}

// List returns the complaints the actor may list on the main table: every
// complaint for admins, the actor's own submissions otherwise.
func (s *Service) List(ctx context.Context, actor policy.Actor) ([]models.ComplaintView, error) {
	q := storage.ComplaintQuery{}
	if policy.ScopeFor(actor.Role, policy.ResourceComplaint, policy.ActionRead) != policy.ScopeAll {
		q.UserID = &actor.UserID
	}
	views, err := s.Storage.ListComplaintViews(ctx, q)
	if err != nil {
		return nil, s.internal(err, "list complaints", 0)
	}
	return views, nil
}

// ListAction returns the complaints on the actor's action table, scoped by
// the read grant: all, own, or the in-progress complaints of the role's queue.
func (s *Service) ListAction(ctx context.Context, actor policy.Actor) ([]models.ComplaintView, error) {
	q := storage.ComplaintQuery{}
	switch policy.ScopeFor(actor.Role, policy.ResourceComplaint, policy.ActionRead) {
	case policy.ScopeAll:
	case policy.ScopeOwn:
		q.UserID = &actor.UserID
	case policy.ScopeQueue:
		filter, _ := policy.QueueFor(actor.Role)
		status := models.StatusInProgress
		q.Queue = &filter
		q.Status = &status
	default:
		return nil, apperr.Forbidden("Unauthorized")
	}
	views, err := s.Storage.ListComplaintViews(ctx, q)
	if err != nil {
		return nil, s.internal(err, "list action complaints", 0)
	}
	return views, nil
}

// Submit creates a complaint in progress, owned by the actor.
func (s *Service) Submit(ctx context.Context, actor policy.Actor, in SubmitInput) (*models.ComplaintView, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaint, policy.ActionCreate); err != nil {
		return nil, err
	}
	in.Building, in.Floor, in.Details = trim(in.Building), trim(in.Floor), trim(in.Details)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("All fields are required")
	}
	date, err := s.dateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	c := &models.Complaint{
		UserID:          actor.UserID,
		Building:        in.Building,
		Floor:           in.Floor,
		AreaID:          &in.AreaID,
		ComplaintTypeID: &in.ComplaintTypeID,
		Details:         in.Details,
		Status:          models.StatusInProgress,
		Date:            date,
	}
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, s.internal(err, "create complaint", 0)
	}

	view, err := s.Storage.GetComplaintView(ctx, c.ID)
	if err != nil {
		return nil, s.internal(err, "load complaint", c.ID)
	}

	if s.Suggestions != nil {
		s.Suggestions.RecordSubmission(ctx, actor.UserID, c.Building, c.Floor, c.Details)
	}
	if s.Notifier != nil {
		s.Notifier.NotifySubmitted(*view)
	}
	s.emit(ctx, models.EventSubmitted, actor, view)
	return view, nil
}

// MarkSeen acknowledges a complaint on behalf of the actor. Repeated calls
// return the existing acknowledgment.
func (s *Service) MarkSeen(ctx context.Context, actor policy.Actor, complaintID uint) (*models.ComplaintSeen, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaint, policy.ActionMarkSeen); err != nil {
		return nil, err
	}
	if complaintID == 0 {
		return nil, apperr.Validation("complaint_id is required")
	}
	view, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, policy.ActionMarkSeen, view) {
		return nil, apperr.Forbidden("Unauthorized")
	}

	ack, err := s.Storage.MarkSeen(ctx, complaintID, actor.UserID, s.Now())
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, s.internal(err, "mark complaint seen", complaintID)
	}

	view.Seen = true
	s.emit(ctx, models.EventSeen, actor, view)
	return ack, nil
}

// UnmarkSeen removes an acknowledgment. Only its author or an admin may.
func (s *Service) UnmarkSeen(ctx context.Context, actor policy.Actor, seenID uint) error {
	if err := policy.Check(actor.Role, policy.ResourceComplaintSeen, policy.ActionDelete); err != nil {
		return err
	}
	ack, err := s.Storage.GetSeen(ctx, seenID)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Seen record not found")
	}
	if err != nil {
		return s.internal(err, "load seen record", seenID)
	}
	if policy.ScopeFor(actor.Role, policy.ResourceComplaintSeen, policy.ActionDelete) != policy.ScopeAll && ack.UserID != actor.UserID {
		return apperr.Forbidden("Unauthorized")
	}

	if err := s.Storage.DeleteSeen(ctx, seenID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("Seen record not found")
		}
		return s.internal(err, "delete seen record", seenID)
	}

	if view, err := s.Storage.GetComplaintView(ctx, ack.ComplaintID); err == nil {
		s.emit(ctx, models.EventUnseen, actor, view)
	}
	return nil
}

// Resolve records the action taken and closes the complaint. Only one
// resolution can win; later attempts get a Conflict.
func (s *Service) Resolve(ctx context.Context, actor policy.Actor, id uint, in ResolveInput) (*models.ComplaintView, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaint, policy.ActionResolve); err != nil {
		return nil, err
	}
	in.ResolutionDate, in.Action = trim(in.ResolutionDate), trim(in.Action)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("resolution_date and action are required")
	}
	resolvedOn, err := parseDate(in.ResolutionDate)
	if err != nil {
		return nil, err
	}

	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAccess(actor, policy.ActionResolve, view) {
		return nil, apperr.Forbidden("Unauthorized")
	}
	if view.Status != models.StatusInProgress {
		return nil, apperr.Conflict("Complaint is no longer in progress")
	}

	ok, err := s.Storage.UpdateComplaintIfStatus(ctx, id, models.StatusInProgress, map[string]any{
		"status":          models.StatusResolved,
		"action":          in.Action,
		"resolution_date": resolvedOn,
	})
	if err != nil {
		return nil, s.internal(err, "resolve complaint", id)
	}
	if !ok {
		return nil, apperr.Conflict("Complaint is no longer in progress")
	}
	return s.reloadAndEmit(ctx, models.EventResolved, actor, id)
}

// Update edits the owner-editable fields of a complaint still in progress.
func (s *Service) Update(ctx context.Context, actor policy.Actor, id uint, in UpdateInput) (*models.ComplaintView, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaint, policy.ActionUpdate); err != nil {
		return nil, err
	}
	in.Building, in.Floor, in.Details, in.Date = trim(in.Building), trim(in.Floor), trim(in.Details), trim(in.Date)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("All fields are required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.owns(actor, policy.ResourceComplaint, policy.ActionUpdate, view) {
		return nil, apperr.Forbidden("Not found or unauthorized")
	}
	if view.Status != models.StatusInProgress {
		return nil, apperr.Conflict("Complaint can no longer be edited")
	}

	ok, err := s.Storage.UpdateComplaintIfStatus(ctx, id, models.StatusInProgress, map[string]any{
		"date":              date,
		"building":          in.Building,
		"floor":             in.Floor,
		"area_id":           in.AreaID,
		"complaint_type_id": in.ComplaintTypeID,
		"details":           in.Details,
	})
	if err != nil {
		return nil, s.internal(err, "update complaint", id)
	}
	if !ok {
		return nil, apperr.Conflict("Complaint can no longer be edited")
	}
	return s.reloadAndEmit(ctx, models.EventUpdated, actor, id)
}

// Delete removes a complaint. Only its owner or an admin may.
func (s *Service) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Check(actor.Role, policy.ResourceComplaint, policy.ActionDelete); err != nil {
		return err
	}
	view, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !s.owns(actor, policy.ResourceComplaint, policy.ActionDelete, view) {
		return apperr.Forbidden("Not found or unauthorized")
	}

	if err := s.Storage.DeleteComplaint(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NotFound("Complaint not found")
		}
		return s.internal(err, "delete complaint", id)
	}
	s.emit(ctx, models.EventDeleted, actor, view)
	return nil
}

// SubmitNoComplaint records that the actor's building had nothing to report.
// The row is created terminal, seen, and pointing at the sentinel references.
func (s *Service) SubmitNoComplaint(ctx context.Context, actor policy.Actor, in NoComplaintInput) (*models.ComplaintView, error) {
	if err := policy.Check(actor.Role, policy.ResourceNoComplaint, policy.ActionCreate); err != nil {
		return nil, err
	}
	in.Building = trim(in.Building)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation("building is required")
	}
	date, err := s.dateOrToday(in.Date)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	today := truncateDay(now)
	action := config.NoComplaintText
	sentinel := config.SentinelReferenceID
	c := &models.Complaint{
		UserID:          actor.UserID,
		Building:        in.Building,
		Floor:           config.NoComplaintText,
		AreaID:          &sentinel,
		ComplaintTypeID: &sentinel,
		Details:         config.NoComplaintText,
		Status:          models.StatusNoComplaint,
		Date:            date,
		Action:          &action,
		ResolutionDate:  &today,
		Seen:            true,
		SeenDate:        &now,
	}
	if err := s.Storage.CreateComplaint(ctx, c); err != nil {
		return nil, s.internal(err, "create attestation", 0)
	}
	return s.reloadAndEmit(ctx, models.EventAttested, actor, c.ID)
}

// UpdateNoComplaint changes the date and building of the actor's attestation.
func (s *Service) UpdateNoComplaint(ctx context.Context, actor policy.Actor, id uint, in NoComplaintInput) (*models.ComplaintView, error) {
	if err := policy.Check(actor.Role, policy.ResourceNoComplaint, policy.ActionUpdate); err != nil {
		return nil, err
	}
	in.Building, in.Date = trim(in.Building), trim(in.Date)
	if in.Building == "" || in.Date == "" {
		return nil, apperr.Validation("date and building are required")
	}
	date, err := parseDate(in.Date)
	if err != nil {
		return nil, err
	}

	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if view.Status != models.StatusNoComplaint {
		return nil, apperr.NotFound("No Complaint record not found")
	}
	if !s.owns(actor, policy.ResourceNoComplaint, policy.ActionUpdate, view) {
		return nil, apperr.Forbidden("Not found or unauthorized")
	}

	ok, err := s.Storage.UpdateComplaintIfStatus(ctx, id, models.StatusNoComplaint, map[string]any{
		"date":     date,
		"building": in.Building,
	})
	if err != nil {
		return nil, s.internal(err, "update attestation", id)
	}
	if !ok {
		return nil, apperr.NotFound("No Complaint record not found")
	}
	return s.reloadAndEmit(ctx, models.EventUpdated, actor, id)
}

func (s *Service) load(ctx context.Context, id uint) (*models.ComplaintView, error) {
	view, err := s.Storage.GetComplaintView(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Complaint not found")
	}
	if err != nil {
		return nil, s.internal(err, "load complaint", id)
	}
	return view, nil
}

func (s *Service) reloadAndEmit(ctx context.Context, kind models.EventKind, actor policy.Actor, id uint) (*models.ComplaintView, error) {
	view, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, kind, actor, view)
	return view, nil
}

// owns applies an Own or All grant to a single complaint.
func (s *Service) owns(actor policy.Actor, resource policy.Resource, action policy.Action, view *models.ComplaintView) bool {
	switch policy.ScopeFor(actor.Role, resource, action) {
	case policy.ScopeAll:
		return true
	case policy.ScopeOwn:
		return view.UserID == actor.UserID
	default:
		return false
	}
}

func (s *Service) emit(ctx context.Context, kind models.EventKind, actor policy.Actor, view *models.ComplaintView) {
	if s.Metrics != nil {
		s.Metrics.ObserveTransition(kind)
	}
	if s.Events == nil {
		return
	}
	ev := models.ComplaintEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		ActorID:    actor.UserID,
		Complaint:  *view,
		OccurredAt: s.Now(),
	}
	if err := s.Events.PublishComplaintEvent(ctx, ev); err != nil {
		s.Log.WithError(err).WithFields(logrus.Fields{
			"complaint_id": view.ID,
			"event":        kind,
		}).Warn("publish complaint event failed")
	}
}

func (s *Service) internal(err error, op string, id uint) error {
	entry := s.Log.WithError(err)
	if id != 0 {
		entry = entry.WithField("complaint_id", id)
	}
	entry.Error(op + " failed")
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) dateOrToday(raw string) (time.Time, error) {
	if trim(raw) == "" {
		return truncateDay(s.Now()), nil
	}
	return parseDate(raw)
}

// parseDate accepts a date-only value or a full RFC 3339 timestamp.
func parseDate(raw string) (time.Time, error) {
	raw = trim(raw)
	if t, err := time.Parse(config.DateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return truncateDay(t), nil
	}
	return time.Time{}, apperr.Validation(fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
}

// truncateDay is midnight UTC of t's UTC calendar day, the same boundary the
// dashboard window uses.
func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func trim(s string) string { return strings.TrimSpace(s) }
