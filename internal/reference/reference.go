// Package reference manages the lookup data complaints point at: areas and
// complaint types. Reads are open to every role the policy allows; writes are
// admin-only.
package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
	"complaintdesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

type Service struct {
	Storage storage.ReferenceStore
	Log     logrus.FieldLogger
}

func NewService(s storage.ReferenceStore, log logrus.FieldLogger) *Service {
	return &Service{Storage: s, Log: log}
}

// ComplaintTypeInput is the writable part of a complaint type. An empty queue
// means facilities.
type ComplaintTypeInput struct {
	Name  string
	Queue string
}

func (s *Service) ListAreas(ctx context.Context, actor policy.Actor) ([]models.Area, error) {
	if err := policy.Check(actor.Role, policy.ResourceArea, policy.ActionRead); err != nil {
		return nil, err
	}
	areas, err := s.Storage.ListAreas(ctx)
	if err != nil {
		return nil, s.internal(err, "list areas", 0)
	}
	return areas, nil
}

func (s *Service) CreateArea(ctx context.Context, actor policy.Actor, name string) (*models.Area, error) {
	if err := policy.Check(actor.Role, policy.ResourceArea, policy.ActionCreate); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Area name is required")
	}
	area := &models.Area{Name: name}
	if err := s.Storage.CreateArea(ctx, area); err != nil {
		return nil, s.internal(err, "create area", 0)
	}
	return area, nil
}

func (s *Service) RenameArea(ctx context.Context, actor policy.Actor, id uint, name string) (*models.Area, error) {
	if err := policy.Check(actor.Role, policy.ResourceArea, policy.ActionUpdate); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("Area name is required")
	}
	area, err := s.Storage.RenameArea(ctx, id, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Area not found")
	}
	if err != nil {
		return nil, s.internal(err, "rename area", id)
	}
	return area, nil
}

// DeleteArea removes an area. Complaints that used it keep showing
// the deleted-area placeholder.
func (s *Service) DeleteArea(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Check(actor.Role, policy.ResourceArea, policy.ActionDelete); err != nil {
		return err
	}
	err := s.Storage.DeleteArea(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Area not found")
	}
	if err != nil {
		return s.internal(err, "delete area", id)
	}
	return nil
}

func (s *Service) ListComplaintTypes(ctx context.Context, actor policy.Actor) ([]models.ComplaintType, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaintType, policy.ActionRead); err != nil {
		return nil, err
	}
	types, err := s.Storage.ListComplaintTypes(ctx)
	if err != nil {
		return nil, s.internal(err, "list complaint types", 0)
	}
	return types, nil
}

func (s *Service) CreateComplaintType(ctx context.Context, actor policy.Actor, in ComplaintTypeInput) (*models.ComplaintType, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaintType, policy.ActionCreate); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Complaint type name is required")
	}
	queue, err := normalizeQueue(in.Queue, config.QueueFacilities)
	if err != nil {
		return nil, err
	}

	t := &models.ComplaintType{Name: name, Queue: queue}
	if err := s.Storage.CreateComplaintType(ctx, t); err != nil {
		return nil, s.internal(err, "create complaint type", 0)
	}
	return t, nil
}

// UpdateComplaintType renames a type and, when Queue is set, reroutes it.
func (s *Service) UpdateComplaintType(ctx context.Context, actor policy.Actor, id uint, in ComplaintTypeInput) (*models.ComplaintType, error) {
	if err := policy.Check(actor.Role, policy.ResourceComplaintType, policy.ActionUpdate); err != nil {
		return nil, err
	}
	values := map[string]any{}
	if name := strings.TrimSpace(in.Name); name != "" {
		values["type_name"] = name
	}
	if strings.TrimSpace(in.Queue) != "" {
		queue, err := normalizeQueue(in.Queue, "")
		if err != nil {
			return nil, err
		}
		values["queue"] = queue
	}
	if len(values) == 0 {
		return nil, apperr.Validation("Complaint type name is required")
	}

	t, err := s.Storage.UpdateComplaintType(ctx, id, values)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Not found")
	}
	if err != nil {
		return nil, s.internal(err, "update complaint type", id)
	}
	return t, nil
}

func (s *Service) DeleteComplaintType(ctx context.Context, actor policy.Actor, id uint) error {
	if err := policy.Check(actor.Role, policy.ResourceComplaintType, policy.ActionDelete); err != nil {
		return err
	}
	err := s.Storage.DeleteComplaintType(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.NotFound("Not found")
	}
	if err != nil {
		return s.internal(err, "delete complaint type", id)
	}
	return nil
}

func normalizeQueue(raw, fallback string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(raw))
	if q == "" {
		q = fallback
	}
	switch q {
	case config.QueueFacilities, config.QueueIT:
		return q, nil
	default:
		return "", apperr.Validation(fmt.Sprintf("queue must be %q or %q", config.QueueFacilities, config.QueueIT))
	}
}

func (s *Service) internal(err error, op string, id uint) error {
	entry := s.Log.WithError(err)
	if id != 0 {
		entry = entry.WithField("id", id)
	}
	entry.Error(op + " failed")
	return fmt.Errorf("%s: %w", op, err)
}
