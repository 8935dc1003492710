// Package suggestion offers each user the values they entered before, per
// form field, most recent first.
package suggestion

import (
	"context"
	"strings"
	"time"

	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/policy"
	"complaintdesk/backend/internal/storage"

	"github.com/sirupsen/logrus"
)

// Fields that keep suggestions.
const (
	FieldBuilding = "building"
	FieldFloor    = "floor"
	FieldDetails  = "details"
)

var knownFields = map[string]bool{FieldBuilding: true, FieldFloor: true, FieldDetails: true}

type Service struct {
	Store storage.SuggestionStore
	Log   logrus.FieldLogger
	Now   func() time.Time
}

func NewService(store storage.SuggestionStore, log logrus.FieldLogger) *Service {
	return &Service{Store: store, Log: log, Now: time.Now}
}

// RecordSubmission remembers the free-text fields of a submitted complaint.
// Failures are logged; they never fail the submission.
func (s *Service) RecordSubmission(ctx context.Context, userID uint, building, floor, details string) {
	now := s.Now()
	for field, value := range map[string]string{
		FieldBuilding: building,
		FieldFloor:    floor,
		FieldDetails:  details,
	} {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if err := s.Store.RememberValue(ctx, userID, field, value, now); err != nil {
			s.Log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "field": field}).Warn("remember suggestion failed")
		}
	}
}

// Suggest returns up to config.SuggestionLimit of the actor's values for
// field that contain query, case-insensitively.
func (s *Service) Suggest(ctx context.Context, actor policy.Actor, field, query string) ([]string, error) {
	if err := policy.Check(actor.Role, policy.ResourceSuggestion, policy.ActionRead); err != nil {
		return nil, err
	}
	if !knownFields[field] {
		return nil, apperr.Validation("field must be building, floor or details")
	}

	values, err := s.Store.RecentValues(ctx, actor.UserID, field)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]string, 0, config.SuggestionLimit)
	for _, v := range values {
		if needle != "" && !strings.Contains(strings.ToLower(v), needle) {
			continue
		}
		out = append(out, v)
		if len(out) == config.SuggestionLimit {
			break
		}
	}
	return out, nil
}
