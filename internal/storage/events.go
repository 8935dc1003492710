package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventPublisher broadcasts complaint lifecycle events.
type EventPublisher interface {
	PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error
}

// PublishComplaintEvent publishes ev on the complaint events channel. Without
// redis it is a no-op.
func (s *Service) PublishComplaintEvent(ctx context.Context, ev models.ComplaintEvent) error {
	if s.Redis == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode complaint event: %w", err)
	}
	if err := s.Redis.Publish(ctx, config.ComplaintEventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("publish complaint event: %w", err)
	}
	return nil
}

// SubscribeComplaintEvents opens a subscription to the complaint events channel.
func (s *Service) SubscribeComplaintEvents(ctx context.Context) *redis.PubSub {
	return s.Redis.Subscribe(ctx, config.ComplaintEventsChannel)
}
