package livefeed

import (
	"context"
	"encoding/json"

	"complaintdesk/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSubscriber opens the shared complaint events channel.
type EventSubscriber interface {
	SubscribeComplaintEvents(ctx context.Context) *redis.PubSub
}

// StartPubSubListener forwards events from the redis channel into the hub
// until ctx is cancelled.
func (m *ManagerService) StartPubSubListener(ctx context.Context) {
	pubsub := m.Subscriber.SubscribeComplaintEvents(ctx)

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var ev models.ComplaintEvent
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					m.Log.WithError(err).Warn("dropping malformed complaint event")
					continue
				}
				select {
				case m.EventCh <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
}
