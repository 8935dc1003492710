package models

import "time"

// EventKind names a lifecycle transition broadcast to live subscribers.
type EventKind string

const (
	EventSubmitted EventKind = "submitted"
	EventUpdated   EventKind = "updated"
	EventSeen      EventKind = "seen"
	EventUnseen    EventKind = "unseen"
	EventResolved  EventKind = "resolved"
	EventDeleted   EventKind = "deleted"
	EventAttested  EventKind = "attested"
)

// ComplaintEvent is published after every successful lifecycle transition.
type ComplaintEvent struct {
	ID         string        `json:"id"`
	Kind       EventKind     `json:"kind"`
	ActorID    uint          `json:"actor_id"`
	Complaint  ComplaintView `json:"complaint"`
	OccurredAt time.Time     `json:"occurred_at"`
}
