package livefeed

import (
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
)

// Client is one live subscriber. The hub only needs to know who is listening
// and where to push events.
type Client interface {
	// GetID returns the unique identifier of this connection.
	GetID() string
	// GetActor returns the authenticated user behind the connection; the hub
	// uses it to decide which events the client may see.
	GetActor() policy.Actor
	// GetSendChannel returns the channel the hub pushes events into.
	GetSendChannel() chan<- models.ComplaintEvent
	// Run starts the client's pumps.
	Run()
	// Close shuts the client down. It must be safe to call more than once.
	Close()
}
