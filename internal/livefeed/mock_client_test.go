package livefeed_test

import (
	"sync"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"
)

type MockClient struct {
	id          string
	actor       policy.Actor
	RecvChannel chan models.ComplaintEvent

	mu     sync.Mutex
	closed bool
}

func newMockClient(id string, actor policy.Actor, buffer int) *MockClient {
	return &MockClient{
		id:          id,
		actor:       actor,
		RecvChannel: make(chan models.ComplaintEvent, buffer),
	}
}

func (c *MockClient) GetID() string {
	return c.id
}

func (c *MockClient) GetActor() policy.Actor {
	return c.actor
}

func (c *MockClient) GetSendChannel() chan<- models.ComplaintEvent {
	return c.RecvChannel
}

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *MockClient) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
