package handler

import (
	"net/http"

	"complaintdesk/backend/internal/api/middleware"
	"complaintdesk/backend/internal/livefeed"
	"complaintdesk/backend/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict to the dashboard origin once it is configurable.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and subscribes it to complaint events
// the session may read.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := policy.Check(actor.Role, policy.ResourceFeed, policy.ActionRead); err != nil {
		h.fail(c, err, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already answered the client.
		h.Log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	client := livefeed.NewWebSocketClient(uuid.NewString(), actor, conn, h.Hub, h.Log)
	if !h.Hub.Register(client) {
		conn.Close()
		return
	}
	client.Run()
}
