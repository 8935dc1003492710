package livefeed

import (
	"encoding/json"
	"sync"
	"time"

	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/policy"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// SendBuffer is the per-client queue length before it counts as slow.
	SendBuffer = 256
)

// WebSocketClient implements Client over a gorilla websocket connection.
// The feed is one-way; anything the browser sends is read and discarded.
type WebSocketClient struct {
	ID    string
	Actor policy.Actor
	Conn  *websocket.Conn
	Hub   *ManagerService
	Send  chan models.ComplaintEvent
	Log   logrus.FieldLogger

	closeOnce sync.Once
}

func NewWebSocketClient(id string, actor policy.Actor, conn *websocket.Conn, hub *ManagerService, log logrus.FieldLogger) *WebSocketClient {
	return &WebSocketClient{
		ID:    id,
		Actor: actor,
		Conn:  conn,
		Hub:   hub,
		Send:  make(chan models.ComplaintEvent, SendBuffer),
		Log:   log,
	}
}

func (c *WebSocketClient) GetID() string                                { return c.ID }
func (c *WebSocketClient) GetActor() policy.Actor                       { return c.Actor }
func (c *WebSocketClient) GetSendChannel() chan<- models.ComplaintEvent { return c.Send }

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump and with it the connection.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Log.WithError(err).WithField("client_id", c.ID).Debug("feed read failed")
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				c.Log.WithError(err).WithField("client_id", c.ID).Error("encode feed event failed")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
