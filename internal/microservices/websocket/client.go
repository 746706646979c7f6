package websocket

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // send ping before pong wait expires, 10% margin for network jitter
	MaxMessageSize = 512                 // maximum message size allowed from peer
	SendBufferSize = 64                  // outbound queue per connection; full queue drops the connection
)

type Client struct {
	ID          string          // unique connection ID
	UserID      uuid.UUID       // user ID from auth token(JWT.claims)
	IsAdmin     bool            // admin role from auth token
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	Hub         *Hub            // reference to the central Hub
}

func NewClient(userID uuid.UUID, isAdmin bool, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          uuid.New().String(),
		UserID:      userID,
		IsAdmin:     isAdmin,
		Conn:        conn,
		SendChannel: make(chan []byte, SendBufferSize),
		Hub:         hub,
	}
}

// send queues a frame without blocking. A client that cannot keep up loses
// the frame; the store stays the source of truth so nothing is lost for good.
func (c *Client) send(data []byte) {
	select {
	case c.SendChannel <- data:
	default:
		slog.Warn("ws send buffer full, dropping frame", "user_id", c.UserID)
	}
}

// ReadPump drains inbound frames. The notification channel is one-way, so
// inbound payloads are discarded; the pump exists to run the pong handler
// and to detect the close.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("ws unexpected close", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

// WritePump writes queued frames and heartbeats to the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				// hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
