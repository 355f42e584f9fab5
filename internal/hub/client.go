package hub

import (
	"context"
	"log"
	"time"

	"github.com/fortuna/services/stat-tracker/pkg/models"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512

	// Buffer size for outbound messages
	sendBufferSize = 64
)

// Client is one websocket connection subscribed to a single game.
type Client struct {
	ID       string
	GameName string
	Send     chan models.StateMessage

	conn *websocket.Conn
	hub  *Hub
}

// NewClient wraps an upgraded connection.
func NewClient(id, gameName string, conn *websocket.Conn, h *Hub) *Client {
	return &Client{
		ID:       id,
		GameName: gameName,
		Send:     make(chan models.StateMessage, sendBufferSize),
		conn:     conn,
		hub:      h,
	}
}

// TrySend queues a message without blocking; false means the buffer is full.
func (c *Client) TrySend(msg models.StateMessage) bool {
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump drains the connection so pongs and close frames are processed.
// Clients only receive; any inbound payload is discarded.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("client %s unexpected close: %v", c.ID, err)
				}
				return
			}
		}
	}
}

// WritePump pumps snapshots from the hub to the connection.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("client %s write error: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
