// Package hub fans out game-state snapshots to websocket clients. Each client
// subscribes to exactly one game.
package hub

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fortuna/services/stat-tracker/pkg/models"
)

// Hub maintains the set of active clients and broadcasts state to them.
type Hub struct {
	clients   map[*Client]bool
	clientsMu sync.RWMutex

	broadcast  chan models.StateMessage
	register   chan *Client
	unregister chan *Client
}

// New creates a hub. Call Run to start it.
func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.StateMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registration and broadcast events until ctx is canceled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case msg := <-h.broadcast:
			h.broadcastState(msg)
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// PublishState implements session.Publisher. It never blocks: if the
// broadcast buffer is full the snapshot is dropped, since a fresher one is
// right behind it.
func (h *Hub) PublishState(gameName string, game *models.GameState) {
	msg := models.StateMessage{
		Type:      models.MessageTypeGameState,
		GameName:  gameName,
		State:     game,
		Timestamp: time.Now(),
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("broadcast buffer full, dropping snapshot for game %s", gameName)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = true
	log.Printf("client %s connected for game %s (total: %d)", c.ID, c.GameName, len(h.clients))
}

func (h *Hub) unregisterClient(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		log.Printf("client %s disconnected (total: %d)", c.ID, len(h.clients))
	}
}

func (h *Hub) broadcastState(msg models.StateMessage) {
	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.GameName == msg.GameName {
			clients = append(clients, c)
		}
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if !c.TrySend(msg) {
			// Client buffer full - they're too slow, disconnect them
			log.Printf("client %s buffer full, disconnecting", c.ID)
			go h.Unregister(c)
		}
	}
}

func (h *Hub) shutdown() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	log.Printf("shutting down hub (%d active clients)", len(h.clients))
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}
