// Package hub fans JSON payloads out to websocket subscribers.
//
// A Hub owns its client set on a single goroutine (Run). Producers call
// Broadcast from anywhere; slow clients are dropped instead of stalling the
// producer. The last payload is retained and replayed to clients that join
// later, so a fresh status subscriber sees the current state immediately.
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

const broadcastBuffer = 256

// Hub maintains the set of active clients and broadcasts payloads to them.
type Hub struct {
	name   string
	logger *slog.Logger

	clients    map[*Client]struct{}
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	count   int
	last    []byte
	running bool
}

// New creates a hub. The name only appears in logs.
func New(name string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		name:       name,
		logger:     logger.With("component", "hub", "hub", name),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run owns the client set until ctx is cancelled. On exit every client is
// closed and later registrations are refused.
func (h *Hub) Run(ctx context.Context) {
	h.mu.Lock()
	h.running = true
	h.mu.Unlock()
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.mu.Lock()
			h.count = len(h.clients)
			last := h.last
			h.mu.Unlock()
			if last != nil {
				c.send <- last
			}
			h.logger.Info("client connected", "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.remove(c)
				h.logger.Info("client disconnected", "clients", len(h.clients))
			}

		case data := <-h.broadcast:
			h.mu.Lock()
			h.last = data
			h.mu.Unlock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					h.remove(c)
					h.logger.Warn("slow client dropped", "clients", len(h.clients))
				}
			}
		}
	}
}

func (h *Hub) remove(c *Client) {
	delete(h.clients, c)
	close(c.send)
	h.mu.Lock()
	h.count = len(h.clients)
	h.mu.Unlock()
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		for c := range h.clients {
			h.remove(c)
		}
		h.mu.Lock()
		h.running = false
		h.mu.Unlock()
		h.logger.Info("hub stopped")
	})
}

// Broadcast queues data for every client. It drops the payload if the hub is
// stopped.
func (h *Hub) Broadcast(data []byte) {
	select {
	case h.broadcast <- data:
	case <-h.done:
	}
}

// BroadcastJSON encodes v and broadcasts it.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("hub %s: encode: %w", h.name, err)
	}
	h.Broadcast(data)
	return nil
}

// Last returns the most recent payload, or nil before the first broadcast.
func (h *Hub) Last() []byte {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// IsRunning reports whether Run is active.
func (h *Hub) IsRunning() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.running
}
