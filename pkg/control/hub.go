// Package control serves the bidirectional command websocket. Each client
// sends protocol commands and receives a result per command, plus the status
// stream.
package control

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/teslashibe/go-cabinwalk/pkg/protocol"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
)

// DefaultTimeout bounds how long a command may wait for the tick loop.
const DefaultTimeout = 2 * time.Second

// Dispatcher runs one command and reports its outcome. session.Session
// satisfies it.
type Dispatcher interface {
	Do(ctx context.Context, cmd session.Command) error
}

// Client is one connected controller.
type Client struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send writes msg to the client. Safe for concurrent use.
func (c *Client) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) touch() {
	c.mu.Lock()
	c.LastSeen = time.Now()
	c.mu.Unlock()
}

// Hub tracks control clients and routes their commands.
type Hub struct {
	dispatch Dispatcher
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client
	last    *protocol.Message

	commandsReceived atomic.Uint64
	commandsFailed   atomic.Uint64
	messagesSent     atomic.Uint64
}

// Option configures a Hub.
type Option func(*Hub)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(h *Hub) { h.timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) { h.logger = logger }
}

// NewHub creates a hub that forwards commands to d.
func NewHub(d Dispatcher, opts ...Option) *Hub {
	h := &Hub{
		dispatch: d,
		timeout:  DefaultTimeout,
		logger:   slog.Default(),
		clients:  make(map[string]*Client),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With("component", "control")
	return h
}

// RegisterRoutes mounts the control socket. The caller is responsible for
// rejecting non-upgrade requests under /ws.
func (h *Hub) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/control", websocket.New(h.handle))
	router.Get("/ws/control/:id", websocket.New(h.handle))
}

// RegisterAPIRoutes mounts the client listing under api.
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	clients := api.Group("/clients")

	clients.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"clients": h.ClientInfos(),
			"count":   h.ClientCount(),
		})
	})

	clients.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.Stats())
	})
}

func (h *Hub) handle(conn *websocket.Conn) {
	id := conn.Params("id")
	if id == "" {
		id = uuid.NewString()
	}

	now := time.Now()
	client := &Client{ID: id, Conn: conn, Connected: now, LastSeen: now}

	h.mu.Lock()
	h.clients[id] = client
	count := len(h.clients)
	last := h.last
	h.mu.Unlock()
	h.logger.Info("client connected", "client", id, "clients", count)

	defer func() {
		h.mu.Lock()
		if h.clients[id] == client {
			delete(h.clients, id)
		}
		count := len(h.clients)
		h.mu.Unlock()
		h.logger.Info("client disconnected", "client", id, "clients", count)
	}()

	if last != nil {
		h.send(client, last)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			h.logger.Debug("read ended", "client", id, "error", err)
			return
		}
		client.touch()
		h.handleMessage(client, data)
	}
}

func (h *Hub) handleMessage(client *Client, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		h.logger.Debug("bad frame", "client", client.ID, "error", err)
		if reply, err := protocol.NewErrorMessage(err); err == nil {
			h.send(client, reply)
		}
		return
	}

	switch msg.Type {
	case protocol.TypeCommand:
		h.commandsReceived.Add(1)
		err := h.runCommand(msg)
		if err != nil {
			h.commandsFailed.Add(1)
		}
		if reply, rerr := protocol.NewResultMessage(msg.ID, err); rerr == nil {
			h.send(client, reply)
		}

	case protocol.TypePing:
		ping, err := msg.GetPingData()
		if err != nil {
			return
		}
		if pong, err := protocol.NewPongMessage(msg.ID, ping.Timestamp, time.Now().UnixMilli()); err == nil {
			h.send(client, pong)
		}

	default:
		h.logger.Debug("ignored message", "client", client.ID, "type", msg.Type)
	}
}

func (h *Hub) runCommand(msg *protocol.Message) error {
	data, err := msg.GetCommandData()
	if err != nil {
		return err
	}
	cmd, err := data.Command()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	err = h.dispatch.Do(ctx, cmd)
	h.logger.Debug("command", "action", cmd.Action, "error", err)
	return err
}

func (h *Hub) send(client *Client, msg *protocol.Message) {
	h.messagesSent.Add(1)
	if err := client.Send(msg); err != nil {
		h.logger.Debug("send failed", "client", client.ID, "error", err)
	}
}

// PublishStatus pushes status to every client and keeps it for clients that
// connect later. It matches the session.Session OnStatus callback shape.
func (h *Hub) PublishStatus(status session.Status) {
	msg, err := protocol.NewStatusMessage(status)
	if err != nil {
		h.logger.Warn("status encode failed", "error", err)
		return
	}

	h.mu.Lock()
	h.last = msg
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.send(c, msg)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ClientInfo describes a connected client.
type ClientInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// ClientInfos lists the connected clients.
func (h *Hub) ClientInfos() []ClientInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]ClientInfo, 0, len(h.clients))
	for _, c := range h.clients {
		c.mu.Lock()
		infos = append(infos, ClientInfo{ID: c.ID, Connected: c.Connected, LastSeen: c.LastSeen})
		c.mu.Unlock()
	}
	return infos
}

// Stats contains hub counters.
type Stats struct {
	Clients          int    `json:"clients"`
	CommandsReceived uint64 `json:"commands_received"`
	CommandsFailed   uint64 `json:"commands_failed"`
	MessagesSent     uint64 `json:"messages_sent"`
}

// Stats returns the hub counters.
func (h *Hub) Stats() Stats {
	return Stats{
		Clients:          h.ClientCount(),
		CommandsReceived: h.commandsReceived.Load(),
		CommandsFailed:   h.commandsFailed.Load(),
		MessagesSent:     h.messagesSent.Load(),
	}
}
