// Package web serves the cabin camera over HTTP: a JSON API for actions and
// settings, a status stream on /ws/status and the command socket on
// /ws/control.
package web

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/control"
	"github.com/teslashibe/go-cabinwalk/pkg/hub"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

// Session is what the server drives. *session.Session satisfies it.
type Session interface {
	control.Dispatcher
	Status() session.Status
}

// Planner previews multi-hop routes. *movement.Controller satisfies it.
type Planner interface {
	Plan(from, to cabin.Position) []cabin.Position
}

// SettingsStore is the writable settings view. *settings.Store satisfies it.
type SettingsStore interface {
	settings.Provider
	Flat() map[string]any
	Set(keyPath string, value any) ([]string, error)
}

// Server is the HTTP front end.
type Server struct {
	app      *fiber.App
	addr     string
	session  Session
	planner  Planner
	settings SettingsStore
	timeout  time.Duration
	logger   *slog.Logger

	statusHub *hub.Hub
	control   *control.Hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithPlanner enables GET /api/plan.
func WithPlanner(p Planner) Option {
	return func(s *Server) { s.planner = p }
}

// WithCommandTimeout bounds how long a request waits for the tick loop.
func WithCommandTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// NewServer builds the app. store may be nil, which disables the settings
// routes.
func NewServer(addr string, sess Session, store SettingsStore, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		session:  sess,
		settings: store,
		timeout:  control.DefaultTimeout,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	base := s.logger
	s.logger = base.With("component", "web")
	s.statusHub = hub.New("status", base)
	s.control = control.NewHub(sess, control.WithTimeout(s.timeout), control.WithLogger(base))

	app := fiber.New(fiber.Config{
		AppName:               "cabinwalk",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/positions", s.handlePositions)
	api.Get("/plan", s.handlePlan)
	api.Post("/move/:position", s.handleMove)
	api.Post("/walk", s.handleWalk)
	api.Post("/cycle-sofa", s.handleCycleSofa)
	api.Post("/command", s.handleCommand)
	api.Get("/settings", s.handleGetSettings)
	api.Put("/settings", s.handlePutSettings)
	s.control.RegisterAPIRoutes(api)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))
	s.control.RegisterRoutes(app)

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// PublishStatus fans a status out to both sockets. Register it with
// session.Session.OnStatus.
func (s *Server) PublishStatus(st session.Status) {
	if err := s.statusHub.BroadcastJSON(st); err != nil {
		s.logger.Warn("status broadcast failed", "error", err)
	}
	s.control.PublishStatus(st)
}

// Start listens on the configured address until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go s.statusHub.Run(ctx)
	go func() {
		<-ctx.Done()
		if err := s.app.Shutdown(); err != nil {
			s.logger.Warn("shutdown failed", "error", err)
		}
	}()

	s.logger.Info("listening", "addr", ln.Addr().String())
	return s.app.Listener(ln)
}

// StatusClients returns the number of /ws/status subscribers.
func (s *Server) StatusClients() int {
	return s.statusHub.ClientCount()
}
