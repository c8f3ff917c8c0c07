package web

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/protocol"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
	"github.com/teslashibe/go-cabinwalk/pkg/settings"
)

// PositionInfo describes one cabin position for clients.
type PositionInfo struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// handleStatus returns the latest session status
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.session.Status())
}

// handlePositions lists every position and whether it can be requested
func (s *Server) handlePositions(c *fiber.Ctx) error {
	cfg := settings.Defaults()
	if s.settings != nil {
		cfg = s.settings.Current()
	}
	out := make([]PositionInfo, 0, len(cabin.All()))
	for _, p := range cabin.All() {
		out = append(out, PositionInfo{Name: p.String(), Enabled: cfg.Enabled(p)})
	}
	return c.JSON(out)
}

// handlePlan previews the legs a move would take
func (s *Server) handlePlan(c *fiber.Ctx) error {
	if s.planner == nil {
		return fail(c, fiber.StatusNotImplemented, errors.New("planning not configured"))
	}
	from, err := cabin.ParsePosition(c.Query("from"))
	if err != nil {
		return failErr(c, err)
	}
	to, err := cabin.ParsePosition(c.Query("to"))
	if err != nil {
		return failErr(c, err)
	}
	path := s.planner.Plan(from, to)
	if path == nil {
		path = []cabin.Position{}
	}
	return c.JSON(fiber.Map{"from": from, "to": to, "path": path})
}

// handleMove requests a position by name
func (s *Server) handleMove(c *fiber.Ctx) error {
	p, err := cabin.ParsePosition(c.Params("position"))
	if err != nil {
		return failErr(c, err)
	}
	return s.run(c, session.Command{Action: session.ActionMoveTo, Position: p})
}

// WalkRequest is the body of POST /api/walk.
type WalkRequest struct {
	Walk bool `json:"walk"`
}

// handleWalk presses or releases the walk key
func (s *Server) handleWalk(c *fiber.Ctx) error {
	var req WalkRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	return s.run(c, session.Command{Action: session.ActionWalk, Walk: req.Walk})
}

// handleCycleSofa moves to the next enabled sofa spot
func (s *Server) handleCycleSofa(c *fiber.Ctx) error {
	return s.run(c, session.Command{Action: session.ActionCycleSofa})
}

// handleCommand accepts the same command body as the control socket
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req protocol.CommandData
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	cmd, err := req.Command()
	if err != nil {
		return failErr(c, err)
	}
	return s.run(c, cmd)
}

func (s *Server) run(c *fiber.Ctx, cmd session.Command) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), s.timeout)
	defer cancel()

	if err := s.session.Do(ctx, cmd); err != nil {
		s.logger.Debug("command refused", "action", cmd.Action, "error", err)
		return failErr(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "status": s.session.Status()})
}

// handleGetSettings returns every setting keyed by dotted path
func (s *Server) handleGetSettings(c *fiber.Ctx) error {
	if s.settings == nil {
		return fail(c, fiber.StatusNotImplemented, errors.New("settings not configured"))
	}
	return c.JSON(s.settings.Flat())
}

// SettingRequest is the body of PUT /api/settings.
type SettingRequest struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// handlePutSettings overrides one setting in memory
func (s *Server) handlePutSettings(c *fiber.Ctx) error {
	if s.settings == nil {
		return fail(c, fiber.StatusNotImplemented, errors.New("settings not configured"))
	}
	var req SettingRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}
	if req.Key == "" {
		return fail(c, fiber.StatusBadRequest, errors.New("key is required"))
	}

	changed, err := s.settings.Set(req.Key, req.Value)
	switch {
	case errors.Is(err, settings.ErrUnknownKey):
		return fail(c, fiber.StatusNotFound, err)
	case err != nil:
		return fail(c, fiber.StatusBadRequest, err)
	}
	if changed == nil {
		changed = []string{}
	}
	s.logger.Info("setting overridden", "key", req.Key, "changed", len(changed))
	return c.JSON(fiber.Map{"changed": changed})
}

// handleStatusWS streams status updates
func (s *Server) handleStatusWS(c *websocket.Conn) {
	s.statusHub.Register(c).Run()
}

// statusFor maps session and protocol errors to HTTP codes.
func statusFor(err error) int {
	switch protocol.ErrorCode(err) {
	case "unknown_position", "unknown_action":
		return fiber.StatusNotFound
	case "bad_request":
		return fiber.StatusBadRequest
	case "unsafe":
		return fiber.StatusLocked
	case "busy", "disabled":
		return fiber.StatusConflict
	case "inbox_full":
		return fiber.StatusServiceUnavailable
	case "timeout", "canceled":
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func failErr(c *fiber.Ctx, err error) error {
	return fail(c, statusFor(err), err)
}

func fail(c *fiber.Ctx, code int, err error) error {
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  protocol.ErrorCode(err),
	})
}
