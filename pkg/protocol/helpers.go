package protocol

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/teslashibe/go-cabinwalk/pkg/cabin"
	"github.com/teslashibe/go-cabinwalk/pkg/session"
)

// =============================================================================
// Helper functions for creating messages
// =============================================================================

// NewCommandMessage creates a command message.
func NewCommandMessage(id string, cmd CommandData) (*Message, error) {
	return NewMessage(TypeCommand, id, cmd)
}

// NewResultMessage answers command id. A nil err is success.
func NewResultMessage(id string, err error) (*Message, error) {
	res := ResultData{OK: err == nil}
	if err != nil {
		res.Code = ErrorCode(err)
		res.Error = err.Error()
	}
	return NewMessage(TypeResult, id, res)
}

// NewStatusMessage wraps a status snapshot.
func NewStatusMessage(status any) (*Message, error) {
	return NewMessage(TypeStatus, "", status)
}

// NewErrorMessage reports input that could not be decoded.
func NewErrorMessage(err error) (*Message, error) {
	return NewMessage(TypeError, "", ResultData{Code: ErrorCode(err), Error: err.Error()})
}

// NewPingMessage creates a ping message
func NewPingMessage(id string) (*Message, error) {
	return NewMessage(TypePing, id, PingData{Timestamp: time.Now().UnixMilli()})
}

// NewPongMessage answers a ping.
func NewPongMessage(id string, pingTS, pongTS int64) (*Message, error) {
	return NewMessage(TypePong, id, PongData{
		PingTS:    pingTS,
		PongTS:    pongTS,
		LatencyMs: pongTS - pingTS,
	})
}

// =============================================================================
// Helper functions for parsing messages
// =============================================================================

// GetCommandData extracts command data from a message
func (m *Message) GetCommandData() (*CommandData, error) {
	var data CommandData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetResultData extracts result data from a message
func (m *Message) GetResultData() (*ResultData, error) {
	var data ResultData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPingData extracts ping data from a message
func (m *Message) GetPingData() (*PingData, error) {
	var data PingData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// GetPongData extracts pong data from a message
func (m *Message) GetPongData() (*PongData, error) {
	var data PongData
	if err := m.ParseData(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Command converts the wire form into a session command. Settings changes
// are internal and cannot be sent by clients.
func (c CommandData) Command() (session.Command, error) {
	action, err := session.ParseAction(c.Action)
	if err != nil {
		return session.Command{}, err
	}
	cmd := session.Command{Action: action}

	switch action {
	case session.ActionSettingsChanged:
		return session.Command{}, fmt.Errorf("%w: %q", session.ErrUnknownAction, c.Action)
	case session.ActionMoveTo:
		if c.Position == "" {
			return session.Command{}, ErrMissingPosition
		}
		p, err := cabin.ParsePosition(c.Position)
		if err != nil {
			return session.Command{}, err
		}
		cmd.Position = p
	case session.ActionWalk:
		cmd.Walk = c.Walk
	case session.ActionLook:
		cmd.Yaw, cmd.Pitch = c.Yaw, c.Pitch
	}
	return cmd, nil
}

// ErrorCode maps an error to the stable code clients switch on.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrUnsafe):
		return "unsafe"
	case errors.Is(err, session.ErrDisabled):
		return "disabled"
	case errors.Is(err, session.ErrBusy):
		return "busy"
	case errors.Is(err, session.ErrInboxFull):
		return "inbox_full"
	case errors.Is(err, session.ErrUnknownAction):
		return "unknown_action"
	case errors.Is(err, cabin.ErrUnknownPosition):
		return "unknown_position"
	case errors.Is(err, ErrMalformed), errors.Is(err, ErrMissingType), errors.Is(err, ErrMissingPosition):
		return "bad_request"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "internal"
}
