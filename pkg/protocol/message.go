// Package protocol defines the JSON messages spoken on the control websocket.
// Clients send commands; the server answers each with a result carrying the
// same id, and pushes status messages whenever the camera state changes.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType identifies the type of WebSocket message
type MessageType string

const (
	// Client → server
	TypeCommand MessageType = "command"

	// Server → client
	TypeResult MessageType = "result"
	TypeStatus MessageType = "status"
	TypeError  MessageType = "error" // undecodable input, no id to answer

	// Bidirectional
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the envelope for every frame.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id,omitempty"`
	Timestamp int64           `json:"ts,omitempty"` // Unix milliseconds
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(msgType MessageType, id string, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		var err error
		raw, err = json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message data: %w", err)
		}
	}

	return &Message{
		Type:      msgType,
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Data:      raw,
	}, nil
}

// ParseData unmarshals the payload into v. An empty payload leaves v as is.
func (m *Message) ParseData(v any) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Bytes returns the JSON-encoded message
func (m *Message) Bytes() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage parses a JSON message from bytes
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if msg.Type == "" {
		return nil, ErrMissingType
	}
	return &msg, nil
}

// =============================================================================
// Client → Server
// =============================================================================

// CommandData is one input action. Only the fields the action needs are read.
//
//	{"type":"command","id":"1","data":{"action":"move_to","position":"sofa_lie"}}
type CommandData struct {
	Action   string  `json:"action"`
	Position string  `json:"position,omitempty"`
	Walk     bool    `json:"walk,omitempty"`
	Yaw      float64 `json:"yaw,omitempty"`   // radians
	Pitch    float64 `json:"pitch,omitempty"` // radians
}

// =============================================================================
// Server → Client
// =============================================================================

// ResultData answers one command.
type ResultData struct {
	OK    bool   `json:"ok"`
	Code  string `json:"code,omitempty"`
	Error string `json:"error,omitempty"`
}

// =============================================================================
// Bidirectional
// =============================================================================

// PingData contains ping information
type PingData struct {
	Timestamp int64 `json:"ts"`
}

// PongData contains pong response
type PongData struct {
	PingTS    int64 `json:"ping_ts"`
	PongTS    int64 `json:"pong_ts"`
	LatencyMs int64 `json:"latency_ms"`
}
