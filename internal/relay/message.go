// Package relay implements the asynchronous request/response protocol
// connecting the page context, the background broker, and the native host.
package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType discriminates the wire catalog. The set is closed; the broker
// and the host reject anything else at the boundary.
type MessageType string

const (
	TypePing                 MessageType = "ping"
	TypeGetDisplayMode       MessageType = "get_display_mode"
	TypeExtensionLog         MessageType = "extension_log"
	TypeExtensionStats       MessageType = "extension_stats"
	TypeExtensionPing        MessageType = "extension_ping"
	TypeServiceWorkerStarted MessageType = "service_worker_started"
	TypeRefreshDisplayMode   MessageType = "refresh_display_mode"
)

// ErrUnknownMessageType is returned when a discriminant falls outside the
// catalog.
var ErrUnknownMessageType = errors.New("relay: unknown message type")

// Message is the wire envelope. Data carries the type-specific payload and
// may be absent for types that take none.
type Message struct {
	ID   string          `json:"id,omitempty"`
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LogPayload is the body of an extension_log message.
type LogPayload struct {
	Level   string            `json:"level"`
	Message string            `json:"message"`
	Context map[string]string `json:"context,omitempty"`
}

// StatsPayload is the body of an extension_stats message.
type StatsPayload struct {
	Hidden     int    `json:"hidden"`
	Duplicates int    `json:"duplicates"`
	URL        string `json:"url,omitempty"`
}

// PongResponse answers ping and extension_ping.
type PongResponse struct {
	ID      string `json:"id,omitempty"`
	Pong    bool   `json:"pong"`
	Version string `json:"version,omitempty"`
}

// DisplayModeResponse answers get_display_mode.
type DisplayModeResponse struct {
	ID          string `json:"id,omitempty"`
	DisplayMode string `json:"display_mode"`
}

// AckResponse answers the fire-and-forget message types.
type AckResponse struct {
	ID string `json:"id,omitempty"`
	OK bool   `json:"ok"`
}

// ErrorResponse is the error shape every caller must check for before
// trusting the success shape.
type ErrorResponse struct {
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// AsError reports whether a raw response is the error shape, and its message.
func AsError(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var e ErrorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return "", false
	}
	return e.Error, e.Error != ""
}

// strictUnmarshal rejects unknown fields so a malformed body cannot pass as
// a valid payload of a different type.
func strictUnmarshal(data json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func emptyPayload(data json.RawMessage) bool {
	if len(data) == 0 {
		return true
	}
	s := string(bytes.TrimSpace(data))
	return s == "null" || s == "{}"
}

// ValidatePayload checks a message body against the closed union for its
// type. Types outside the catalog yield ErrUnknownMessageType.
func ValidatePayload(t MessageType, data json.RawMessage) error {
	switch t {
	case TypePing, TypeExtensionPing, TypeGetDisplayMode,
		TypeServiceWorkerStarted, TypeRefreshDisplayMode:
		if !emptyPayload(data) {
			return fmt.Errorf("relay: %s takes no payload", t)
		}
		return nil
	case TypeExtensionLog:
		var p LogPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return fmt.Errorf("relay: bad %s payload: %w", t, err)
		}
		if p.Message == "" {
			return fmt.Errorf("relay: %s payload missing message", t)
		}
		return nil
	case TypeExtensionStats:
		var p StatsPayload
		if err := strictUnmarshal(data, &p); err != nil {
			return fmt.Errorf("relay: bad %s payload: %w", t, err)
		}
		if p.Hidden < 0 || p.Duplicates < 0 {
			return fmt.Errorf("relay: %s payload counters must be non-negative", t)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, t)
	}
}

// DecodeLogPayload strictly decodes an extension_log body.
func DecodeLogPayload(data json.RawMessage) (LogPayload, error) {
	var p LogPayload
	err := strictUnmarshal(data, &p)
	return p, err
}

// DecodeStatsPayload strictly decodes an extension_stats body.
func DecodeStatsPayload(data json.RawMessage) (StatsPayload, error) {
	var p StatsPayload
	err := strictUnmarshal(data, &p)
	return p, err
}
