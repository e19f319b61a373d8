// Package nativehost implements the companion process the browser-side
// contexts address over the native messaging channel. It owns the shared
// preference store and stamps liveness on every message it handles.
package nativehost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/prefstore"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/relay"
)

// Version is reported in pong responses so the extension side can log which
// host build it reached.
const Version = "1.4.0"

// Host answers the relay's message catalog.
type Host struct {
	store       *prefstore.Store
	defaultMode string
	logger      *slog.Logger
	clock       func() time.Time

	mu         sync.Mutex
	hidden     int
	duplicates int
}

// New wires a host over a preference store. defaultMode answers
// get_display_mode when the preference was never set.
func New(store *prefstore.Store, defaultMode string, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{store: store, defaultMode: defaultMode, logger: logger, clock: time.Now}
}

// Stats reports the last counters received via extension_stats.
func (h *Host) Stats() (hidden, duplicates int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hidden, h.duplicates
}

// Handle answers one message. It always returns a response body: either the
// type-specific success shape or the error shape. The error return is
// reserved for channel-level failures and is always nil here.
func (h *Host) Handle(_ context.Context, msg relay.Message) (json.RawMessage, error) {
	// Liveness stamp first: even a malformed message proves the channel is
	// alive, which is what the activation fallback wants to know.
	if err := h.store.TouchLastActive(h.clock()); err != nil {
		h.logger.Warn("last-active stamp failed", "err", err)
	}

	if err := relay.ValidatePayload(msg.Type, msg.Data); err != nil {
		h.logger.Warn("rejecting message", "type", msg.Type, "err", err)
		return marshal(relay.ErrorResponse{ID: msg.ID, Error: err.Error()})
	}

	switch msg.Type {
	case relay.TypePing, relay.TypeExtensionPing:
		return marshal(relay.PongResponse{ID: msg.ID, Pong: true, Version: Version})

	case relay.TypeGetDisplayMode:
		mode, ok, err := h.store.DisplayMode()
		if err != nil {
			h.logger.Error("display mode read failed", "err", err)
			return marshal(relay.ErrorResponse{ID: msg.ID, Error: err.Error()})
		}
		if !ok {
			mode = h.defaultMode
		}
		return marshal(relay.DisplayModeResponse{ID: msg.ID, DisplayMode: mode})

	case relay.TypeExtensionLog:
		p, err := relay.DecodeLogPayload(msg.Data)
		if err != nil {
			return marshal(relay.ErrorResponse{ID: msg.ID, Error: err.Error()})
		}
		h.relog(p)
		return marshal(relay.AckResponse{ID: msg.ID, OK: true})

	case relay.TypeExtensionStats:
		p, err := relay.DecodeStatsPayload(msg.Data)
		if err != nil {
			return marshal(relay.ErrorResponse{ID: msg.ID, Error: err.Error()})
		}
		h.mu.Lock()
		h.hidden = p.Hidden
		h.duplicates = p.Duplicates
		h.mu.Unlock()
		h.logger.Info("scan stats", "hidden", p.Hidden, "duplicates", p.Duplicates, "url", p.URL)
		return marshal(relay.AckResponse{ID: msg.ID, OK: true})

	case relay.TypeServiceWorkerStarted:
		h.logger.Debug("service worker started")
		return marshal(relay.AckResponse{ID: msg.ID, OK: true})

	case relay.TypeRefreshDisplayMode:
		// Nothing is cached host-side; acknowledging lets page contexts
		// invalidate their own caches in lockstep.
		return marshal(relay.AckResponse{ID: msg.ID, OK: true})

	default:
		return marshal(relay.ErrorResponse{ID: msg.ID, Error: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

// relog forwards an extension_log record through the host logger at the
// requested level.
func (h *Host) relog(p relay.LogPayload) {
	attrs := make([]any, 0, 2*len(p.Context))
	for k, v := range p.Context {
		attrs = append(attrs, k, v)
	}
	switch p.Level {
	case "error":
		h.logger.Error(p.Message, attrs...)
	case "warn", "warning":
		h.logger.Warn(p.Message, attrs...)
	case "debug", "verbose":
		h.logger.Debug(p.Message, attrs...)
	default:
		h.logger.Info(p.Message, attrs...)
	}
}

func marshal(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		// Response shapes are plain structs; this cannot realistically fail.
		return json.RawMessage(`{"error":"internal encode failure"}`), nil
	}
	return raw, nil
}

// Serve reads framed requests from r and writes framed responses to w until
// EOF or context cancellation. One malformed frame gets an error response;
// only a broken channel ends the loop.
func (h *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	codec := relay.NewCodec(r, w)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := codec.ReadMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, relay.ErrMalformedFrame) {
			// Stream is still framed correctly; answer and keep serving.
			if writeErr := codec.WriteJSON(relay.ErrorResponse{Error: err.Error()}); writeErr != nil {
				return writeErr
			}
			continue
		}
		if err != nil {
			return err
		}
		resp, _ := h.Handle(ctx, msg)
		if err := codec.WriteJSON(resp); err != nil {
			return err
		}
	}
}
