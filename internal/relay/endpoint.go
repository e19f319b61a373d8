package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Handler is one hop able to answer a message. The native host endpoint and
// in-process test fakes implement it.
type Handler interface {
	Handle(ctx context.Context, msg Message) (json.RawMessage, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg Message) (json.RawMessage, error)

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg Message) (json.RawMessage, error) {
	return f(ctx, msg)
}

type readResult struct {
	raw json.RawMessage
	err error
}

// NativeEndpoint speaks to the native host over a frame codec. Requests are
// serialized; responses are correlated by id so a response to a request the
// caller already gave up on is discarded rather than misdelivered.
type NativeEndpoint struct {
	codec     *Codec
	mu        sync.Mutex
	responses chan readResult
}

// NewNativeEndpoint starts the endpoint's read loop over the codec.
func NewNativeEndpoint(codec *Codec) *NativeEndpoint {
	e := &NativeEndpoint{
		codec:     codec,
		responses: make(chan readResult, 8),
	}
	go e.readLoop()
	return e
}

func (e *NativeEndpoint) readLoop() {
	for {
		raw, err := e.codec.ReadRaw()
		e.responses <- readResult{raw: raw, err: err}
		if err != nil {
			return
		}
	}
}

func responseID(raw json.RawMessage) string {
	var env struct {
		ID string `json:"id"`
	}
	if json.Unmarshal(raw, &env) != nil {
		return ""
	}
	return env.ID
}

// Handle sends one message and waits for its response or the context
// deadline, whichever comes first.
func (e *NativeEndpoint) Handle(ctx context.Context, msg Message) (json.RawMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.codec.WriteJSON(msg); err != nil {
		return nil, err
	}
	for {
		select {
		case res := <-e.responses:
			if res.err != nil {
				return nil, fmt.Errorf("relay: native host channel: %w", res.err)
			}
			if msg.ID != "" {
				if got := responseID(res.raw); got != "" && got != msg.ID {
					// Response to an abandoned earlier request.
					continue
				}
			}
			return res.raw, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}
