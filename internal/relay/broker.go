package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSendTimeout = 5 * time.Second

// Broker is the background context: it owns the only channel to the native
// host, re-wraps page messages verbatim, returns host responses unmodified,
// and mirrors everything to passive observers.
type Broker struct {
	host    Handler
	timeout time.Duration
	logger  *slog.Logger

	mu        sync.Mutex
	observers []chan Message
}

// NewBroker wires a broker in front of a host handler. A zero timeout means
// the default send timeout.
func NewBroker(host Handler, timeout time.Duration, logger *slog.Logger) *Broker {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{host: host, timeout: timeout, logger: logger}
}

// Observe registers a passive observer. Delivery is best-effort: a full
// observer channel drops the message rather than stalling routing.
func (b *Broker) Observe(buf int) <-chan Message {
	ch := make(chan Message, buf)
	b.mu.Lock()
	b.observers = append(b.observers, ch)
	b.mu.Unlock()
	return ch
}

func (b *Broker) broadcast(msg Message) {
	b.mu.Lock()
	observers := b.observers
	b.mu.Unlock()
	for _, ch := range observers {
		select {
		case ch <- msg:
		default:
			b.logger.Debug("observer channel full, dropping", "type", msg.Type)
		}
	}
}

// Send validates the payload, assigns a correlation id, mirrors the message
// to observers and forwards it to the native host. The returned body is the
// host's response unmodified; it may be the error shape, which callers must
// check with AsError.
func (b *Broker) Send(ctx context.Context, t MessageType, payload any) (json.RawMessage, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("relay: encode payload: %w", err)
		}
	}
	if err := ValidatePayload(t, data); err != nil {
		return nil, err
	}
	msg := Message{ID: uuid.NewString(), Type: t, Data: data}
	b.broadcast(msg)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	raw, err := b.host.Handle(ctx, msg)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
