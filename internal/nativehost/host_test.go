package nativehost

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/prefstore"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/relay"
)

func newTestHost(t *testing.T) (*Host, *prefstore.Store) {
	t.Helper()
	store, err := prefstore.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, "hide", logger), store
}

func TestPingPong(t *testing.T) {
	t.Parallel()
	h, _ := newTestHost(t)
	for _, typ := range []relay.MessageType{relay.TypePing, relay.TypeExtensionPing} {
		raw, err := h.Handle(context.Background(), relay.Message{ID: "1", Type: typ})
		if err != nil {
			t.Fatalf("%s: %v", typ, err)
		}
		var pong relay.PongResponse
		if err := json.Unmarshal(raw, &pong); err != nil {
			t.Fatal(err)
		}
		if !pong.Pong || pong.Version != Version || pong.ID != "1" {
			t.Fatalf("%s response = %+v", typ, pong)
		}
	}
}

func TestGetDisplayMode(t *testing.T) {
	t.Parallel()
	h, store := newTestHost(t)

	raw, _ := h.Handle(context.Background(), relay.Message{Type: relay.TypeGetDisplayMode})
	var resp relay.DisplayModeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DisplayMode != "hide" {
		t.Fatalf("unset preference answered %q, want build default hide", resp.DisplayMode)
	}

	if err := store.SetDisplayMode("highlight"); err != nil {
		t.Fatal(err)
	}
	raw, _ = h.Handle(context.Background(), relay.Message{Type: relay.TypeGetDisplayMode})
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.DisplayMode != "highlight" {
		t.Fatalf("answered %q, want highlight", resp.DisplayMode)
	}
}

func TestEveryMessageStampsLastActive(t *testing.T) {
	t.Parallel()
	h, store := newTestHost(t)
	h.clock = func() time.Time { return time.Unix(4242, 0) }

	if _, _, err := store.LastActive(); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Handle(context.Background(), relay.Message{Type: relay.TypePing}); err != nil {
		t.Fatal(err)
	}
	stamp, ok, err := store.LastActive()
	if err != nil || !ok {
		t.Fatalf("LastActive: ok=%v err=%v", ok, err)
	}
	if !stamp.Equal(time.Unix(4242, 0)) {
		t.Fatalf("stamp = %v", stamp)
	}
}

func TestUnknownTypeGetsErrorShape(t *testing.T) {
	t.Parallel()
	h, _ := newTestHost(t)
	raw, err := h.Handle(context.Background(), relay.Message{ID: "9", Type: relay.MessageType("levitate")})
	if err != nil {
		t.Fatalf("channel-level error: %v", err)
	}
	if msg, isErr := relay.AsError(raw); !isErr || msg == "" {
		t.Fatalf("response = %s, want error shape", raw)
	}
}

func TestStatsRecorded(t *testing.T) {
	t.Parallel()
	h, _ := newTestHost(t)
	data, _ := json.Marshal(relay.StatsPayload{Hidden: 7, Duplicates: 2, URL: "https://www.google.com/search?q=x"})
	raw, _ := h.Handle(context.Background(), relay.Message{Type: relay.TypeExtensionStats, Data: data})
	if msg, isErr := relay.AsError(raw); isErr {
		t.Fatalf("stats rejected: %s", msg)
	}
	hidden, dups := h.Stats()
	if hidden != 7 || dups != 2 {
		t.Fatalf("Stats = %d, %d; want 7, 2", hidden, dups)
	}
}

func TestExtensionLogAccepted(t *testing.T) {
	t.Parallel()
	h, _ := newTestHost(t)
	data, _ := json.Marshal(relay.LogPayload{Level: "warn", Message: "pattern miss", Context: map[string]string{"locale": "fi"}})
	raw, _ := h.Handle(context.Background(), relay.Message{Type: relay.TypeExtensionLog, Data: data})
	var ack relay.AckResponse
	if err := json.Unmarshal(raw, &ack); err != nil || !ack.OK {
		t.Fatalf("log not acked: %s err=%v", raw, err)
	}
}

func TestServeOverPipes(t *testing.T) {
	t.Parallel()
	h, _ := newTestHost(t)

	hostIn, clientOut := io.Pipe()
	clientIn, hostOut := io.Pipe()
	done := make(chan error, 1)
	go func() { done <- h.Serve(context.Background(), hostIn, hostOut) }()

	client := relay.NewCodec(clientIn, clientOut)
	if err := client.WriteJSON(relay.Message{ID: "a", Type: relay.TypePing}); err != nil {
		t.Fatal(err)
	}
	raw, err := client.ReadRaw()
	if err != nil {
		t.Fatal(err)
	}
	var pong relay.PongResponse
	if err := json.Unmarshal(raw, &pong); err != nil || !pong.Pong {
		t.Fatalf("bad pong %s: %v", raw, err)
	}

	// Clean shutdown on EOF.
	clientOut.Close()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not stop on EOF")
	}
}
