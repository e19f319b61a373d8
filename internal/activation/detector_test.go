package activation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeQuerier struct {
	enabled bool
	err     error
}

func (f fakeQuerier) ExtensionState(context.Context, string) (bool, error) {
	return f.enabled, f.err
}

type fakeStamps struct {
	t   time.Time
	ok  bool
	err error
}

func (f fakeStamps) LastActive() (time.Time, bool, error) { return f.t, f.ok, f.err }

func TestDetectorStates(t *testing.T) {
	t.Parallel()
	now := time.Unix(100000, 0)
	tests := []struct {
		name    string
		querier CapabilityQuerier
		stamps  TimestampSource
		want    State
	}{
		{
			name:    "primary enabled is terminal",
			querier: fakeQuerier{enabled: true},
			stamps:  fakeStamps{err: errors.New("must not be consulted")},
			want:    StateEnabled,
		},
		{
			name:    "primary disabled is terminal",
			querier: fakeQuerier{enabled: false},
			stamps:  fakeStamps{t: now.Add(-time.Second), ok: true},
			want:    StateDisabled,
		},
		{
			name:    "primary error, fresh timestamp",
			querier: fakeQuerier{err: errors.New("no capability api")},
			stamps:  fakeStamps{t: now.Add(-30 * time.Second), ok: true},
			want:    StateEnabled,
		},
		{
			name:    "primary error, stale timestamp",
			querier: fakeQuerier{err: errors.New("no capability api")},
			stamps:  fakeStamps{t: now.Add(-400 * time.Second), ok: true},
			want:    StateDisabled,
		},
		{
			name:    "primary indeterminate, never stamped",
			querier: fakeQuerier{err: ErrIndeterminate},
			stamps:  fakeStamps{ok: false},
			want:    StateDisabled,
		},
		{
			name:    "both signals unavailable",
			querier: fakeQuerier{err: errors.New("no capability api")},
			stamps:  fakeStamps{err: errors.New("store unreadable")},
			want:    StateUnknown,
		},
		{
			name:    "no querier, fresh timestamp",
			querier: nil,
			stamps:  fakeStamps{t: now.Add(-time.Minute), ok: true},
			want:    StateEnabled,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			d := &Detector{
				ExtensionID: "com.example.ext",
				Querier:     tc.querier,
				Stamps:      tc.stamps,
				Window:      300 * time.Second,
				Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
				Now:         func() time.Time { return now },
			}
			if got := d.Check(context.Background()); got != tc.want {
				t.Fatalf("Check() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHTTPQuerier(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/extension/known/status":
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"id":"known","enabled":true}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	q := NewHTTPQuerier(srv.URL)
	enabled, err := q.ExtensionState(context.Background(), "known")
	if err != nil || !enabled {
		t.Fatalf("ExtensionState(known) = %v, %v; want true, nil", enabled, err)
	}

	if _, err := q.ExtensionState(context.Background(), "other"); !errors.Is(err, ErrIndeterminate) {
		t.Fatalf("unknown id err = %v, want ErrIndeterminate", err)
	}
}

func TestHTTPQuerierDeadEndpointFailsFast(t *testing.T) {
	t.Parallel()
	q := NewHTTPQuerier("http://127.0.0.1:1") // nothing listens here
	start := time.Now()
	if _, err := q.ExtensionState(context.Background(), "x"); err == nil {
		t.Fatal("expected error against dead endpoint")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("probe took %v, want fast failure", elapsed)
	}
}
