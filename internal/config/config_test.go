package config

import (
	"log/slog"
	"testing"
)

func TestParseVerbosity(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want Verbosity
		ok   bool
	}{
		{"none", VerbosityNone, true},
		{"off", VerbosityNone, true},
		{"ERROR", VerbosityError, true},
		{"warn", VerbosityWarn, true},
		{"warning", VerbosityWarn, true},
		{" info ", VerbosityInfo, true},
		{"debug", VerbosityDebug, true},
		{"verbose", VerbosityVerbose, true},
		{"trace", VerbosityVerbose, true},
		{"bogus", VerbosityInfo, false},
		{"", VerbosityInfo, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseVerbosity(tc.in)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("ParseVerbosity(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestVerbosityEnvOverride(t *testing.T) {
	t.Setenv("RMAIO_VERBOSITY", "error")
	cfg := DefaultConfig()
	if cfg.Verbosity != VerbosityError {
		t.Fatalf("Verbosity = %v, want %v", cfg.Verbosity, VerbosityError)
	}
}

func TestVerbosityEnvUnknownKeepsDefault(t *testing.T) {
	t.Setenv("RMAIO_VERBOSITY", "shouty")
	cfg := DefaultConfig()
	if cfg.Verbosity != buildVerbosity {
		t.Fatalf("Verbosity = %v, want build default %v", cfg.Verbosity, buildVerbosity)
	}
}

func TestSlogLevelNoneAboveError(t *testing.T) {
	t.Parallel()
	if lvl := VerbosityNone.SlogLevel(); lvl <= slog.LevelError {
		t.Fatalf("none level %v should sit above error", lvl)
	}
}
