package config

import (
	"log/slog"
	"os"
	"strings"
)

// AppGroup scopes the shared preference store. The native host and the
// companion app must agree on this value or they will not see each other's
// writes.
const AppGroup = "group.com.agoodkind.rm-google-ai-overview"

// ExtensionID identifies the extension to capability queries.
const ExtensionID = "com.agoodkind.rm-google-ai-overview.extension"

// injectedVerbosity may be set at link time:
//
//	-ldflags "-X .../internal/config.injectedVerbosity=debug"
//
// It sits between the runtime override and the build default.
var injectedVerbosity string

// Verbosity controls log volume. It never affects correctness, only how
// chatty the process is.
type Verbosity int

const (
	VerbosityNone Verbosity = iota
	VerbosityError
	VerbosityWarn
	VerbosityInfo
	VerbosityDebug
	VerbosityVerbose
)

// ParseVerbosity maps a verbosity name to its level. Unknown names fall back
// to the build default so a typo in an env var cannot silence the process.
func ParseVerbosity(s string) (Verbosity, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "off", "silent":
		return VerbosityNone, true
	case "error":
		return VerbosityError, true
	case "warn", "warning":
		return VerbosityWarn, true
	case "info":
		return VerbosityInfo, true
	case "debug":
		return VerbosityDebug, true
	case "verbose", "trace":
		return VerbosityVerbose, true
	}
	return VerbosityInfo, false
}

func (v Verbosity) String() string {
	switch v {
	case VerbosityNone:
		return "none"
	case VerbosityError:
		return "error"
	case VerbosityWarn:
		return "warn"
	case VerbosityInfo:
		return "info"
	case VerbosityDebug:
		return "debug"
	case VerbosityVerbose:
		return "verbose"
	default:
		return "info"
	}
}

// SlogLevel maps a verbosity to the slog level gate. VerbosityVerbose reuses
// slog's debug level but additionally enables per-candidate logging in the
// scan loop.
func (v Verbosity) SlogLevel() slog.Level {
	switch v {
	case VerbosityNone:
		// Above any level slog emits; effectively discards everything.
		return slog.LevelError + 128
	case VerbosityError:
		return slog.LevelError
	case VerbosityWarn:
		return slog.LevelWarn
	case VerbosityInfo:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// Config describes process wiring and runtime behaviour.
type Config struct {
	Verbosity          Verbosity
	DefaultDisplayMode string
	StatusAddr         string
	DumpDir            string
}

// DefaultConfig populates configuration from the environment and build
// defaults. Resolution order for verbosity: RMAIO_VERBOSITY, link-time
// injected value, build-configuration default.
func DefaultConfig() Config {
	cfg := Config{
		Verbosity:          buildVerbosity,
		DefaultDisplayMode: buildDefaultDisplayMode,
		StatusAddr:         "127.0.0.1:9923",
	}
	if v, ok := ParseVerbosity(injectedVerbosity); injectedVerbosity != "" && ok {
		cfg.Verbosity = v
	}
	if env := os.Getenv("RMAIO_VERBOSITY"); env != "" {
		if v, ok := ParseVerbosity(env); ok {
			cfg.Verbosity = v
		}
	}
	if env := strings.TrimSpace(os.Getenv("RMAIO_STATUS_ADDR")); env != "" {
		cfg.StatusAddr = env
	}
	if env := strings.TrimSpace(os.Getenv("RMAIO_DUMP_DIR")); env != "" {
		cfg.DumpDir = env
	}
	return cfg
}

// NewLogger builds the process logger for the configured verbosity.
func (c Config) NewLogger(w *os.File) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Verbosity.SlogLevel()}))
}
