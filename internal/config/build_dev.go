//go:build dev

package config

// Dev builds highlight instead of hiding so matches stay visible while the
// pattern list is being tuned, and log at debug.
const (
	buildDefaultDisplayMode = "highlight"
	buildVerbosity          = VerbosityDebug
)
