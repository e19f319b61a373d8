//go:build !dev

package config

// Release builds hide matched content and keep logs at info.
const (
	buildDefaultDisplayMode = "hide"
	buildVerbosity          = VerbosityInfo
)
