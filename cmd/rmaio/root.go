package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/config"
)

// NewRootCmd creates the root command for rmaio.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rmaio",
		Short: "Remove AI-generated content regions from search results pages",
		Long: `rmaio watches a search results page, detects AI-generated content
regions (AI overviews, "people also ask" blocks, inline AI cards and
AI-mode tabs) across locales, and either hides or highlights them.

The watch command drives the page; the host command is the native
messaging companion that owns the shared display-mode preference; the
check command reports whether a watch process is currently active.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("verbosity", "",
		"Log verbosity: none, error, warn, info, debug, verbose (overrides RMAIO_VERBOSITY)")

	cmd.AddCommand(NewWatchCmd())
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHostCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewModeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// resolveConfig builds the process configuration, letting the persistent
// verbosity flag win over environment and build defaults.
func resolveConfig(cmd *cobra.Command) config.Config {
	cfg := config.DefaultConfig()
	if flag, err := cmd.Root().PersistentFlags().GetString("verbosity"); err == nil && flag != "" {
		if v, ok := config.ParseVerbosity(flag); ok {
			cfg.Verbosity = v
		}
	}
	return cfg
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
