package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/activation"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/config"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/prefstore"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether the extension engine is currently active",
		Long: `Check probes the watch process's status endpoint first; when that cannot
answer it falls back to the last-active timestamp the native host stamps on
every message. The result is one of: enabled, disabled, unknown.

Exit status: 0 for enabled, 1 for disabled, 2 for unknown.`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}
	cmd.Flags().Duration("window", activation.FreshnessWindow,
		"How recent the last-active timestamp may be to still count as active")
	return cmd
}

func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg := resolveConfig(cmd)
	logger := cfg.NewLogger(os.Stderr)

	store, err := prefstore.Open(config.AppGroup)
	if err != nil {
		return fmt.Errorf("open preference store: %w", err)
	}
	window, _ := cmd.Flags().GetDuration("window")

	det := &activation.Detector{
		ExtensionID: config.ExtensionID,
		Querier:     activation.NewHTTPQuerier("http://" + cfg.StatusAddr),
		Stamps:      store,
		Window:      window,
		Logger:      logger,
	}
	state := det.Check(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), state)

	switch state {
	case activation.StateEnabled:
		return nil
	case activation.StateDisabled:
		os.Exit(1)
	default:
		os.Exit(2)
	}
	return nil
}
