package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/config"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/prefstore"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/scan"
)

// NewModeCmd creates the mode command.
func NewModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode [hide|highlight]",
		Short: "Show or set the shared display-mode preference",
		Long: `Without an argument, mode prints the stored display mode, or the build
default when none was ever set. With an argument it writes the preference
to the shared store; a running watch picks it up on SIGHUP or restart.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"hide", "highlight"},
		RunE:      runModeCmd,
	}
}

func runModeCmd(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	store, err := prefstore.Open(config.AppGroup)
	if err != nil {
		return fmt.Errorf("open preference store: %w", err)
	}

	if len(args) == 0 {
		mode, ok, err := store.DisplayMode()
		if err != nil {
			return fmt.Errorf("read display mode: %w", err)
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", cfg.DefaultDisplayMode)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), mode)
		return nil
	}

	mode, ok := scan.ParseDisplayMode(args[0])
	if !ok {
		return fmt.Errorf("%q is not a display mode (hide, highlight)", args[0])
	}
	if err := store.SetDisplayMode(mode.String()); err != nil {
		return fmt.Errorf("store display mode: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), mode.String())
	return nil
}
