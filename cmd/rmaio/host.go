package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/config"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/nativehost"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/prefstore"
)

// NewHostCmd creates the host command.
func NewHostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "host",
		Short: "Run the native messaging host on stdin/stdout",
		Long: `Host speaks the length-prefixed native messaging protocol on standard
input and output. It owns the shared preference store, answers display-mode
queries, relays extension log lines into its own log, and stamps a
last-active timestamp on every message for activation checks.

It is normally launched by the watch command, not by hand.`,
		Args: cobra.NoArgs,
		RunE: runHostCmd,
	}
}

func runHostCmd(cmd *cobra.Command, _ []string) error {
	cfg := resolveConfig(cmd)
	// Stdout carries frames; logs must not touch it.
	logger := cfg.NewLogger(os.Stderr)

	store, err := prefstore.Open(config.AppGroup)
	if err != nil {
		return fmt.Errorf("open preference store: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	host := nativehost.New(store, cfg.DefaultDisplayMode, logger)
	logger.Info("native host serving", "version", nativehost.Version, "store", store.Dir())
	if err := host.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("host serve: %w", err)
	}
	return nil
}
