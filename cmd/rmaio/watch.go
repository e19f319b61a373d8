package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/browser"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/catalog"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/config"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/relay"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/scan"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/status"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [url]",
		Short: "Watch a search results page and suppress AI content regions",
		Long: `Watch opens the page in a headless browser, rescans it whenever the DOM
mutates, and hides or highlights the AI content regions it recognizes.

The display mode is owned by the native host, which watch launches as a
subprocess and talks to over the native messaging protocol. Send SIGHUP to
re-read the mode without restarting.

Examples:
  # Watch a results page with the stored display mode
  rmaio watch "https://www.google.com/search?q=example"

  # Merge extra detection phrases and keep debug snapshots
  rmaio watch --pattern-pack extra.yaml --dump-dir /tmp/rmaio "https://..."`,
		Args: cobra.ExactArgs(1),
		RunE: runWatchCmd,
	}

	cmd.Flags().StringP("pattern-pack", "P", "",
		"YAML file with additional detection phrases, merged after the built-ins")
	cmd.Flags().DurationP("debounce", "b", 0,
		"Quiet period after a mutation burst before rescanning (0 = default)")
	cmd.Flags().String("dump-dir", "",
		"Write a downscaled page screenshot after each suppression wave")
	cmd.Flags().Duration("stats-interval", scan.DefaultReportInterval,
		"Minimum interval between stats reports to the native host")

	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	logger := cfg.NewLogger(os.Stderr)
	url := args[0]

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker, hostDone, err := startHost(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer hostDone()

	if err := handshake(ctx, broker, logger); err != nil {
		return err
	}

	cat := catalog.New()
	if pack, _ := cmd.Flags().GetString("pattern-pack"); pack != "" {
		if err := cat.LoadPack(pack); err != nil {
			return fmt.Errorf("load pattern pack: %w", err)
		}
		logger.Info("pattern pack merged", "file", pack)
	}

	fallback, ok := scan.ParseDisplayMode(cfg.DefaultDisplayMode)
	if !ok {
		return fmt.Errorf("build default display mode %q is not a mode", cfg.DefaultDisplayMode)
	}
	modes := scan.NewDisplayModeCache(hostModeFetcher(broker), fallback, 0)

	// SIGHUP re-reads the display mode preference mid-session.
	refresh := make(chan os.Signal, 1)
	signal.Notify(refresh, syscall.SIGHUP)
	defer signal.Stop(refresh)
	go func() {
		for range refresh {
			if _, err := broker.Send(ctx, relay.TypeRefreshDisplayMode, nil); err != nil {
				logger.Warn("refresh notify failed", "err", err)
			}
			modes.Invalidate()
			logger.Info("display mode cache invalidated")
		}
	}()

	statsInterval, _ := cmd.Flags().GetDuration("stats-interval")
	reporter := scan.NewStatsReporter(broker, statsInterval, url, logger, nil)
	session := scan.NewSession(scan.SessionConfig{
		Catalog:  cat,
		Modes:    modes,
		Reporter: reporter,
		Logger:   logger,
	})

	stopStatus := startStatusServer(cfg, logger)
	defer stopStatus()

	driver, err := browser.NewDriver(logger)
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer driver.Close()

	debounce, _ := cmd.Flags().GetDuration("debounce")
	dumpDir, _ := cmd.Flags().GetString("dump-dir")
	if dumpDir == "" {
		dumpDir = cfg.DumpDir
	}

	watchErr := driver.Watch(ctx, browser.WatchOptions{
		URL:      url,
		Session:  session,
		Debounce: debounce,
		DumpDir:  dumpDir,
	})

	// Final counters regardless of throttle state; the host keeps them.
	hidden, dups := session.Stats()
	flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	reporter.Flush(flushCtx, hidden, dups)
	cancel()

	if watchErr != nil && !errors.Is(watchErr, context.Canceled) {
		return watchErr
	}
	return nil
}

// startHost launches the native host subprocess and wires the broker over
// its stdio. The returned cleanup closes the channel and reaps the child.
func startHost(ctx context.Context, cfg config.Config, logger *slog.Logger) (*relay.Broker, func(), error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, nil, fmt.Errorf("locate executable: %w", err)
	}
	child := exec.CommandContext(ctx, exe, "host", "--verbosity", cfg.Verbosity.String())
	child.Stderr = os.Stderr
	toHost, err := child.StdinPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("host stdin: %w", err)
	}
	fromHost, err := child.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("host stdout: %w", err)
	}
	if err := child.Start(); err != nil {
		return nil, nil, fmt.Errorf("start native host: %w", err)
	}
	logger.Debug("native host started", "pid", child.Process.Pid)

	endpoint := relay.NewNativeEndpoint(relay.NewCodec(fromHost, toHost))
	broker := relay.NewBroker(endpoint, 0, logger)

	cleanup := func() {
		// Closing the host's stdin is its shutdown signal.
		toHost.Close()
		if err := child.Wait(); err != nil && ctx.Err() == nil {
			logger.Warn("native host exited uncleanly", "err", err)
		}
	}
	return broker, cleanup, nil
}

// handshake pings the host and announces engine startup.
func handshake(ctx context.Context, broker *relay.Broker, logger *slog.Logger) error {
	raw, err := broker.Send(ctx, relay.TypePing, nil)
	if err != nil {
		return fmt.Errorf("native host unreachable: %w", err)
	}
	var pong relay.PongResponse
	if err := json.Unmarshal(raw, &pong); err != nil || !pong.Pong {
		return fmt.Errorf("native host answered ping with %s", raw)
	}
	logger.Info("native host ready", "host_version", pong.Version)

	if _, err := broker.Send(ctx, relay.TypeServiceWorkerStarted, nil); err != nil {
		logger.Warn("startup notice failed", "err", err)
	}
	return nil
}

// hostModeFetcher resolves the display mode through the native host.
func hostModeFetcher(broker *relay.Broker) scan.ModeFetcherFunc {
	return func(ctx context.Context) (scan.DisplayMode, error) {
		raw, err := broker.Send(ctx, relay.TypeGetDisplayMode, nil)
		if err != nil {
			return scan.ModeUnknown, err
		}
		if msg, ok := relay.AsError(raw); ok {
			return scan.ModeUnknown, fmt.Errorf("native host: %s", msg)
		}
		var resp relay.DisplayModeResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return scan.ModeUnknown, fmt.Errorf("decode display mode response: %w", err)
		}
		mode, ok := scan.ParseDisplayMode(resp.DisplayMode)
		if !ok {
			return scan.ModeUnknown, fmt.Errorf("host reported display mode %q", resp.DisplayMode)
		}
		return mode, nil
	}
}

// startStatusServer exposes the activation probe endpoint for the lifetime
// of the watch. Binding failures are logged, not fatal: the probe is an
// activation signal, not a dependency of suppression.
func startStatusServer(cfg config.Config, logger *slog.Logger) func() {
	srv := &http.Server{
		Addr: cfg.StatusAddr,
		Handler: status.New(status.Config{
			ExtensionID: config.ExtensionID,
			Version:     getVersion(),
			Logger:      logger,
		}),
	}
	go func() {
		logger.Info("status endpoint listening", "addr", cfg.StatusAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("status endpoint unavailable", "addr", cfg.StatusAddr, "err", err)
		}
	}()
	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}
}
