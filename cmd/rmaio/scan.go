package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/catalog"
	"github.com/agoodkind/rm-google-ai-overview-ios-sub001/internal/scan"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [file.html]",
		Short: "Run the detection passes over a saved results page",
		Long: `Scan parses a saved results page, runs the detection passes and prints
every recognized AI content region with its pass, locale and element path.
It never talks to the native host; the display mode comes from the --mode
flag. With --out the suppressed document is written back out, which makes
pattern regressions diffable.

Examples:
  rmaio scan page.html
  rmaio scan --mode highlight --out after.html page.html`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}
	cmd.Flags().StringP("mode", "m", "hide", "Display mode to apply: hide or highlight")
	cmd.Flags().StringP("out", "o", "", "Write the suppressed document to this file")
	cmd.Flags().StringP("pattern-pack", "P", "",
		"YAML file with additional detection phrases, merged after the built-ins")
	return cmd
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	logger := cfg.NewLogger(os.Stderr)

	modeFlag, _ := cmd.Flags().GetString("mode")
	mode, ok := scan.ParseDisplayMode(modeFlag)
	if !ok {
		return fmt.Errorf("%q is not a display mode (hide, highlight)", modeFlag)
	}

	cat := catalog.New()
	if pack, _ := cmd.Flags().GetString("pattern-pack"); pack != "" {
		if err := cat.LoadPack(pack); err != nil {
			return fmt.Errorf("load pattern pack: %w", err)
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	doc, err := html.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	session := scan.NewSession(scan.SessionConfig{
		Catalog: cat,
		Modes: scan.NewDisplayModeCache(scan.ModeFetcherFunc(
			func(context.Context) (scan.DisplayMode, error) { return mode, nil },
		), mode, 0),
		Logger: logger,
	})

	res := session.ProcessBatch(cmd.Context(), doc)
	for _, cand := range res.Applied {
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-6s %s\n", cand.Pass, cand.Locale, cand.Path)
	}
	hidden, _ := session.Stats()
	fmt.Fprintf(cmd.OutOrStdout(), "%d region(s) suppressed (%s)\n", hidden, mode)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		w, err := os.Create(out)
		if err != nil {
			return err
		}
		defer w.Close()
		if err := html.Render(w, doc); err != nil {
			return fmt.Errorf("render %s: %w", out, err)
		}
	}
	return nil
}
