package browser

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/image/draw"
)

// snapshotWidth is the target width for debug screenshots. Full-size
// captures of a results page are megabytes of mostly whitespace.
const snapshotWidth = 480

// dumpSnapshot captures the page after a suppression wave, downscales it and
// writes it to the dump directory for triage of pattern misses.
func (d *Driver) dumpSnapshot(ctx context.Context, dir string) error {
	var shot []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		return fmt.Errorf("browser: capture: %w", err)
	}
	src, _, err := image.Decode(bytes.NewReader(shot))
	if err != nil {
		return fmt.Errorf("browser: decode capture: %w", err)
	}

	b := src.Bounds()
	if b.Dx() > snapshotWidth {
		h := b.Dy() * snapshotWidth / b.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, snapshotWidth, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("browser: dump dir: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("wave-%d.png", time.Now().UnixMilli()))
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("browser: dump file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, src); err != nil {
		return fmt.Errorf("browser: encode dump: %w", err)
	}
	d.logger.Debug("debug snapshot written", "file", name)
	return nil
}
