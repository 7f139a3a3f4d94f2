// Command gridtextdemo renders a few frames of a terminal grid into an
// offscreen composition surface.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gridtext"
)

func main() {
	var (
		width    = flag.Int("width", 1280, "surface width in pixels")
		height   = flag.Int("height", 800, "surface height in pixels")
		family   = flag.String("font", "Go Mono", "font family")
		size     = flag.Float64("size", gridtext.DefaultFontSize, "font size in points")
		frames   = flag.Int("frames", 3, "frames to present")
		headless = flag.Bool("headless", false, "use the noop backend instead of a real GPU")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gridtext.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	opts := []gridtext.Option{
		gridtext.WithCompositionTarget(*width, *height),
		gridtext.WithFont(*family, *size),
		gridtext.WithClearColor(gridtext.RGB(0x0c, 0x0c, 0x0c)),
	}
	if *headless {
		opts = append(opts, gridtext.WithBackends(noop.API{}), gridtext.WithSoftwareFallback(nil))
	}

	e, err := gridtext.New(opts...)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer e.Close()

	for i := 0; i < *frames; i++ {
		e.WaitUntilCanRender()
		err := drawFrame(e, i)
		switch gridtext.Classify(err) {
		case gridtext.OutcomeOK:
		case gridtext.OutcomeRetry:
			log.Printf("Frame %d: %v, repainting", i, err)
			i--
		default:
			log.Fatalf("Frame %d failed: %v", i, err)
		}
	}

	info := e.AdapterInfo()
	g := e.Geometry()
	log.Printf("Presented %d frames on %q: %dx%d cells of %dx%d px\n",
		e.Frames(), info.Name, g.CellCount.X, g.CellCount.Y, g.CellSize.X, g.CellSize.Y)
}

// drawFrame paints a banner, a prompt and a color ramp.
func drawFrame(e *gridtext.Engine, n int) error {
	if err := e.StartPaint(); err != nil {
		return err
	}

	fg := gridtext.RGB(0xcc, 0xcc, 0xcc)
	bg := gridtext.RGB(0x0c, 0x0c, 0x0c)
	lines := []struct {
		text string
		attr gridtext.Attributes
	}{
		{"gridtext demo", gridtext.Attributes{Bold: true}},
		{fmt.Sprintf("frame %d", n), gridtext.Attributes{Italic: true}},
		{"$ echo 'hello, grid' | wc -c", gridtext.Attributes{}},
		{"12", gridtext.Attributes{}},
	}
	for row, l := range lines {
		if row >= e.CellCount().Y {
			break
		}
		e.UpdateDrawingBrushes(fg, bg, l.attr)
		if err := e.PaintBufferLine(gridtext.ClustersFromString(l.text), image.Pt(0, row)); err != nil {
			return err
		}
	}

	if row := len(lines) + 1; row < e.CellCount().Y {
		cols := e.CellCount().X
		for col := 0; col < cols; col++ {
			v := uint8(col * 255 / max(cols-1, 1))
			e.UpdateDrawingBrushes(fg, gridtext.RGB(v, 0x40, 255-v), gridtext.Attributes{})
			if err := e.PaintBufferLine([]gridtext.Cluster{{Text: " ", Columns: 1}}, image.Pt(col, row)); err != nil {
				return err
			}
		}
	}

	if err := e.EndPaint(); err != nil {
		return err
	}
	err := e.Present()
	if err != nil && !errors.Is(err, gridtext.ErrRetry) {
		return fmt.Errorf("present: %w", err)
	}
	return err
}
