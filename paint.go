package gridtext

import (
	"fmt"
	"image"
	"time"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridtext/internal/gpu"
	"github.com/gogpu/gridtext/text"
)

// Frame pacing bounds.
const (
	// frameLatencyTimeout caps WaitUntilCanRender when a latency waiter
	// exists.
	frameLatencyTimeout = time.Second

	// frameFallbackWait is slept by WaitUntilCanRender without a device.
	frameFallbackWait = 8 * time.Millisecond
)

// StartPaint begins a frame. It syncs the size of a bound window, delivers
// a pending title change, rebuilds whatever is stale and resets the brush.
//
// A *RetryError means the device was lost while rebuilding; the next
// StartPaint recreates it. A window with an empty client area skips the
// frame: nothing is rebuilt and the paint calls up to Present do nothing.
func (e *Engine) StartPaint() error {
	if e.closed {
		return ErrClosed
	}
	e.state = StateResolving

	if w := e.cfg.window; w != nil {
		e.setSize(pixelSize(w))
	}
	if e.invalid.Has(InvalidateTitle) {
		e.notifyTitle()
		e.invalid.Clear(InvalidateTitle)
	}

	e.skip = e.geom.empty()
	if !e.skip {
		if err := e.resolve(); err != nil {
			return err
		}
	}

	e.fg, e.bg = 0, 0
	e.attr = Attributes{}
	e.state = StateWriting
	return nil
}

func (e *Engine) notifyTitle() {
	if fn := e.cfg.onTitleChanged; fn != nil {
		fn(e)
	}
	if u, ok := e.cfg.window.(TitleUpdater); ok {
		u.UpdateTitle()
	}
}

// UpdateDrawingBrushes sets the colors and font variant of the following
// PaintBufferLine calls.
func (e *Engine) UpdateDrawingBrushes(fg, bg Color, attr Attributes) {
	e.fg, e.bg = fg, bg
	e.attr = attr
}

// PaintBufferLine writes clusters into row coord.Y starting at column
// coord.X, with the current brush. A cluster wider than one column fills
// its trailing columns with blank cells. Clusters past the right edge are
// dropped; a row outside the grid panics.
func (e *Engine) PaintBufferLine(clusters []Cluster, coord image.Point) error {
	if e.skip || len(clusters) == 0 {
		return nil
	}
	if e.state != StateWriting {
		return ErrNotPainting
	}

	count := e.cells.Count()
	if coord.X < 0 || coord.Y < 0 || coord.Y >= count.Y {
		panic(fmt.Sprintf("gridtext: PaintBufferLine at %v outside %v grid", coord, count))
	}
	if coord.X >= count.X {
		return nil
	}

	w, s := text.VariantOf(e.attr.Bold, e.attr.Italic)
	blank := e.atlas.Blank().GlyphIndex()
	cols := count.X

	line := e.line[:0]
	col := coord.X
	for _, c := range clusters {
		if col >= cols {
			break
		}
		slot, err := e.atlas.EnsureGlyph(c.glyphRune(), w, s)
		if err != nil {
			return e.fail(err)
		}
		line = append(line, Cell{
			GlyphIndex: slot.GlyphIndex(),
			Foreground: uint32(e.fg),
			Background: uint32(e.bg),
		})
		col++
		for i := 1; i < c.Columns && col < cols; i++ {
			line = append(line, Cell{GlyphIndex: blank, Foreground: uint32(e.fg), Background: uint32(e.bg)})
			col++
		}
	}
	e.cells.WriteLine(coord.Y, coord.X, line)
	e.line = line
	return nil
}

// WriteCells overwrites cells of row starting at column with prepared
// records. Out-of-range writes panic.
func (e *Engine) WriteCells(row, column int, cells []Cell) error {
	if e.skip {
		return nil
	}
	if e.state != StateWriting {
		return ErrNotPainting
	}
	e.cells.WriteLine(row, column, cells)
	return nil
}

// GlyphIndex returns the cell glyph value of r in the given variant,
// rasterizing it if needed. It is only valid between StartPaint and
// EndPaint.
func (e *Engine) GlyphIndex(r rune, attr Attributes) (uint32, error) {
	if e.skip || e.atlas == nil || e.state != StateWriting {
		return 0, ErrNotPainting
	}
	w, s := text.VariantOf(attr.Bold, attr.Italic)
	slot, err := e.atlas.EnsureGlyph(r, w, s)
	if err != nil {
		return 0, e.fail(err)
	}
	return slot.GlyphIndex(), nil
}

// EndPaint closes the writing phase.
func (e *Engine) EndPaint() error {
	if e.state == StateWriting {
		e.state = StateDrawing
	}
	return nil
}

// Present uploads the cell buffer, draws the grid and shows the frame.
// Without a completed StartPaint/EndPaint pair it does nothing.
func (e *Engine) Present() error {
	if e.closed {
		return ErrClosed
	}
	if e.state != StateDrawing {
		return nil
	}
	if e.skip {
		e.state = StateIdle
		return nil
	}
	e.state = StatePresenting

	if err := e.cells.Flush(); err != nil {
		return e.fail(err)
	}
	if !e.pipeline.Bound() {
		if err := e.pipeline.Bind(e.cells, e.atlas); err != nil {
			return e.fail(err)
		}
	}

	view, err := e.surface.AcquireView()
	if err != nil {
		return e.fail(err)
	}
	cmd, err := e.pipeline.Encode(view, e.cfg.clear.clearValue())
	if err != nil {
		return e.fail(err)
	}
	if err := e.device.Submit([]hal.CommandBuffer{cmd}); err != nil {
		if !gpu.IsDeviceLoss(err) {
			e.device.HAL().FreeCommandBuffer(cmd)
		}
		return e.fail(err)
	}
	if err := e.surface.Present(); err != nil {
		return e.fail(err)
	}

	e.frames++
	e.state = StateIdle
	return nil
}

// WaitUntilCanRender blocks until a new frame will not queue behind more
// than one in-flight frame, for at most one second. Without a device it
// sleeps briefly instead.
func (e *Engine) WaitUntilCanRender() {
	if e.waiter == nil {
		time.Sleep(frameFallbackWait)
		return
	}
	if !e.waiter.Wait(frameLatencyTimeout) {
		slogger().Debug("gridtext: frame latency wait timed out")
	}
}
