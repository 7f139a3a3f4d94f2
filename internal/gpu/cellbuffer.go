package gpu

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Cell is the per-grid-position record read by the fragment stage.
// The layout matches the WGSL Cell struct: three u32, 12 bytes, no padding.
type Cell struct {
	// GlyphIndex is the packed atlas texel origin of the glyph: x | y<<16.
	GlyphIndex uint32
	// Foreground and Background are packed 0x00BBGGRR colors.
	Foreground uint32
	Background uint32
}

// CellSize is the size of one Cell in bytes.
const CellSize = int(unsafe.Sizeof(Cell{}))

// cellAlignment is the alignment of the CPU cell array, favorable to the
// wide loads of a bulk copy.
const cellAlignment = 32

// CellBuffer is the CPU cell array and its GPU storage buffer.
// The whole array is uploaded on every Flush.
type CellBuffer struct {
	device *Device
	count  image.Point

	backing []byte // keeps the aligned allocation alive
	cells   []Cell
	buffer  hal.Buffer
}

// NewCellBuffer returns an empty buffer bound to d. Call Resize before use.
func NewCellBuffer(d *Device) *CellBuffer {
	return &CellBuffer{device: d}
}

// Count returns the grid dimensions the buffer is sized for.
func (b *CellBuffer) Count() image.Point { return b.count }

// Len returns the number of cells.
func (b *CellBuffer) Len() int { return len(b.cells) }

// Cells exposes the CPU array, row-major.
func (b *CellBuffer) Cells() []Cell { return b.cells }

// Buffer returns the GPU storage buffer.
func (b *CellBuffer) Buffer() hal.Buffer { return b.buffer }

// Resize reallocates both arrays for count cells. It is a no-op when the
// count did not change, and reports whether anything was reallocated.
func (b *CellBuffer) Resize(count image.Point) (bool, error) {
	if count == b.count && b.buffer != nil {
		return false, nil
	}
	n := count.X * count.Y
	if count.X < 0 || count.Y < 0 || n == 0 {
		panic(fmt.Sprintf("gpu: CellBuffer.Resize to %v", count))
	}

	size := uint64(n * CellSize)
	buf, err := b.device.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "gridtext_cells",
		Size:  size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return false, fmt.Errorf("create cell buffer (%d bytes): %w", size, err)
	}

	b.destroyBuffer()
	b.backing, b.cells = alignedCells(n)
	b.buffer = buf
	b.count = count
	slogger().Debug("gpu: cell buffer resized", "cols", count.X, "rows", count.Y, "bytes", size)
	return true, nil
}

// alignedCells allocates n zeroed cells starting on a cellAlignment boundary.
func alignedCells(n int) ([]byte, []Cell) {
	backing := make([]byte, n*CellSize+cellAlignment)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(&backing[0])) % cellAlignment); rem != 0 {
		off = cellAlignment - rem
	}
	cells := unsafe.Slice((*Cell)(unsafe.Pointer(&backing[off])), n)
	return backing, cells
}

// WriteLine overwrites len(cells) cells of row starting at column.
// Coordinates are trusted; out-of-range writes panic.
func (b *CellBuffer) WriteLine(row, column int, cells []Cell) {
	start := row*b.count.X + column
	copy(b.cells[start:start+len(cells)], cells)
}

// Set overwrites one cell.
func (b *CellBuffer) Set(column, row int, c Cell) {
	b.cells[row*b.count.X+column] = c
}

// Flush uploads the entire CPU array into the GPU buffer in one transfer.
func (b *CellBuffer) Flush() error {
	if b.buffer == nil {
		return ErrNotReady
	}
	if err := b.device.queue.WriteBuffer(b.buffer, 0, b.bytes()); err != nil {
		return fmt.Errorf("upload cells: %w", err)
	}
	return nil
}

// bytes views the cell array as raw bytes.
func (b *CellBuffer) bytes() []byte {
	if len(b.cells) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&b.cells[0])), len(b.cells)*CellSize)
}

func (b *CellBuffer) destroyBuffer() {
	if b.buffer != nil && b.device.device != nil {
		b.device.device.DestroyBuffer(b.buffer)
	}
	b.buffer = nil
}

// Destroy releases the GPU buffer and the CPU array.
func (b *CellBuffer) Destroy() {
	b.destroyBuffer()
	b.backing, b.cells = nil, nil
	b.count = image.Point{}
}
