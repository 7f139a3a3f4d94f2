package gpu

import (
	"image"
	"strings"
	"testing"
	"unsafe"

	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gridtext/internal/gputest"
	"github.com/gogpu/gridtext/text"
)

// newTestDevice opens a noop device. faults may be nil.
func newTestDevice(t *testing.T, faults *gputest.Faults) *Device {
	t.Helper()
	var backend hal.Backend = noop.API{}
	if faults != nil {
		backend = gputest.Backend{Backend: noop.API{}, Faults: faults}
	}
	d, err := NewDevice(DeviceConfig{Backends: []hal.Backend{backend}})
	if err != nil {
		t.Fatalf("NewDevice failed: %v", err)
	}
	t.Cleanup(d.Destroy)
	return d
}

// readBuffer maps buf and returns a copy of its first size bytes.
func readBuffer(t *testing.T, d *Device, buf hal.Buffer, size int) []byte {
	t.Helper()
	m, err := d.HAL().MapBuffer(buf, 0, uint64(size))
	if err != nil {
		t.Fatalf("MapBuffer failed: %v", err)
	}
	out := make([]byte, size)
	copy(out, unsafe.Slice((*byte)(m.Ptr), size))
	if err := d.HAL().UnmapBuffer(buf); err != nil {
		t.Fatalf("UnmapBuffer failed: %v", err)
	}
	return out
}

// recordingSource is a GlyphSource that fills each cell with a solid color
// and records what it was asked to draw. Runes in missing have no glyph.
type recordingSource struct {
	calls   []glyphKey
	missing map[rune]bool
}

func (s *recordingSource) HasGlyph(r rune, _ text.Weight, _ text.Style) bool {
	return !s.missing[r]
}

func (s *recordingSource) DrawGlyph(dst *image.RGBA, cell image.Rectangle, r rune, w text.Weight, st text.Style) {
	s.calls = append(s.calls, glyphKey{r, w, st})
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			i := dst.PixOffset(x, y)
			dst.Pix[i+0] = byte(r)
			dst.Pix[i+1] = byte(r)
			dst.Pix[i+2] = byte(r)
			dst.Pix[i+3] = 0xFF
		}
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
