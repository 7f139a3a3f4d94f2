package gridtext

import "strings"

// Invalidations is the set of stale resource groups. A set flag means the
// group must be rebuilt before the next draw; flags are cleared only after
// the rebuild succeeded.
type Invalidations uint8

const (
	// InvalidateDevice means the device, surface and everything created on
	// them must be recreated.
	InvalidateDevice Invalidations = 1 << iota
	// InvalidateSize covers the surface buffers, the cell buffer and the
	// grid constants.
	InvalidateSize
	// InvalidateFont covers the glyph atlas and the text formats.
	InvalidateFont
	// InvalidateTitle asks the host to refresh its window title.
	InvalidateTitle
)

// invalidateAll is the state of a freshly created engine.
const invalidateAll = InvalidateDevice | InvalidateSize | InvalidateFont

// Set marks flags as stale.
func (i *Invalidations) Set(flags Invalidations) { *i |= flags }

// Clear marks flags as up to date.
func (i *Invalidations) Clear(flags Invalidations) { *i &^= flags }

// Has reports whether any of flags is set.
func (i Invalidations) Has(flags Invalidations) bool { return i&flags != 0 }

// String returns the set flags joined by '|'.
func (i Invalidations) String() string {
	if i == 0 {
		return "None"
	}
	names := []struct {
		flag Invalidations
		name string
	}{
		{InvalidateDevice, "Device"},
		{InvalidateSize, "Size"},
		{InvalidateFont, "Font"},
		{InvalidateTitle, "Title"},
	}
	var parts []string
	for _, n := range names {
		if i.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
