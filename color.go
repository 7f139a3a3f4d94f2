package gridtext

import (
	"fmt"

	"github.com/gogpu/gputypes"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an opaque RGB color packed as 0x00BBGGRR, the layout the grid
// shader unpacks.
type Color uint32

// RGB packs 8-bit channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(uint32(r) | uint32(g)<<8 | uint32(b)<<16)
}

// ParseColor parses a "#rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("gridtext: parse color %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color, clamping out-of-gamut values.
func FromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return RGB(r, g, b)
}

// Channels returns the 8-bit channels.
func (c Color) Channels() (r, g, b uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16)
}

// String returns the color as "#rrggbb".
func (c Color) String() string {
	r, g, b := c.Channels()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// clearValue converts to the render pass clear color.
func (c Color) clearValue() gputypes.Color {
	r, g, b := c.Channels()
	return gputypes.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: 1,
	}
}
