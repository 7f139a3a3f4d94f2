// Package gpu holds the device-side half of gridtext: the HAL device and its
// presentation surface, the cell buffer, the glyph atlas and the grid
// pipeline.
//
// It is an internal package used by gridtext. Everything runs on
// gogpu/wgpu's HAL (zero CGO): the registered hardware backends are tried
// first, then the software rasterizer.
//
// # Frame Layout
//
// A frame is a single render pass with a single draw:
//
//	CellBuffer (storage) ─┐
//	GlyphAtlas (texture) ─┼─> GridPipeline: fullscreen triangle -> Surface
//	Constants (uniform)  ─┘
//
// The fragment stage maps each pixel to its cell, reads the 12-byte cell
// record and blends the cell's foreground over its background with the
// coverage sampled from the atlas.
//
// # Lifetime
//
// Device owns everything created on it. After a device loss the caller
// destroys the whole set and starts over with NewDevice; IsDeviceLoss
// recognizes the errors that call for that.
//
// # Glyph Atlas
//
// The atlas is a 2048x2048 RGBA texture of fixed-size cells. Slot i of
// variant v (Regular, Italic, Bold, BoldItalic) sits at index v*128+i in
// row-major cell order. Regular glyphs 0-127 are drawn on Rebuild; the other
// variants are drawn on first use. Anything else maps to the blank slot.
package gpu
