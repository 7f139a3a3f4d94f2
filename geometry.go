package gridtext

import "image"

// Geometry is the pixel and cell layout of the grid.
// CellCount is always SizeInPixel / CellSize, component-wise.
type Geometry struct {
	SizeInPixel image.Point
	CellSize    image.Point
	CellCount   image.Point
}

// withSize returns g for a new surface size.
func (g Geometry) withSize(size image.Point) Geometry {
	g.SizeInPixel = size
	g.CellCount = cellCount(g.SizeInPixel, g.CellSize)
	return g
}

// withCellSize returns g for a new cell size.
func (g Geometry) withCellSize(cell image.Point) Geometry {
	g.CellSize = cell
	g.CellCount = cellCount(g.SizeInPixel, g.CellSize)
	return g
}

func cellCount(size, cell image.Point) image.Point {
	if cell.X <= 0 || cell.Y <= 0 {
		return image.Point{}
	}
	return image.Pt(size.X/cell.X, size.Y/cell.Y)
}

// empty reports whether there is nothing to draw.
func (g Geometry) empty() bool {
	return g.SizeInPixel.X <= 0 || g.SizeInPixel.Y <= 0
}

// bufferCount is the cell buffer allocation size. A surface smaller than
// one cell still gets a single cell so that the buffer is never empty.
func (g Geometry) bufferCount() image.Point {
	return image.Pt(max(g.CellCount.X, 1), max(g.CellCount.Y, 1))
}
