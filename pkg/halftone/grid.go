package halftone

// Cell is one tile of the sampling grid: a rectangular region of the
// brightness field identified by integer grid coordinates. Boundary cells
// may be partial but are never dropped; their average covers only the
// pixels they own.
type Cell struct {
	Row, Col int     // grid coordinates
	X, Y     int     // top-left pixel of the cell
	W, H     int     // cell extent in pixels (≤ cellSize at the boundary)
	Avg      float64 // mean brightness over the cell, in [0, 1]
}

// CenterX returns the horizontal center of the cell in image space.
func (c Cell) CenterX() float64 { return float64(c.X) + float64(c.W)/2 }

// CenterY returns the vertical center of the cell in image space.
func (c Cell) CenterY() float64 { return float64(c.Y) + float64(c.H)/2 }

// Grid partitions the field into cellSize×cellSize tiles and computes one
// area-averaged brightness sample per tile. Averaging over the full cell
// area is the anti-aliasing step: a naive per-pixel threshold would alias
// into moiré noise.
//
// Cells are returned in row-major order, which fixes the iteration order
// for deterministic placement. The tiles cover the field exactly: no gaps,
// no overlaps, partial cells at the right/bottom boundary included.
func Grid(f *Field, cellSize int) []Cell {
	if cellSize <= 0 {
		return nil
	}
	rows := (f.H + cellSize - 1) / cellSize
	cols := (f.W + cellSize - 1) / cellSize

	cells := make([]Cell, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			x, y := col*cellSize, row*cellSize
			cw := min(cellSize, f.W-x)
			ch := min(cellSize, f.H-y)

			var sum float64
			for yy := y; yy < y+ch; yy++ {
				for xx := x; xx < x+cw; xx++ {
					sum += f.Pix[yy*f.W+xx]
				}
			}
			cells = append(cells, Cell{
				Row: row, Col: col,
				X: x, Y: y, W: cw, H: ch,
				Avg: sum / float64(cw*ch),
			})
		}
	}
	return cells
}

// gridCols returns the number of grid columns for a field and cell size.
func gridCols(f *Field, cellSize int) int {
	return (f.W + cellSize - 1) / cellSize
}

// cellAt returns the cell containing the pixel (x, y), assuming cells came
// from Grid with the same field and cell size. The second return is false
// when the point lies outside the field.
func cellAt(cells []Cell, f *Field, cellSize int, x, y float64) (Cell, bool) {
	if x < 0 || y < 0 || x >= float64(f.W) || y >= float64(f.H) {
		return Cell{}, false
	}
	cols := gridCols(f, cellSize)
	idx := (int(y)/cellSize)*cols + int(x)/cellSize
	if idx < 0 || idx >= len(cells) {
		return Cell{}, false
	}
	return cells[idx], true
}
