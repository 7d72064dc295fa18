/*
Copyright © 2024 the PatchGrid authors.
This file is part of PatchGrid.

PatchGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

PatchGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with PatchGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

package patchgrid

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// GridShape selects the tiling geometry.
type GridShape int

const (
	// Square tiles the extent with axis-aligned squares.
	Square GridShape = iota
	// Hexagon tiles the extent with flat-edged hexagons in alternating
	// offset rows.
	Hexagon
)

func (s GridShape) String() string {
	switch s {
	case Square:
		return "square"
	case Hexagon:
		return "hexagon"
	}
	return fmt.Sprintf("GridShape(%d)", int(s))
}

// A Cell is one grid cell. IDs are 1-based and sequential in creation
// order; they are re-sequenced when overlap filtering drops cells, so they
// are not stable across runs with different filtering.
type Cell struct {
	geom.Polygonal

	ID int

	// Area is the planar polygon area, used as a denominator and for
	// degenerate-case detection.
	Area float64

	// Mixture maps source polygon IDs to overlap proportions. A nil map
	// means the mixture is undefined: either it was never computed or no
	// source polygon intersects the cell.
	Mixture map[string]float64
}

// A Grid is an ordered sequence of cells. The order is frozen at
// construction and must not change once an adjacency matrix has been built
// over it.
type Grid struct {
	Shape GridShape
	Cells []*Cell

	// Nx and Ny are the column and row counts of the dense lattice.
	// They are zeroed by overlap filtering, after which the cells no
	// longer form a complete lattice.
	Nx, Ny int
}

// BuildGrid tiles bounds with cells of the given shape. resolution is the
// target cell count; its square root, rounded up, sets the number of linear
// subdivisions of the longitude extent. The actual cell count can differ
// from resolution (rows are added until the latitude extent is covered, and
// hexagonal tilings overshoot the extent).
func BuildGrid(b *geom.Bounds, resolution int, shape GridShape) (*Grid, error) {
	if resolution <= 0 {
		return nil, fmt.Errorf("patchgrid: invalid grid resolution %d; it must be positive", resolution)
	}
	if b == nil || b.Empty() {
		return nil, fmt.Errorf("patchgrid: grid bounds are empty")
	}
	width := b.Max.X - b.Min.X
	height := b.Max.Y - b.Min.Y
	if width <= 0 || height <= 0 || math.IsNaN(width) || math.IsNaN(height) ||
		math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, fmt.Errorf("patchgrid: degenerate grid bounds %v", *b)
	}
	n := int(math.Ceil(math.Sqrt(float64(resolution))))
	if n < 1 {
		n = 1
	}
	switch shape {
	case Square:
		return squareGrid(b, n), nil
	case Hexagon:
		return hexGrid(b, n), nil
	}
	return nil, fmt.Errorf("patchgrid: unknown grid shape %v", shape)
}

// squareGrid emits a dense lattice of n columns of edge length width/n,
// with as many rows as needed to cover the latitude extent (the top row may
// extend past it). Cells are ordered column-major: all rows of the first
// column, then the next column.
func squareGrid(b *geom.Bounds, n int) *Grid {
	width := b.Max.X - b.Min.X
	height := b.Max.Y - b.Min.Y
	edge := width / float64(n)
	cols := n
	rows := int(math.Ceil(height/edge - geomTol))
	if rows < 1 {
		rows = 1
	}
	cells := make([]*Cell, 0, cols*rows)
	id := 1
	for ix := 0; ix < cols; ix++ {
		// Shared edges between neighboring cells must be computed from
		// the same expression so their coordinates match exactly.
		x0 := b.Min.X + float64(ix)*edge
		x1 := b.Min.X + float64(ix+1)*edge
		for iy := 0; iy < rows; iy++ {
			y0 := b.Min.Y + float64(iy)*edge
			y1 := b.Min.Y + float64(iy+1)*edge
			p := geom.Polygon{{
				{X: x0, Y: y0},
				{X: x1, Y: y0},
				{X: x1, Y: y1},
				{X: x0, Y: y1},
				{X: x0, Y: y0},
			}}
			cells = append(cells, &Cell{Polygonal: p, ID: id, Area: p.Area()})
			id++
		}
	}
	return &Grid{Shape: Square, Cells: cells, Nx: cols, Ny: rows}
}

// hexGrid emits hexagons with edge length width/n. Columns are spaced three
// edge lengths apart; odd rows are shifted east by 1.5 edge lengths so the
// offset rows interlock, and the vertical spacing is scaled by sin(60°) to
// keep the hexagons regular. The lattice starts at the floor of the extent
// minimum and runs to the ceiling of the maximum, so it always covers the
// extent with margin.
func hexGrid(b *geom.Bounds, n int) *Grid {
	unit := (b.Max.X - b.Min.X) / float64(n)
	a := math.Sin(math.Pi / 3)
	baseX := math.Floor(b.Min.X)
	endX := math.Ceil(b.Max.X)
	baseY := math.Floor(b.Min.Y) / a
	endY := math.Ceil(b.Max.Y) / a
	cols := int(math.Ceil((endX - baseX) / (3 * unit)))
	rows := int(math.Ceil((endY - baseY) / unit))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	cells := make([]*Cell, 0, cols*rows)
	id := 1
	for ic := 0; ic < cols; ic++ {
		colX := baseX + float64(ic)*3*unit
		for ir := 0; ir < rows; ir++ {
			y := baseY + float64(ir)*unit
			x0 := colX
			if ir%2 == 1 {
				x0 = colX + 1.5*unit
			}
			p := geom.Polygon{{
				{X: x0, Y: y * a},
				{X: x0 + unit, Y: y * a},
				{X: x0 + 1.5*unit, Y: (y + unit) * a},
				{X: x0 + unit, Y: (y + 2*unit) * a},
				{X: x0, Y: (y + 2*unit) * a},
				{X: x0 - 0.5*unit, Y: (y + unit) * a},
				{X: x0, Y: y * a},
			}}
			cells = append(cells, &Cell{Polygonal: p, ID: id, Area: p.Area()})
			id++
		}
	}
	return &Grid{Shape: Hexagon, Cells: cells, Nx: cols, Ny: rows}
}

// FilterOverlapping returns a new grid keeping only the cells that
// spatially intersect at least one source polygon. Each distinct cell
// geometry appears once regardless of how many source polygons it joins,
// and IDs are re-sequenced 1..k in the surviving order.
func (g *Grid) FilterOverlapping(src *GeometrySource) *Grid {
	kept := make([]*Cell, 0, len(g.Cells))
	for _, c := range g.Cells {
		if len(src.Intersecting(c.Polygonal)) > 0 {
			kept = append(kept, c)
		}
	}
	for i, c := range kept {
		c.ID = i + 1
	}
	return &Grid{Shape: g.Shape, Cells: kept}
}

// Polygonals returns the cell geometries in grid order, the frozen entity
// sequence over which adjacency is computed.
func (g *Grid) Polygonals() []geom.Polygonal {
	o := make([]geom.Polygonal, len(g.Cells))
	for i, c := range g.Cells {
		o[i] = c.Polygonal
	}
	return o
}
