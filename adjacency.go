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
	"runtime"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
)

// An AdjacencyMatrix is a symmetric binary matrix over a fixed entity
// order. Entry (i,j) is 1 when entities i and j share a boundary of
// positive length, and the diagonal is always 0.
type AdjacencyMatrix struct {
	data *sparse.DenseArray
	n    int
}

func newAdjacencyMatrix(n int) *AdjacencyMatrix {
	return &AdjacencyMatrix{data: sparse.ZerosDense(n, n), n: n}
}

// N returns the matrix dimension.
func (m *AdjacencyMatrix) N() int { return m.n }

// Get returns entry (i,j), either 0 or 1.
func (m *AdjacencyMatrix) Get(i, j int) int {
	return int(m.data.Get(i, j))
}

// set marks i and j adjacent in both orientations, keeping the matrix
// symmetric. Self-edges are ignored.
func (m *AdjacencyMatrix) set(i, j int) {
	if i == j {
		return
	}
	m.data.Set(1, i, j)
	m.data.Set(1, j, i)
}

// Labels returns the 1-based entity labels in matrix order.
func (m *AdjacencyMatrix) Labels() []int {
	l := make([]int, m.n)
	for i := range l {
		l[i] = i + 1
	}
	return l
}

// Neighbors returns the indices adjacent to i, in ascending order.
func (m *AdjacencyMatrix) Neighbors(i int) []int {
	var out []int
	for j := 0; j < m.n; j++ {
		if m.Get(i, j) == 1 {
			out = append(out, j)
		}
	}
	return out
}

// Edges returns the number of adjacent pairs, counting each pair once.
func (m *AdjacencyMatrix) Edges() int {
	var c int
	for i := 0; i < m.n; i++ {
		for j := i + 1; j < m.n; j++ {
			c += m.Get(i, j)
		}
	}
	return c
}

// Equal reports whether m and o have the same dimension and entries.
func (m *AdjacencyMatrix) Equal(o *AdjacencyMatrix) bool {
	if m.n != o.n {
		return false
	}
	for i, v := range m.data.Elements {
		if v != o.data.Elements[i] {
			return false
		}
	}
	return true
}

// Adjacency computes the touch-adjacency matrix of entities, in their given
// order. Pairs are distributed across GOMAXPROCS workers; worker p owns the
// rows i with i%nprocs==p and writes only pairs (i,j) with j>i, so no two
// workers write the same entry.
func Adjacency(entities []geom.Polygonal) *AdjacencyMatrix {
	n := len(entities)
	m := newAdjacencyMatrix(n)
	bounds := make([]*geom.Bounds, n)
	for i, e := range entities {
		bounds[i] = e.Bounds()
	}
	nprocs := runtime.GOMAXPROCS(-1)
	doneChan := make(chan int)
	for p := 0; p < nprocs; p++ {
		go func(p int) {
			for i := p; i < n; i += nprocs {
				for j := i + 1; j < n; j++ {
					if !bounds[i].Overlaps(bounds[j]) {
						continue
					}
					if Touches(entities[i], entities[j]) {
						m.set(i, j)
					}
				}
			}
			doneChan <- 0
		}(p)
	}
	for p := 0; p < nprocs; p++ {
		<-doneChan
	}
	return m
}

// Adjacency computes the touch-adjacency matrix of the grid cells in grid
// order.
func (g *Grid) Adjacency() *AdjacencyMatrix {
	return Adjacency(g.Polygonals())
}

// ValidateArtifacts checks that an adjacency matrix and a grid describe the
// same entity sequence.
func ValidateArtifacts(g *Grid, m *AdjacencyMatrix) error {
	if len(g.Cells) != m.N() {
		return fmt.Errorf("patchgrid: adjacency matrix dimension %d does not match grid cell count %d",
			m.N(), len(g.Cells))
	}
	return nil
}
