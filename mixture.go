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
	"gonum.org/v1/gonum/floats"
)

// MixtureConvention selects how intersection areas are turned into
// per-polygon proportions.
type MixtureConvention int

const (
	// CoverageShare assigns each polygon its share of the total
	// intersected area, so the proportions of a cell sum to 1.
	CoverageShare MixtureConvention = iota
	// ResidualWeight assigns each polygon one minus its share of the
	// total intersected area. With k intersecting polygons the
	// proportions sum to k-1.
	ResidualWeight
)

func (c MixtureConvention) String() string {
	switch c {
	case CoverageShare:
		return "coverage-share"
	case ResidualWeight:
		return "residual-weight"
	}
	return fmt.Sprintf("MixtureConvention(%d)", int(c))
}

// Mixture computes the area-weighted distribution of cell over the source
// polygons it intersects. The result maps unit IDs to proportions under the
// given convention. A nil result means no source polygon intersects the
// cell. When every intersection has zero area (boundary-only contact), all
// proportions are exactly 0.
func Mixture(cell geom.Polygonal, src *GeometrySource, conv MixtureConvention) map[string]float64 {
	units := src.Intersecting(cell)
	if len(units) == 0 {
		return nil
	}
	areas := make([]float64, len(units))
	for i, u := range units {
		areas[i] = cell.Intersection(u.Polygonal).Area()
	}
	total := floats.Sum(areas)
	m := make(map[string]float64, len(units))
	for i, u := range units {
		var share float64
		if total > 0 {
			share = areas[i] / total
		}
		switch conv {
		case ResidualWeight:
			if total > 0 {
				m[u.ID] = 1 - share
			} else {
				m[u.ID] = 0
			}
		default:
			m[u.ID] = share
		}
	}
	return m
}

// AttachMixtures computes and stores the mixture of every cell in g,
// distributing cells across GOMAXPROCS workers. Cells intersecting no
// source polygon keep a nil mixture.
func AttachMixtures(g *Grid, src *GeometrySource, conv MixtureConvention) {
	nprocs := runtime.GOMAXPROCS(-1)
	indexChan := make(chan int)
	doneChan := make(chan int)
	for p := 0; p < nprocs; p++ {
		go func() {
			for i := range indexChan {
				c := g.Cells[i]
				c.Mixture = Mixture(c.Polygonal, src, conv)
			}
			doneChan <- 0
		}()
	}
	for i := range g.Cells {
		indexChan <- i
	}
	close(indexChan)
	for p := 0; p < nprocs; p++ {
		<-doneChan
	}
}
