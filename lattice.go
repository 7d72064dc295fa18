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

import "fmt"

// RookAdjacency analytically builds the adjacency matrix of a complete
// nx-by-ny square lattice under rook connectivity (shared edges only). The
// entity order is column-major, matching the order BuildGrid emits square
// cells in: index = ix*ny + iy.
func RookAdjacency(nx, ny int) (*AdjacencyMatrix, error) {
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("patchgrid: invalid lattice dimensions %dx%d", nx, ny)
	}
	m := newAdjacencyMatrix(nx * ny)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			if iy > 0 {
				m.set(idx, idx-1)
			}
			if ix > 0 {
				m.set(idx, idx-ny)
			}
		}
	}
	return m, nil
}

// QueenAdjacency analytically builds the adjacency matrix of a complete
// nx-by-ny square lattice under queen connectivity (shared edges and
// corners), with the same column-major entity order as RookAdjacency.
func QueenAdjacency(nx, ny int) (*AdjacencyMatrix, error) {
	m, err := RookAdjacency(nx, ny)
	if err != nil {
		return nil, err
	}
	for ix := 1; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			idx := ix*ny + iy
			if iy > 0 {
				m.set(idx, idx-ny-1)
			}
			if iy < ny-1 {
				m.set(idx, idx-ny+1)
			}
		}
	}
	return m, nil
}
