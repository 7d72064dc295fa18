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
	"errors"
	"strconv"
)

// ErrNoPatchSource indicates a patch source constructed with neither a
// geometry pipeline nor a neighbor table.
var ErrNoPatchSource = errors.New("patchgrid: patch source needs either a geometry source or a neighbor table")

// A PatchSource yields the patch identifiers and adjacency matrix of a
// model, from exactly one of two origins: a grid pipeline over
// administrative polygons, or a precomputed neighbor table.
type PatchSource struct {
	pipeline *Pipeline
	table    *AdjacencyTable
}

// NewGridPatchSource derives patches by gridding the polygons in src under
// cfg.
func NewGridPatchSource(src *GeometrySource, cfg GridConfig) *PatchSource {
	return &PatchSource{pipeline: NewPipeline(src, cfg)}
}

// NewTablePatchSource derives patches from a precomputed neighbor table.
func NewTablePatchSource(table *AdjacencyTable) *PatchSource {
	return &PatchSource{table: table}
}

// Patches returns the patch identifiers and the adjacency matrix over them,
// in matching order.
func (ps *PatchSource) Patches() ([]string, *AdjacencyMatrix, error) {
	switch {
	case ps.table != nil:
		return ps.table.IDs(), ps.table.Matrix(), nil
	case ps.pipeline != nil:
		g, m, err := ps.pipeline.Run()
		if err != nil {
			return nil, nil, err
		}
		ids := make([]string, len(g.Cells))
		for i, c := range g.Cells {
			ids[i] = strconv.Itoa(c.ID)
		}
		return ids, m, nil
	}
	return nil, nil, ErrNoPatchSource
}
