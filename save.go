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
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/ctessum/geom/encoding/geojson"
)

// WriteCSV writes the grid table: one row per cell with its ID, GeoJSON
// geometry, planar area, and one mixture column per source polygon ID that
// appears in any cell, in sorted order. Cells not intersecting a given
// polygon get an empty field; cells with a nil mixture have every mixture
// field empty.
func (g *Grid) WriteCSV(w io.Writer) error {
	unitIDs := make(map[string]bool)
	for _, c := range g.Cells {
		for id := range c.Mixture {
			unitIDs[id] = true
		}
	}
	cols := make([]string, 0, len(unitIDs))
	for id := range unitIDs {
		cols = append(cols, id)
	}
	sort.Strings(cols)

	cw := csv.NewWriter(w)
	header := append([]string{"ID", "geometry", "grid_area"}, cols...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("patchgrid: writing grid table: %w", err)
	}
	for _, c := range g.Cells {
		gj, err := geojson.Encode(c.Polygonal)
		if err != nil {
			return fmt.Errorf("patchgrid: encoding cell %d geometry: %w", c.ID, err)
		}
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(c.ID), string(gj),
			strconv.FormatFloat(c.Area, 'g', -1, 64))
		for _, id := range cols {
			v, ok := c.Mixture[id]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("patchgrid: writing grid table: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSV writes the adjacency matrix with 1-based labels as both the
// header row and the leading column.
func (m *AdjacencyMatrix) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	labels := m.Labels()
	header := make([]string, m.n+1)
	for j, l := range labels {
		header[j+1] = strconv.Itoa(l)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("patchgrid: writing adjacency matrix: %w", err)
	}
	row := make([]string, m.n+1)
	for i := 0; i < m.n; i++ {
		row[0] = strconv.Itoa(labels[i])
		for j := 0; j < m.n; j++ {
			row[j+1] = strconv.Itoa(m.Get(i, j))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("patchgrid: writing adjacency matrix: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
