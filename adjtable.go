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
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
)

// TableFormat identifies the encoding of a precomputed neighbor list.
type TableFormat int

const (
	FormatCSV TableFormat = iota
	FormatJSON
)

func (f TableFormat) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	}
	return fmt.Sprintf("TableFormat(%d)", int(f))
}

// DetectTableFormat infers the table format from a file name extension.
func DetectTableFormat(path string) (TableFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("patchgrid: cannot infer neighbor table format from %q; expected a .csv or .json file", path)
}

// Column names expected in neighbor table records, matching the U.S. Census
// county adjacency file layout.
const (
	colCounty   = "County GEOID"
	colNeighbor = "Neighbor GEOID"
	colState    = "State Name"
)

// An AdjacencyTable is a precomputed neighbor list over named entities. The
// entity order is the order in which IDs first appear in the edge records,
// and duplicate or self edges have already been discarded.
type AdjacencyTable struct {
	ids   []string
	idx   map[string]int
	edges [][2]string
}

// ReadAdjacencyTable parses a neighbor list. CSV input must carry a header
// row with "County GEOID", "Neighbor GEOID" and "State Name" columns; JSON
// input must be an array of objects with the same keys. When stateFilter is
// non-empty, only records whose state name matches are kept. Self edges and
// reversed duplicates are dropped.
func ReadAdjacencyTable(r io.Reader, format TableFormat, stateFilter []string) (*AdjacencyTable, error) {
	var records []map[string]string
	var err error
	switch format {
	case FormatCSV:
		records, err = readTableCSV(r)
	case FormatJSON:
		records, err = readTableJSON(r)
	default:
		err = fmt.Errorf("patchgrid: unknown neighbor table format %v", format)
	}
	if err != nil {
		return nil, err
	}

	want := make(map[string]bool, len(stateFilter))
	for _, s := range stateFilter {
		want[s] = true
	}

	t := &AdjacencyTable{idx: make(map[string]int)}
	seen := make(map[[2]string]bool)
	for _, rec := range records {
		if len(want) > 0 && !want[rec[colState]] {
			continue
		}
		a, b := rec[colCounty], rec[colNeighbor]
		if a == "" || b == "" {
			return nil, fmt.Errorf("patchgrid: neighbor table record is missing %q or %q", colCounty, colNeighbor)
		}
		if a == b {
			continue
		}
		if seen[[2]string{a, b}] || seen[[2]string{b, a}] {
			continue
		}
		seen[[2]string{a, b}] = true
		t.addID(a)
		t.addID(b)
		t.edges = append(t.edges, [2]string{a, b})
	}
	if len(t.ids) == 0 {
		return nil, fmt.Errorf("patchgrid: neighbor table contains no edges")
	}
	return t, nil
}

func readTableCSV(r io.Reader) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("patchgrid: reading neighbor table header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, c := range []string{colCounty, colNeighbor, colState} {
		if _, ok := col[c]; !ok {
			return nil, fmt.Errorf("patchgrid: neighbor table is missing column %q", c)
		}
	}
	var records []map[string]string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("patchgrid: reading neighbor table: %w", err)
		}
		rec := make(map[string]string, 3)
		for _, c := range []string{colCounty, colNeighbor, colState} {
			rec[c] = strings.TrimSpace(row[col[c]])
		}
		records = append(records, rec)
	}
	return records, nil
}

func readTableJSON(r io.Reader) ([]map[string]string, error) {
	var rows []map[string]interface{}
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("patchgrid: parsing neighbor table: %w", err)
	}
	records := make([]map[string]string, len(rows))
	for i, row := range rows {
		rec := make(map[string]string, len(row))
		for k, v := range row {
			// GEOIDs may be encoded as JSON numbers.
			rec[k] = cast.ToString(v)
		}
		records[i] = rec
	}
	return records, nil
}

func (t *AdjacencyTable) addID(id string) {
	if _, ok := t.idx[id]; ok {
		return
	}
	t.idx[id] = len(t.ids)
	t.ids = append(t.ids, id)
}

// IDs returns the entity identifiers in first-seen order, the order the
// matrix rows follow.
func (t *AdjacencyTable) IDs() []string {
	out := make([]string, len(t.ids))
	copy(out, t.ids)
	return out
}

// Matrix converts the edge list to a symmetric binary adjacency matrix over
// the first-seen entity order.
func (t *AdjacencyTable) Matrix() *AdjacencyMatrix {
	m := newAdjacencyMatrix(len(t.ids))
	for _, e := range t.edges {
		m.set(t.idx[e[0]], t.idx[e[1]])
	}
	return m
}
