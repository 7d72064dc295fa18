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
	"strings"
	"testing"
)

func TestTablePatchSource(t *testing.T) {
	tbl, err := ReadAdjacencyTable(strings.NewReader(tableCSVData), FormatCSV, nil)
	if err != nil {
		t.Fatal(err)
	}
	ids, m, err := NewTablePatchSource(tbl).Patches()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != m.N() {
		t.Fatalf("%d ids for a %d-patch matrix", len(ids), m.N())
	}
	if ids[0] != "01001" {
		t.Errorf("first patch: got %s, want 01001", ids[0])
	}
}

func TestGridPatchSource(t *testing.T) {
	src, err := NewGeometrySource([]*Unit{
		{Polygonal: box(0, 0, 1, 1), ID: "west"},
		{Polygonal: box(1, 0, 2, 1), ID: "east"},
	}, testSR(t))
	if err != nil {
		t.Fatal(err)
	}
	ps := NewGridPatchSource(src, GridConfig{
		Resolution: 4,
		Shape:      Square,
		Overlap:    true,
	})
	ps.pipeline.Log = quietLog()
	ids, m, err := ps.Patches()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || m.N() != 2 {
		t.Fatalf("got %d ids, %d patches; want 2, 2", len(ids), m.N())
	}
	if ids[0] != "1" || ids[1] != "2" {
		t.Errorf("patch ids: got %v, want [1 2]", ids)
	}
}

func TestEmptyPatchSource(t *testing.T) {
	if _, _, err := (&PatchSource{}).Patches(); !errors.Is(err, ErrNoPatchSource) {
		t.Errorf("got %v, want ErrNoPatchSource", err)
	}
}
