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
	"bytes"
	"encoding/csv"
	"reflect"
	"strconv"
	"strings"
	"testing"
)

func TestGridWriteCSV(t *testing.T) {
	src := twoUnitSource(t)
	g, err := BuildGrid(unitBounds(), 4, Square)
	if err != nil {
		t.Fatal(err)
	}
	AttachMixtures(g, src, CoverageShare)

	var buf bytes.Buffer
	if err := g.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{"ID", "geometry", "grid_area", "A", "B"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header: got %v, want %v", rows[0], wantHeader)
	}
	if len(rows) != 5 {
		t.Fatalf("rows: got %d, want 5", len(rows))
	}
	for i, row := range rows[1:] {
		if row[0] != strconv.Itoa(i+1) {
			t.Errorf("row %d: ID %s", i, row[0])
		}
		if !strings.Contains(row[1], "Polygon") {
			t.Errorf("row %d: geometry %q is not GeoJSON", i, row[1])
		}
		area, err := strconv.ParseFloat(row[2], 64)
		if err != nil || area <= 0 {
			t.Errorf("row %d: bad area %q", i, row[2])
		}
	}
}

func TestAdjacencyWriteCSV(t *testing.T) {
	m, err := RookAdjacency(2, 1)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := m.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"", "1", "2"},
		{"1", "0", "1"},
		{"2", "1", "0"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("got %v, want %v", rows, want)
	}
}
