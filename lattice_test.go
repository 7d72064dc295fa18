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

import "testing"

func TestRookAdjacency(t *testing.T) {
	m, err := RookAdjacency(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	// A 3x3 lattice has 2*3 horizontal plus 3*2 vertical edge pairs.
	if m.Edges() != 12 {
		t.Errorf("edges: got %d, want 12", m.Edges())
	}
	if got := len(m.Neighbors(0)); got != 2 {
		t.Errorf("corner cell neighbors: got %d, want 2", got)
	}
	if got := len(m.Neighbors(4)); got != 4 {
		t.Errorf("center cell neighbors: got %d, want 4", got)
	}
}

func TestRookAdjacencyLine(t *testing.T) {
	m, err := RookAdjacency(1, 4)
	if err != nil {
		t.Fatal(err)
	}
	if m.Edges() != 3 {
		t.Errorf("edges: got %d, want 3", m.Edges())
	}
}

func TestQueenAdjacency(t *testing.T) {
	m, err := QueenAdjacency(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	// Rook edges plus 2 diagonal pairs per interior 2x2 block.
	if m.Edges() != 20 {
		t.Errorf("edges: got %d, want 20", m.Edges())
	}
	if got := len(m.Neighbors(4)); got != 8 {
		t.Errorf("center cell neighbors: got %d, want 8", got)
	}
}

func TestLatticeErrors(t *testing.T) {
	if _, err := RookAdjacency(0, 3); err == nil {
		t.Error("zero columns: expected error")
	}
	if _, err := QueenAdjacency(3, 0); err == nil {
		t.Error("zero rows: expected error")
	}
}
