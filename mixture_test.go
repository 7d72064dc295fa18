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
	"math"
	"testing"
)

func twoUnitSource(t *testing.T) *GeometrySource {
	t.Helper()
	src, err := NewGeometrySource([]*Unit{
		{Polygonal: box(0, 0, 0.5, 1), ID: "A"},
		{Polygonal: box(0.5, 0, 1, 1), ID: "B"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestMixtureCoverageShare(t *testing.T) {
	src := twoUnitSource(t)
	m := Mixture(box(0, 0, 1, 1), src, CoverageShare)
	if len(m) != 2 {
		t.Fatalf("got %d entries, want 2", len(m))
	}
	var sum float64
	for id, v := range m {
		if math.Abs(v-0.5) > 1e-12 {
			t.Errorf("%s: proportion %g, want 0.5", id, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("proportions sum to %g, want 1", sum)
	}
}

func TestMixtureResidualWeight(t *testing.T) {
	src := twoUnitSource(t)
	cell := box(0, 0, 0.8, 1)
	share := Mixture(cell, src, CoverageShare)
	resid := Mixture(cell, src, ResidualWeight)
	for id, s := range share {
		if r := resid[id]; math.Abs(r-(1-s)) > 1e-12 {
			t.Errorf("%s: residual %g, want %g", id, r, 1-s)
		}
	}
}

func TestMixtureSingleUnit(t *testing.T) {
	src, err := NewGeometrySource([]*Unit{
		{Polygonal: box(0, 0, 1, 1), ID: "only"},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	m := Mixture(box(0.25, 0.25, 0.75, 0.75), src, CoverageShare)
	if len(m) != 1 || math.Abs(m["only"]-1) > 1e-12 {
		t.Errorf("got %v, want map[only:1]", m)
	}
}

func TestMixtureNoIntersection(t *testing.T) {
	src := twoUnitSource(t)
	if m := Mixture(box(2, 2, 3, 3), src, CoverageShare); m != nil {
		t.Errorf("got %v, want nil", m)
	}
}

func TestMixtureBoundaryContact(t *testing.T) {
	src := twoUnitSource(t)
	// The cell only shares the boundary at x=1, so every intersection
	// area is zero and all proportions must be exactly 0.
	m := Mixture(box(1, 0, 2, 1), src, CoverageShare)
	if m == nil {
		t.Fatal("boundary contact should yield a mixture")
	}
	for id, v := range m {
		if v != 0 {
			t.Errorf("%s: proportion %g, want exactly 0", id, v)
		}
	}
	// Residual weight keeps the zero-total rule too.
	for id, v := range Mixture(box(1, 0, 2, 1), src, ResidualWeight) {
		if v != 0 {
			t.Errorf("%s: residual %g, want exactly 0", id, v)
		}
	}
}

func TestAttachMixtures(t *testing.T) {
	src := twoUnitSource(t)
	g, err := BuildGrid(unitBounds(), 4, Square)
	if err != nil {
		t.Fatal(err)
	}
	AttachMixtures(g, src, CoverageShare)
	for _, c := range g.Cells {
		if c.Mixture == nil {
			t.Fatalf("cell %d: no mixture", c.ID)
		}
		var sum float64
		for _, v := range c.Mixture {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("cell %d: proportions sum to %g, want 1", c.ID, sum)
		}
	}
}
