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

func TestTouchesSharedEdge(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(1, 0, 2, 1)
	if !Touches(a, b) {
		t.Error("squares sharing an edge should touch")
	}
	if !Touches(b, a) {
		t.Error("touch should be symmetric")
	}
	if !Intersects(a, b) {
		t.Error("touching squares should intersect")
	}
}

func TestTouchesGap(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(1.1, 0, 2.1, 1)
	if Touches(a, b) {
		t.Error("separated squares should not touch")
	}
	if Intersects(a, b) {
		t.Error("separated squares should not intersect")
	}
}

func TestTouchesCornerOnly(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(1, 1, 2, 2)
	if Touches(a, b) {
		t.Error("point contact is not a touch")
	}
	if !Intersects(a, b) {
		t.Error("corner contact still counts as intersection")
	}
}

func TestTouchesOverlap(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(0.5, 0, 1.5, 1)
	if Touches(a, b) {
		t.Error("overlapping interiors should not touch")
	}
	if !Intersects(a, b) {
		t.Error("overlapping squares should intersect")
	}
}

func TestTouchesPartialEdge(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(1, 0.5, 2, 1.5)
	if !Touches(a, b) {
		t.Error("partial shared edge should touch")
	}
	got := sharedBoundaryLength(a, b)
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("shared boundary length: got %g, want 0.5", got)
	}
}

func TestSharedBoundaryLength(t *testing.T) {
	a := box(0, 0, 1, 1)
	b := box(1, 0, 2, 1)
	got := sharedBoundaryLength(a, b)
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("shared boundary length: got %g, want 1", got)
	}
}

func TestSegmentOverlapTolerance(t *testing.T) {
	// Endpoints that differ by float rounding must still register as a
	// shared boundary.
	eps := 1e-13
	a := box(0, 0, 1, 1)
	b := box(1+eps, 0, 2, 1)
	if !Touches(a, b) {
		t.Error("sub-tolerance gap should still touch")
	}
}
