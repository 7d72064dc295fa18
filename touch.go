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

	"github.com/ctessum/geom"
)

// geomTol absorbs float rounding between coordinates generated by different
// arithmetic paths, e.g. the shared edge between two separately constructed
// grid cells.
const geomTol = 1e-9

// Intersects reports whether a and b share any point, boundary included.
func Intersects(a, b geom.Polygonal) bool {
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	if a.Intersection(b).Area() > 0 {
		return true
	}
	return boundariesMeet(a, b)
}

// Touches reports whether a and b share a boundary of positive length while
// their interiors remain disjoint. Pure point contact (two squares meeting
// only at a corner) is not a touch: the predicate is rook-equivalent, so the
// analytic lattice generator reproduces it exactly on a gapless square
// tiling.
func Touches(a, b geom.Polygonal) bool {
	if !a.Bounds().Overlaps(b.Bounds()) {
		return false
	}
	if interiorsOverlap(a, b) {
		return false
	}
	return sharedBoundaryLength(a, b) > geomTol
}

// interiorsOverlap reports whether the clipped intersection of a and b has
// more than rounding-sliver area, relative to the smaller input.
func interiorsOverlap(a, b geom.Polygonal) bool {
	minArea := math.Min(a.Area(), b.Area())
	if minArea <= 0 {
		return false
	}
	return a.Intersection(b).Area() > geomTol*minArea
}

type segment struct {
	a, b geom.Point
}

func boundarySegments(p geom.Polygonal) []segment {
	var segs []segment
	for _, poly := range p.Polygons() {
		for _, ring := range poly {
			for i := 1; i < len(ring); i++ {
				segs = append(segs, segment{ring[i-1], ring[i]})
			}
			if len(ring) > 2 && !ring[len(ring)-1].Equals(ring[0]) {
				segs = append(segs, segment{ring[len(ring)-1], ring[0]})
			}
		}
	}
	return segs
}

func boundariesMeet(a, b geom.Polygonal) bool {
	segsB := boundarySegments(b)
	for _, s := range boundarySegments(a) {
		for _, t := range segsB {
			if segmentsMeet(s, t) {
				return true
			}
		}
	}
	return false
}

// sharedBoundaryLength sums the collinear overlap between the boundaries of
// a and b.
func sharedBoundaryLength(a, b geom.Polygonal) float64 {
	segsB := boundarySegments(b)
	var total float64
	for _, s := range boundarySegments(a) {
		for _, t := range segsB {
			total += segmentOverlap(s, t)
		}
	}
	return total
}

func cross3(o, a, b geom.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

func segLength(s segment) float64 {
	return math.Hypot(s.b.X-s.a.X, s.b.Y-s.a.Y)
}

// segmentsMeet reports whether s and t share at least one point.
func segmentsMeet(s, t segment) bool {
	tol := geomTol * math.Max(1, segLength(s)*segLength(t))
	d1 := cross3(s.a, s.b, t.a)
	d2 := cross3(s.a, s.b, t.b)
	d3 := cross3(t.a, t.b, s.a)
	d4 := cross3(t.a, t.b, s.b)
	if ((d1 > tol && d2 < -tol) || (d1 < -tol && d2 > tol)) &&
		((d3 > tol && d4 < -tol) || (d3 < -tol && d4 > tol)) {
		return true
	}
	if math.Abs(d1) <= tol && inSegmentBox(s, t.a) {
		return true
	}
	if math.Abs(d2) <= tol && inSegmentBox(s, t.b) {
		return true
	}
	if math.Abs(d3) <= tol && inSegmentBox(t, s.a) {
		return true
	}
	if math.Abs(d4) <= tol && inSegmentBox(t, s.b) {
		return true
	}
	return false
}

// inSegmentBox reports whether p lies within the bounding box of s. Callers
// have already established collinearity.
func inSegmentBox(s segment, p geom.Point) bool {
	return p.X >= math.Min(s.a.X, s.b.X)-geomTol && p.X <= math.Max(s.a.X, s.b.X)+geomTol &&
		p.Y >= math.Min(s.a.Y, s.b.Y)-geomTol && p.Y <= math.Max(s.a.Y, s.b.Y)+geomTol
}

// segmentOverlap returns the length of the collinear overlap between s and
// t, or 0 when they are not collinear or meet only at a point.
func segmentOverlap(s, t segment) float64 {
	tol := geomTol * math.Max(1, segLength(s)*segLength(t))
	if math.Abs(cross3(s.a, s.b, t.a)) > tol || math.Abs(cross3(s.a, s.b, t.b)) > tol {
		return 0
	}
	dx, dy := s.b.X-s.a.X, s.b.Y-s.a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return 0
	}
	p0 := ((t.a.X-s.a.X)*dx + (t.a.Y-s.a.Y)*dy) / l2
	p1 := ((t.b.X-s.a.X)*dx + (t.b.Y-s.a.Y)*dy) / l2
	lo, hi := math.Min(p0, p1), math.Max(p0, p1)
	if lo < 0 {
		lo = 0
	}
	if hi > 1 {
		hi = 1
	}
	if hi <= lo {
		return 0
	}
	return (hi - lo) * math.Sqrt(l2)
}
