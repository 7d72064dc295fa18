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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// Attribute columns commonly carried by administrative boundary files.
const (
	AttrStateFIPS  = "STATEFP"
	AttrCountryISO = "ISO_CC"
)

// ErrEmptySource indicates a geometry source with no polygons, either because
// the input was empty or because filtering removed every row.
var ErrEmptySource = errors.New("patchgrid: geometry source contains no polygons")

// ErrNoCRS indicates a geometry source whose coordinate reference system was
// never set. All core computations assume one shared planar CRS.
var ErrNoCRS = errors.New("patchgrid: geometry source has no coordinate reference system")

// A Unit is one administrative source polygon (e.g. a county or country).
type Unit struct {
	geom.Polygonal

	// ID identifies the unit, e.g. a county GEOID.
	ID string

	// Attrs holds optional attribute columns. They are used only for
	// filtering and never enter the geometric computations.
	Attrs map[string]string
}

// A GeometrySource is a validated collection of administrative polygons
// sharing one coordinate reference system, indexed for spatial search.
// It is immutable after construction: filters return new sources.
type GeometrySource struct {
	units  []*Unit
	index  *rtree.Rtree
	sr     *proj.SR
	bounds *geom.Bounds
}

// NewGeometrySource creates a source from polygons already carrying the
// spatial reference sr. Units with nil geometry are rejected.
func NewGeometrySource(units []*Unit, sr *proj.SR) (*GeometrySource, error) {
	if len(units) == 0 {
		return nil, ErrEmptySource
	}
	s := &GeometrySource{
		units:  units,
		index:  rtree.NewTree(25, 50),
		sr:     sr,
		bounds: geom.NewBounds(),
	}
	for i, u := range units {
		if u == nil || u.Polygonal == nil {
			return nil, fmt.Errorf("patchgrid: geometry source row %d has no geometry", i)
		}
		s.index.Insert(u)
		s.bounds.Extend(u.Bounds())
	}
	return s, nil
}

// LoadShapefile reads polygons from a shapefile, taking unit identifiers
// from idColumn and keeping attrColumns for filtering, and reprojects all
// geometries to sr.
func LoadShapefile(filename, idColumn string, attrColumns []string, sr *proj.SR) (*GeometrySource, error) {
	if sr == nil {
		return nil, ErrNoCRS
	}
	dec, err := shp.NewDecoder(filename)
	if err != nil {
		return nil, fmt.Errorf("patchgrid: opening shapefile: %w", err)
	}
	defer dec.Close()
	fileSR, err := dec.SR()
	if err != nil {
		return nil, fmt.Errorf("patchgrid: reading shapefile CRS: %w", err)
	}
	trans, err := fileSR.NewTransform(sr)
	if err != nil {
		return nil, fmt.Errorf("patchgrid: creating shapefile transform: %w", err)
	}

	columns := append([]string{idColumn}, attrColumns...)
	var units []*Unit
	for {
		g, fields, more := dec.DecodeRowFields(columns...)
		if !more {
			break
		}
		id, ok := fields[idColumn]
		if !ok {
			return nil, fmt.Errorf("patchgrid: shapefile is missing attribute column %s", idColumn)
		}
		gg, err := g.Transform(trans)
		if err != nil {
			return nil, fmt.Errorf("patchgrid: reprojecting shapefile row: %w", err)
		}
		poly, ok := gg.(geom.Polygonal)
		if !ok {
			return nil, fmt.Errorf("patchgrid: shapefile row %s is not a polygon", id)
		}
		attrs := make(map[string]string, len(attrColumns))
		for _, c := range attrColumns {
			attrs[c] = fields[c]
		}
		units = append(units, &Unit{Polygonal: poly, ID: id, Attrs: attrs})
	}
	if err := dec.Error(); err != nil {
		return nil, fmt.Errorf("patchgrid: decoding shapefile: %w", err)
	}
	return NewGeometrySource(units, sr)
}

// Units returns the source polygons in their original order.
func (s *GeometrySource) Units() []*Unit { return s.units }

// Len returns the number of source polygons.
func (s *GeometrySource) Len() int { return len(s.units) }

// SR returns the shared coordinate reference system, which may be nil if the
// source was constructed without one.
func (s *GeometrySource) SR() *proj.SR { return s.sr }

// Bounds returns the combined extent of all source polygons.
func (s *GeometrySource) Bounds() *geom.Bounds { return s.bounds.Copy() }

// Polygonals returns the unit geometries in source order, for direct
// adjacency computation over the administrative units themselves.
func (s *GeometrySource) Polygonals() []geom.Polygonal {
	o := make([]geom.Polygonal, len(s.units))
	for i, u := range s.units {
		o[i] = u.Polygonal
	}
	return o
}

// Intersecting returns the units whose geometry intersects p
// (boundary-inclusive). The result order is not defined.
func (s *GeometrySource) Intersecting(p geom.Polygonal) []*Unit {
	var out []*Unit
	for _, item := range s.index.SearchIntersect(p.Bounds()) {
		u := item.(*Unit)
		if Intersects(p, u.Polygonal) {
			out = append(out, u)
		}
	}
	return out
}

// Filter returns a new source containing the units for which keep returns
// true, preserving their relative order.
func (s *GeometrySource) Filter(keep func(*Unit) bool) (*GeometrySource, error) {
	var kept []*Unit
	for _, u := range s.units {
		if keep(u) {
			kept = append(kept, u)
		}
	}
	if len(kept) == 0 {
		return nil, ErrEmptySource
	}
	return NewGeometrySource(kept, s.sr)
}

// A StateTable maps U.S. state abbreviations to FIPS codes. It replaces the
// State_Names.json lookup that earlier tooling resolved by convention from
// the working directory.
type StateTable map[string]int

// ReadStateTable parses a JSON array of
// {"State_name": ..., "Abrev": ..., "STATEFP": ...} records.
func ReadStateTable(r io.Reader) (StateTable, error) {
	var rows []struct {
		Name    string `json:"State_name"`
		Abbrev  string `json:"Abrev"`
		StateFP int    `json:"STATEFP"`
	}
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("patchgrid: parsing state table: %w", err)
	}
	t := make(StateTable, len(rows))
	for _, row := range rows {
		t[row.Abbrev] = row.StateFP
	}
	return t, nil
}

// A CountryTable maps ISO 3166-1 alpha-3 codes to country names. It replaces
// the ISO_CC.json lookup that earlier tooling resolved by convention.
type CountryTable map[string]string

// ReadCountryTable parses a JSON array of
// {"Country": ..., "ISO_CC": ...} records.
func ReadCountryTable(r io.Reader) (CountryTable, error) {
	var rows []struct {
		Country string `json:"Country"`
		ISO     string `json:"ISO_CC"`
	}
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("patchgrid: parsing country table: %w", err)
	}
	t := make(CountryTable, len(rows))
	for _, row := range rows {
		t[row.ISO] = row.Country
	}
	return t, nil
}

// FilterContiguousUS keeps the contiguous U.S. states: FIPS codes below 60,
// excluding Alaska (02) and Hawaii (15). Units with an unparseable or
// missing STATEFP attribute cause an error rather than being dropped
// silently.
func FilterContiguousUS(s *GeometrySource) (*GeometrySource, error) {
	var parseErr error
	out, err := s.Filter(func(u *Unit) bool {
		fp, err := strconv.Atoi(u.Attrs[AttrStateFIPS])
		if err != nil {
			if parseErr == nil {
				parseErr = fmt.Errorf("patchgrid: unit %s: parsing %s: %w", u.ID, AttrStateFIPS, err)
			}
			return false
		}
		return fp < 60 && fp != 2 && fp != 15
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, err
}

// FilterStates keeps only the units belonging to the given state
// abbreviations, resolved through table.
func FilterStates(s *GeometrySource, table StateTable, abbrevs []string) (*GeometrySource, error) {
	want := make(map[int]bool, len(abbrevs))
	for _, a := range abbrevs {
		fp, ok := table[a]
		if !ok {
			return nil, fmt.Errorf("patchgrid: unknown state abbreviation %q", a)
		}
		want[fp] = true
	}
	return s.Filter(func(u *Unit) bool {
		fp, err := strconv.Atoi(u.Attrs[AttrStateFIPS])
		return err == nil && want[fp]
	})
}

// FilterCountries keeps only the units matching the given ISO 3166-1 alpha-3
// codes, validated against table.
func FilterCountries(s *GeometrySource, table CountryTable, codes []string) (*GeometrySource, error) {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		if _, ok := table[c]; !ok {
			return nil, fmt.Errorf("patchgrid: unknown country code %q", c)
		}
		want[c] = true
	}
	return s.Filter(func(u *Unit) bool {
		return want[u.Attrs[AttrCountryISO]]
	})
}
