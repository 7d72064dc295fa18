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

package patchgridutil

import (
	"fmt"
	"os"

	"github.com/ctessum/geom/proj"
	"github.com/spf13/viper"
	"golang.org/x/exp/rand"

	"github.com/spatialmodel/patchgrid"
	"github.com/spatialmodel/patchgrid/sbml"
)

// loadSource reads the shapefile named by the configuration and applies the
// configured filters.
func loadSource(cfg *viper.Viper) (*patchgrid.GeometrySource, error) {
	path := os.ExpandEnv(cfg.GetString("Shapefile"))
	if path == "" {
		return nil, fmt.Errorf("patchgrid: no Shapefile specified")
	}
	sr, err := proj.Parse(cfg.GetString("Proj"))
	if err != nil {
		return nil, fmt.Errorf("patchgrid: parsing Proj: %w", err)
	}
	// Only request the attribute columns the configured filters need;
	// decoding a column the shapefile lacks fails.
	var attrs []string
	if cfg.GetBool("ContiguousUS") || len(cfg.GetStringSlice("States")) > 0 {
		attrs = append(attrs, patchgrid.AttrStateFIPS)
	}
	if len(cfg.GetStringSlice("Countries")) > 0 {
		attrs = append(attrs, patchgrid.AttrCountryISO)
	}
	src, err := patchgrid.LoadShapefile(path, cfg.GetString("IDColumn"), attrs, sr)
	if err != nil {
		return nil, err
	}
	if cfg.GetBool("ContiguousUS") {
		src, err = patchgrid.FilterContiguousUS(src)
		if err != nil {
			return nil, err
		}
	}
	if states := cfg.GetStringSlice("States"); len(states) > 0 {
		tablePath := os.ExpandEnv(cfg.GetString("StateTable"))
		if tablePath == "" {
			return nil, fmt.Errorf("patchgrid: States is set but StateTable is not")
		}
		f, err := os.Open(tablePath)
		if err != nil {
			return nil, fmt.Errorf("patchgrid: opening state table: %w", err)
		}
		defer f.Close()
		table, err := patchgrid.ReadStateTable(f)
		if err != nil {
			return nil, err
		}
		src, err = patchgrid.FilterStates(src, table, states)
		if err != nil {
			return nil, err
		}
	}
	if countries := cfg.GetStringSlice("Countries"); len(countries) > 0 {
		tablePath := os.ExpandEnv(cfg.GetString("CountryTable"))
		if tablePath == "" {
			return nil, fmt.Errorf("patchgrid: Countries is set but CountryTable is not")
		}
		f, err := os.Open(tablePath)
		if err != nil {
			return nil, fmt.Errorf("patchgrid: opening country table: %w", err)
		}
		defer f.Close()
		table, err := patchgrid.ReadCountryTable(f)
		if err != nil {
			return nil, err
		}
		src, err = patchgrid.FilterCountries(src, table, countries)
		if err != nil {
			return nil, err
		}
	}
	return src, nil
}

// hyperParameters expands the uniform rate options into a per-patch rate
// evolution over n patches.
func hyperParameters(cfg *viper.Viper, n int) *patchgrid.HyperParameters {
	fill := func(v float64) []float64 {
		s := make([]float64, n)
		for i := range s {
			s[i] = v
		}
		return s
	}
	return &patchgrid.HyperParameters{
		Beta:         fill(cfg.GetFloat64("Beta")),
		Gamma:        fill(cfg.GetFloat64("Gamma")),
		Delta:        fill(cfg.GetFloat64("Delta")),
		TimeSteps:    cfg.GetInt("TimeSteps"),
		NumPatches:   n,
		StartNoiseAt: cfg.GetInt("StartNoiseAt"),
		NoiseMean:    cfg.GetFloat64("NoiseMean"),
		NoiseStd:     cfg.GetFloat64("NoiseStd"),
		Src:          rand.NewSource(uint64(cfg.GetInt("Seed"))),
	}
}

func gridConfig(cfg *viper.Viper) (patchgrid.GridConfig, error) {
	var out patchgrid.GridConfig
	switch s := cfg.GetString("Shape"); s {
	case "square":
		out.Shape = patchgrid.Square
	case "hexagon":
		out.Shape = patchgrid.Hexagon
	default:
		return out, fmt.Errorf("patchgrid: unknown Shape %q; expected 'square' or 'hexagon'", s)
	}
	switch c := cfg.GetString("Convention"); c {
	case "coverage-share":
		out.Convention = patchgrid.CoverageShare
	case "residual-weight":
		out.Convention = patchgrid.ResidualWeight
	default:
		return out, fmt.Errorf("patchgrid: unknown Convention %q; expected 'coverage-share' or 'residual-weight'", c)
	}
	out.Resolution = cfg.GetInt("Resolution")
	out.Overlap = cfg.GetBool("Overlap")
	return out, nil
}

// loadTable reads the neighbor list named by the configuration, inferring
// its format from the file extension.
func loadTable(cfg *viper.Viper) (*patchgrid.AdjacencyTable, error) {
	path := os.ExpandEnv(cfg.GetString("NeighborTable"))
	if path == "" {
		return nil, fmt.Errorf("patchgrid: no NeighborTable specified")
	}
	format, err := patchgrid.DetectTableFormat(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("patchgrid: opening neighbor table: %w", err)
	}
	defer f.Close()
	return patchgrid.ReadAdjacencyTable(f, format, cfg.GetStringSlice("States"))
}

// modelConfig expands the uniform rate options into per-patch vectors over
// the adjacency matrix m.
func modelConfig(cfg *viper.Viper, m *patchgrid.AdjacencyMatrix) (sbml.Config, error) {
	var out sbml.Config
	switch t := cfg.GetString("ModelType"); t {
	case "SIR":
		out.Type = sbml.SIR
	case "SEIR":
		out.Type = sbml.SEIR
	default:
		return out, fmt.Errorf("patchgrid: unknown ModelType %q; expected 'SIR' or 'SEIR'", t)
	}
	fill := func(v float64) []float64 {
		s := make([]float64, m.N())
		for i := range s {
			s[i] = v
		}
		return s
	}
	out.Adjacency = m
	out.Beta = fill(cfg.GetFloat64("Beta"))
	out.Gamma = fill(cfg.GetFloat64("Gamma"))
	out.Delta = fill(cfg.GetFloat64("Delta"))
	out.S0 = fill(cfg.GetFloat64("S0"))
	out.I0 = fill(cfg.GetFloat64("I0"))
	out.R0 = fill(0)
	if out.Type == sbml.SEIR {
		out.Sigma = fill(cfg.GetFloat64("Sigma"))
		out.E0 = fill(0)
	}
	return out, nil
}
