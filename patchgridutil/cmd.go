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

// Package patchgridutil wires the patchgrid library into a command-line
// interface, holding the configuration plumbing separate from the core
// computations.
package patchgridutil

import (
	"fmt"
	"io"
	"os"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/spatialmodel/patchgrid"
	"github.com/spatialmodel/patchgrid/sbml"
)

// Version is the version of this program.
const Version = "0.1.0"

// Cfg holds configuration information.
var Cfg *viper.Viper

var log = logrus.StandardLogger()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Shapefile",
			usage: `
              Shapefile is the path to the administrative boundary
              shapefile (e.g. U.S. counties or world countries) that
              defines the region of interest.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "IDColumn",
			usage: `
              IDColumn is the shapefile attribute column holding the
              polygon identifier.`,
			defaultVal: "GEOID",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "Proj",
			usage: `
              Proj is the PROJ definition of the coordinate reference
              system the computation runs in. Input geometries are
              reprojected into it.`,
			defaultVal: "+proj=longlat",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "Resolution",
			usage: `
              Resolution is the target grid cell count. Its square root,
              rounded up, sets the number of cell columns across the
              region extent.`,
			shorthand:  "r",
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "Shape",
			usage: `
              Shape selects the cell shape, either 'square' or 'hexagon'.`,
			defaultVal: "square",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "Overlap",
			usage: `
              Overlap specifies whether to keep only the grid cells that
              overlap at least one source polygon.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "Convention",
			usage: `
              Convention selects the mixture proportion convention,
              either 'coverage-share' (proportions of a cell sum to 1)
              or 'residual-weight' (one minus the coverage share).`,
			defaultVal: "coverage-share",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "States",
			usage: `
              States restricts the computation to the given U.S. state
              abbreviations (grid command) or state names (table
              command). An empty list keeps everything.`,
			defaultVal: []string{},
			flagsets: []*pflag.FlagSet{gridCmd.PersistentFlags(), tableCmd.Flags(),
				paramsCmd.Flags()},
		},
		{
			name: "Countries",
			usage: `
              Countries restricts the computation to the given ISO
              3166-1 alpha-3 country codes. An empty list keeps
              everything.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "CountryTable",
			usage: `
              CountryTable is the path to the JSON lookup mapping ISO
              3166-1 alpha-3 codes to country names. Required when
              Countries is set.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "StateTable",
			usage: `
              StateTable is the path to the JSON lookup mapping state
              abbreviations to FIPS codes. Required when States is set
              on the grid command.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "ContiguousUS",
			usage: `
              ContiguousUS specifies whether to drop Alaska, Hawaii and
              the territories before gridding.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "NeighborTable",
			usage: `
              NeighborTable is the path to a precomputed neighbor list
              (CSV or JSON) such as the Census county adjacency file.`,
			defaultVal: "",
			flagsets: []*pflag.FlagSet{tableCmd.Flags(), modelCmd.Flags(),
				paramsCmd.Flags()},
		},
		{
			name: "GridOutput",
			usage: `
              GridOutput is the path the grid table CSV is written to.`,
			defaultVal: "grid.csv",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags()},
		},
		{
			name: "AdjacencyOutput",
			usage: `
              AdjacencyOutput is the path the adjacency matrix CSV is
              written to.`,
			defaultVal: "adjacency.csv",
			flagsets:   []*pflag.FlagSet{gridCmd.PersistentFlags(), tableCmd.Flags()},
		},
		{
			name: "ModelOutput",
			usage: `
              ModelOutput is the path the generated SBML model is
              written to.`,
			defaultVal: "model.xml",
			flagsets:   []*pflag.FlagSet{modelCmd.Flags()},
		},
		{
			name: "ModelType",
			usage: `
              ModelType selects the compartmental structure, either
              'SIR' or 'SEIR'.`,
			defaultVal: "SIR",
			flagsets:   []*pflag.FlagSet{modelCmd.Flags()},
		},
		{
			name: "Beta",
			usage: `
              Beta is the transmission rate applied to every patch.`,
			defaultVal: 0.2,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags(), paramsCmd.Flags()},
		},
		{
			name: "Gamma",
			usage: `
              Gamma is the recovery rate applied to every patch.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags(), paramsCmd.Flags()},
		},
		{
			name: "Delta",
			usage: `
              Delta is the migration rate applied to every patch.`,
			defaultVal: 0.01,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags(), paramsCmd.Flags()},
		},
		{
			name: "TimeSteps",
			usage: `
              TimeSteps is the number of time steps to generate rate
              surfaces for.`,
			defaultVal: 100,
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "StartNoiseAt",
			usage: `
              StartNoiseAt is the first time step at which Gaussian
              noise perturbs the base rates.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "NoiseMean",
			usage: `
              NoiseMean is the mean of the Gaussian rate noise.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "NoiseStd",
			usage: `
              NoiseStd is the standard deviation of the Gaussian rate
              noise.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "Seed",
			usage: `
              Seed seeds the noise generator so runs are reproducible.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "BetaOutput",
			usage: `
              BetaOutput is the path the transmission-rate surface CSV
              is written to.`,
			defaultVal: "beta_tensors.csv",
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "GammaOutput",
			usage: `
              GammaOutput is the path the recovery-rate surface CSV is
              written to.`,
			defaultVal: "gamma_tensors.csv",
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "DeltaOutput",
			usage: `
              DeltaOutput is the path the migration-rate surface CSV is
              written to.`,
			defaultVal: "delta_tensors.csv",
			flagsets:   []*pflag.FlagSet{paramsCmd.Flags()},
		},
		{
			name: "Sigma",
			usage: `
              Sigma is the exposed-to-infectious progression rate
              applied to every patch. Only used for SEIR models.`,
			defaultVal: 0.2,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags()},
		},
		{
			name: "S0",
			usage: `
              S0 is the initial susceptible amount in every patch.`,
			defaultVal: 999.0,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags()},
		},
		{
			name: "I0",
			usage: `
              I0 is the initial infectious amount in every patch.`,
			defaultVal: 1.0,
			flagsets:   []*pflag.FlagSet{modelCmd.Flags()},
		},
	}

	for _, option := range options {
		for _, set := range option.flagsets {
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(gridCmd)
	Root.AddCommand(tableCmd)
	Root.AddCommand(modelCmd)
	Root.AddCommand(paramsCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("patchgrid: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "patchgrid",
	Short: "Spatial structure for multi-patch epidemic models.",
	Long: `PatchGrid grids a collection of administrative polygons, computes the
area-weighted mixture of each grid cell over the polygons, and derives the
adjacency matrix connecting cells that share a boundary. The resulting patch
structure parameterizes multi-patch compartmental epidemic models.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag) or by using command-line arguments.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("PatchGrid v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Grid a shapefile and write the grid table and adjacency matrix.",
	Long: `grid tiles the extent of the input shapefile with square or hexagonal
cells, computes each cell's mixture over the polygons it overlaps, derives
the cell adjacency matrix, and writes both as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource(Cfg)
		if err != nil {
			return err
		}
		cfg, err := gridConfig(Cfg)
		if err != nil {
			return err
		}
		g, m, err := patchgrid.NewPipeline(src, cfg).Run()
		if err != nil {
			return err
		}
		if err := writeFile(Cfg.GetString("GridOutput"), g.WriteCSV); err != nil {
			return err
		}
		return writeFile(Cfg.GetString("AdjacencyOutput"), m.WriteCSV)
	},
	DisableAutoGenTag: true,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Convert a precomputed neighbor list to an adjacency matrix.",
	Long: `table reads a neighbor list such as the Census county adjacency file,
optionally restricted to the given states, and writes the symmetric binary
adjacency matrix as CSV.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(Cfg)
		if err != nil {
			return err
		}
		m := t.Matrix()
		log.WithFields(logrus.Fields{
			"entities": m.N(),
			"edges":    m.Edges(),
		}).Info("neighbor table converted")
		return writeFile(Cfg.GetString("AdjacencyOutput"), m.WriteCSV)
	},
	DisableAutoGenTag: true,
}

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Generate a multi-patch SBML model from a neighbor list.",
	Long: `model reads a neighbor list, builds the patch adjacency structure, and
writes an SBML document with per-patch infection and recovery reactions plus
migration reactions along the adjacency edges.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(Cfg)
		if err != nil {
			return err
		}
		ids, m, err := patchgrid.NewTablePatchSource(t).Patches()
		if err != nil {
			return err
		}
		cfg, err := modelConfig(Cfg, m)
		if err != nil {
			return err
		}
		doc, err := sbml.Build(cfg)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"patches":   len(ids),
			"type":      cfg.Type.String(),
			"reactions": len(doc.Model.Reactions),
		}).Info("model generated")
		return writeFile(Cfg.GetString("ModelOutput"), doc.Write)
	},
	DisableAutoGenTag: true,
}

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Generate per-patch rate surfaces over time.",
	Long: `params reads a neighbor list to determine the patch count, evolves the
base transmission, recovery and migration rates over the configured time
steps with growing Gaussian noise, and writes one CSV rate surface per
rate.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(Cfg)
		if err != nil {
			return err
		}
		h := hyperParameters(Cfg, len(t.IDs()))
		beta, gamma, delta, err := h.GenerateTensors()
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"patches": h.NumPatches,
			"steps":   h.TimeSteps,
		}).Info("rate surfaces generated")
		for _, out := range []struct {
			path   string
			tensor *sparse.DenseArray
		}{
			{Cfg.GetString("BetaOutput"), beta},
			{Cfg.GetString("GammaOutput"), gamma},
			{Cfg.GetString("DeltaOutput"), delta},
		} {
			tensor := out.tensor
			err := writeFile(out.path, func(w io.Writer) error {
				return patchgrid.WriteTensorCSV(w, tensor)
			})
			if err != nil {
				return err
			}
		}
		return nil
	},
	DisableAutoGenTag: true,
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("patchgrid: creating output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
