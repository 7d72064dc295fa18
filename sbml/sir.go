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

package sbml

import (
	"fmt"
	"strconv"

	"github.com/spatialmodel/patchgrid"
)

// ModelType selects the compartmental structure.
type ModelType int

const (
	// SIR models susceptible, infectious and recovered compartments.
	SIR ModelType = iota
	// SEIR adds an exposed compartment between infection and
	// infectiousness.
	SEIR
)

func (t ModelType) String() string {
	switch t {
	case SIR:
		return "SIR"
	case SEIR:
		return "SEIR"
	}
	return fmt.Sprintf("ModelType(%d)", int(t))
}

// Config parameterizes a multi-patch compartmental model. All slices must
// have one entry per patch, in the adjacency matrix order.
type Config struct {
	Type ModelType

	// Adjacency connects the patches; migration reactions follow its
	// edges.
	Adjacency *patchgrid.AdjacencyMatrix

	// Beta, Gamma and Delta are the per-patch transmission, recovery
	// and migration rates.
	Beta, Gamma, Delta []float64

	// Sigma is the per-patch progression rate from exposed to
	// infectious. Required for SEIR, ignored for SIR.
	Sigma []float64

	// S0, E0, I0 and R0 are initial compartment amounts. E0 is required
	// for SEIR, ignored for SIR.
	S0, E0, I0, R0 []float64
}

func (c *Config) validate() error {
	if c.Adjacency == nil {
		return fmt.Errorf("sbml: model config has no adjacency matrix")
	}
	n := c.Adjacency.N()
	if n < 1 {
		return fmt.Errorf("sbml: model needs at least one patch")
	}
	check := func(name string, v []float64) error {
		if len(v) != n {
			return fmt.Errorf("sbml: %s has %d entries for %d patches", name, len(v), n)
		}
		return nil
	}
	for name, v := range map[string][]float64{
		"beta": c.Beta, "gamma": c.Gamma, "delta": c.Delta,
		"S0": c.S0, "I0": c.I0, "R0": c.R0,
	} {
		if err := check(name, v); err != nil {
			return err
		}
	}
	if c.Type == SEIR {
		if err := check("sigma", c.Sigma); err != nil {
			return err
		}
		if err := check("E0", c.E0); err != nil {
			return err
		}
	}
	return nil
}

// Build generates the multi-patch model document. Each patch gets its own
// compartment, species, rate parameters and initial assignments tying each
// species to its per-patch initial-condition parameter; infection and
// recovery act within a patch, and each adjacency edge adds migration
// reactions moving susceptible and infectious individuals between the
// patches it connects.
func Build(cfg Config) (*Document, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	n := cfg.Adjacency.N()
	d := NewDocument("patch_" + cfg.Type.String())

	for i := 0; i < n; i++ {
		p := strconv.Itoa(i + 1)
		comp := "patch_" + p
		d.AddCompartment(comp, 1)
		d.AddSpecies("S"+p, comp, cfg.S0[i])
		if cfg.Type == SEIR {
			d.AddSpecies("E"+p, comp, cfg.E0[i])
		}
		d.AddSpecies("I"+p, comp, cfg.I0[i])
		d.AddSpecies("R"+p, comp, cfg.R0[i])
		d.AddParameter("beta_"+p, cfg.Beta[i])
		d.AddParameter("gamma_"+p, cfg.Gamma[i])
		d.AddParameter("delta_"+p, cfg.Delta[i])
		if cfg.Type == SEIR {
			d.AddParameter("sigma_"+p, cfg.Sigma[i])
		}
		states := []string{"S", "I", "R"}
		values := []float64{cfg.S0[i], cfg.I0[i], cfg.R0[i]}
		if cfg.Type == SEIR {
			states = append(states, "E")
			values = append(values, cfg.E0[i])
		}
		for k, state := range states {
			param := state + "0_" + p
			d.AddParameter(param, values[k])
			d.AddInitialAssignment(state+p, "<ci>"+param+"</ci>")
		}
	}

	for i := 0; i < n; i++ {
		p := strconv.Itoa(i + 1)
		switch cfg.Type {
		case SEIR:
			d.AddReaction("infect_"+p,
				[]SpeciesReference{Ref("S"+p, 1), Ref("I"+p, 1)},
				[]SpeciesReference{Ref("E"+p, 1), Ref("I"+p, 1)},
				timesCI("beta_"+p, "S"+p, "I"+p))
			d.AddReaction("progress_"+p,
				[]SpeciesReference{Ref("E"+p, 1)},
				[]SpeciesReference{Ref("I"+p, 1)},
				timesCI("sigma_"+p, "E"+p))
		default:
			d.AddReaction("infect_"+p,
				[]SpeciesReference{Ref("S"+p, 1), Ref("I"+p, 1)},
				[]SpeciesReference{Ref("I"+p, 2)},
				timesCI("beta_"+p, "S"+p, "I"+p))
		}
		d.AddReaction("recover_"+p,
			[]SpeciesReference{Ref("I"+p, 1)},
			[]SpeciesReference{Ref("R"+p, 1)},
			timesCI("gamma_"+p, "I"+p))
	}

	for i := 0; i < n; i++ {
		p := strconv.Itoa(i + 1)
		for _, j := range cfg.Adjacency.Neighbors(i) {
			q := strconv.Itoa(j + 1)
			d.AddReaction("migrate_I_"+p+"_"+q,
				[]SpeciesReference{Ref("I"+p, 1)},
				[]SpeciesReference{Ref("I"+q, 1)},
				timesCI("beta_"+p, "delta_"+p, "I"+p))
			d.AddReaction("migrate_S_"+p+"_"+q,
				[]SpeciesReference{Ref("S"+p, 1)},
				[]SpeciesReference{Ref("S"+q, 1)},
				timesCI("beta_"+p, "delta_"+p, "S"+p))
		}
	}
	return d, nil
}
