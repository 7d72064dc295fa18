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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/ctessum/sparse"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// HyperParameters describes per-patch epidemic rates and how to evolve them
// over time with growing Gaussian noise, for generating synthetic parameter
// surfaces over a patch structure.
type HyperParameters struct {
	// Beta, Gamma and Delta are the per-patch transmission, recovery and
	// migration rates. Each must have NumPatches entries.
	Beta, Gamma, Delta []float64

	// TimeSteps is the number of time steps to generate.
	TimeSteps int

	// NumPatches is the number of patches.
	NumPatches int

	// StartNoiseAt is the first time step (0-based) at which noise is
	// applied; earlier steps carry the base rates unchanged.
	StartNoiseAt int

	// NoiseMean and NoiseStd parameterize the Gaussian noise. The noise
	// amplitude grows linearly with the number of steps since
	// StartNoiseAt.
	NoiseMean, NoiseStd float64

	// Src seeds the noise sampler. A nil Src uses the global generator.
	Src rand.Source
}

func (h *HyperParameters) validate() error {
	if h.NumPatches < 1 {
		return fmt.Errorf("patchgrid: invalid patch count %d", h.NumPatches)
	}
	if h.TimeSteps < 1 {
		return fmt.Errorf("patchgrid: invalid time step count %d", h.TimeSteps)
	}
	for _, v := range [][]float64{h.Beta, h.Gamma, h.Delta} {
		if len(v) != h.NumPatches {
			return fmt.Errorf("patchgrid: rate vector length %d does not match patch count %d",
				len(v), h.NumPatches)
		}
	}
	return nil
}

// ProductSpace enumerates the cartesian product of the given value lists as
// a dense array with one row per combination and one column per list. The
// rightmost list varies fastest.
func ProductSpace(values [][]float64) (*sparse.DenseArray, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("patchgrid: product space needs at least one value list")
	}
	rows := 1
	for i, v := range values {
		if len(v) == 0 {
			return nil, fmt.Errorf("patchgrid: product space list %d is empty", i)
		}
		if rows > math.MaxInt32/len(v) {
			return nil, fmt.Errorf("patchgrid: product space is too large")
		}
		rows *= len(v)
	}
	out := sparse.ZerosDense(rows, len(values))
	for r := 0; r < rows; r++ {
		rem := r
		for c := len(values) - 1; c >= 0; c-- {
			v := values[c]
			out.Set(v[rem%len(v)], r, c)
			rem /= len(v)
		}
	}
	return out, nil
}

// GenerateTensors produces the per-time-step, per-patch rate surfaces for
// beta, gamma and delta, each of shape (TimeSteps, NumPatches). From
// StartNoiseAt onward the base rate is perturbed by Gaussian noise whose
// amplitude scales with the elapsed steps, and the result is forced
// non-negative by absolute value.
func (h *HyperParameters) GenerateTensors() (beta, gamma, delta *sparse.DenseArray, err error) {
	if err := h.validate(); err != nil {
		return nil, nil, nil, err
	}
	noise := distuv.Normal{Mu: h.NoiseMean, Sigma: h.NoiseStd, Src: h.Src}
	gen := func(base []float64) *sparse.DenseArray {
		out := sparse.ZerosDense(h.TimeSteps, h.NumPatches)
		for t := 0; t < h.TimeSteps; t++ {
			for p := 0; p < h.NumPatches; p++ {
				v := base[p]
				if t >= h.StartNoiseAt {
					v = math.Abs(v + noise.Rand()*float64(t-h.StartNoiseAt+1))
				}
				out.Set(v, t, p)
			}
		}
		return out
	}
	return gen(h.Beta), gen(h.Gamma), gen(h.Delta), nil
}

// WriteTensorCSV writes one or more rate surfaces of equal shape
// (TimeSteps, NumPatches) with Patch_1..Patch_n columns followed by a
// Time_Step column and an id column. Rows are grouped by time step with the
// surfaces tiled within each step, so id enumerates the realizations of
// that step.
func WriteTensorCSV(w io.Writer, tensors ...*sparse.DenseArray) error {
	if len(tensors) == 0 {
		return fmt.Errorf("patchgrid: no rate surfaces to write")
	}
	for _, tensor := range tensors {
		if len(tensor.Shape) != 2 {
			return fmt.Errorf("patchgrid: rate surface must be 2-dimensional, got shape %v", tensor.Shape)
		}
		if tensor.Shape[0] != tensors[0].Shape[0] || tensor.Shape[1] != tensors[0].Shape[1] {
			return fmt.Errorf("patchgrid: rate surface shapes differ: %v vs %v",
				tensor.Shape, tensors[0].Shape)
		}
	}
	steps, patches := tensors[0].Shape[0], tensors[0].Shape[1]
	cw := csv.NewWriter(w)
	header := make([]string, patches+2)
	for p := 0; p < patches; p++ {
		header[p] = "Patch_" + strconv.Itoa(p+1)
	}
	header[patches] = "Time_Step"
	header[patches+1] = "id"
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("patchgrid: writing rate surface: %w", err)
	}
	row := make([]string, patches+2)
	for t := 0; t < steps; t++ {
		for id, tensor := range tensors {
			for p := 0; p < patches; p++ {
				row[p] = strconv.FormatFloat(tensor.Get(t, p), 'g', -1, 64)
			}
			row[patches] = strconv.Itoa(t)
			row[patches+1] = strconv.Itoa(id)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("patchgrid: writing rate surface: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
