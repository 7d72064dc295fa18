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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestProductSpace(t *testing.T) {
	ps, err := ProductSpace([][]float64{{1, 2}, {3, 4, 5}})
	require.NoError(t, err)
	require.Equal(t, []int{6, 2}, ps.Shape)

	// The rightmost list varies fastest.
	want := [][2]float64{
		{1, 3}, {1, 4}, {1, 5},
		{2, 3}, {2, 4}, {2, 5},
	}
	for r, w := range want {
		assert.Equal(t, w[0], ps.Get(r, 0), "row %d col 0", r)
		assert.Equal(t, w[1], ps.Get(r, 1), "row %d col 1", r)
	}
}

func TestProductSpaceErrors(t *testing.T) {
	_, err := ProductSpace(nil)
	assert.Error(t, err)
	_, err = ProductSpace([][]float64{{1}, {}})
	assert.Error(t, err)
}

func TestGenerateTensors(t *testing.T) {
	h := &HyperParameters{
		Beta:         []float64{0.2, 0.3},
		Gamma:        []float64{0.1, 0.1},
		Delta:        []float64{0.01, 0.02},
		TimeSteps:    10,
		NumPatches:   2,
		StartNoiseAt: 5,
		NoiseMean:    0,
		NoiseStd:     0.05,
		Src:          rand.NewSource(1),
	}
	beta, gamma, delta, err := h.GenerateTensors()
	require.NoError(t, err)
	for _, tensor := range []struct {
		name string
		base []float64
		data interface{ Get(...int) float64 }
	}{
		{"beta", h.Beta, beta},
		{"gamma", h.Gamma, gamma},
		{"delta", h.Delta, delta},
	} {
		// Before the noise onset the base rates pass through unchanged.
		for ts := 0; ts < h.StartNoiseAt; ts++ {
			for p := 0; p < h.NumPatches; p++ {
				assert.Equal(t, tensor.base[p], tensor.data.Get(ts, p),
					"%s step %d patch %d", tensor.name, ts, p)
			}
		}
		// After the onset values stay non-negative.
		for ts := h.StartNoiseAt; ts < h.TimeSteps; ts++ {
			for p := 0; p < h.NumPatches; p++ {
				assert.GreaterOrEqual(t, tensor.data.Get(ts, p), 0.0,
					"%s step %d patch %d", tensor.name, ts, p)
			}
		}
	}
}

func TestGenerateTensorsErrors(t *testing.T) {
	h := &HyperParameters{
		Beta:       []float64{0.2},
		Gamma:      []float64{0.1, 0.1},
		Delta:      []float64{0.01},
		TimeSteps:  10,
		NumPatches: 1,
	}
	_, _, _, err := h.GenerateTensors()
	assert.Error(t, err)

	h = &HyperParameters{NumPatches: 0, TimeSteps: 1}
	_, _, _, err = h.GenerateTensors()
	assert.Error(t, err)
}

func TestWriteTensorCSV(t *testing.T) {
	h := &HyperParameters{
		Beta:         []float64{0.2, 0.3, 0.4},
		Gamma:        []float64{0.1, 0.1, 0.1},
		Delta:        []float64{0.01, 0.01, 0.01},
		TimeSteps:    4,
		NumPatches:   3,
		StartNoiseAt: 4, // no noise
	}
	beta, _, _, err := h.GenerateTensors()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTensorCSV(&buf, beta))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Patch_1", "Patch_2", "Patch_3", "Time_Step", "id"}, rows[0])
	assert.Equal(t, []string{"0.2", "0.3", "0.4", "0", "0"}, rows[1])
	assert.Equal(t, "3", rows[4][3])
}

func TestWriteTensorCSVRealizations(t *testing.T) {
	mk := func(base float64) *HyperParameters {
		return &HyperParameters{
			Beta:         []float64{base, base},
			Gamma:        []float64{0.1, 0.1},
			Delta:        []float64{0.01, 0.01},
			TimeSteps:    2,
			NumPatches:   2,
			StartNoiseAt: 2, // no noise
		}
	}
	a, _, _, err := mk(0.2).GenerateTensors()
	require.NoError(t, err)
	b, _, _, err := mk(0.5).GenerateTensors()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTensorCSV(&buf, a, b))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)

	// Realizations are tiled within each time step: id cycles 0,1 while
	// Time_Step repeats.
	assert.Equal(t, []string{"0.2", "0.2", "0", "0"}, rows[1])
	assert.Equal(t, []string{"0.5", "0.5", "0", "1"}, rows[2])
	assert.Equal(t, []string{"0.2", "0.2", "1", "0"}, rows[3])
	assert.Equal(t, []string{"0.5", "0.5", "1", "1"}, rows[4])

	// Mismatched shapes are rejected.
	c, _, _, err := (&HyperParameters{
		Beta:         []float64{0.2},
		Gamma:        []float64{0.1},
		Delta:        []float64{0.01},
		TimeSteps:    2,
		NumPatches:   1,
		StartNoiseAt: 2,
	}).GenerateTensors()
	require.NoError(t, err)
	assert.Error(t, WriteTensorCSV(&buf, a, c))
	assert.Error(t, WriteTensorCSV(&buf))
}
