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
	"bytes"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentWrite(t *testing.T) {
	d := NewDocument("test_model")
	d.AddCompartment("patch_1", 1)
	d.AddSpecies("S1", "patch_1", 999)
	d.AddSpecies("I1", "patch_1", 1)
	d.AddParameter("beta_1", 0.2)
	d.AddParameter("S0_1", 999)
	d.AddInitialAssignment("S1", "<ci>S0_1</ci>")
	d.AddReaction("infect_1",
		[]SpeciesReference{Ref("S1", 1), Ref("I1", 1)},
		[]SpeciesReference{Ref("I1", 2)},
		timesCI("beta_1", "S1", "I1"))

	var buf bytes.Buffer
	require.NoError(t, d.Write(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, xml.Header))
	assert.Contains(t, out, `xmlns="http://www.sbml.org/sbml/level3/version2/core"`)
	assert.Contains(t, out, `level="3"`)
	assert.Contains(t, out, `<species id="S1" compartment="patch_1" initialAmount="999"`)
	assert.Contains(t, out, `<parameter id="beta_1" value="0.2" constant="true"`)
	assert.Contains(t, out, `<initialAssignment symbol="S1">`)
	assert.Contains(t, out,
		"<apply><times/><ci>beta_1</ci><ci>S1</ci><ci>I1</ci></apply>")

	// The output must round-trip through the XML decoder.
	var parsed Document
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	assert.Equal(t, "test_model", parsed.Model.ID)
	require.Len(t, parsed.Model.InitialAssignments, 1)
	assert.Equal(t, "S1", parsed.Model.InitialAssignments[0].Symbol)
	assert.Equal(t, "<ci>S0_1</ci>", parsed.Model.InitialAssignments[0].Math.Content)
	require.Len(t, parsed.Model.Reactions, 1)
	assert.Equal(t, "infect_1", parsed.Model.Reactions[0].ID)
	assert.Len(t, parsed.Model.Reactions[0].Reactants, 2)
	require.Len(t, parsed.Model.Reactions[0].Products, 1)
	assert.Equal(t, 2.0, parsed.Model.Reactions[0].Products[0].Stoichiometry)
}

func TestTimesCI(t *testing.T) {
	assert.Equal(t,
		"<apply><times/><ci>gamma_2</ci><ci>I2</ci></apply>",
		timesCI("gamma_2", "I2"))
}
