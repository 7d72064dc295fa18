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

// Package sbml writes compartmental epidemic models as SBML Level 3
// Version 2 documents, with one set of species and reactions per spatial
// patch and migration reactions along the patch adjacency structure.
package sbml

import (
	"encoding/xml"
	"fmt"
	"io"
)

const (
	sbmlNS   = "http://www.sbml.org/sbml/level3/version2/core"
	mathMLNS = "http://www.w3.org/1998/Math/MathML"
)

// A Document is the root of an SBML file.
type Document struct {
	XMLName xml.Name `xml:"sbml"`
	XMLNS   string   `xml:"xmlns,attr"`
	Level   int      `xml:"level,attr"`
	Version int      `xml:"version,attr"`
	Model   Model    `xml:"model"`
}

// A Model holds the component lists of an SBML model.
type Model struct {
	ID                 string              `xml:"id,attr"`
	Compartments       []Compartment       `xml:"listOfCompartments>compartment"`
	Species            []Species           `xml:"listOfSpecies>species"`
	Parameters         []Parameter         `xml:"listOfParameters>parameter"`
	InitialAssignments []InitialAssignment `xml:"listOfInitialAssignments>initialAssignment,omitempty"`
	Reactions          []Reaction          `xml:"listOfReactions>reaction"`
}

type Compartment struct {
	ID       string  `xml:"id,attr"`
	Size     float64 `xml:"size,attr"`
	Constant bool    `xml:"constant,attr"`
}

type Species struct {
	ID                    string  `xml:"id,attr"`
	Compartment           string  `xml:"compartment,attr"`
	InitialAmount         float64 `xml:"initialAmount,attr"`
	Constant              bool    `xml:"constant,attr"`
	BoundaryCondition     bool    `xml:"boundaryCondition,attr"`
	HasOnlySubstanceUnits bool    `xml:"hasOnlySubstanceUnits,attr"`
}

type Parameter struct {
	ID       string  `xml:"id,attr"`
	Value    float64 `xml:"value,attr"`
	Constant bool    `xml:"constant,attr"`
}

// An InitialAssignment sets a symbol from a MathML expression at time zero.
type InitialAssignment struct {
	Symbol string `xml:"symbol,attr"`
	Math   Math   `xml:"math"`
}

// Math wraps a MathML expression. Content is the inner XML of the math
// element and is emitted verbatim.
type Math struct {
	XMLNS   string `xml:"xmlns,attr"`
	Content string `xml:",innerxml"`
}

type SpeciesReference struct {
	Species       string  `xml:"species,attr"`
	Stoichiometry float64 `xml:"stoichiometry,attr"`
	Constant      bool    `xml:"constant,attr"`
}

type Reaction struct {
	ID         string             `xml:"id,attr"`
	Reversible bool               `xml:"reversible,attr"`
	Reactants  []SpeciesReference `xml:"listOfReactants>speciesReference,omitempty"`
	Products   []SpeciesReference `xml:"listOfProducts>speciesReference,omitempty"`
	KineticLaw KineticLaw         `xml:"kineticLaw"`
}

type KineticLaw struct {
	Math Math `xml:"math"`
}

// NewDocument creates an empty SBML Level 3 Version 2 document.
func NewDocument(modelID string) *Document {
	return &Document{
		XMLNS:   sbmlNS,
		Level:   3,
		Version: 2,
		Model:   Model{ID: modelID},
	}
}

// AddCompartment appends a constant compartment of the given size.
func (d *Document) AddCompartment(id string, size float64) {
	d.Model.Compartments = append(d.Model.Compartments,
		Compartment{ID: id, Size: size, Constant: true})
}

// AddSpecies appends a non-constant species with the given initial amount.
func (d *Document) AddSpecies(id, compartment string, initial float64) {
	d.Model.Species = append(d.Model.Species, Species{
		ID:                    id,
		Compartment:           compartment,
		InitialAmount:         initial,
		HasOnlySubstanceUnits: true,
	})
}

// AddParameter appends a constant parameter.
func (d *Document) AddParameter(id string, value float64) {
	d.Model.Parameters = append(d.Model.Parameters,
		Parameter{ID: id, Value: value, Constant: true})
}

// AddInitialAssignment sets symbol from a MathML expression body.
func (d *Document) AddInitialAssignment(symbol, mathML string) {
	d.Model.InitialAssignments = append(d.Model.InitialAssignments,
		InitialAssignment{Symbol: symbol, Math: Math{XMLNS: mathMLNS, Content: mathML}})
}

// Ref builds a constant species reference with the given stoichiometry.
func Ref(species string, stoichiometry float64) SpeciesReference {
	return SpeciesReference{Species: species, Stoichiometry: stoichiometry, Constant: true}
}

// AddReaction appends an irreversible reaction whose rate is the MathML
// expression body mathML.
func (d *Document) AddReaction(id string, reactants, products []SpeciesReference, mathML string) {
	d.Model.Reactions = append(d.Model.Reactions, Reaction{
		ID:         id,
		Reactants:  reactants,
		Products:   products,
		KineticLaw: KineticLaw{Math: Math{XMLNS: mathMLNS, Content: mathML}},
	})
}

// timesCI builds the MathML product of the named symbols.
func timesCI(symbols ...string) string {
	s := "<apply><times/>"
	for _, sym := range symbols {
		s += "<ci>" + sym + "</ci>"
	}
	return s + "</apply>"
}

// Write encodes the document as indented XML with the standard header.
func (d *Document) Write(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("sbml: writing document: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("sbml: encoding document: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("sbml: writing document: %w", err)
	}
	return nil
}
