/*
 * leap.go, part of preparemd.
 *
 *
 * Copyright 2024 The preparemd Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mdin

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/preparemd/preparemd"
)

// ForceField is a protein force field together with the water model it
// must be combined with.
type ForceField struct {
	Name       string
	Comment    string
	Sources    []string //leaprc files
	Params     []string //frcmod files loaded after the leaprc files
	SolventBox string
}

var forceFields = map[string]ForceField{
	"ff14SB": {
		Name:       "ff14SB",
		Comment:    "ff14SB protein force field with TIP3P water and JC ions",
		Sources:    []string{"protein.ff14SB", "water.tip3p", "gaff2"},
		Params:     []string{"frcmod.ionsjc_tip3p"},
		SolventBox: "TIP3PBOX",
	},
	"ff19SB": {
		Name:       "ff19SB",
		Comment:    "ff19SB protein force field, only to be used with OPC water",
		Sources:    []string{"protein.ff19SB", "water.opc", "gaff2"},
		Params:     []string{"frcmod.opc"},
		SolventBox: "OPCBOX",
	},
}

// DefaultForceField is used when none is requested.
const DefaultForceField = "ff19SB"

// LookupForceField returns the force field called name, or an
// ErrUnknownForceField error.
func LookupForceField(name string) (ForceField, error) {
	ff, ok := forceFields[name]
	if !ok {
		return ForceField{}, preparemd.Errorf(preparemd.ErrUnknownForceField, "%q, known force fields: %s", name, strings.Join(ForceFieldNames(), ", "))
	}
	return ff, nil
}

// ForceFieldNames returns the known force fields, sorted.
func ForceFieldNames() []string {
	names := make([]string, 0, len(forceFields))
	for k := range forceFields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Mol2Load is a "OBJ = loadMol2 file" tleap statement.
type Mol2Load struct {
	Object string
	File   string
}

// ParseMol2Load parses s, written as tleap would, "ACA = loadMol2 path/to/aca.mol2".
func ParseMol2Load(s string) (Mol2Load, error) {
	lhs, rhs, ok := strings.Cut(s, "=")
	f := strings.Fields(rhs)
	obj := strings.TrimSpace(lhs)
	if !ok || obj == "" || strings.ContainsAny(obj, " \t") || len(f) != 2 || !strings.EqualFold(f[0], "loadMol2") {
		return Mol2Load{}, preparemd.Errorf(preparemd.ErrValidation, "%q is not of the form 'OBJ = loadMol2 file'", s)
	}
	return Mol2Load{Object: obj, File: f[1]}, nil
}

// Base returns the statement with the file reduced to its base name, as it
// is referenced once copied next to leap.in.
func (M Mol2Load) Base() Mol2Load {
	return Mol2Load{Object: M.Object, File: filepath.Base(M.File)}
}

// Solvation margins in A: a generous one around an automatic box, a
// negligible one when the box was given explicitly.
const (
	AutoBoxMargin = 10.0
	UserBoxMargin = 0.01
)

// LeapParams are the inputs of leap.in. Extra parameter files are written
// as given, so they should be paths relative to the topology directory.
type LeapParams struct {
	ForceField       string
	Structure        string //the centred solute, usually pre2.pdb
	Box              preparemd.BoxGeometry
	UserBox          bool
	IonConcentration float64 //mM
	Bonds            []preparemd.SSBond
	Frcmod           []string
	Prep             []string
	Mol2             []Mol2Load
}

// Leap renders leap.in. The number of sodium ions follows from the box
// volume and the ion concentration, chloride neutralizes the rest.
func (E *Engine) Leap(p LeapParams) (string, error) {
	ff, err := LookupForceField(p.ForceField)
	if err != nil {
		return "", err
	}
	ions, err := preparemd.IonCount(p.Box, p.IonConcentration)
	if err != nil {
		return "", err
	}
	if p.Structure == "" {
		p.Structure = "pre2.pdb"
	}
	margin := AutoBoxMargin
	if p.UserBox {
		margin = UserBoxMargin
	}
	data := struct {
		LeapParams
		ForceField ForceField
		Ions       int
		Margin     string
	}{p, ff, ions, strconv.FormatFloat(margin, 'f', -1, 64)}
	return E.render("leap.tmpl", data)
}

// Rotation of the solute about a Cartesian axis, in degrees.
type Rotation struct {
	Axis    string
	Degrees float64
}

// ParseRotation parses "<x|y|z> <degrees>". The empty string is no rotation.
func ParseRotation(s string) (Rotation, error) {
	f := strings.Fields(s)
	if len(f) == 0 {
		return Rotation{}, nil
	}
	if len(f) != 2 || (f[0] != "x" && f[0] != "y" && f[0] != "z") {
		return Rotation{}, preparemd.Errorf(preparemd.ErrValidation, "rotation %q must be '<x|y|z> <degrees>'", s)
	}
	deg, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return Rotation{}, preparemd.NewError(preparemd.ErrValidation, "", "bad rotation angle "+f[1], err)
	}
	return Rotation{Axis: f[0], Degrees: deg}, nil
}

// IsZero is true when R does not rotate anything.
func (R Rotation) IsZero() bool {
	return R.Axis == "" || R.Degrees == 0
}

func (R Rotation) String() string {
	if R.IsZero() {
		return ""
	}
	return R.Axis + " " + strconv.FormatFloat(R.Degrees, 'f', -1, 64)
}

// CpptrajParams are the paths of the geometry step and an optional rotation.
type CpptrajParams struct {
	Input  string
	Output string
	Rotate Rotation
}

// Cpptraj renders the script that boxes, images and centres the cleaned
// structure, optionally rotating it.
func (E *Engine) Cpptraj(p CpptrajParams) (string, error) {
	if p.Input == "" || p.Output == "" {
		return "", preparemd.Errorf(preparemd.ErrValidation, "cpptraj needs input and output structures")
	}
	data := struct {
		Input  string
		Output string
		Rotate string
	}{p.Input, p.Output, p.Rotate.String()}
	return E.render("cpptraj.tmpl", data)
}
