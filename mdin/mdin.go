/*
 * mdin.go, part of preparemd.
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

// Package mdin renders the text artifacts of an AMBER run: the mdin control
// files of every stage, the tleap and cpptraj scripts and the shell run
// scripts. Rendering is pure: equal inputs give byte-identical output.
package mdin

import (
	"bytes"
	"embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/queue"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("mdin").Funcs(template.FuncMap{
	"pyfloat": pyfloat,
}).ParseFS(templateFS, "templates/*.tmpl"))

// pyfloat formats f with as few digits as needed but always with a
// decimal point, so 10 is "10.0" and 0.5 is "0.5".
func pyfloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// Engine renders every artifact. The queue registry supplies the run
// script headers.
type Engine struct {
	queues *queue.Registry
}

// NewEngine returns an engine using the given profiles. A nil registry
// means the built-in profiles.
func NewEngine(queues *queue.Registry) *Engine {
	if queues == nil {
		queues = queue.NewRegistry()
	}
	return &Engine{queues: queues}
}

// Queues returns the registry the engine takes its headers from.
func (E *Engine) Queues() *queue.Registry {
	return E.queues
}

func (E *Engine) render(name string, data interface{}) (string, error) {
	var b bytes.Buffer
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", preparemd.NewError(preparemd.ErrValidation, name, "rendering failed", err)
	}
	return b.String(), nil
}

func (E *Engine) header(q string) (string, error) {
	if q == "" {
		q = queue.Default
	}
	return E.queues.Header(q)
}

// Minimize renders min1.in (stage 1, solvent and ions only) or min2.in
// (stage 2, everything moves).
func (E *Engine) Minimize(stage int) (string, error) {
	if stage != 1 && stage != 2 {
		return "", preparemd.Errorf(preparemd.ErrValidation, "minimization stage must be 1 or 2, got %d", stage)
	}
	data := struct {
		Stage     int
		Belly     bool
		BellyMask string
	}{stage, stage == 1, BellyMask}
	return E.render("minimize.tmpl", data)
}

// BellyMask selects the atoms that move in the first minimization.
const BellyMask = ":WAT,Na+,Cl-"

// dynamics is the part of a namelist shared by heating and production.
type dynamics struct {
	Continue bool
	Irest    int
	Ntx      int
	NPT      bool
	Ntp      int
	Ntb      int
	Steps    int
}

func newDynamics(rec preparemd.Record) dynamics {
	d := dynamics{Irest: 0, Ntx: 1, Ntp: 0, Ntb: 1, Steps: rec.Steps}
	if rec.Restart == preparemd.Continue {
		d.Continue, d.Irest, d.Ntx = true, 1, 5
	}
	if rec.Ensemble == preparemd.NPT {
		d.NPT, d.Ntp, d.Ntb = true, 1, 2
	}
	return d
}

func checkTemperature(rec preparemd.Record) error {
	if rec.Temperature.Target <= 0 || (rec.Temperature.Ramp && rec.Temperature.Start <= 0) {
		return preparemd.Errorf(preparemd.ErrValidation, "temperatures must be positive, got %g -> %g", rec.Temperature.Start, rec.Temperature.Target)
	}
	return nil
}

// Heat renders one mdK.in of the heating and equilibration series.
// A ramped record gets the TEMP0 weight block, a fixed one the DUMPFREQ block.
func (E *Engine) Heat(rec preparemd.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	if err := checkTemperature(rec); err != nil {
		return "", err
	}
	if (rec.Restrained == preparemd.ResidueRange{}) {
		return "", preparemd.Errorf(preparemd.ErrValidation, "heating needs a restrained residue range")
	}
	t := rec.Temperature
	title := "Heat system (constant volume)"
	if rec.Ensemble == preparemd.NPT {
		title = "Equilibrate system (constant pressure)"
	}
	nmropt := 0
	if t.Ramp {
		nmropt = 1
	}
	data := struct {
		dynamics
		Title  string
		Ramp   bool
		Tempi  float64
		Temp0  float64
		IStep1 int
		IStep2 int
		Mask   string
		Weight float64
		Nmropt int
	}{newDynamics(rec), title, t.Ramp, t.Start, t.Target, t.FirstStep, t.LastStep, rec.Restrained.Mask(), rec.RestraintWeight, nmropt}
	return E.render("heat.tmpl", data)
}

// Production renders the md.in of one production replica.
func (E *Engine) Production(rec preparemd.Record) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	if err := checkTemperature(rec); err != nil {
		return "", err
	}
	data := struct {
		dynamics
		Temp0 float64
	}{newDynamics(rec), rec.Temperature.Target}
	return E.render("production.tmpl", data)
}

// AMDSteps is the length of an accelerated MD run.
const AMDSteps = 10000000

// AMD renders amd.in for a dual-boost accelerated MD run. nmropt must be
// 0 or 1.
func (E *Engine) AMD(p preparemd.AMDParams, nmropt int) (string, error) {
	if nmropt != 0 && nmropt != 1 {
		return "", preparemd.Errorf(preparemd.ErrValidation, "nmropt must be 0 or 1, got %d", nmropt)
	}
	if p.AlphaP <= 0 || p.AlphaD <= 0 {
		return "", preparemd.Errorf(preparemd.ErrValidation, "aMD alpha values must be positive, got %g and %g", p.AlphaP, p.AlphaD)
	}
	data := struct {
		preparemd.AMDParams
		Steps  int
		Nmropt int
	}{p, AMDSteps, nmropt}
	return E.render("amd.tmpl", data)
}

// Stripped are the residues removed from the processed trajectory.
const Stripped = ":SOD,WAT,TIP3,Cl-,Na+"

// TrajStride is the frame stride used when collecting the production trajectory.
const TrajStride = 50

// TrajFix renders the cpptraj script that joins, unwraps and centres the
// trajectories of the production replicas.
func (E *Engine) TrajFix(residues, replicas int, prefix string) (string, error) {
	if residues < 1 || replicas < 1 {
		return "", preparemd.Errorf(preparemd.ErrValidation, "trajfix needs at least one residue and one replica, got %d and %d", residues, replicas)
	}
	dirs := make([]string, replicas)
	for i := range dirs {
		dirs[i] = ReplicaDir(i + 1)
	}
	data := struct {
		Selection string
		Strip     string
		Prefix    string
		Stride    int
		Replicas  []string
	}{preparemd.SoluteRange(residues).Selection(), Stripped, prefix, TrajStride, dirs}
	return E.render("trajfix.tmpl", data)
}
