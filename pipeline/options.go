/*
 * options.go, part of preparemd.
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

package pipeline

import (
	"io"
	"log/slog"
	"os"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/amber"
	"github.com/preparemd/preparemd/config"
	"github.com/preparemd/preparemd/mdin"
	"github.com/preparemd/preparemd/queue"
)

// Options are the inputs of a preparation run.
type Options struct {
	// Input is the PDB structure to prepare, plain or compressed.
	Input string
	// DistDir receives the top and amber directories.
	DistDir string
	// Strip is an AMBER mask of atoms removed from Input.
	Strip string

	Replicas         int
	NsPerReplica     int
	IonConcentration float64 //mM

	// BoxSize "a b c" fixes the periodic box. Empty means the box cpptraj fits to the solute.
	BoxSize string
	// Rotate "<x|y|z> <degrees>" rotates the solute before solvation.
	Rotate string
	// TrajPrefix prefixes the files written by trajfix.in.
	TrajPrefix string
	// SSLink replaces the disulfide list found by pdb4amber.
	SSLink string

	Queue      string
	ForceField string
	Frcmod     []string
	Prep       []string
	// Mol2 entries are tleap statements, "OBJ = loadMol2 file".
	Mol2 []string

	// SkipLeap writes leap.in but does not run tleap.
	SkipLeap     bool
	PlotSchedule bool

	Tools  config.Tools
	Queues *queue.Registry
	Runner amber.Runner
	Logger *slog.Logger
}

// OptionsFromConfig copies the settings of C. Input and DistDir are left empty.
func OptionsFromConfig(C *config.Config) (Options, error) {
	R, err := C.Registry()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Strip:            C.Strip,
		Replicas:         C.Replicas,
		NsPerReplica:     C.NsPerReplica,
		IonConcentration: C.IonConcentration,
		BoxSize:          C.BoxSize,
		Rotate:           C.Rotate,
		TrajPrefix:       C.TrajPrefix,
		Queue:            C.Queue,
		ForceField:       C.ForceField,
		Frcmod:           append([]string(nil), C.Frcmod...),
		Prep:             append([]string(nil), C.Prep...),
		Mol2:             append([]string(nil), C.Mol2...),
		SkipLeap:         C.SkipLeap,
		PlotSchedule:     C.PlotSchedule,
		Tools:            C.Tools,
		Queues:           R,
	}, nil
}

// Replica directories are numbered with three digits.
const maxReplicas = 999

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setDefaults fills the fields whose zero value is not usable.
func (O *Options) setDefaults() {
	if O.Queue == "" {
		O.Queue = queue.Default
	}
	if O.ForceField == "" {
		O.ForceField = mdin.DefaultForceField
	}
	def := config.Default().Tools
	if O.Tools.PDB4Amber == "" {
		O.Tools.PDB4Amber = def.PDB4Amber
	}
	if O.Tools.Cpptraj == "" {
		O.Tools.Cpptraj = def.Cpptraj
	}
	if O.Tools.TLeap == "" {
		O.Tools.TLeap = def.TLeap
	}
	if O.Queues == nil {
		O.Queues = queue.NewRegistry()
	}
	if O.Logger == nil {
		O.Logger = discardLogger()
	}
	if O.Runner == nil {
		O.Runner = amber.ExecRunner{Logger: O.Logger}
	}
}

// Validate checks every option. It only reads the file system, to check
// that the input files exist, and never writes to it.
func (O *Options) Validate() error {
	O.setDefaults()
	if O.Input == "" {
		return preparemd.Errorf(preparemd.ErrValidation, "no input structure given")
	}
	if O.DistDir == "" {
		return preparemd.Errorf(preparemd.ErrValidation, "no output directory given")
	}
	if O.Replicas < 1 || O.Replicas > maxReplicas {
		return preparemd.Errorf(preparemd.ErrValidation, "the number of production directories must be between 1 and %d, got %d", maxReplicas, O.Replicas)
	}
	if O.NsPerReplica < 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "the ns per production directory must be 1 or more, got %d", O.NsPerReplica)
	}
	if O.IonConcentration < 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "the ion concentration must be 1 or more, got %g", O.IonConcentration)
	}
	if O.BoxSize != "" {
		if _, err := preparemd.ParseBox(O.BoxSize); err != nil {
			return err
		}
	}
	if _, err := mdin.ParseRotation(O.Rotate); err != nil {
		return err
	}
	if _, err := O.Queues.Header(O.Queue); err != nil {
		return err
	}
	if _, err := mdin.LookupForceField(O.ForceField); err != nil {
		return err
	}
	files := []string{O.Input}
	if O.SSLink != "" {
		files = append(files, O.SSLink)
	}
	files = append(files, O.Frcmod...)
	files = append(files, O.Prep...)
	for _, m := range O.Mol2 {
		load, err := mdin.ParseMol2Load(m)
		if err != nil {
			return err
		}
		files = append(files, load.File)
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return preparemd.NewError(preparemd.ErrMissingFile, f, "", err)
		}
	}
	return nil
}
