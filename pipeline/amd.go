/*
 * amd.go, part of preparemd.
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
	"log/slog"
	"path/filepath"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/mdin"
)

// AMDOptions locate the finished stage an accelerated MD run continues
// from and the stage directory to create. InDir, OutDir and TopDir are
// relative to BaseDir.
type AMDOptions struct {
	BaseDir string
	InDir   string
	OutDir  string
	// TopDir holds the solvated structure.
	TopDir string

	MDOut   string //energy log in InDir
	Restart string //checkpoint in InDir
	PDB     string //solvated structure in TopDir
	PrevRun string //run script in InDir

	AMDInput string //control file written in OutDir
	AMDRun   string //run script written in OutDir
	Nmropt   int

	Logger *slog.Logger
}

// DefaultAMDOptions returns the file names of a production replica
// directory two levels below the output root.
func DefaultAMDOptions() AMDOptions {
	return AMDOptions{
		BaseDir:  ".",
		TopDir:   "../../top",
		MDOut:    "md.out",
		Restart:  "md.rst7",
		PDB:      LeapPDB,
		PrevRun:  RunScript,
		AMDInput: "amd.in",
		AMDRun:   RunScript,
	}
}

func (O *AMDOptions) setDefaults() {
	def := DefaultAMDOptions()
	for _, p := range []struct{ v *string; d string }{
		{&O.BaseDir, def.BaseDir}, {&O.TopDir, def.TopDir}, {&O.MDOut, def.MDOut},
		{&O.Restart, def.Restart}, {&O.PDB, def.PDB}, {&O.PrevRun, def.PrevRun},
		{&O.AMDInput, def.AMDInput}, {&O.AMDRun, def.AMDRun},
	} {
		if *p.v == "" {
			*p.v = p.d
		}
	}
	if O.Logger == nil {
		O.Logger = discardLogger()
	}
}

// Validate checks the options without touching the file system.
func (O *AMDOptions) Validate() error {
	O.setDefaults()
	if O.InDir == "" || O.OutDir == "" {
		return preparemd.Errorf(preparemd.ErrValidation, "both the input and the output stage directories are needed")
	}
	if O.Nmropt != 0 && O.Nmropt != 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "nmropt must be 0 or 1, got %d", O.Nmropt)
	}
	if filepath.Clean(filepath.Join(O.BaseDir, O.InDir)) == filepath.Clean(filepath.Join(O.BaseDir, O.OutDir)) && O.AMDRun == O.PrevRun {
		return preparemd.Errorf(preparemd.ErrValidation, "the aMD run script would overwrite %s", O.PrevRun)
	}
	return nil
}

// PrepareAMD writes the control file and run script of an accelerated MD
// stage. The boost thresholds come from the averages at the end of the
// energy log of the input stage and from the size of the solvated system.
func PrepareAMD(opts AMDOptions) (preparemd.AMDParams, error) {
	if err := opts.Validate(); err != nil {
		return preparemd.AMDParams{}, err
	}
	in := filepath.Join(opts.BaseDir, opts.InDir)
	out := filepath.Join(opts.BaseDir, opts.OutDir)

	mdout, err := preparemd.ReadFileText(filepath.Join(in, opts.MDOut))
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	pdb := filepath.Join(opts.BaseDir, opts.TopDir, opts.PDB)
	counts, err := preparemd.StructureFileCounts(pdb)
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	params, err := preparemd.AMDThresholdsFromLog(mdout, counts.Atoms, counts.Residues)
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	amdin, err := mdin.NewEngine(nil).AMD(params, opts.Nmropt)
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	prev, err := preparemd.ReadFileText(filepath.Join(in, opts.PrevRun))
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	rel, err := filepath.Rel(out, in)
	if err != nil {
		return preparemd.AMDParams{}, preparemd.NewError(preparemd.ErrValidation, out, "cannot relate the stage directories", err)
	}
	run, err := mdin.AMDRun(prev, filepath.ToSlash(filepath.Join(rel, opts.Restart)), opts.AMDInput)
	if err != nil {
		return preparemd.AMDParams{}, err
	}
	S := NewStageDirectory(out)
	S.Add(opts.AMDInput, amdin)
	S.AddScript(opts.AMDRun, run)
	if _, err := S.Write(); err != nil {
		return preparemd.AMDParams{}, err
	}
	opts.Logger.Info("aMD stage written", "dir", out, "atoms", counts.Atoms, "residues", counts.Residues,
		"ethreshp", params.EthreshP, "alphap", params.AlphaP, "ethreshd", params.EthreshD, "alphad", params.AlphaD)
	return params, nil
}
