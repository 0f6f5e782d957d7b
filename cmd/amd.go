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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preparemd/preparemd/pipeline"
)

func newAMDCommand(verbose *bool) *cobra.Command {
	opts := pipeline.DefaultAMDOptions()
	amd := &cobra.Command{
		Use:   "amd",
		Short: "Prepare an accelerated MD stage from a finished conventional one",
		Long: `amd reads the energy averages at the end of the mdout of a finished
stage, derives the dual-boost thresholds from them and from the size of the
solvated system, and writes the aMD input file and run script of a new stage
that restarts from the finished one.

Examples:
  preparemd amd --indir 001 --outdir amd1 --basedir out/amber/pr --topdir ../../top
  preparemd amd --indir pr/003 --outdir pr/amd3 --basedir out/amber --topdir ../top --nmropt 1`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Logger = newLogger(cmd.ErrOrStderr(), *verbose)
			params, err := pipeline.PrepareAMD(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ethreshp=%.2f alphap=%.2f ethreshd=%.2f alphad=%.2f\n",
				params.EthreshP, params.AlphaP, params.EthreshD, params.AlphaD)
			return nil
		},
	}
	fs := amd.Flags()
	fs.StringVar(&opts.InDir, "indir", "", "Stage directory the aMD run continues from, relative to basedir")
	fs.StringVar(&opts.OutDir, "outdir", "", "Directory that will store the aMD input files, relative to basedir")
	fs.StringVar(&opts.BaseDir, "basedir", opts.BaseDir, "Base directory")
	fs.StringVar(&opts.TopDir, "topdir", opts.TopDir, "Directory with the solvated structure, relative to basedir")
	fs.StringVar(&opts.MDOut, "mdoutfile", opts.MDOut, "Energy log in indir")
	fs.StringVar(&opts.Restart, "rstfile", opts.Restart, "Restart file in indir")
	fs.StringVar(&opts.PDB, "pdbfile", opts.PDB, "Solvated structure in topdir")
	fs.StringVar(&opts.AMDInput, "amdinputfile", opts.AMDInput, "aMD input file written in outdir")
	fs.StringVar(&opts.AMDRun, "amdrunfile", opts.AMDRun, "Run script written in outdir")
	fs.StringVar(&opts.PrevRun, "prerunfile", opts.PrevRun, "Run script of indir, used as the template of the new one")
	fs.IntVar(&opts.Nmropt, "nmropt", opts.Nmropt, "Use NMR restraints, 0 or 1")
	amd.MarkFlagRequired("indir")
	amd.MarkFlagRequired("outdir")
	return amd
}
