/*
 * root.go, part of preparemd.
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

// Package cmd implements the preparemd command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/preparemd/preparemd/amber"
	"github.com/preparemd/preparemd/config"
	"github.com/preparemd/preparemd/pipeline"
)

// runner replaces the AmberTools programs when not nil. Tests set it.
var runner amber.Runner

type prepareFlags struct {
	configFile string
	verbose    bool

	input   string
	distdir string
	sslink  string

	// set holds the values of the flags that mirror config keys.
	set config.Config
}

// overrides copy a flag given on the command line over the config.
var overrides = map[string]func(dst, src *config.Config){
	"strip":         func(d, s *config.Config) { d.Strip = s.Strip },
	"num-mddir":     func(d, s *config.Config) { d.Replicas = s.Replicas },
	"ns-per-mddir":  func(d, s *config.Config) { d.NsPerReplica = s.NsPerReplica },
	"ion-conc":      func(d, s *config.Config) { d.IonConcentration = s.IonConcentration },
	"boxsize":       func(d, s *config.Config) { d.BoxSize = s.BoxSize },
	"rotate":        func(d, s *config.Config) { d.Rotate = s.Rotate },
	"trajprefix":    func(d, s *config.Config) { d.TrajPrefix = s.TrajPrefix },
	"machineenv":    func(d, s *config.Config) { d.Queue = s.Queue },
	"fftype":        func(d, s *config.Config) { d.ForceField = s.ForceField },
	"frcmod":        func(d, s *config.Config) { d.Frcmod = s.Frcmod },
	"prep":          func(d, s *config.Config) { d.Prep = s.Prep },
	"mol2":          func(d, s *config.Config) { d.Mol2 = s.Mol2 },
	"skip-leap":     func(d, s *config.Config) { d.SkipLeap = s.SkipLeap },
	"plot-schedule": func(d, s *config.Config) { d.PlotSchedule = s.PlotSchedule },
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewRootCommand builds the preparemd command and its subcommands.
func NewRootCommand() *cobra.Command {
	f := &prepareFlags{}
	root := &cobra.Command{
		Use:   "preparemd",
		Short: "Prepare AMBER molecular dynamics simulations",
		Long: `preparemd cleans, centres and solvates a protein structure with the
AmberTools programs and writes the input files and run scripts of the
minimization, heating and production stages.

Examples:
  preparemd -f protein.pdb -o out                       # 3 replicas of 50 ns
  preparemd -f protein.pdb -o out --boxsize "120 120 120" --num-mddir 10
  preparemd -f protein.pdb -o out --config preparemd.yaml --skip-leap
  preparemd amd --indir pr/001 --outdir pr/amd1 --basedir out/amber --topdir ../top`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(cmd, f)
		},
	}
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "Log every step")
	addPrepareFlags(root.Flags(), f)
	root.MarkFlagRequired("file")
	root.MarkFlagRequired("distdir")

	root.AddCommand(newAMDCommand(&f.verbose))
	return root
}

func addPrepareFlags(fs *pflag.FlagSet, f *prepareFlags) {
	def := config.Default()
	fs.StringVarP(&f.input, "file", "f", "", "Input PDB file, optionally gzip or zstd compressed")
	fs.StringVarP(&f.distdir, "distdir", "o", "", "Directory that will store the top and amber directories")
	fs.StringVar(&f.sslink, "sslink", "", "Disulfide list to use instead of the one pdb4amber finds, in the pdb4amber sslink format")
	fs.StringVar(&f.configFile, "config", "", "YAML file with defaults for these flags, tool commands and queue profiles")

	fs.StringVar(&f.set.Strip, "strip", def.Strip, "AMBER mask of a region removed before the simulation, e.g. a signal peptide")
	fs.IntVar(&f.set.Replicas, "num-mddir", def.Replicas, "Number of production directories in amber/pr")
	fs.IntVar(&f.set.NsPerReplica, "ns-per-mddir", def.NsPerReplica, "Nanoseconds simulated in each production directory")
	fs.Float64Var(&f.set.IonConcentration, "ion-conc", def.IonConcentration, "Ion concentration in the box (mM)")
	fs.StringVar(&f.set.BoxSize, "boxsize", def.BoxSize, `Periodic box, e.g. "120 120 120". Default is a 10 A margin around the solute`)
	fs.StringVar(&f.set.Rotate, "rotate", def.Rotate, `Rotate the solute before solvation, e.g. "x 90"`)
	fs.StringVarP(&f.set.TrajPrefix, "trajprefix", "t", def.TrajPrefix, "Prefix of the files written by pr/trajfix.in")
	fs.StringVarP(&f.set.Queue, "machineenv", "m", def.Queue, "Queue profile of the run scripts")
	fs.StringVar(&f.set.ForceField, "fftype", def.ForceField, "Protein force field")
	fs.StringSliceVar(&f.set.Frcmod, "frcmod", def.Frcmod, "Extra frcmod files")
	fs.StringSliceVar(&f.set.Prep, "prep", def.Prep, "Extra prep files")
	fs.StringArrayVar(&f.set.Mol2, "mol2", def.Mol2, `Extra mol2 files, as "OBJ = loadMol2 file"`)
	fs.BoolVar(&f.set.SkipLeap, "skip-leap", def.SkipLeap, "Write leap.in but do not run tleap")
	fs.BoolVar(&f.set.PlotSchedule, "plot-schedule", def.PlotSchedule, "Plot the heating schedule to amber/heat/schedule.png")
}

// loadConfig reads the config file, if any, and lays the flags that were
// given explicitly over it.
func loadConfig(fs *pflag.FlagSet, f *prepareFlags) (*config.Config, error) {
	C := config.Default()
	if f.configFile != "" {
		var err error
		if C, err = config.Load(f.configFile); err != nil {
			return nil, err
		}
	}
	for name, apply := range overrides {
		if fs.Changed(name) {
			apply(C, &f.set)
		}
	}
	if err := C.Check(); err != nil {
		return nil, err
	}
	return C, nil
}

func runPrepare(cmd *cobra.Command, f *prepareFlags) error {
	C, err := loadConfig(cmd.Flags(), f)
	if err != nil {
		return err
	}
	opts, err := pipeline.OptionsFromConfig(C)
	if err != nil {
		return err
	}
	opts.Input = f.input
	opts.DistDir = f.distdir
	opts.SSLink = f.sslink
	opts.Logger = newLogger(cmd.ErrOrStderr(), f.verbose)
	opts.Runner = runner
	P, err := pipeline.Prepare(cmd.Context(), opts)
	if err != nil {
		return err
	}
	M := P.Manifest()
	fmt.Fprintf(cmd.OutOrStdout(), "prepared %s in %s: %d residues, %d ions, %d production directories (run %s)\n",
		f.input, f.distdir, M.Residues, M.Ions, M.Replicas, M.RunID)
	return nil
}

// Execute runs the command line.
func Execute() error {
	return NewRootCommand().Execute()
}
