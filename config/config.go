/*
 * config.go, part of preparemd.
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

// Package config reads the optional YAML file holding the defaults of a
// preparation run, the commands of the AmberTools programs and extra
// queue profiles.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/mdin"
	"github.com/preparemd/preparemd/queue"
)

// Tools are the commands used for each external program. They can be
// bare names, looked up in the PATH, or paths. Relative paths are taken
// from the directory preparemd is launched in.
type Tools struct {
	PDB4Amber string `yaml:"pdb4amber"`
	Cpptraj   string `yaml:"cpptraj"`
	TLeap     string `yaml:"tleap"`
}

// Config holds the parameters of a run that can be set in the
// configuration file. It can be obtained with Default or Load, or built
// by hand, in which case it should be verified with Check.
type Config struct {
	// Strip is an AMBER mask of residues removed from the input.
	Strip string `yaml:"strip"`

	// Replicas is the number of production directories, pr/001 and on.
	Replicas int `yaml:"num_mddir"`

	// NsPerReplica is the simulated time of each production directory, in ns.
	NsPerReplica int `yaml:"ns_per_mddir"`

	// IonConcentration in mM.
	IonConcentration float64 `yaml:"ion_conc"`

	// BoxSize, "a b c" in A. Empty means a box fitted to the solute.
	BoxSize string `yaml:"boxsize"`

	// Rotate is "<x|y|z> <degrees>", or empty.
	Rotate string `yaml:"rotate"`

	TrajPrefix string `yaml:"trajprefix"`

	// Queue is the profile of the run script headers.
	Queue string `yaml:"machineenv"`

	ForceField string `yaml:"fftype"`

	Frcmod []string `yaml:"frcmod"`
	Prep   []string `yaml:"prep"`
	// Mol2 entries are tleap statements, "OBJ = loadMol2 file".
	Mol2 []string `yaml:"mol2"`

	SkipLeap     bool `yaml:"skip_leap"`
	PlotSchedule bool `yaml:"plot_schedule"`

	Tools Tools `yaml:"tools"`

	// Queues are extra header profiles, by name. Each is the full block,
	// shebang included.
	Queues map[string]string `yaml:"queues"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Replicas:         3,
		NsPerReplica:     50,
		IonConcentration: 150,
		Queue:            queue.Default,
		ForceField:       mdin.DefaultForceField,
		Tools: Tools{
			PDB4Amber: "pdb4amber",
			Cpptraj:   "cpptraj",
			TLeap:     "tleap",
		},
	}
}

// Load reads the YAML file name on top of the defaults. Unknown keys are
// an error. The result is checked.
func Load(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, preparemd.NewError(preparemd.ErrMissingFile, name, "configuration file", err)
	}
	defer f.Close()
	C, err := Decode(f)
	if err != nil {
		var e *preparemd.Error
		if errors.As(err, &e) {
			e.Decorate("config.Load " + name)
		}
		return nil, err
	}
	return C, nil
}

// Decode is Load from a reader.
func Decode(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, preparemd.NewError(preparemd.ErrValidation, "", "reading configuration", errors.WithStack(err))
	}
	C := Default()
	if len(bytes.TrimSpace(b)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(C); err != nil {
			return nil, preparemd.NewError(preparemd.ErrValidation, "", "bad configuration", err)
		}
	}
	if err := C.Check(); err != nil {
		return nil, err
	}
	return C, nil
}

// Registry returns the built-in queue profiles plus those of C.
func (C *Config) Registry() (*queue.Registry, error) {
	R := queue.NewRegistry()
	for name, block := range C.Queues {
		if err := R.Register(name, block); err != nil {
			return nil, err
		}
	}
	return R, nil
}

// Check verifies every field that can be verified without touching the
// file system.
func (C *Config) Check() error {
	if C.Replicas < 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "num_mddir must be 1 or more, got %d", C.Replicas)
	}
	if C.NsPerReplica < 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "ns_per_mddir must be 1 or more, got %d", C.NsPerReplica)
	}
	if C.IonConcentration < 1 {
		return preparemd.Errorf(preparemd.ErrValidation, "ion_conc must be 1 or more, got %g", C.IonConcentration)
	}
	if C.BoxSize != "" {
		if _, err := preparemd.ParseBox(C.BoxSize); err != nil {
			return err
		}
	}
	if _, err := mdin.ParseRotation(C.Rotate); err != nil {
		return err
	}
	for _, m := range C.Mol2 {
		if _, err := mdin.ParseMol2Load(m); err != nil {
			return err
		}
	}
	if _, err := mdin.LookupForceField(C.ForceField); err != nil {
		return err
	}
	R, err := C.Registry()
	if err != nil {
		return err
	}
	if _, err := R.Header(C.Queue); err != nil {
		return err
	}
	if C.Tools.PDB4Amber == "" || C.Tools.Cpptraj == "" || C.Tools.TLeap == "" {
		return preparemd.Errorf(preparemd.ErrValidation, "every tool needs a command")
	}
	return nil
}
