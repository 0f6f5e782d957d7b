/*
 * manifest.go, part of preparemd.
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
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/preparemd/preparemd"
)

// ManifestName is the provenance record written at the root of the output.
const ManifestName = "manifest.yaml"

// Manifest records what a run was given, what it derived and what it wrote.
type Manifest struct {
	RunID   string `yaml:"run_id"`
	Created string `yaml:"created"`
	State   string `yaml:"state"`

	Input            string  `yaml:"input"`
	ForceField       string  `yaml:"fftype"`
	Queue            string  `yaml:"machineenv"`
	Replicas         int     `yaml:"num_mddir"`
	NsPerReplica     int     `yaml:"ns_per_mddir"`
	IonConcentration float64 `yaml:"ion_conc"`
	SkipLeap         bool    `yaml:"skip_leap"`

	Residues   int      `yaml:"residues"`
	Atoms      int      `yaml:"atoms"`
	Disulfides []string `yaml:"disulfides,omitempty"`
	// Box is the box given to tleap, FinalBox the one tleap reports.
	Box      string   `yaml:"box"`
	Ions     int      `yaml:"ions"`
	FinalBox string   `yaml:"final_box,omitempty"`
	Charge   *float64 `yaml:"charge,omitempty"`
	Warnings []string `yaml:"warnings,omitempty"`

	// Files are relative to the output directory.
	Files []string `yaml:"files"`
}

func newManifest() *Manifest {
	return &Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC().Format(time.RFC3339),
	}
}

func (M *Manifest) addFiles(root string, paths ...string) {
	for _, p := range paths {
		if rel, err := filepath.Rel(root, p); err == nil {
			p = rel
		}
		M.Files = append(M.Files, filepath.ToSlash(p))
	}
}

// Write stores M as YAML in name.
func (M *Manifest) Write(name string) error {
	b, err := yaml.Marshal(M)
	if err != nil {
		return preparemd.NewError(preparemd.ErrValidation, name, "cannot encode manifest", err)
	}
	if err := os.WriteFile(name, b, 0o644); err != nil {
		return preparemd.NewError(preparemd.ErrMissingFile, name, "cannot write manifest", err)
	}
	return nil
}

// ReadManifest loads a manifest written by a previous run.
func ReadManifest(name string) (*Manifest, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, preparemd.NewError(preparemd.ErrMissingFile, name, "", err)
	}
	M := new(Manifest)
	if err := yaml.Unmarshal(b, M); err != nil {
		return nil, preparemd.NewError(preparemd.ErrMalformedLog, name, "bad manifest", err)
	}
	return M, nil
}
