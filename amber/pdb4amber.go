/*
 * pdb4amber.go, part of preparemd.
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

package amber

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/preparemd/preparemd"
)

// terminalHydrogens are stripped from every structure, since tleap cannot
// place the N-terminal hydrogens pdb4amber keeps.
const terminalHydrogens = "@H, H2, H3, HG"

// StripMask joins the user's mask, if any, with the terminal hydrogens.
func StripMask(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return terminalHydrogens
	}
	return user + " | " + terminalHydrogens
}

// SSLinkPath is the disulfide list pdb4amber writes next to output.
func SSLinkPath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + "_sslink"
}

// PDB4AmberHandle cleans an input structure with pdb4amber.
type PDB4AmberHandle struct {
	command string
	strip   string
	runner  Runner
}

// NewPDB4AmberHandle returns a handle with default settings that runs
// through r. A nil r means an ExecRunner.
func NewPDB4AmberHandle(r Runner) *PDB4AmberHandle {
	O := &PDB4AmberHandle{runner: runnerOrDefault(r)}
	O.SetDefaults()
	return O
}

func (O *PDB4AmberHandle) SetDefaults() {
	O.command = "pdb4amber"
	O.strip = ""
}

func (O *PDB4AmberHandle) SetCommand(name string) {
	O.command = name
}

func (O *PDB4AmberHandle) Command() string {
	return O.command
}

// SetStrip sets an extra AMBER mask of atoms to remove, e.g. ":793-807".
func (O *PDB4AmberHandle) SetStrip(mask string) {
	O.strip = mask
}

// Run cleans input into output and returns the path of the disulfide list
// pdb4amber writes alongside.
func (O *PDB4AmberHandle) Run(ctx context.Context, input, output string) (string, error) {
	if _, err := os.Stat(input); err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, input, "input structure", err)
	}
	c := Command{Name: O.command, Args: []string{"-i", input, "-o", output, "-s", StripMask(O.strip)}}
	if _, err := O.runner.Run(ctx, c); err != nil {
		return "", decorate(err, "PDB4AmberHandle.Run")
	}
	if _, err := os.Stat(output); err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, output, "pdb4amber wrote no structure", err)
	}
	return SSLinkPath(output), nil
}
