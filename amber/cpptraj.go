/*
 * cpptraj.go, part of preparemd.
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

	"github.com/pkg/errors"

	"github.com/preparemd/preparemd"
)

// CpptrajHandle runs cpptraj scripts.
type CpptrajHandle struct {
	command string
	runner  Runner
}

// NewCpptrajHandle returns a handle with default settings that runs
// through r. A nil r means an ExecRunner.
func NewCpptrajHandle(r Runner) *CpptrajHandle {
	O := &CpptrajHandle{runner: runnerOrDefault(r)}
	O.SetDefaults()
	return O
}

func (O *CpptrajHandle) SetDefaults() {
	O.command = "cpptraj"
}

func (O *CpptrajHandle) SetCommand(name string) {
	O.command = name
}

func (O *CpptrajHandle) Command() string {
	return O.command
}

// Run writes script to a temporary file in dir and runs cpptraj on it
// from dir, so paths in the script are relative to dir. The file is removed
// afterwards.
func (O *CpptrajHandle) Run(ctx context.Context, dir, script string) error {
	f, err := os.CreateTemp(dir, "cpptraj-*.in")
	if err != nil {
		return preparemd.NewError(preparemd.ErrMissingFile, dir, "cannot write the cpptraj script", errors.WithStack(err))
	}
	name := f.Name()
	defer os.Remove(name)
	_, err = f.WriteString(script)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return preparemd.NewError(preparemd.ErrMissingFile, name, "cannot write the cpptraj script", errors.WithStack(err))
	}
	c := Command{Name: O.command, Args: []string{"-i", name}, Dir: dir}
	if _, err := O.runner.Run(ctx, c); err != nil {
		return decorate(err, "CpptrajHandle.Run")
	}
	return nil
}
