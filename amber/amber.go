/*
 * amber.go, part of preparemd.
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

// Package amber drives the AmberTools programs used while preparing a
// system: pdb4amber, cpptraj and tleap. Each program has a handle that
// builds its input, runs it through a Runner and reads back what the
// following steps need.
package amber

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/preparemd/preparemd"
)

// Command is one invocation of an external program.
type Command struct {
	Name string
	Args []string
	//working directory, empty means the current one
	Dir string
}

func (C Command) String() string {
	return strings.TrimSpace(C.Name + " " + strings.Join(C.Args, " "))
}

// Result is what a finished program left behind.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs external programs. It blocks until the program exits.
type Runner interface {
	Run(ctx context.Context, c Command) (Result, error)
}

// ExecRunner runs programs with os/exec, looking them up in the PATH.
type ExecRunner struct {
	Logger *slog.Logger
}

func (R ExecRunner) logger() *slog.Logger {
	if R.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return R.Logger
}

// Run runs c. A program missing from the PATH, or one that exits with a
// non-zero status, gives an ErrExternalTool error carrying its stderr.
// A Name with a relative path is resolved against the current directory,
// not against c.Dir.
func (R ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	path, err := exec.LookPath(c.Name)
	if err != nil {
		return Result{ExitCode: -1}, preparemd.NewError(preparemd.ErrExternalTool, c.Name, "command not found, make sure AmberTools is installed", errors.WithStack(err))
	}
	//exec takes a relative path to be relative to cmd.Dir
	if path, err = filepath.Abs(path); err != nil {
		return Result{ExitCode: -1}, preparemd.NewError(preparemd.ErrExternalTool, c.Name, "can't resolve the program path", errors.WithStack(err))
	}
	cmd := exec.CommandContext(ctx, path, c.Args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	R.logger().Info("launching subprocess", "command", c.String(), "dir", c.Dir)
	err = cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		R.logger().Error("subprocess failed", "command", c.String(), "exit", res.ExitCode)
		msg := fmt.Sprintf("exit status %d", res.ExitCode)
		if s := strings.TrimSpace(stderr.String()); s != "" {
			msg += ": " + s
		}
		return res, preparemd.NewError(preparemd.ErrExternalTool, c.Name, msg, errors.Wrapf(err, "running %s", c))
	}
	return res, nil
}

func runnerOrDefault(r Runner) Runner {
	if r == nil {
		return ExecRunner{}
	}
	return r
}

// decorate adds caller to the trail of err when it is one of ours.
func decorate(err error, caller string) error {
	var e *preparemd.Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
