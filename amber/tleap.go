/*
 * tleap.go, part of preparemd.
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
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/preparemd/preparemd"
)

const (
	LeapInput = "leap.in"
	LeapLog   = "leap.log"
)

// LeapResult holds what tleap reports about the solvated system.
type LeapResult struct {
	Box    preparemd.BoxGeometry
	Charge float64
}

const (
	boxMarker    = "Total vdw box size:"
	chargeMarker = "Total perturbed charge:"
)

// ParseLeapLog reads the final box size and the perturbed charge from a
// tleap log. When a marker appears more than once the last one wins.
func ParseLeapLog(r io.Reader) (LeapResult, error) {
	var res LeapResult
	var haveBox, haveCharge bool
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if i := strings.Index(line, boxMarker); i >= 0 {
			rest := strings.Replace(line[i+len(boxMarker):], "angstroms.", "", 1)
			box, err := preparemd.ParseBox(rest)
			if err != nil {
				return res, preparemd.NewError(preparemd.ErrMalformedLog, "", "bad box line: "+line, err)
			}
			res.Box, haveBox = box, true
			continue
		}
		if i := strings.Index(line, chargeMarker); i >= 0 {
			f := strings.Fields(line[i+len(chargeMarker):])
			if len(f) == 0 {
				return res, preparemd.Errorf(preparemd.ErrMalformedLog, "bad charge line: %s", line)
			}
			q, err := strconv.ParseFloat(f[0], 64)
			if err != nil {
				return res, preparemd.NewError(preparemd.ErrMalformedLog, "", "bad charge line: "+line, err)
			}
			res.Charge, haveCharge = q, true
		}
	}
	if err := s.Err(); err != nil {
		return res, preparemd.NewError(preparemd.ErrMalformedLog, "", "reading leap log", errors.WithStack(err))
	}
	if !haveBox {
		return res, preparemd.Errorf(preparemd.ErrMalformedLog, "no %q line", boxMarker)
	}
	if !haveCharge {
		return res, preparemd.Errorf(preparemd.ErrMalformedLog, "no %q line", chargeMarker)
	}
	return res, nil
}

// ReadLeapLog parses the tleap log in the file name.
func ReadLeapLog(name string) (LeapResult, error) {
	f, err := preparemd.OpenFile(name)
	if err != nil {
		return LeapResult{}, err
	}
	defer f.Close()
	res, err := ParseLeapLog(f)
	if err != nil {
		var e *preparemd.Error
		if errors.As(err, &e) && e.FileName() == "" {
			return res, preparemd.NewError(preparemd.ErrMalformedLog, name, "", err)
		}
	}
	return res, err
}

// TLeapHandle builds the topology with tleap.
type TLeapHandle struct {
	command string
	runner  Runner
}

// NewTLeapHandle returns a handle with default settings that runs
// through r. A nil r means an ExecRunner.
func NewTLeapHandle(r Runner) *TLeapHandle {
	O := &TLeapHandle{runner: runnerOrDefault(r)}
	O.SetDefaults()
	return O
}

func (O *TLeapHandle) SetDefaults() {
	O.command = "tleap"
}

func (O *TLeapHandle) SetCommand(name string) {
	O.command = name
}

func (O *TLeapHandle) Command() string {
	return O.command
}

// Run runs tleap on dir/leap.in from dir and parses the fresh dir/leap.log.
// A stale log is removed first.
func (O *TLeapHandle) Run(ctx context.Context, dir string) (LeapResult, error) {
	in := filepath.Join(dir, LeapInput)
	if _, err := os.Stat(in); err != nil {
		return LeapResult{}, preparemd.NewError(preparemd.ErrMissingFile, in, "", err)
	}
	logname := filepath.Join(dir, LeapLog)
	if err := os.Remove(logname); err != nil && !os.IsNotExist(err) {
		return LeapResult{}, preparemd.NewError(preparemd.ErrMissingFile, logname, "cannot remove the old log", errors.WithStack(err))
	}
	c := Command{Name: O.command, Args: []string{"-f", LeapInput}, Dir: dir}
	if _, err := O.runner.Run(ctx, c); err != nil {
		return LeapResult{}, decorate(err, "TLeapHandle.Run")
	}
	res, err := ReadLeapLog(logname)
	return res, decorate(err, "TLeapHandle.Run")
}
