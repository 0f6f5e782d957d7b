/*
 * scripts.go, part of preparemd.
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

package mdin

import (
	"path"
	"regexp"
	"strings"

	"github.com/preparemd/preparemd"
)

// MinimizeRun renders minimize/run.sh. It runs both minimizations unless
// min2.rst7 already exists.
func (E *Engine) MinimizeRun(queue string) (string, error) {
	h, err := E.header(queue)
	if err != nil {
		return "", err
	}
	return E.render("minimize_run", struct{ Header string }{h})
}

type heatScript struct {
	Header string
	First  string
	Stages int
	Prior  string
	//only for the total run
	Replicas int
}

// HeatRun renders heat/run.sh, which chains the nine stages from the
// minimized structure and skips every stage whose checkpoint exists.
func (E *Engine) HeatRun(queue string) (string, error) {
	h, err := E.header(queue)
	if err != nil {
		return "", err
	}
	return E.render("heat_run", heatScript{Header: h, First: MinimizedCheckpoint, Stages: HeatStages})
}

// ProductionRun renders the run.sh of the replica described by rec,
// starting from rec.PriorCheckpoint.
func (E *Engine) ProductionRun(rec preparemd.Record) (string, error) {
	if rec.PriorCheckpoint == "" {
		return "", preparemd.Errorf(preparemd.ErrValidation, "production replica needs a checkpoint to start from")
	}
	h, err := E.header(rec.Queue)
	if err != nil {
		return "", err
	}
	data := struct {
		Header string
		Prior  string
	}{h, rec.PriorCheckpoint}
	return E.render("production_run", data)
}

// TotalRun renders amber/totalrun.sh, which runs minimization, heating and
// the given number of production replicas in one job.
func (E *Engine) TotalRun(replicas int, queue string) (string, error) {
	if replicas < 1 {
		return "", preparemd.Errorf(preparemd.ErrValidation, "need at least one replica, got %d", replicas)
	}
	h, err := E.header(queue)
	if err != nil {
		return "", err
	}
	data := heatScript{Header: h, First: MinimizedCheckpoint, Stages: HeatStages, Prior: HeatedCheckpoint, Replicas: replicas}
	return E.render("total_run", data)
}

var (
	rstfileLine = regexp.MustCompile(`(?m)^([ \t]*)rstfile=.*$`)
	mdinArg     = regexp.MustCompile(`\bmd\.in\b`)
)

// AMDRun derives the run script of an accelerated MD stage from the
// script prev of a finished stage. The restart assignment is pointed at
// checkpoint, a path relative to the new stage directory, and md.in is
// replaced by amdin.
func AMDRun(prev, checkpoint, amdin string) (string, error) {
	if !rstfileLine.MatchString(prev) {
		return "", preparemd.Errorf(preparemd.ErrMalformedLog, "previous run script has no rstfile= assignment")
	}
	if amdin == "" {
		amdin = "amd.in"
	}
	checkpoint = path.Clean(strings.ReplaceAll(checkpoint, "\\", "/"))
	out := rstfileLine.ReplaceAllString(prev, `${1}rstfile="`+strings.ReplaceAll(checkpoint, "$", "$$")+`"`)
	return mdinArg.ReplaceAllLiteralString(out, amdin), nil
}
