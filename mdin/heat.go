/*
 * heat.go, part of preparemd.
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
	"fmt"

	"github.com/preparemd/preparemd"
)

// HeatStage is one row of the heating and equilibration table.
type HeatStage struct {
	Index       int
	Restart     preparemd.RestartMode
	Steps       int
	Weight      float64
	Temperature preparemd.TemperatureSchedule
	Ensemble    preparemd.Ensemble
}

const (
	// HeatStages is the length of the heating series.
	HeatStages = 9
	// Target temperature of the equilibrated system, in K.
	Target     = 300.0
	heatStart  = 10.0
	rampSteps  = 100000
	equilSteps = 50000
)

var heatWeights = [HeatStages]float64{10.0, 10.0, 5.0, 2.0, 1.0, 0.5, 0.2, 0.1, 0.0}

// HeatSchedule returns the nine stages. The first heats from 10 K to the
// target at constant volume, the rest relax the restraints at constant pressure.
func HeatSchedule() []HeatStage {
	s := make([]HeatStage, HeatStages)
	for i := range s {
		s[i] = HeatStage{
			Index:       i + 1,
			Restart:     preparemd.Continue,
			Steps:       equilSteps,
			Weight:      heatWeights[i],
			Temperature: preparemd.FixedTemperature(Target),
			Ensemble:    preparemd.NPT,
		}
	}
	s[0].Restart = preparemd.Fresh
	s[0].Steps = rampSteps
	s[0].Temperature = preparemd.RampTemperature(heatStart, Target, 0, rampSteps)
	s[0].Ensemble = preparemd.NVT
	return s
}

// MinimizedCheckpoint is the heat-relative path of the minimized structure.
const MinimizedCheckpoint = "../minimize/min2.rst7"

// HeatFile returns the control file name of stage k.
func HeatFile(k int) string {
	return fmt.Sprintf("md%d.in", k)
}

// HeatCheckpoint returns the restart file name written by stage k.
func HeatCheckpoint(k int) string {
	return fmt.Sprintf("md%d.rst7", k)
}

// HeatRecords builds the records of the nine stages, restraining residues
// 1..residues. Each stage starts from the checkpoint of the previous one,
// the first from the minimized structure.
func HeatRecords(residues int, queue string) ([]preparemd.Record, error) {
	if residues < 1 {
		return nil, preparemd.Errorf(preparemd.ErrValidation, "need at least one solute residue, got %d", residues)
	}
	sched := HeatSchedule()
	recs := make([]preparemd.Record, 0, len(sched))
	prior := MinimizedCheckpoint
	for _, st := range sched {
		recs = append(recs, preparemd.Record{
			Restart:         st.Restart,
			Steps:           st.Steps,
			RestraintWeight: st.Weight,
			Restrained:      preparemd.SoluteRange(residues),
			Temperature:     st.Temperature,
			Ensemble:        st.Ensemble,
			Queue:           queue,
			PriorCheckpoint: prior,
		})
		prior = HeatCheckpoint(st.Index)
	}
	return recs, nil
}
