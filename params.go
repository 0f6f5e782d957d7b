/*
 * params.go, part of preparemd.
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

package preparemd

import "fmt"

// RestartMode tells the MD engine whether to read velocities from the
// previous checkpoint.
type RestartMode int

const (
	Fresh RestartMode = iota
	Continue
)

func (r RestartMode) String() string {
	if r == Continue {
		return "CONTINUE"
	}
	return "FRESH"
}

// Ensemble selects the pressure-coupling keywords.
type Ensemble int

const (
	NVT Ensemble = iota
	NPT
)

func (e Ensemble) String() string {
	if e == NPT {
		return "NPT"
	}
	return "NVT"
}

// ResidueRange is an inclusive, 1-based residue index range.
type ResidueRange struct {
	First int
	Last  int
}

// SoluteRange returns the range 1..residues.
func SoluteRange(residues int) ResidueRange {
	return ResidueRange{First: 1, Last: residues}
}

// Mask returns the AMBER restraint mask for the heavy atoms of the range.
func (R ResidueRange) Mask() string {
	return fmt.Sprintf(":%d-%d & !@H=", R.First, R.Last)
}

// Selection returns the plain residue selection, ":First-Last".
func (R ResidueRange) Selection() string {
	return fmt.Sprintf(":%d-%d", R.First, R.Last)
}

func (R ResidueRange) valid() bool {
	return R.First >= 1 && R.Last >= R.First
}

// TemperatureSchedule is either a fixed target temperature or a linear ramp
// from Start to Target over the steps FirstStep..LastStep.
type TemperatureSchedule struct {
	Ramp      bool
	Start     float64
	Target    float64
	FirstStep int
	LastStep  int
}

// FixedTemperature keeps the system at t Kelvin.
func FixedTemperature(t float64) TemperatureSchedule {
	return TemperatureSchedule{Start: t, Target: t}
}

// RampTemperature heats linearly from start to target K between firstStep and lastStep.
func RampTemperature(start, target float64, firstStep, lastStep int) TemperatureSchedule {
	return TemperatureSchedule{Ramp: true, Start: start, Target: target, FirstStep: firstStep, LastStep: lastStep}
}

// Record holds the parameters threaded through the rendering of one stage.
// It is a plain value: copies are independent.
type Record struct {
	Restart         RestartMode
	Steps           int
	RestraintWeight float64
	Restrained      ResidueRange
	Temperature     TemperatureSchedule
	Ensemble        Ensemble
	Queue           string
	//relative path to the restart file of the previous stage, empty for the first stage
	PriorCheckpoint string
}

// Validate checks the fields that every template relies on. Restrained
// is only checked when a restraint weight is set or the range is non-zero.
func (R Record) Validate() error {
	if R.Steps <= 0 {
		return Errorf(ErrValidation, "step count must be positive, got %d", R.Steps)
	}
	if R.RestraintWeight < 0 {
		return Errorf(ErrValidation, "restraint weight must be non-negative, got %g", R.RestraintWeight)
	}
	if (R.Restrained != ResidueRange{}) && !R.Restrained.valid() {
		return Errorf(ErrValidation, "bad restrained residue range %d-%d", R.Restrained.First, R.Restrained.Last)
	}
	if R.Temperature.Ramp && R.Temperature.LastStep < R.Temperature.FirstStep {
		return Errorf(ErrValidation, "temperature ramp ends (%d) before it starts (%d)", R.Temperature.LastStep, R.Temperature.FirstStep)
	}
	return nil
}
