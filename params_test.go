/*
 * params_test.go, part of preparemd.
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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResidueRangeMask(Te *testing.T) {
	r := SoluteRange(363)
	assert.Equal(Te, ":1-363 & !@H=", r.Mask())
	assert.Equal(Te, ":1-363", r.Selection())
}

func TestRecordValidate(Te *testing.T) {
	good := Record{
		Restart:         Fresh,
		Steps:           100000,
		RestraintWeight: 10,
		Restrained:      SoluteRange(10),
		Temperature:     RampTemperature(10, 300, 0, 100000),
		Ensemble:        NVT,
	}
	assert.NoError(Te, good.Validate())

	bad := []func(r *Record){
		func(r *Record) { r.Steps = 0 },
		func(r *Record) { r.RestraintWeight = -1 },
		func(r *Record) { r.Restrained = ResidueRange{5, 2} },
		func(r *Record) { r.Temperature = RampTemperature(10, 300, 100, 0) },
	}
	for i, mutate := range bad {
		r := good
		mutate(&r)
		assert.ErrorIs(Te, r.Validate(), ErrValidation, "case %d", i)
	}
}

func TestEnumStrings(Te *testing.T) {
	assert.Equal(Te, "FRESH", Fresh.String())
	assert.Equal(Te, "CONTINUE", Continue.String())
	assert.Equal(Te, "NVT", NVT.String())
	assert.Equal(Te, "NPT", NPT.String())
}
