/*
 * box_test.go, part of preparemd.
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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//TestIonCount checks the reference point used to calibrate the
//ion factor: 156 ions for a 120 A cube at 150 mM.
func TestIonCount(Te *testing.T) {
	box, err := NewBox(120, 120, 120)
	require.NoError(Te, err)
	n, err := IonCount(box, 150)
	require.NoError(Te, err)
	assert.Equal(Te, 156, n)
}

func TestIonCountMonotonic(Te *testing.T) {
	prev := -1
	for edge := 20.0; edge <= 200; edge += 7.5 {
		n, err := IonCount(BoxGeometry{edge, edge, edge}, 150)
		require.NoError(Te, err)
		assert.GreaterOrEqual(Te, n, prev, "edge %g", edge)
		prev = n
	}
	prev = -1
	for conc := 1.0; conc <= 1000; conc += 13 {
		n, err := IonCount(BoxGeometry{90, 100, 110}, conc)
		require.NoError(Te, err)
		assert.GreaterOrEqual(Te, n, prev, "concentration %g", conc)
		prev = n
	}
}

func TestIonCountInvalid(Te *testing.T) {
	cases := []struct {
		box  BoxGeometry
		conc float64
	}{
		{BoxGeometry{0, 10, 10}, 150},
		{BoxGeometry{10, -1, 10}, 150},
		{BoxGeometry{10, 10, 10}, 0},
		{BoxGeometry{10, 10, 10}, -5},
		{BoxGeometry{math.Inf(1), 120, 120}, 150},
		{BoxGeometry{math.NaN(), 120, 120}, 150},
		{BoxGeometry{1e300, 1e300, 1e300}, 150},
		{BoxGeometry{1e10, 1e10, 1e10}, 150},
		{BoxGeometry{120, 120, 120}, math.Inf(1)},
		{BoxGeometry{120, 120, 120}, math.NaN()},
	}
	for _, c := range cases {
		_, err := IonCount(c.box, c.conc)
		require.Error(Te, err)
		assert.True(Te, errors.Is(err, ErrInvalidBox), "%v", err)
		assert.Equal(Te, KindValidation, KindOf(err))
	}
}

func TestParseBox(Te *testing.T) {
	box, err := ParseBox(" 120 110.5  100 ")
	require.NoError(Te, err)
	assert.Equal(Te, BoxGeometry{120, 110.5, 100}, box)
	assert.Equal(Te, "120 110.5 100", box.String())
	assert.InDelta(Te, 120*110.5*100, box.Volume(), 1e-6)

	for _, bad := range []string{"", "120 120", "1 2 3 4", "a 1 1", "10 0 10", "10 10 -3",
		"inf 120 120", "120 -Inf 120", "NaN 1 1", "1e300 1e300 1e300"} {
		_, err := ParseBox(bad)
		assert.ErrorIs(Te, err, ErrInvalidBox, "input %q", bad)
	}
}

func TestBoxDrift(Te *testing.T) {
	a := BoxGeometry{100, 100, 100}
	b := BoxGeometry{104, 93, 100}
	assert.Equal(Te, BoxGeometry{4, 7, 0}, a.Drift(b))
	assert.Equal(Te, 7.0, a.MaxDrift(b))
	assert.Equal(Te, 0.0, a.MaxDrift(a))
}
