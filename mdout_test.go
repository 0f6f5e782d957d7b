/*
 * mdout_test.go, part of preparemd.
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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageEnergyTerm(Te *testing.T) {
	text := mdoutAverages(-355421.4230, 5324.1094)
	ep, err := AverageEnergyTerm(text, "EPtot")
	require.NoError(Te, err)
	assert.InDelta(Te, -355421.4230, ep, 1e-9)
	d, err := AverageEnergyTerm(text, "DIHED")
	require.NoError(Te, err)
	assert.InDelta(Te, 5324.1094, d, 1e-9)
	nb, err := AverageEnergyTerm(text, "VDWAALS")
	require.NoError(Te, err)
	assert.InDelta(Te, 39990.6163, nb, 1e-9)

	//terms with a space in their name
	eel, err := AverageEnergyTerm(text, "1-4 EEL")
	require.NoError(Te, err)
	assert.InDelta(Te, 19847.5566, eel, 1e-9)
	nb14, err := AverageEnergyTerm(text, "1-4 NB")
	require.NoError(Te, err)
	assert.InDelta(Te, 2095.2216, nb14, 1e-9)
	elec, err := AverageEnergyTerm(text, "EELEC")
	require.NoError(Te, err)
	assert.InDelta(Te, -424081.7755, elec, 1e-9)

	//the tail of a longer term is not the term
	_, err = AverageEnergyTerm(text, "NB")
	assert.ErrorIs(Te, err, ErrTermNotFound)
	_, err = AverageEnergyTerm(text, "EEL")
	assert.ErrorIs(Te, err, ErrTermNotFound)
}

//TestAverageEnergyTermLastBlock checks that with several averages blocks
//the final one is used.
func TestAverageEnergyTermLastBlock(Te *testing.T) {
	text := mdoutAverages(-1, 1) + mdoutAverages(-2, 2)
	ep, err := AverageEnergyTerm(text, "EPtot")
	require.NoError(Te, err)
	assert.Equal(Te, -2.0, ep)
}

func TestAverageEnergyTermErrors(Te *testing.T) {
	_, err := AverageEnergyTerm(" NSTEP = 1\n EPtot = 3.0\n", "EPtot")
	assert.ErrorIs(Te, err, ErrMalformedLog)

	_, err = AverageEnergyTerm(mdoutAverages(-1, 1), "NOTATERM")
	assert.ErrorIs(Te, err, ErrTermNotFound)
	assert.Equal(Te, KindParse, KindOf(err))

	broken := strings.Replace(mdoutAverages(-1, 1), "EPtot      = ", "EPtot      = **", 1)
	_, err = AverageEnergyTerm(broken, "EPtot")
	assert.ErrorIs(Te, err, ErrMalformedLog)
}

func TestMeanAverageEnergyTerm(Te *testing.T) {
	texts := []string{mdoutAverages(-100, 10), mdoutAverages(-200, 20), mdoutAverages(-300, 30)}
	ep, err := MeanAverageEnergyTerm(texts, "EPtot")
	require.NoError(Te, err)
	assert.InDelta(Te, -200.0, ep, 1e-9)
	_, err = MeanAverageEnergyTerm(nil, "EPtot")
	assert.ErrorIs(Te, err, ErrMalformedLog)
}
