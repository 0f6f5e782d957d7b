/*
 * amd_test.go, part of preparemd.
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

func TestAMDThresholds(Te *testing.T) {
	p := AMDThresholds(-355421.4230, 5324.1094, 120000, 363)
	assert.InDelta(Te, 24000.0, p.AlphaP, 1e-9)
	assert.InDelta(Te, 24000.0-355421.4230, p.EthreshP, 1e-6)
	assert.InDelta(Te, 0.8*363, p.AlphaD, 1e-9)
	assert.InDelta(Te, 4*363+5324.1094, p.EthreshD, 1e-6)
}

func TestAMDThresholdsFromLog(Te *testing.T) {
	p, err := AMDThresholdsFromLog(mdoutAverages(-1000, 500), 100, 10)
	require.NoError(Te, err)
	assert.Equal(Te, AMDThresholds(-1000, 500, 100, 10), p)

	nodihed := strings.Replace(mdoutAverages(-1000, 500), "DIHED", "DIHXD", 1)
	_, err = AMDThresholdsFromLog(nodihed, 100, 10)
	assert.ErrorIs(Te, err, ErrMissingStatistic)

	_, err = AMDThresholdsFromLog("no averages here", 100, 10)
	assert.ErrorIs(Te, err, ErrMalformedLog)

	_, err = AMDThresholdsFromLog(mdoutAverages(-1000, 500), 0, 10)
	assert.ErrorIs(Te, err, ErrValidation)
}
