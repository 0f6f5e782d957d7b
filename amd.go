/*
 * amd.go, part of preparemd.
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

import "errors"

// AMDParams are the boost parameters of a dual-boost accelerated MD run
// (iamd=3): total potential (P) and dihedral (D) thresholds and alphas.
type AMDParams struct {
	EthreshP float64
	AlphaP   float64
	EthreshD float64
	AlphaD   float64
}

// AMDThresholds derives the boost parameters from the average potential and
// dihedral energies of a conventional run, and the size of the system.
func AMDThresholds(meanEPtot, meanDihed float64, atoms, residues int) AMDParams {
	alphaP := 0.2 * float64(atoms)
	return AMDParams{
		EthreshP: alphaP + meanEPtot,
		AlphaP:   alphaP,
		EthreshD: 4.0*float64(residues) + meanDihed,
		AlphaD:   0.8 * float64(residues),
	}
}

// AMDThresholdsFromLogs reads the EPtot and DIHED averages from one or more
// mdout texts and derives the boost parameters. A missing term gives
// ErrMissingStatistic.
func AMDThresholdsFromLogs(logTexts []string, atoms, residues int) (AMDParams, error) {
	if atoms <= 0 || residues <= 0 {
		return AMDParams{}, Errorf(ErrValidation, "atom (%d) and residue (%d) counts must be positive", atoms, residues)
	}
	values := make(map[string]float64, 2)
	for _, term := range []string{"EPtot", "DIHED"} {
		v, err := MeanAverageEnergyTerm(logTexts, term)
		if errors.Is(err, ErrTermNotFound) {
			return AMDParams{}, NewError(ErrMissingStatistic, "", term+" missing from mdout", err)
		}
		if err != nil {
			return AMDParams{}, errDecorate(err, "AMDThresholdsFromLogs")
		}
		values[term] = v
	}
	return AMDThresholds(values["EPtot"], values["DIHED"], atoms, residues), nil
}

// AMDThresholdsFromLog is AMDThresholdsFromLogs with a single mdout.
func AMDThresholdsFromLog(logText string, atoms, residues int) (AMDParams, error) {
	return AMDThresholdsFromLogs([]string{logText}, atoms, residues)
}
