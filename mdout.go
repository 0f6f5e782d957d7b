/*
 * mdout.go, part of preparemd.
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
	"regexp"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// averagesMarker starts the block of running averages that sander/pmemd
// print at the end of a run.
const averagesMarker = "A V E R A G E S   O V E R"

// averagesWindow is how many lines, marker included, belong to the block.
const averagesWindow = 10

// termPattern matches "term = value" in an mdout energy line. Terms may
// contain spaces ("1-4 EEL"). A term starts the line or follows the two or
// more spaces that separate columns, so "NB" does not match "1-4 NB".
func termPattern(term string) (*regexp.Regexp, error) {
	words := strings.Fields(term)
	if len(words) == 0 {
		return nil, Errorf(ErrValidation, "empty energy term")
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?:^\s*|\s{2})` + strings.Join(words, `\s+`) + `\s*=\s*(\S+)`), nil
}

// AverageEnergyTerm returns the value of term (e.g. "EPtot", "DIHED") in the
// last averages block of an mdout text. It returns ErrMalformedLog if there
// is no averages block or the value can't be read, and ErrTermNotFound if
// the block doesn't contain term.
func AverageEnergyTerm(logText, term string) (float64, error) {
	lines := strings.Split(logText, "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, averagesMarker) {
			start = i
		}
	}
	if start < 0 {
		return 0, Errorf(ErrMalformedLog, "no %q block", averagesMarker)
	}
	end := start + averagesWindow
	if end > len(lines) {
		end = len(lines)
	}
	re, err := termPattern(term)
	if err != nil {
		return 0, err
	}
	for _, line := range lines[start:end] {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, NewError(ErrMalformedLog, "", "bad value for "+term, err)
		}
		return v, nil
	}
	return 0, Errorf(ErrTermNotFound, "%s not in the averages block", term)
}

// MeanAverageEnergyTerm averages term over several mdout texts, for instance
// the outputs of consecutive production replicas.
func MeanAverageEnergyTerm(logTexts []string, term string) (float64, error) {
	if len(logTexts) == 0 {
		return 0, Errorf(ErrMalformedLog, "no mdout given")
	}
	values := make([]float64, len(logTexts))
	for i, text := range logTexts {
		v, err := AverageEnergyTerm(text, term)
		if err != nil {
			return 0, errDecorate(err, "MeanAverageEnergyTerm")
		}
		values[i] = v
	}
	return stat.Mean(values, nil), nil
}
