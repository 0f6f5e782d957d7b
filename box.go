/*
 * box.go, part of preparemd.
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
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ionFactor converts A^3 * mM into a number of ions (Avogadro's number and
// the unit changes folded together). See AMBER tutorial 8.
const ionFactor = 0.0602

// BoxGeometry is a rectangular periodic box, edges in Angstrom.
type BoxGeometry [3]float64

// NewBox builds a box and checks that every edge is positive.
func NewBox(a, b, c float64) (BoxGeometry, error) {
	box := BoxGeometry{a, b, c}
	if err := box.Check(); err != nil {
		return BoxGeometry{}, err
	}
	return box, nil
}

// ParseBox parses "a b c". All three values must be positive numbers.
func ParseBox(s string) (BoxGeometry, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return BoxGeometry{}, Errorf(ErrInvalidBox, "box size must be 3 values, got %q", s)
	}
	var box BoxGeometry
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return BoxGeometry{}, NewError(ErrInvalidBox, "", "box element "+strconv.Quote(f)+" is not a number", err)
		}
		box[i] = v
	}
	if err := box.Check(); err != nil {
		return BoxGeometry{}, err
	}
	return box, nil
}

// Check returns ErrInvalidBox unless all the edges are positive and finite,
// and so is the volume.
func (B BoxGeometry) Check() error {
	for i, v := range B {
		if !(v > 0) || math.IsInf(v, 0) {
			return Errorf(ErrInvalidBox, "edge %d must be a finite number more than 0, got %g", i, v)
		}
	}
	if v := B.Volume(); math.IsInf(v, 0) {
		return Errorf(ErrInvalidBox, "box %s is too large", B)
	}
	return nil
}

func (B BoxGeometry) Volume() float64 {
	return floats.Prod(B[:])
}

// String returns the edges as they were given to leap: space separated,
// shortest representation.
func (B BoxGeometry) String() string {
	s := make([]string, 3)
	for i, v := range B {
		s[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(s, " ")
}

// Drift returns the absolute per-axis difference between B and other.
func (B BoxGeometry) Drift(other BoxGeometry) BoxGeometry {
	var d BoxGeometry
	floats.SubTo(d[:], B[:], other[:])
	for i := range d {
		d[i] = math.Abs(d[i])
	}
	return d
}

// MaxDrift is the largest element of B.Drift(other).
func (B BoxGeometry) MaxDrift(other BoxGeometry) float64 {
	d := B.Drift(other)
	return floats.Max(d[:])
}

// IonCount returns how many ions of each sign are needed to reach
// concentration (mM) in the box: floor(V * 0.0602 * c / 100000).
// For a 120x120x120 box at 150 mM it gives 156.
func IonCount(box BoxGeometry, concentration float64) (int, error) {
	if err := box.Check(); err != nil {
		return 0, errDecorate(err, "IonCount")
	}
	if !(concentration > 0) || math.IsInf(concentration, 0) {
		return 0, Errorf(ErrInvalidBox, "ion concentration must be a finite number more than 0, got %g", concentration)
	}
	n := math.Floor(box.Volume() * ionFactor * concentration / 100000)
	if math.IsInf(n, 0) || math.IsNaN(n) || n > math.MaxInt32 {
		return 0, Errorf(ErrInvalidBox, "%g ions for box %s at %g mM is not a usable count", n, box, concentration)
	}
	return int(n), nil
}
