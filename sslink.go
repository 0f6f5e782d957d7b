/*
 * sslink.go, part of preparemd.
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
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SSBond is a disulfide bond between residues I and J, numbered as in the
// structure fed to leap.
type SSBond struct {
	I int
	J int
}

// ParseSSLink reads a pdb4amber sslink list: one pair of residue numbers
// per line. Blank lines are skipped.
func ParseSSLink(r io.Reader) ([]SSBond, error) {
	var bonds []SSBond
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, Errorf(ErrStructureParse, "sslink line %d: expected 2 residue numbers", n)
		}
		i, err1 := strconv.Atoi(fields[0])
		j, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, Errorf(ErrStructureParse, "sslink line %d: bad residue numbers %q", n, scanner.Text())
		}
		bonds = append(bonds, SSBond{I: i, J: j})
	}
	if err := scanner.Err(); err != nil {
		return nil, NewError(ErrStructureParse, "", "sslink read failed", err)
	}
	return bonds, nil
}

// ReadSSLink is ParseSSLink on the file name.
func ReadSSLink(name string) ([]SSBond, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, errDecorate(err, "ReadSSLink")
	}
	defer f.Close()
	bonds, err := ParseSSLink(f)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.filename == "" {
			e.filename = name
		}
		return nil, errDecorate(err, "ReadSSLink")
	}
	return bonds, nil
}

// LeapBond returns the leap command that creates the bond.
func (S SSBond) LeapBond() string {
	return fmt.Sprintf("bond mol.%d.SG mol.%d.SG", S.I, S.J)
}
