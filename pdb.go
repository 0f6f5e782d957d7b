/*
 * pdb.go, part of preparemd.
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
	"os"
	"strconv"
	"strings"
)

// Residue names that are never part of the solute.
var solventNames = map[string]bool{
	"WAT": true,
	"Na+": true,
	"Cl-": true,
}

// IsSolvent returns true for water and the counter-ions added by leap.
func IsSolvent(resname string) bool {
	return solventNames[strings.TrimSpace(resname)]
}

// StructureCounts is what this module needs to know about a structure.
type StructureCounts struct {
	Residues int //solute residues, i.e. not water nor ions
	Atoms    int //all the atoms, solvent included
}

type residueKey struct {
	chain  byte
	resseq int
	icode  byte
	name   string
}

// CountStructure reads the ATOM and HETATM records of the first model
// in a PDB stream. Residues are identified by chain, number, insertion code
// and name, so their order in the file does not matter.
func CountStructure(r io.Reader) (StructureCounts, error) {
	var counts StructureCounts
	seen := make(map[residueKey]bool)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	contlines := 0 //count the lines read to better report errors
	for scanner.Scan() {
		contlines++
		line := scanner.Text()
		if strings.HasPrefix(line, "ENDMDL") {
			break
		}
		if !strings.HasPrefix(line, "ATOM") && !strings.HasPrefix(line, "HETATM") {
			continue
		}
		if len(line) < 27 {
			return counts, Errorf(ErrStructureParse, "line %d: record too short: %q", contlines, line)
		}
		counts.Atoms++
		name := strings.TrimSpace(line[17:20])
		if IsSolvent(name) {
			//leap overflows the residue number for large solvent boxes, we don't need it anyway.
			continue
		}
		resseq, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
		if err != nil {
			return counts, NewError(ErrStructureParse, "", fmt.Sprintf("line %d: bad residue number", contlines), err)
		}
		key := residueKey{chain: line[21], resseq: resseq, icode: line[26], name: name}
		if !seen[key] {
			seen[key] = true
			counts.Residues++
		}
	}
	if err := scanner.Err(); err != nil {
		return counts, NewError(ErrStructureParse, "", "read failed", err)
	}
	if counts.Atoms == 0 {
		return counts, Errorf(ErrStructureParse, "no ATOM or HETATM records")
	}
	return counts, nil
}

// ResidueCount is CountStructure(r).Residues.
func ResidueCount(r io.Reader) (int, error) {
	c, err := CountStructure(r)
	return c.Residues, err
}

// StructureFileCounts runs CountStructure on a (possibly compressed) PDB file.
func StructureFileCounts(name string) (StructureCounts, error) {
	f, err := OpenFile(name)
	if err != nil {
		return StructureCounts{}, errDecorate(err, "StructureFileCounts")
	}
	defer f.Close()
	c, err := CountStructure(f)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.filename == "" {
			e.filename = name
		}
		return c, errDecorate(err, "StructureFileCounts")
	}
	return c, nil
}

// CRYST1Box reads the box edges from the first CRYST1 record of a PDB file.
func CRYST1Box(name string) (BoxGeometry, error) {
	f, err := OpenFile(name)
	if err != nil {
		return BoxGeometry{}, errDecorate(err, "CRYST1Box")
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "CRYST1") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return BoxGeometry{}, NewError(ErrStructureParse, name, "short CRYST1 record", nil)
		}
		box, err := ParseBox(strings.Join(fields[1:4], " "))
		if err != nil {
			return BoxGeometry{}, NewError(ErrStructureParse, name, "bad CRYST1 record", err)
		}
		return box, nil
	}
	return BoxGeometry{}, NewError(ErrStructureParse, name, "no CRYST1 record", scanner.Err())
}

// RewriteCystines first renames every CYX to CYS in the PDB file name, and
// then renames to CYX the residues taking part in the disulfide bonds given.
// Each of those residues must be a CYS. The file is rewritten in place.
func RewriteCystines(name string, bonds []SSBond) error {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return NewError(ErrMissingFile, name, "", err)
		}
		return err
	}
	bonded := make(map[int]bool, 2*len(bonds))
	for _, b := range bonds {
		bonded[b.I] = true
		bonded[b.J] = true
	}
	lines := strings.SplitAfter(strings.ReplaceAll(string(data), "CYX", "CYS"), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "ATOM  ") || len(line) < 26 {
			continue
		}
		resnum, err := strconv.Atoi(strings.TrimSpace(line[22:26]))
		if err != nil {
			return NewError(ErrStructureParse, name, fmt.Sprintf("line %d: bad residue number", i+1), err)
		}
		if !bonded[resnum] {
			continue
		}
		if line[17:20] != "CYS" {
			return NewError(ErrStructureParse, name, fmt.Sprintf("residue %d is not a CYS residue", resnum), nil)
		}
		lines[i] = line[:17] + "CYX" + line[20:]
	}
	return os.WriteFile(name, []byte(strings.Join(lines, "")), 0o644)
}
