/*
 * helpers_test.go, part of preparemd.
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
	"fmt"
	"strings"
)

// pdbAtom formats one fixed-column ATOM record.
func pdbAtom(serial int, name, resname string, chain byte, resseq int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f\n",
		serial, name, resname, chain, resseq, 1.0, 2.0, 3.0, 1.0, 0.0)
}

// syntheticPDB builds a structure with the given number of protein residues
// (3 atoms each) followed by waters and ions.
func syntheticPDB(protein, waters, sodium, chloride int) string {
	var b strings.Builder
	b.WriteString("CRYST1   80.000   90.000  100.000  90.00  90.00  90.00 P 1           1\n")
	serial := 1
	res := 1
	for i := 0; i < protein; i++ {
		for _, name := range []string{"N", "CA", "C"} {
			b.WriteString(pdbAtom(serial, name, "ALA", 'A', res))
			serial++
		}
		res++
	}
	b.WriteString("TER\n")
	for i := 0; i < sodium; i++ {
		b.WriteString(pdbAtom(serial, "Na+", "Na+", ' ', res))
		serial++
		res++
	}
	for i := 0; i < chloride; i++ {
		b.WriteString(pdbAtom(serial, "Cl-", "Cl-", ' ', res))
		serial++
		res++
	}
	for i := 0; i < waters; i++ {
		for _, name := range []string{"O", "H1", "H2"} {
			b.WriteString(pdbAtom(serial, name, "WAT", ' ', res))
			serial++
		}
		res++
	}
	b.WriteString("END\n")
	return b.String()
}

// mdoutAverages returns the tail of an mdout file with an averages block.
func mdoutAverages(eptot, dihed float64) string {
	return fmt.Sprintf(`
      A V E R A G E S   O V E R     100 S T E P S


 NSTEP =   500000   TIME(PS) =    1000.000  TEMP(K) =   300.01  PRESS =    -0.3
 Etot   =   -285020.4137  EKtot   =     70401.0093  EPtot      = %14.4f
 BOND   =      1855.5036  ANGLE   =      4865.9427  DIHED      = %14.4f
 1-4 NB =      2095.2216  1-4 EEL =     19847.5566  VDWAALS    =     39990.6163
 EELEC  =   -424081.7755  EHBOND  =         0.0000  RESTRAINT  =         0.0000
 EKCMT  =     31173.3140  VIRIAL  =     31183.6640  VOLUME     =   1191834.3839
                                                    Density    =         1.0235
 ------------------------------------------------------------------------------


      R M S  F L U C T U A T I O N S


 NSTEP =   500000   TIME(PS) =    1000.000  TEMP(K) =     1.02  PRESS =    64.6
 Etot   =       302.7513  EKtot   =       242.1519  EPtot      =       310.1017
`, eptot, dihed)
}
