/*
 * fixtures_test.go, part of preparemd.
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

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/amber"
)

func pdbAtom(serial int, name, resname string, resseq int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s A%4d    %8.3f%8.3f%8.3f%6.2f%6.2f\n",
		serial, name, resname, resseq, 1.0, 2.0, 3.0, 1.0, 0.0)
}

// proteinPDB has n residues of 3 atoms; those listed in cyx are CYX, the rest ALA.
// waters are appended as 3-atom WAT residues.
func proteinPDB(n, waters int, cyx ...int) string {
	isCyx := map[int]bool{}
	for _, c := range cyx {
		isCyx[c] = true
	}
	var b strings.Builder
	serial := 1
	for r := 1; r <= n; r++ {
		name := "ALA"
		if isCyx[r] {
			name = "CYX"
		}
		for _, a := range []string{"N", "CA", "C"} {
			b.WriteString(pdbAtom(serial, a, name, r))
			serial++
		}
	}
	b.WriteString("TER\n")
	for w := 0; w < waters; w++ {
		for _, a := range []string{"O", "H1", "H2"} {
			b.WriteString(pdbAtom(serial, a, "WAT", n+w+1))
			serial++
		}
	}
	b.WriteString("END\n")
	return b.String()
}

func leapLog(box string, charge float64) string {
	return fmt.Sprintf("Solute vdw bounding box: 1 2 3\n  Total vdw box size:  %s angstroms.\n  Volume: 1 A^3\nTotal perturbed charge: %f\n", box, charge)
}

// fakeAmber stands in for the AmberTools programs, producing the files
// each of them would.
type fakeAmber struct {
	calls     []amber.Command
	scripts   []string
	sslink    string
	cryst1    string
	leapBox   string
	failTLeap bool
}

func newFakeAmber() *fakeAmber {
	return &fakeAmber{sslink: "3 7\n", cryst1: "120.000 120.000 120.000", leapBox: "120.500 121.000 119.800"}
}

func argAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func (F *fakeAmber) Run(ctx context.Context, c amber.Command) (amber.Result, error) {
	F.calls = append(F.calls, c)
	switch c.Name {
	case "pdb4amber":
		in, err := os.ReadFile(argAfter(c.Args, "-i"))
		if err != nil {
			return amber.Result{ExitCode: 1}, err
		}
		out := argAfter(c.Args, "-o")
		if err := os.WriteFile(out, in, 0o644); err != nil {
			return amber.Result{}, err
		}
		return amber.Result{}, os.WriteFile(amber.SSLinkPath(out), []byte(F.sslink), 0o644)
	case "cpptraj":
		script, err := os.ReadFile(argAfter(c.Args, "-i"))
		if err != nil {
			return amber.Result{ExitCode: 1}, err
		}
		F.scripts = append(F.scripts, string(script))
		var parm, trajout string
		for _, l := range strings.Split(string(script), "\n") {
			f := strings.Fields(l)
			if len(f) == 2 && f[0] == "parm" {
				parm = f[1]
			}
			if len(f) == 2 && f[0] == "trajout" {
				trajout = f[1]
			}
		}
		in, err := os.ReadFile(filepath.Join(c.Dir, parm))
		if err != nil {
			return amber.Result{ExitCode: 1}, err
		}
		a := strings.Fields(F.cryst1)
		cryst := fmt.Sprintf("CRYST1%9s%9s%9s  90.00  90.00  90.00 P 1           1\n", a[0], a[1], a[2])
		return amber.Result{}, os.WriteFile(filepath.Join(c.Dir, trajout), append([]byte(cryst), in...), 0o644)
	case "tleap":
		if F.failTLeap {
			return amber.Result{ExitCode: 1}, preparemd.Errorf(preparemd.ErrExternalTool, "tleap: exit status 1")
		}
		return amber.Result{}, os.WriteFile(filepath.Join(c.Dir, amber.LeapLog), []byte(leapLog(F.leapBox, 0)), 0o644)
	}
	return amber.Result{ExitCode: 127}, preparemd.Errorf(preparemd.ErrExternalTool, "unexpected command %s", c.Name)
}

func (F *fakeAmber) names() []string {
	n := make([]string, len(F.calls))
	for i, c := range F.calls {
		n[i] = c.Name
	}
	return n
}

// testOptions returns options for a 363-residue protein with a disulfide
// between residues 3 and 7, written in a fresh temporary directory.
func testOptions(Te *testing.T, F *fakeAmber) Options {
	dir := Te.TempDir()
	input := filepath.Join(dir, "input.pdb")
	require.NoError(Te, os.WriteFile(input, []byte(proteinPDB(363, 0, 3, 7)), 0o644))
	return Options{
		Input:            input,
		DistDir:          filepath.Join(dir, "out"),
		Replicas:         3,
		NsPerReplica:     50,
		IonConcentration: 150,
		Queue:            "foodin",
		ForceField:       "ff19SB",
		Runner:           F,
	}
}

const mdoutTail = `
      A V E R A G E S   O V E R     100 S T E P S


 NSTEP =   500000   TIME(PS) =    1000.000  TEMP(K) =   300.01  PRESS =    -0.3
 Etot   =   -285020.4137  EKtot   =     70401.0093  EPtot      =   -355421.4230
 BOND   =      1855.5036  ANGLE   =      4865.9427  DIHED      =      5324.1094
 1-4 NB =      2095.2216  1-4 EEL =     19847.5566  VDWAALS    =     39990.6163
 ------------------------------------------------------------------------------


      R M S  F L U C T U A T I O N S


 NSTEP =   500000   TIME(PS) =    1000.000  TEMP(K) =     1.02  PRESS =    64.6
 Etot   =       302.7513  EKtot   =       242.1519  EPtot      =       310.1017
`
