/*
 * cmd_test.go, part of preparemd.
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

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/amber"
	"github.com/preparemd/preparemd/pipeline"
)

const testPDB = `ATOM      1  N   ALA A   1       1.000   2.000   3.000  1.00  0.00
ATOM      2  CA  ALA A   1       1.000   2.000   3.000  1.00  0.00
ATOM      3  N   GLY A   2       1.000   2.000   3.000  1.00  0.00
ATOM      4  CA  GLY A   2       1.000   2.000   3.000  1.00  0.00
END
`

// toolStub writes what pdb4amber and cpptraj would, and fails on tleap.
type toolStub struct{ names []string }

func arg(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func (S *toolStub) Run(ctx context.Context, c amber.Command) (amber.Result, error) {
	S.names = append(S.names, c.Name)
	switch c.Name {
	case "pdb4amber":
		in, err := os.ReadFile(arg(c.Args, "-i"))
		if err != nil {
			return amber.Result{}, err
		}
		out := arg(c.Args, "-o")
		if err := os.WriteFile(out, in, 0o644); err != nil {
			return amber.Result{}, err
		}
		return amber.Result{}, os.WriteFile(amber.SSLinkPath(out), nil, 0o644)
	case "cpptraj":
		in, err := os.ReadFile(filepath.Join(c.Dir, pipeline.CleanedPDB))
		if err != nil {
			return amber.Result{}, err
		}
		cryst := "CRYST1   80.000   80.000   80.000  90.00  90.00  90.00 P 1           1\n"
		return amber.Result{}, os.WriteFile(filepath.Join(c.Dir, pipeline.CenteredPDB), append([]byte(cryst), in...), 0o644)
	}
	return amber.Result{ExitCode: 1}, preparemd.Errorf(preparemd.ErrExternalTool, "%s not available", c.Name)
}

func execute(Te *testing.T, args ...string) (string, string, error) {
	var out, errout bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errout)
	err := root.Execute()
	return out.String(), errout.String(), err
}

func withStub(Te *testing.T) *toolStub {
	S := &toolStub{}
	runner = S
	Te.Cleanup(func() { runner = nil })
	return S
}

func TestRootCommandDefinition(Te *testing.T) {
	root := NewRootCommand()
	assert.Equal(Te, "preparemd", root.Use)
	for _, name := range []string{"file", "distdir", "strip", "num-mddir", "ns-per-mddir", "ion-conc", "boxsize",
		"rotate", "trajprefix", "sslink", "machineenv", "frcmod", "prep", "mol2", "fftype", "skip-leap",
		"plot-schedule", "config"} {
		assert.NotNil(Te, root.Flags().Lookup(name), name)
	}
	assert.Equal(Te, "3", root.Flags().Lookup("num-mddir").DefValue)
	assert.Equal(Te, "foodin", root.Flags().Lookup("machineenv").DefValue)
	assert.Equal(Te, "m", root.Flags().Lookup("machineenv").Shorthand)
	assert.NotNil(Te, root.PersistentFlags().Lookup("verbose"))

	amd, _, err := root.Find([]string{"amd"})
	require.NoError(Te, err)
	assert.Equal(Te, "amd", amd.Name())
	assert.Equal(Te, "../../top", amd.Flags().Lookup("topdir").DefValue)
	assert.Equal(Te, "0", amd.Flags().Lookup("nmropt").DefValue)
}

func TestPrepareCommand(Te *testing.T) {
	S := withStub(Te)
	dir := Te.TempDir()
	input := filepath.Join(dir, "in.pdb")
	require.NoError(Te, os.WriteFile(input, []byte(testPDB), 0o644))
	conf := filepath.Join(dir, "preparemd.yaml")
	require.NoError(Te, os.WriteFile(conf, []byte("num_mddir: 5\nmachineenv: flow\nskip_leap: true\n"), 0o644))
	out := filepath.Join(dir, "out")

	stdout, _, err := execute(Te, "-f", input, "-o", out, "--config", conf, "--num-mddir", "2", "-v")
	require.NoError(Te, err)
	assert.Equal(Te, []string{"pdb4amber", "cpptraj"}, S.names)
	assert.Contains(Te, stdout, "2 residues")

	L := pipeline.Layout{Root: out}
	assert.DirExists(Te, L.Replica(2))
	assert.NoDirExists(Te, L.Replica(3), "the flag wins over the file")
	run, err := os.ReadFile(filepath.Join(L.Minimize(), pipeline.RunScript))
	require.NoError(Te, err)
	assert.Contains(Te, string(run), "#PJM", "the file wins over the default")

	M, err := pipeline.ReadManifest(L.Manifest())
	require.NoError(Te, err)
	assert.Equal(Te, 2, M.Replicas)
	assert.Equal(Te, "flow", M.Queue)
	assert.True(Te, M.SkipLeap)
}

func TestPrepareCommandErrors(Te *testing.T) {
	S := withStub(Te)
	dir := Te.TempDir()
	input := filepath.Join(dir, "in.pdb")
	require.NoError(Te, os.WriteFile(input, []byte(testPDB), 0o644))
	out := filepath.Join(dir, "out")

	_, _, err := execute(Te, "-o", out)
	assert.Error(Te, err, "no input")

	_, _, err = execute(Te, "-f", input, "-o", out, "-m", "tsubame")
	assert.ErrorIs(Te, err, preparemd.ErrUnknownQueueProfile)

	_, _, err = execute(Te, "-f", input, "-o", out, "--config", filepath.Join(dir, "none.yaml"))
	assert.ErrorIs(Te, err, preparemd.ErrMissingFile)

	_, _, err = execute(Te, "-f", input, "-o", out, "--num-mddir", "0")
	assert.ErrorIs(Te, err, preparemd.ErrValidation)

	assert.Empty(Te, S.names)
	assert.NoDirExists(Te, out)

	//tleap is not available from the stub
	_, stderr, err := execute(Te, "-f", input, "-o", out)
	assert.ErrorIs(Te, err, preparemd.ErrExternalTool)
	assert.Contains(Te, stderr, "preparation failed")
}

func TestLoadConfigOverrides(Te *testing.T) {
	f := &prepareFlags{}
	fs := pflag.NewFlagSet("prepare", pflag.ContinueOnError)
	addPrepareFlags(fs, f)
	require.NoError(Te, fs.Parse([]string{"--ion-conc", "100", "--frcmod", "a,b", "--mol2", "X = loadMol2 x.mol2"}))
	C, err := loadConfig(fs, f)
	require.NoError(Te, err)
	assert.Equal(Te, 100.0, C.IonConcentration)
	assert.Equal(Te, []string{"a", "b"}, C.Frcmod)
	assert.Equal(Te, []string{"X = loadMol2 x.mol2"}, C.Mol2)
	assert.Equal(Te, 3, C.Replicas)
	assert.Equal(Te, "ff19SB", C.ForceField)

	conf := filepath.Join(Te.TempDir(), "c.yaml")
	require.NoError(Te, os.WriteFile(conf, []byte("ion_conc: 50\nfftype: ff14SB\n"), 0o644))
	f.configFile = conf
	C, err = loadConfig(fs, f)
	require.NoError(Te, err)
	assert.Equal(Te, 100.0, C.IonConcentration)
	assert.Equal(Te, "ff14SB", C.ForceField)
}

func TestAMDCommand(Te *testing.T) {
	base := Te.TempDir()
	in := filepath.Join(base, "pr", "001")
	top := filepath.Join(base, "top")
	require.NoError(Te, os.MkdirAll(in, 0o755))
	require.NoError(Te, os.MkdirAll(top, 0o755))
	mdout := "      A V E R A G E S   O V E R     100 S T E P S\n" +
		" Etot   =   -900.0000  EKtot   =     100.0000  EPtot      =   -1000.0000\n" +
		" BOND   =      1.0000  ANGLE   =      2.0000  DIHED      =      50.0000\n" +
		" ------------------------------------------------------------------------------\n"
	require.NoError(Te, os.WriteFile(filepath.Join(in, "md.out"), []byte(mdout), 0o644))
	require.NoError(Te, os.WriteFile(filepath.Join(in, "run.sh"), []byte("#!/bin/sh\nrstfile=\"../../heat/md9.rst7\"\npmemd -i md.in -c ${rstfile}\n"), 0o755))
	require.NoError(Te, os.WriteFile(filepath.Join(top, "leap.pdb"), []byte(testPDB), 0o644))

	stdout, _, err := execute(Te, "amd", "--basedir", base, "--indir", "pr/001", "--outdir", "pr/amd1", "--topdir", "top")
	require.NoError(Te, err)
	//4 atoms, 2 residues
	assert.Equal(Te, fmt.Sprintf("ethreshp=%.2f alphap=%.2f ethreshd=%.2f alphad=%.2f\n", -999.2, 0.8, 58.0, 1.6), stdout)
	run, err := os.ReadFile(filepath.Join(base, "pr", "amd1", "run.sh"))
	require.NoError(Te, err)
	assert.Contains(Te, string(run), `rstfile="../001/md.rst7"`)
	assert.Contains(Te, string(run), "-i amd.in")

	_, _, err = execute(Te, "amd", "--basedir", base, "--outdir", "pr/amd2")
	assert.Error(Te, err, "indir is required")
	_, _, err = execute(Te, "amd", "--basedir", base, "--indir", "pr/001", "--outdir", "pr/amd2", "--topdir", "top", "--nmropt", "3")
	assert.ErrorIs(Te, err, preparemd.ErrValidation)
}
