/*
 * pipeline.go, part of preparemd.
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

// Package pipeline prepares an AMBER simulation from a protein structure:
// it cleans, centres and solvates the structure with the AmberTools
// programs and writes the control files and run scripts of every stage.
// The stages run strictly in order and any error stops the run; what was
// already written stays on disk, and running again overwrites it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/amber"
	"github.com/preparemd/preparemd/mdin"
	"github.com/preparemd/preparemd/schedplot"
)

// State is the progress of a run.
type State int

const (
	Init State = iota
	StructurePrepared
	GeometryComputed
	TopologyBuilt
	MinimizeWritten
	HeatWritten
	ProductionWritten
	Done
	Failed
)

var stateNames = [...]string{"INIT", "STRUCTURE_PREPARED", "GEOMETRY_COMPUTED", "TOPOLOGY_BUILT",
	"MINIMIZE_WRITTEN", "HEAT_WRITTEN", "PRODUCTION_WRITTEN", "DONE", "FAILED"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// MaxBoxDrift is the largest difference, per axis and in A, between the
// requested box and the one tleap builds before a warning is issued.
const MaxBoxDrift = 5.0

// File names inside the topology directory.
const (
	CleanedPDB  = "pre.pdb"
	CenteredPDB = "pre2.pdb"
	LeapPDB     = "leap.pdb"
)

// Pipeline is a single preparation run. It is not safe for concurrent use.
type Pipeline struct {
	opts     Options
	layout   Layout
	engine   *mdin.Engine
	log      *slog.Logger
	state    State
	manifest *Manifest

	rotation mdin.Rotation
	userBox  bool
	box      preparemd.BoxGeometry
	bonds    []preparemd.SSBond
	residues int
}

// New validates opts and returns a pipeline ready to Run. Nothing is
// written before the options are known to be good.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	rot, _ := mdin.ParseRotation(opts.Rotate)
	P := &Pipeline{
		opts:     opts,
		layout:   Layout{Root: opts.DistDir},
		engine:   mdin.NewEngine(opts.Queues),
		log:      opts.Logger,
		manifest: newManifest(),
		rotation: rot,
	}
	if opts.BoxSize != "" {
		P.box, _ = preparemd.ParseBox(opts.BoxSize)
		P.userBox = true
	}
	M := P.manifest
	M.Input = opts.Input
	M.ForceField = opts.ForceField
	M.Queue = opts.Queue
	M.Replicas = opts.Replicas
	M.NsPerReplica = opts.NsPerReplica
	M.IonConcentration = opts.IonConcentration
	M.SkipLeap = opts.SkipLeap
	return P, nil
}

// State returns how far the run got.
func (P *Pipeline) State() State { return P.state }

// Layout returns the directories the run writes to.
func (P *Pipeline) Layout() Layout { return P.layout }

// Manifest returns the provenance record, complete once the run is Done.
func (P *Pipeline) Manifest() *Manifest { return P.manifest }

func (P *Pipeline) advance(to State) error {
	if P.state != to-1 {
		return preparemd.Errorf(preparemd.ErrValidation, "cannot go from %s to %s", P.state, to)
	}
	P.state = to
	P.log.Debug("stage done", "state", to.String())
	return nil
}

func (P *Pipeline) fail(err error, step string) error {
	P.state = Failed
	var e *preparemd.Error
	if errors.As(err, &e) {
		e.Decorate(step)
	}
	P.log.Error("preparation failed", "step", step, "err", err)
	return err
}

// Run executes every stage in order. It can only be called once.
func (P *Pipeline) Run(ctx context.Context) error {
	steps := []struct {
		name string
		to   State
		do   func(context.Context) error
	}{
		{"prepareStructure", StructurePrepared, P.prepareStructure},
		{"computeGeometry", GeometryComputed, P.computeGeometry},
		{"buildTopology", TopologyBuilt, P.buildTopology},
		{"writeMinimize", MinimizeWritten, P.writeMinimize},
		{"writeHeat", HeatWritten, P.writeHeat},
		{"writeProduction", ProductionWritten, P.writeProduction},
		{"finish", Done, P.finish},
	}
	if P.state != Init {
		return preparemd.Errorf(preparemd.ErrValidation, "pipeline already ran, state %s", P.state)
	}
	for _, s := range steps {
		if err := s.do(ctx); err != nil {
			return P.fail(err, s.name)
		}
		if err := P.advance(s.to); err != nil {
			return P.fail(err, s.name)
		}
	}
	P.log.Info("preparation finished", "dir", P.layout.Root, "run_id", P.manifest.RunID)
	return nil
}

func (P *Pipeline) write(S *StageDirectory) error {
	paths, err := S.Write()
	P.manifest.addFiles(P.layout.Root, paths...)
	return err
}

func (P *Pipeline) prepareStructure(ctx context.Context) error {
	top := P.layout.Top()
	if err := os.MkdirAll(top, 0o755); err != nil {
		return preparemd.NewError(preparemd.ErrMissingFile, top, "cannot create topology directory", err)
	}
	h := amber.NewPDB4AmberHandle(P.opts.Runner)
	h.SetCommand(P.opts.Tools.PDB4Amber)
	h.SetStrip(P.opts.Strip)
	input, err := P.plainInput()
	if err != nil {
		return err
	}
	pre := filepath.Join(top, CleanedPDB)
	sslink, err := h.Run(ctx, input, pre)
	if err != nil {
		return err
	}
	if P.opts.SSLink != "" {
		sslink = P.opts.SSLink
	}
	P.bonds, err = preparemd.ReadSSLink(sslink)
	if err != nil {
		return err
	}
	counts, err := preparemd.StructureFileCounts(pre)
	if err != nil {
		return err
	}
	P.residues = counts.Residues
	P.manifest.Residues = counts.Residues
	P.manifest.Atoms = counts.Atoms
	for _, b := range P.bonds {
		P.manifest.Disulfides = append(P.manifest.Disulfides, fmt.Sprintf("%d-%d", b.I, b.J))
	}
	P.manifest.addFiles(P.layout.Root, pre)
	P.log.Info("structure prepared", "residues", counts.Residues, "disulfides", len(P.bonds), "sslink", sslink)
	return nil
}

func (P *Pipeline) computeGeometry(ctx context.Context) error {
	top := P.layout.Top()
	script, err := P.engine.Cpptraj(mdin.CpptrajParams{Input: CleanedPDB, Output: CenteredPDB, Rotate: P.rotation})
	if err != nil {
		return err
	}
	h := amber.NewCpptrajHandle(P.opts.Runner)
	h.SetCommand(P.opts.Tools.Cpptraj)
	if err := h.Run(ctx, top, script); err != nil {
		return err
	}
	pre2 := filepath.Join(top, CenteredPDB)
	fitted, err := preparemd.CRYST1Box(pre2)
	if err != nil {
		return err
	}
	if err := preparemd.RewriteCystines(pre2, P.bonds); err != nil {
		return err
	}
	if !P.userBox {
		P.box = fitted
	}
	P.manifest.addFiles(P.layout.Root, pre2)
	P.log.Info("geometry computed", "fitted_box", fitted.String(), "box", P.box.String())
	return nil
}

// plainInput returns the input structure as a file pdb4amber can read,
// decompressing it into the topology directory when needed.
func (P *Pipeline) plainInput() (string, error) {
	in := P.opts.Input
	ext := strings.ToLower(filepath.Ext(in))
	if ext != ".gz" && ext != ".zst" {
		return in, nil
	}
	r, err := preparemd.OpenFile(in)
	if err != nil {
		return "", err
	}
	defer r.Close()
	dst := filepath.Join(P.layout.Top(), "input.pdb")
	out, err := os.Create(dst)
	if err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, dst, "cannot decompress input", err)
	}
	_, err = io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", preparemd.NewError(preparemd.ErrStructureParse, in, "cannot decompress input", err)
	}
	P.log.Debug("decompressed input", "src", in, "dst", dst)
	return dst, nil
}

func copyFile(src, dir string) (string, error) {
	dst := filepath.Join(dir, filepath.Base(src))
	if abs1, err1 := filepath.Abs(src); err1 == nil {
		if abs2, err2 := filepath.Abs(dst); err2 == nil && abs1 == abs2 {
			return dst, nil
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, src, "", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, dst, "cannot copy", err)
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", preparemd.NewError(preparemd.ErrMissingFile, dst, "cannot copy", err)
	}
	return dst, nil
}

// extraParams copies the extra parameter files next to leap.in, and returns
// them as leap.in will reference them.
func (P *Pipeline) extraParams() (frcmod, prep []string, mol2 []mdin.Mol2Load, err error) {
	top := P.layout.Top()
	cp := func(src string) (string, error) {
		dst, err := copyFile(src, top)
		if err != nil {
			return "", err
		}
		P.manifest.addFiles(P.layout.Root, dst)
		P.log.Debug("copied parameter file", "src", src, "dst", dst)
		return filepath.Base(dst), nil
	}
	for _, f := range P.opts.Frcmod {
		b, err := cp(f)
		if err != nil {
			return nil, nil, nil, err
		}
		frcmod = append(frcmod, b)
	}
	for _, f := range P.opts.Prep {
		b, err := cp(f)
		if err != nil {
			return nil, nil, nil, err
		}
		prep = append(prep, b)
	}
	for _, m := range P.opts.Mol2 {
		load, _ := mdin.ParseMol2Load(m)
		if _, err := cp(load.File); err != nil {
			return nil, nil, nil, err
		}
		mol2 = append(mol2, load.Base())
	}
	return frcmod, prep, mol2, nil
}

func (P *Pipeline) buildTopology(ctx context.Context) error {
	frcmod, prep, mol2, err := P.extraParams()
	if err != nil {
		return err
	}
	lp := mdin.LeapParams{
		ForceField:       P.opts.ForceField,
		Structure:        CenteredPDB,
		Box:              P.box,
		UserBox:          P.userBox,
		IonConcentration: P.opts.IonConcentration,
		Bonds:            P.bonds,
		Frcmod:           frcmod,
		Prep:             prep,
		Mol2:             mol2,
	}
	leapin, err := P.engine.Leap(lp)
	if err != nil {
		return err
	}
	ions, _ := preparemd.IonCount(P.box, P.opts.IonConcentration)
	P.manifest.Box = P.box.String()
	P.manifest.Ions = ions
	S := NewStageDirectory(P.layout.Top())
	S.Add(amber.LeapInput, leapin)
	if err := P.write(S); err != nil {
		return err
	}
	if P.opts.SkipLeap {
		P.log.Info("tleap skipped", "leap_in", filepath.Join(P.layout.Top(), amber.LeapInput))
		return nil
	}
	h := amber.NewTLeapHandle(P.opts.Runner)
	h.SetCommand(P.opts.Tools.TLeap)
	res, err := h.Run(ctx, P.layout.Top())
	if err != nil {
		return err
	}
	charge := res.Charge
	P.manifest.FinalBox = res.Box.String()
	P.manifest.Charge = &charge
	for _, f := range []string{"leap.parm7", "leap.rst7", LeapPDB, amber.LeapLog} {
		P.manifest.addFiles(P.layout.Root, filepath.Join(P.layout.Top(), f))
	}
	if drift := P.box.MaxDrift(res.Box); drift > MaxBoxDrift {
		w := fmt.Sprintf("tleap box %s differs from the requested %s by %.3g A", res.Box, P.box, drift)
		P.manifest.Warnings = append(P.manifest.Warnings, w)
		P.log.Warn("box size drift", "requested", P.box.String(), "result", res.Box.String(), "drift", drift)
	}
	P.log.Info("topology built", "ions", ions, "box", res.Box.String(), "charge", charge)
	return nil
}

func (P *Pipeline) writeMinimize(ctx context.Context) error {
	S := NewStageDirectory(P.layout.Minimize())
	for stage := 1; stage <= 2; stage++ {
		text, err := P.engine.Minimize(stage)
		if err != nil {
			return err
		}
		S.Add(fmt.Sprintf("min%d.in", stage), text)
	}
	run, err := P.engine.MinimizeRun(P.opts.Queue)
	if err != nil {
		return err
	}
	S.AddScript(RunScript, run)
	return P.write(S)
}

func (P *Pipeline) writeHeat(ctx context.Context) error {
	recs, err := mdin.HeatRecords(P.residues, P.opts.Queue)
	if err != nil {
		return err
	}
	S := NewStageDirectory(P.layout.Heat())
	for k, rec := range recs {
		text, err := P.engine.Heat(rec)
		if err != nil {
			return err
		}
		S.Add(mdin.HeatFile(k+1), text)
	}
	run, err := P.engine.HeatRun(P.opts.Queue)
	if err != nil {
		return err
	}
	S.AddScript(RunScript, run)
	if err := P.write(S); err != nil {
		return err
	}
	if P.opts.PlotSchedule {
		name := filepath.Join(P.layout.Heat(), ScheduleImage)
		if err := schedplot.Save(name, mdin.HeatSchedule()); err != nil {
			return err
		}
		P.manifest.addFiles(P.layout.Root, name)
	}
	P.log.Info("heating written", "stages", len(recs), "restrained", preparemd.SoluteRange(P.residues).Mask())
	return nil
}

func (P *Pipeline) writeProduction(ctx context.Context) error {
	prev := ""
	for i := 1; i <= P.opts.Replicas; i++ {
		rec, next := mdin.NextReplica(prev, i, P.opts.NsPerReplica, P.opts.Queue)
		text, err := P.engine.Production(rec)
		if err != nil {
			return err
		}
		run, err := P.engine.ProductionRun(rec)
		if err != nil {
			return err
		}
		S := NewStageDirectory(P.layout.Replica(i))
		S.Add("md.in", text)
		S.AddScript(RunScript, run)
		if err := P.write(S); err != nil {
			return err
		}
		prev = next
	}
	traj, err := P.engine.TrajFix(P.residues, P.opts.Replicas, P.opts.TrajPrefix)
	if err != nil {
		return err
	}
	S := NewStageDirectory(P.layout.Production())
	S.Add(TrajFixScript, traj)
	if err := P.write(S); err != nil {
		return err
	}
	P.log.Info("production written", "replicas", P.opts.Replicas, "ns_each", P.opts.NsPerReplica)
	return nil
}

func (P *Pipeline) finish(ctx context.Context) error {
	total, err := P.engine.TotalRun(P.opts.Replicas, P.opts.Queue)
	if err != nil {
		return err
	}
	S := NewStageDirectory(P.layout.Amber())
	S.AddScript(TotalRunScript, total)
	if err := P.write(S); err != nil {
		return err
	}
	P.manifest.State = Done.String()
	return P.manifest.Write(P.layout.Manifest())
}

// Prepare validates opts and runs a whole preparation.
func Prepare(ctx context.Context, opts Options) (*Pipeline, error) {
	P, err := New(opts)
	if err != nil {
		return nil, err
	}
	return P, P.Run(ctx)
}
