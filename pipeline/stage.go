/*
 * stage.go, part of preparemd.
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
	"os"
	"path/filepath"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/mdin"
)

// Layout names the directories of a prepared system under Root.
type Layout struct {
	Root string
}

func (L Layout) Top() string        { return filepath.Join(L.Root, "top") }
func (L Layout) Amber() string      { return filepath.Join(L.Root, "amber") }
func (L Layout) Minimize() string   { return filepath.Join(L.Amber(), "minimize") }
func (L Layout) Heat() string       { return filepath.Join(L.Amber(), "heat") }
func (L Layout) Production() string { return filepath.Join(L.Amber(), "pr") }

// Replica is the directory of production replica i, 1-based.
func (L Layout) Replica(i int) string {
	return filepath.Join(L.Production(), mdin.ReplicaDir(i))
}

// Manifest is where the provenance record goes.
func (L Layout) Manifest() string { return filepath.Join(L.Root, ManifestName) }

const (
	RunScript = "run.sh"
	// TotalRunScript runs every stage in a single job.
	TotalRunScript = "totalrun.sh"
	TrajFixScript  = "trajfix.in"
	ScheduleImage  = "schedule.png"
)

type stagedFile struct {
	name       string
	content    string
	executable bool
}

// StageDirectory collects the files of one stage and writes them
// together. The directory is created if needed, and files already there
// are overwritten.
type StageDirectory struct {
	Path  string
	files []stagedFile
}

// NewStageDirectory returns an empty stage rooted at path.
func NewStageDirectory(path string) *StageDirectory {
	return &StageDirectory{Path: path}
}

// Add queues a control file.
func (S *StageDirectory) Add(name, content string) {
	S.files = append(S.files, stagedFile{name: name, content: content})
}

// AddScript queues a run script, written executable.
func (S *StageDirectory) AddScript(name, content string) {
	S.files = append(S.files, stagedFile{name: name, content: content, executable: true})
}

// Write creates the directory and writes the queued files in the order
// they were added. It returns their paths.
func (S *StageDirectory) Write() ([]string, error) {
	if err := os.MkdirAll(S.Path, 0o755); err != nil {
		return nil, preparemd.NewError(preparemd.ErrMissingFile, S.Path, "cannot create stage directory", err)
	}
	written := make([]string, 0, len(S.files))
	for _, f := range S.files {
		name := filepath.Join(S.Path, f.name)
		perm := os.FileMode(0o644)
		if f.executable {
			perm = 0o755
		}
		if err := os.WriteFile(name, []byte(f.content), perm); err != nil {
			return written, preparemd.NewError(preparemd.ErrMissingFile, name, "cannot write", err)
		}
		//WriteFile keeps the mode of an existing file.
		if err := os.Chmod(name, perm); err != nil {
			return written, preparemd.NewError(preparemd.ErrMissingFile, name, "cannot set mode", err)
		}
		written = append(written, name)
	}
	return written, nil
}
