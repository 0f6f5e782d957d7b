/*
 * production.go, part of preparemd.
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

package mdin

import (
	"fmt"

	"github.com/preparemd/preparemd"
)

// StepsPerNanosecond at the 2 fs timestep of every dynamics stage.
const StepsPerNanosecond = 500000

// HeatedCheckpoint is the replica-relative path of the last heating
// checkpoint, HeatCheckpoint(HeatStages).
const HeatedCheckpoint = "../../heat/md9.rst7"

// ReplicaDir is the zero-padded directory name of replica i.
func ReplicaDir(i int) string {
	return fmt.Sprintf("%03d", i)
}

// NextReplica builds the record of production replica i (1-based), running
// ns nanoseconds from the checkpoint prev. The first replica starts fresh
// from the heated system when prev is empty, later ones continue. It also
// returns the checkpoint path replica i+1 has to start from.
func NextReplica(prev string, i, ns int, queue string) (preparemd.Record, string) {
	rec := preparemd.Record{
		Restart:         preparemd.Continue,
		Steps:           ns * StepsPerNanosecond,
		Temperature:     preparemd.FixedTemperature(Target),
		Ensemble:        preparemd.NPT,
		Queue:           queue,
		PriorCheckpoint: prev,
	}
	if i <= 1 {
		rec.Restart = preparemd.Fresh
		if prev == "" {
			rec.PriorCheckpoint = HeatedCheckpoint
		}
	}
	return rec, fmt.Sprintf("../%s/md.rst7", ReplicaDir(i))
}

// ProductionRecords folds NextReplica over replicas 1..n.
func ProductionRecords(n, ns int, queue string) ([]preparemd.Record, error) {
	if n < 1 || ns < 1 {
		return nil, preparemd.Errorf(preparemd.ErrValidation, "need at least one replica of at least 1 ns, got %d of %d ns", n, ns)
	}
	recs := make([]preparemd.Record, 0, n)
	prev := ""
	for i := 1; i <= n; i++ {
		var rec preparemd.Record
		rec, prev = NextReplica(prev, i, ns, queue)
		recs = append(recs, rec)
	}
	return recs, nil
}
