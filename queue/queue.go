/*
 * queue.go, part of preparemd.
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

// Package queue holds the job-scheduler headers that start every generated
// run script. Each cluster is a named, static block of resource requests
// and environment-module setup.
package queue

import (
	"sort"
	"strconv"
	"strings"

	"github.com/preparemd/preparemd"
)

// Default profile, used when none is given.
const Default = "foodin"

var builtin = map[string]string{
	"foodin": `#!/bin/bash
#SBATCH -p q1
#SBATCH -n 16
#SBATCH --gpus 1
#SBATCH -o %x.%j.out
#SBATCH -e %x.%j.err

# run the environment module
. /home/apps/Modules/init/profile.sh
module load amber24
`,
	"flow": `#!/bin/bash
#PJM -L rscunit=cx
#PJM -L rscgrp=cx-share
#PJM -L gpu=1
#PJM -L elapse=72:00:00
#PJM -j
# move to working directory
test $PJM_O_WORKDIR && cd $PJM_O_WORKDIR

. /usr/share/Modules/init/sh
module use -a /data/group1/z44243z/modulefiles
module load amber24
`,
	"wisteria": `#!/bin/bash -l
#PJM -g gw43
#PJM -L rscgrp=share,gpu=1,elapse=48:00:00
#PJM -j
# move to working directory
test $PJM_O_WORKDIR && cd $PJM_O_WORKDIR
module use -a /work/gw43/share/modulefiles
module load amber24
`,
	"yayoi":        pbsBlock(16),
	"brillantegw3": pbsBlock(24),
}

func pbsBlock(ppn int) string {
	return `#!/bin/bash
#PBS -q default
#PBS -l nodes=1:ppn=` + strconv.Itoa(ppn) + `:gpus=1
#PBS -l walltime=72:00:00

test $PBS_O_WORKDIR && cd $PBS_O_WORKDIR
# run the environment module
if test -f /home/apps/Modules/init/profile.sh; then
    . /home/apps/Modules/init/profile.sh
    module load amber24
elif test -f /usr/local/Modules/init/profile.sh; then
    . /usr/local/Modules/init/profile.sh
    module load amber24
elif test -f /usr/share/Modules/init/profile.sh; then
    . /usr/share/Modules/init/profile.sh
    module load amber24
fi
`
}

// hostnameEcho is appended to every header, so the job log tells where it ran.
const hostnameEcho = "echo `hostname`\n"

// Registry is a closed set of named profiles. The zero value is empty;
// use NewRegistry to get one with the built-in clusters.
type Registry struct {
	profiles map[string]string
}

// NewRegistry returns a registry with the built-in cluster profiles.
func NewRegistry() *Registry {
	R := &Registry{profiles: make(map[string]string, len(builtin))}
	for k, v := range builtin {
		R.profiles[k] = v
	}
	return R
}

// Register adds or replaces the profile name. block must be the full
// header, shebang included, without the hostname echo.
func (R *Registry) Register(name, block string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return preparemd.Errorf(preparemd.ErrValidation, "queue profile needs a name")
	}
	if !strings.HasPrefix(block, "#!") {
		return preparemd.Errorf(preparemd.ErrValidation, "queue profile %s must start with a shebang line", name)
	}
	if !strings.HasSuffix(block, "\n") {
		block += "\n"
	}
	if R.profiles == nil {
		R.profiles = make(map[string]string)
	}
	R.profiles[name] = block
	return nil
}

// Has reports whether name is a known profile.
func (R *Registry) Has(name string) bool {
	_, ok := R.profiles[name]
	return ok
}

// Names returns the known profiles, sorted.
func (R *Registry) Names() []string {
	names := make([]string, 0, len(R.profiles))
	for k := range R.profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Header returns the header block for the profile name followed by the
// hostname echo. It fails with ErrUnknownQueueProfile for unknown names.
func (R *Registry) Header(name string) (string, error) {
	block, ok := R.profiles[name]
	if !ok {
		return "", preparemd.Errorf(preparemd.ErrUnknownQueueProfile, "%q, known profiles: %s", name, strings.Join(R.Names(), ", "))
	}
	return block + hostnameEcho, nil
}
