/*
 * doc.go, part of preparemd.
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

/*Package preparemd is the main package of preparemd. It provides the
parameter record threaded through the generation of AMBER input files, and
the small amount of arithmetic and parsing needed to fill it.


	**preparemd Capabilities**


    Computes the number of ions needed for a given box and ion
	concentration.

    Counts solute residues and atoms in PDB files (plain, gzip or zstd).

    Reads the box from CRYST1 records and the disulfide list written by
	pdb4amber, and renames the bonded cysteines to CYX.

    Reads running averages from sander/pmemd output and derives
	accelerated-MD boost parameters from them.


The templates for the AMBER control files and run scripts are in the mdin
package, the queue-system headers in queue, the wrappers around the
AmberTools programs in amber, and the whole preparation sequence in
pipeline.*/
package preparemd
