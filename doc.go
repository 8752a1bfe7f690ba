/*
 * doc.go, part of rnamd.
 *
 * Copyright 2026 The rnamd developers
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

/*
Package mol provides the molecular data model for the rnamd pipeline:
atoms, topologies and molecules, together with readers and writers for
the structure formats the pipeline shuffles between external programs
(PDB, TRIPOS mol2, AMBER ASCII restart) and the geometric operations
needed to prepare and analyze simulations (bounding boxes,
superposition, RMSD).

A Molecule is a topology plus one or more coordinate frames, so a
multi-model PDB doubles as a (small) trajectory; the Traj interface
abstracts over that and over the binary trajectory readers in
rnamd/traj.

Subpackages orchestrate the rest of the pipeline: param wraps ligand
parameterization (antechamber, GAFF2), solv builds solvated boxes
(tleap), md drives the MD engines themselves (AMBER, GROMACS, OpenMM),
analyze computes RMSD/RMSF and plots them, and pipeline strings the
equilibration and production stages together.
*/
package mol

//Version of the library and tools.
const Version = "0.1.0"
