/*
 * interfaces.go, part of rnamd.
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

package mol

import "github.com/molsimtools/rnamd/vec"

//Atomer is anything that can report its atoms.
type Atomer interface {
	Atom(i int) *Atom
	Len() int
}

//Traj is the interface for any trajectory source, including a
//multi-frame Molecule.
type Traj interface {
	//Readable reports whether the trajectory is ready to be read.
	Readable() bool

	//Next reads the next frame into output, or discards it if output
	//is nil. If the frame carries box vectors and box is given, the
	//box lengths are written there. After the last frame it returns a
	//LastFrameError.
	Next(output *vec.Matrix, box ...[]float64) error

	//Len returns the number of atoms per frame.
	Len() int
}

//TrajCloser is a Traj backed by a file that must be closed after use.
type TrajCloser interface {
	Traj
	Close()
}
