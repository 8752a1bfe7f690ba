/*
 * rmsd.go, part of rnamd.
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

package analyze

import (
	"fmt"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

//RMSDTraj reads frames from traj and returns, for each one, the RMSD
//of the selected atoms against the same atoms in ref, after optimal
//superposition on the selection. ref is typically the first frame of
//the trajectory, or the equilibrated starting structure. skip frames
//are discarded between each frame used.
func RMSDTraj(traj mol.Traj, ref *vec.Matrix, indexes []int, skip int) ([]float64, error) {
	if len(indexes) == 0 {
		return nil, fmt.Errorf("analyze: empty selection for RMSD")
	}
	refsel := vec.Zeros(len(indexes))
	refsel.SomeVecs(ref, indexes)
	var rmsds []float64
	frame := vec.Zeros(traj.Len())
	sel := vec.Zeros(len(indexes))
	for i := 0; ; i++ {
		err := traj.Next(frame)
		if err != nil {
			if _, ok := err.(mol.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "RMSDTraj")
		}
		if skip > 0 && i%(skip+1) != 0 {
			continue
		}
		sel.SomeVecs(frame, indexes)
		super, err := mol.Super(sel, refsel, nil, nil)
		if err != nil {
			return nil, errDecorate(err, "RMSDTraj")
		}
		r, err := mol.RMSD(super, refsel)
		if err != nil {
			return nil, errDecorate(err, "RMSDTraj")
		}
		rmsds = append(rmsds, r)
	}
	return rmsds, nil
}

//errDecorate wraps an error in the decorated-trail convention, or
//passes it through unchanged if it doesn't follow it.
func errDecorate(err error, caller string) error {
	err2, ok := err.(mol.Error)
	if !ok {
		return fmt.Errorf("analyze: %s: %w", caller, err)
	}
	err2.Decorate(caller)
	return err2
}
