/*
 * rmsf.go, part of rnamd.
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
	"math"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

//RMSFTraj returns the root-mean-square fluctuation of each selected
//atom over the trajectory. Each frame's selection is superimposed on
//the mean structure of the selection, which is itself refined by
//iterating: frames are first aligned to the reference, a mean is
//computed, frames are re-aligned to that mean, and so on until the
//mean moves by less than tol Å RMSD, or maxiter iterations. Because a
//trajectory can only be read once, the frames are kept in memory for
//the duration of the call.
func RMSFTraj(traj mol.Traj, ref *vec.Matrix, indexes []int, skip int) ([]float64, error) {
	const (
		tol     = 1e-4
		maxiter = 10
	)
	if len(indexes) == 0 {
		return nil, fmt.Errorf("analyze: empty selection for RMSF")
	}
	frames, err := collectSelection(traj, indexes, skip)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("analyze: no frames read for RMSF")
	}
	mean := vec.Zeros(len(indexes))
	mean.SomeVecs(ref, indexes)
	for iter := 0; iter < maxiter; iter++ {
		for i, f := range frames {
			super, err := mol.Super(f, mean, nil, nil)
			if err != nil {
				return nil, errDecorate(err, "RMSFTraj")
			}
			frames[i] = super
		}
		newmean := meanStructure(frames)
		shift, err := mol.RMSD(newmean, mean)
		if err != nil {
			return nil, errDecorate(err, "RMSFTraj")
		}
		mean = newmean
		if shift < tol {
			break
		}
	}
	rmsf := make([]float64, len(indexes))
	for _, f := range frames {
		dev, err := mol.PerAtomSquareDev(f, mean)
		if err != nil {
			return nil, errDecorate(err, "RMSFTraj")
		}
		for i, d := range dev {
			rmsf[i] += d
		}
	}
	for i := range rmsf {
		rmsf[i] = math.Sqrt(rmsf[i] / float64(len(frames)))
	}
	return rmsf, nil
}

//collectSelection reads the whole trajectory, keeping only the
//selected atoms of each frame.
func collectSelection(traj mol.Traj, indexes []int, skip int) ([]*vec.Matrix, error) {
	var frames []*vec.Matrix
	frame := vec.Zeros(traj.Len())
	for i := 0; ; i++ {
		err := traj.Next(frame)
		if err != nil {
			if _, ok := err.(mol.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "collectSelection")
		}
		if skip > 0 && i%(skip+1) != 0 {
			continue
		}
		sel := vec.Zeros(len(indexes))
		sel.SomeVecs(frame, indexes)
		frames = append(frames, sel)
	}
	return frames, nil
}

func meanStructure(frames []*vec.Matrix) *vec.Matrix {
	n := frames[0].NVecs()
	mean := vec.Zeros(n)
	for _, f := range frames {
		mean.Add(mean, f)
	}
	mean.Scale(1/float64(len(frames)), mean)
	return mean
}
