/*
 * geometric.go, part of rnamd.
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

import (
	"fmt"
	"math"

	"github.com/molsimtools/rnamd/vec"
	"gonum.org/v1/gonum/mat"
)

//BoundingBox returns the minimum and maximum corner of the axis-aligned
//bounding box of the given coordinates.
func BoundingBox(c *vec.Matrix) (min, max []float64) {
	min = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < c.NVecs(); i++ {
		for k := 0; k < 3; k++ {
			v := c.At(i, k)
			if v < min[k] {
				min[k] = v
			}
			if v > max[k] {
				max[k] = v
			}
		}
	}
	return min, max
}

//MaxExtent returns the largest side of the axis-aligned bounding box
//of the given coordinates.
func MaxExtent(c *vec.Matrix) float64 {
	min, max := BoundingBox(c)
	var ext float64
	for k := 0; k < 3; k++ {
		if d := max[k] - min[k]; d > ext {
			ext = d
		}
	}
	return ext
}

//CenterOfGeometry returns the geometric center of the coordinates as a
//1x3 matrix.
func CenterOfGeometry(c *vec.Matrix) *vec.Matrix {
	n := c.NVecs()
	center := vec.Zeros(1)
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			center.Set(0, k, center.At(0, k)+c.At(i, k))
		}
	}
	center.Scale(1/float64(n), center)
	return center
}

//Centrate returns a copy of c translated so its geometric center is at
//the origin, together with the (1x3) center that was subtracted.
func Centrate(c *vec.Matrix) (*vec.Matrix, *vec.Matrix) {
	center := CenterOfGeometry(c)
	out := vec.Zeros(c.NVecs())
	out.SubVec(c, center)
	return out, center
}

//RotatorTranslatorToSuper computes the best-fit (Kabsch) superposition
//of the coordinates in test onto those in templa. It returns the
//transformed test coordinates, the rotation matrix and two translation
//vectors. To superimpose without using the transformed matrix directly,
//add the first translation to the moving coordinates, multiply by the
//rotation, then add the second translation.
func RotatorTranslatorToSuper(test, templa *vec.Matrix) (*vec.Matrix, *vec.Matrix, *vec.Matrix, *vec.Matrix, error) {
	tmr, tmc := templa.Dims()
	tsr, tsc := test.Dims()
	if tmr != tsr || tmc != 3 || tsc != 3 {
		return nil, nil, nil, nil, CError{"mol: ill-formed matrices for superposition", []string{"RotatorTranslatorToSuper"}}
	}
	ctest, ctrtest := Centrate(test)
	ctempla, ctrtempla := Centrate(templa)
	//covariance matrix H = ctest^T * ctempla
	H := mat.NewDense(3, 3, nil)
	H.Mul(ctest.T(), ctempla.Dense)
	var svd mat.SVD
	if ok := svd.Factorize(H, mat.SVDFull); !ok {
		return nil, nil, nil, nil, CError{"mol: SVD failed in superposition", []string{"RotatorTranslatorToSuper"}}
	}
	var U, V mat.Dense
	svd.UTo(&U)
	svd.VTo(&V)
	//correct for a possible reflection
	d := 1.0
	var VUt mat.Dense
	VUt.Mul(&V, U.T())
	if mat.Det(&VUt) < 0 {
		d = -1
	}
	D := mat.NewDiagDense(3, []float64{1, 1, d})
	//with row-vector coordinates the rotation applies on the right:
	//transformed = ctest * (U D V^T)
	var UD, rot mat.Dense
	UD.Mul(&U, D)
	rot.Mul(&UD, V.T())
	rotation := vec.Dense2Matrix(&rot)
	transformed := vec.Zeros(tsr)
	transformed.Mul(ctest, rotation)
	transformed.AddVec(transformed, ctrtempla)
	trans1 := vec.Zeros(1)
	trans1.Scale(-1, ctrtest)
	return transformed, rotation, trans1, ctrtempla, nil
}

//Super superimposes the coordinates in test onto those in templa using
//only the atoms listed in testlst and templalst for the fit, and
//returns the whole transformed test matrix. The two lists must have
//the same length. Empty lists mean "all atoms".
func Super(test, templa *vec.Matrix, testlst, templalst []int) (*vec.Matrix, error) {
	if len(testlst) != len(templalst) {
		return nil, CError{fmt.Sprintf("mol: mismatched fit-atom lists: %d vs %d", len(testlst), len(templalst)), []string{"Super"}}
	}
	ctest := test
	ctempla := templa
	if len(testlst) != 0 {
		ctest = vec.Zeros(len(testlst))
		ctest.SomeVecs(test, testlst)
		ctempla = vec.Zeros(len(templalst))
		ctempla.SomeVecs(templa, templalst)
	}
	_, rotation, t1, t2, err := RotatorTranslatorToSuper(ctest, ctempla)
	if err != nil {
		return nil, errDecorate(err, "Super")
	}
	out := vec.Zeros(test.NVecs())
	out.AddVec(test, t1)
	rotated := vec.Zeros(test.NVecs())
	rotated.Mul(out, rotation)
	rotated.AddVec(rotated, t2)
	return rotated, nil
}

//RMSD returns the root-mean-square deviation between the two
//coordinate sets, which must have the same dimensions. No fitting is
//performed; superimpose first if you need a best-fit RMSD.
func RMSD(test, templa *vec.Matrix) (float64, error) {
	tmr, tmc := templa.Dims()
	tsr, tsc := test.Dims()
	if tmr != tsr || tmc != 3 || tsc != 3 {
		return 0, CError{"mol: ill-formed matrices for RMSD", []string{"RMSD"}}
	}
	var sum float64
	for i := 0; i < tmr; i++ {
		for k := 0; k < 3; k++ {
			d := test.At(i, k) - templa.At(i, k)
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(tmr)), nil
}

//PerAtomSquareDev returns the per-atom squared deviation between the
//two coordinate sets.
func PerAtomSquareDev(test, templa *vec.Matrix) ([]float64, error) {
	tmr, tmc := templa.Dims()
	tsr, tsc := test.Dims()
	if tmr != tsr || tmc != 3 || tsc != 3 {
		return nil, CError{"mol: ill-formed matrices for per-atom deviation", []string{"PerAtomSquareDev"}}
	}
	out := make([]float64, tmr)
	for i := 0; i < tmr; i++ {
		for k := 0; k < 3; k++ {
			d := test.At(i, k) - templa.At(i, k)
			out[i] += d * d
		}
	}
	return out, nil
}
