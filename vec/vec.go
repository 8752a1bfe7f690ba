/*
 * vec.go, part of rnamd.
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

//Package vec implements a 3-column matrix of Cartesian coordinates, one
//row (vector) per atom, on top of gonum's mat.Dense. All geometric
//manipulations in rnamd go through this type.
package vec

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of 3D row vectors. It wraps a gonum dense matrix with
//3 columns, so all gonum methods remain available.
type Matrix struct {
	*mat.Dense
}

//Zeros returns a zero-filled Matrix with vecs vectors.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NewMatrix builds a Matrix from a slice of float64 which must have a
//length divisible by 3 (x1,y1,z1,x2,y2,z2...).
func NewMatrix(data []float64) (*Matrix, error) {
	if len(data) == 0 || len(data)%3 != 0 {
		return nil, Error{fmt.Sprintf("vec: can't make a *3 matrix from %d elements", len(data)), []string{"NewMatrix"}, true}
	}
	return &Matrix{mat.NewDense(len(data)/3, 3, data)}, nil
}

//Dense2Matrix wraps a 3-column gonum dense matrix into a Matrix. It
//panics if the matrix does not have 3 columns.
func Dense2Matrix(A *mat.Dense) *Matrix {
	_, c := A.Dims()
	if c != 3 {
		panic(ErrNotXx3)
	}
	return &Matrix{A}
}

//NVecs returns the number of 3D vectors in the matrix.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3)
	}
	return r
}

//VecView returns a view (not a copy) of the ith vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	return &Matrix{F.Slice(i, i+1, 0, 3).(*mat.Dense)}
}

//Copy copies A into the receiver. Both matrices must have the same
//number of vectors.
func (F *Matrix) Copy(A *Matrix) {
	F.Dense.Copy(A.Dense)
}

//SomeVecs puts the vectors of A whose indexes are given in clist into
//the receiver, in the given order. The receiver must have len(clist)
//vectors.
func (F *Matrix) SomeVecs(A *Matrix, clist []int) {
	fr, _ := F.Dims()
	ar, _ := A.Dims()
	if fr != len(clist) {
		panic(mat.ErrShape)
	}
	for i, j := range clist {
		if j >= ar {
			panic(ErrIndexOutOfRange)
		}
		for k := 0; k < 3; k++ {
			F.Set(i, k, A.At(j, k))
		}
	}
}

//SetVecs copies the vectors of A into the vectors of the receiver whose
//indexes are given in clist. A must have len(clist) vectors.
func (F *Matrix) SetVecs(A *Matrix, clist []int) {
	ar, _ := A.Dims()
	fr, _ := F.Dims()
	if ar != len(clist) {
		panic(mat.ErrShape)
	}
	for i, j := range clist {
		if j >= fr {
			panic(ErrIndexOutOfRange)
		}
		for k := 0; k < 3; k++ {
			F.Set(j, k, A.At(i, k))
		}
	}
}

//AddVec adds the row vector vec to each vector of A, putting the result
//in the receiver.
func (F *Matrix) AddVec(A, vec *Matrix) {
	ar, ac := A.Dims()
	rr, rc := vec.Dims()
	fr, fc := F.Dims()
	if ac != rc || rr != 1 || ac != fc || ar != fr {
		panic(mat.ErrShape)
	}
	for i := 0; i < ar; i++ {
		for k := 0; k < 3; k++ {
			F.Set(i, k, A.At(i, k)+vec.At(0, k))
		}
	}
}

//SubVec subtracts the row vector vec from each vector of A, putting the
//result in the receiver.
func (F *Matrix) SubVec(A, vec *Matrix) {
	neg := Zeros(1)
	neg.Dense.Scale(-1, vec.Dense)
	F.AddVec(A, neg)
}

//Mul multiplies A and B, putting the result in the receiver.
func (F *Matrix) Mul(A, B mat.Matrix) {
	F.Dense.Mul(A, B)
}

//Sub subtracts B from A, putting the result in the receiver.
func (F *Matrix) Sub(A, B *Matrix) {
	F.Dense.Sub(A.Dense, B.Dense)
}

//Add adds A and B, putting the result in the receiver.
func (F *Matrix) Add(A, B *Matrix) {
	F.Dense.Add(A.Dense, B.Dense)
}

//Scale scales A by v, putting the result in the receiver.
func (F *Matrix) Scale(v float64, A *Matrix) {
	F.Dense.Scale(v, A.Dense)
}

//Norm returns the Euclidean norm of the (single-vector) receiver. It
//panics if the receiver has more than one vector.
func (F *Matrix) Norm() float64 {
	if F.NVecs() != 1 {
		panic("vec: Norm called on a multi-vector matrix")
	}
	return mat.Norm(F.Dense, 2)
}

//String returns a neat string representation of the matrix.
func (F *Matrix) String() string {
	return fmt.Sprintf("%v", mat.Formatted(F.Dense, mat.Squeeze()))
}

//Error is the error type for the vec package, implementing
//mol.Error.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate adds new information to the error, and returns the
//decoration trail.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

//Common panic messages.
const (
	ErrNotXx3          = "vec: matrix must have 3 columns"
	ErrIndexOutOfRange = "vec: vector index out of range"
)
