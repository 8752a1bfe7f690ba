/*
 * vec_test.go, part of rnamd.
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

package vec

import (
	"math"
	"testing"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	if err != nil {
		Te.Fatal(err)
	}
	if A.NVecs() != 2 {
		Te.Errorf("expected 2 vectors, got %d", A.NVecs())
	}
	if A.At(1, 2) != 6 {
		Te.Errorf("expected 6 at (1,2), got %f", A.At(1, 2))
	}
	_, err = NewMatrix([]float64{1, 2, 3, 4})
	if err == nil {
		Te.Error("expected an error for data not divisible by 3")
	}
}

func TestSomeVecs(Te *testing.T) {
	A, _ := NewMatrix([]float64{0, 0, 0, 1, 1, 1, 2, 2, 2, 3, 3, 3})
	B := Zeros(2)
	B.SomeVecs(A, []int{1, 3})
	if B.At(0, 0) != 1 || B.At(1, 0) != 3 {
		Te.Errorf("wrong vectors extracted: %v", B)
	}
	C := Zeros(4)
	C.Copy(A)
	B.Scale(10, B)
	C.SetVecs(B, []int{1, 3})
	if C.At(1, 1) != 10 || C.At(3, 2) != 30 {
		Te.Errorf("SetVecs didn't write the vectors back: %v", C)
	}
	if C.At(0, 0) != 0 || C.At(2, 0) != 2 {
		Te.Errorf("SetVecs touched unrelated vectors: %v", C)
	}
}

func TestAddSubVec(Te *testing.T) {
	A, _ := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	v, _ := NewMatrix([]float64{1, 1, 1})
	B := Zeros(2)
	B.AddVec(A, v)
	if B.At(0, 0) != 2 || B.At(1, 2) != 7 {
		Te.Errorf("AddVec wrong: %v", B)
	}
	B.SubVec(B, v)
	for i := 0; i < 2; i++ {
		for k := 0; k < 3; k++ {
			if B.At(i, k) != A.At(i, k) {
				Te.Errorf("SubVec didn't undo AddVec at (%d,%d)", i, k)
			}
		}
	}
}

func TestNorm(Te *testing.T) {
	v, _ := NewMatrix([]float64{3, 4, 0})
	if n := v.Norm(); math.Abs(n-5) > 1e-12 {
		Te.Errorf("expected norm 5, got %f", n)
	}
}
