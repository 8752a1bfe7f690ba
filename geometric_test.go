/*
 * geometric_test.go, part of rnamd.
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
	"math"
	"testing"

	"github.com/molsimtools/rnamd/vec"
)

func TestBoundingBox(Te *testing.T) {
	c, _ := vec.NewMatrix([]float64{
		-1, 0, 0,
		3, 2, 0,
		1, -5, 7,
	})
	min, max := BoundingBox(c)
	if min[0] != -1 || min[1] != -5 || min[2] != 0 {
		Te.Errorf("wrong min corner: %v", min)
	}
	if max[0] != 3 || max[1] != 2 || max[2] != 7 {
		Te.Errorf("wrong max corner: %v", max)
	}
	if e := MaxExtent(c); e != 7 {
		Te.Errorf("expected max extent 7, got %f", e)
	}
}

func TestRMSDZero(Te *testing.T) {
	c, _ := vec.NewMatrix([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1})
	r, err := RMSD(c, c)
	if err != nil {
		Te.Fatal(err)
	}
	if r != 0 {
		Te.Errorf("RMSD of a set against itself is %f, not zero", r)
	}
}

//rotateZ returns the coordinates rotated by ang radians around z and
//then translated.
func rotateZ(c *vec.Matrix, ang, tx, ty, tz float64) *vec.Matrix {
	out := vec.Zeros(c.NVecs())
	s, co := math.Sin(ang), math.Cos(ang)
	for i := 0; i < c.NVecs(); i++ {
		x, y, z := c.At(i, 0), c.At(i, 1), c.At(i, 2)
		out.Set(i, 0, co*x-s*y+tx)
		out.Set(i, 1, s*x+co*y+ty)
		out.Set(i, 2, z+tz)
	}
	return out
}

func TestSuperRecoversTransform(Te *testing.T) {
	templa, _ := vec.NewMatrix([]float64{
		0, 0, 0,
		1.5, 0, 0,
		0, 1.2, 0,
		0.3, 0.4, 1.1,
		-1, 0.5, -0.7,
	})
	test := rotateZ(templa, math.Pi/3, 4, -2, 1)
	super, err := Super(test, templa, nil, nil)
	if err != nil {
		Te.Fatal(err)
	}
	r, err := RMSD(super, templa)
	if err != nil {
		Te.Fatal(err)
	}
	if r > 1e-9 {
		Te.Errorf("superposition left an RMSD of %g", r)
	}
}

func TestSuperWithLists(Te *testing.T) {
	templa, _ := vec.NewMatrix([]float64{
		0, 0, 0,
		1.5, 0, 0,
		0, 1.2, 0,
		0.3, 0.4, 1.1,
	})
	test := rotateZ(templa, 0.8, -1, 2, 0.5)
	//fit on a subset; the whole matrix should still land on the
	//template since the transform is rigid
	super, err := Super(test, templa, []int{0, 1, 2}, []int{0, 1, 2})
	if err != nil {
		Te.Fatal(err)
	}
	r, _ := RMSD(super, templa)
	if r > 1e-9 {
		Te.Errorf("subset fit left an RMSD of %g", r)
	}
}

func TestCentrate(Te *testing.T) {
	c, _ := vec.NewMatrix([]float64{1, 1, 1, 3, 3, 3})
	out, center := Centrate(c)
	if center.At(0, 0) != 2 || center.At(0, 1) != 2 || center.At(0, 2) != 2 {
		Te.Errorf("wrong center: %v", center)
	}
	cog := CenterOfGeometry(out)
	for k := 0; k < 3; k++ {
		if math.Abs(cog.At(0, k)) > 1e-12 {
			Te.Errorf("centered set has center %v", cog)
		}
	}
}
