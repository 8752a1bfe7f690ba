/*
 * antechamber_test.go, part of rnamd.
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

package param

import (
	"os"
	"path/filepath"
	"testing"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

func testLigand(Te *testing.T) *mol.Molecule {
	ats := []*mol.Atom{
		{Name: "C1", ID: 1, Molname: "LIG", MolID: 1, Symbol: "C", Het: true},
		{Name: "N1", ID: 2, Molname: "LIG", MolID: 1, Symbol: "N", Het: true},
		{Name: "O1", ID: 3, Molname: "LIG", MolID: 1, Symbol: "O", Het: true},
	}
	c, err := vec.NewMatrix([]float64{
		0, 0, 0,
		1.4, 0, 0,
		2.1, 1.1, 0,
	})
	if err != nil {
		Te.Fatal(err)
	}
	m, err := mol.NewMolecule([]*vec.Matrix{c}, ats, 1)
	if err != nil {
		Te.Fatal(err)
	}
	return m
}

func TestBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	A := NewAntechamberHandle()
	A.SetWorkDir(dir)
	lig := testLigand(Te)
	if err := A.BuildInput(lig); err != nil {
		Te.Fatal(err)
	}
	path := filepath.Join(dir, "ligand.pdb")
	if _, err := os.Stat(path); err != nil {
		Te.Fatalf("ligand structure not written: %v", err)
	}
	back, err := mol.PDBFileRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Len() != 3 {
		Te.Errorf("ligand structure has %d atoms, expected 3", back.Len())
	}
}

func TestOutputPaths(Te *testing.T) {
	A := NewAntechamberHandle()
	A.SetWorkDir("/work")
	if A.Mol2() != "/work/ligand.mol2" {
		Te.Errorf("wrong mol2 path: %s", A.Mol2())
	}
	if A.Frcmod() != "/work/ligand.frcmod" {
		Te.Errorf("wrong frcmod path: %s", A.Frcmod())
	}
	A.SetName("other")
	if A.Mol2() != "/work/other.mol2" {
		Te.Errorf("wrong renamed mol2 path: %s", A.Mol2())
	}
}

func TestNetChargeOverride(Te *testing.T) {
	dir := Te.TempDir()
	lig := testLigand(Te) //charge +1
	A := NewAntechamberHandle()
	A.SetWorkDir(dir)
	if err := A.BuildInput(lig); err != nil {
		Te.Fatal(err)
	}
	if A.NetCharge() != 1 {
		Te.Errorf("expected the ligand's charge +1, got %d", A.NetCharge())
	}
	//an explicit charge survives BuildInput, whatever the call order
	B := NewAntechamberHandle()
	B.SetWorkDir(dir)
	B.SetNetCharge(-2)
	if err := B.BuildInput(lig); err != nil {
		Te.Fatal(err)
	}
	if B.NetCharge() != -2 {
		Te.Errorf("BuildInput clobbered the explicit charge: got %d", B.NetCharge())
	}
}

func TestBuildInputNeedsLigand(Te *testing.T) {
	A := NewAntechamberHandle()
	A.SetWorkDir(Te.TempDir())
	if err := A.BuildInput(nil); err == nil {
		Te.Error("expected an error for a nil ligand")
	}
}
