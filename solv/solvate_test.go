/*
 * solvate_test.go, part of rnamd.
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

package solv

import (
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

func TestBoxEdge(Te *testing.T) {
	//a solute 20 Å long on x, smaller on y and z
	c, err := vec.NewMatrix([]float64{
		-10, 0, 0,
		10, 2, 3,
		0, -1, 1,
	})
	if err != nil {
		Te.Fatal(err)
	}
	edge := BoxEdge(c, 15)
	if math.Abs(edge-50) > 1e-9 {
		Te.Errorf("expected a 50 Å box for a 20 Å solute with 15 Å padding, got %f", edge)
	}
}

func TestIonPairs(Te *testing.T) {
	//0.15 M in a (50 Å)³ box: 0.15 * 6.022e23 * 1.25e-22 L ≈ 11 pairs
	pairs := IonPairs(50, 0.15)
	if pairs != 11 {
		Te.Errorf("expected 11 ion pairs, got %d", pairs)
	}
	if IonPairs(50, 0) != 0 {
		Te.Error("zero molarity should add no pairs")
	}
}

func TestIonCounts(Te *testing.T) {
	//an RNA with charge -8 needs 8 extra Na+
	na, cl := IonCounts(50, 0.15, -8)
	if na != 19 || cl != 11 {
		Te.Errorf("expected 19 Na+ and 11 Cl-, got %d and %d", na, cl)
	}
	//the added ions must cancel the solute charge
	if na-cl != 8 {
		Te.Errorf("ion counts don't neutralize: %d Na+, %d Cl-", na, cl)
	}
	//a positive solute gets extra Cl-
	na, cl = IonCounts(50, 0.15, 3)
	if na != 11 || cl != 14 {
		Te.Errorf("expected 11 Na+ and 14 Cl-, got %d and %d", na, cl)
	}
}

func testSolute(Te *testing.T, charge int) *mol.Molecule {
	ats := []*mol.Atom{
		{Name: "P", ID: 1, Molname: "G", MolID: 1, Symbol: "P"},
		{Name: "C1'", ID: 2, Molname: "G", MolID: 1, Symbol: "C"},
	}
	c, err := vec.NewMatrix([]float64{0, 0, 0, 10, 0, 0})
	if err != nil {
		Te.Fatal(err)
	}
	m, err := mol.NewMolecule([]*vec.Matrix{c}, ats, charge)
	if err != nil {
		Te.Fatal(err)
	}
	return m
}

func TestTleapBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	T := NewTleapHandle()
	T.SetWorkDir(dir)
	T.SetLigand("LIG", "ligand.mol2", "ligand.frcmod")
	sys := testSolute(Te, -2)
	if err := T.BuildInput(sys); err != nil {
		Te.Fatal(err)
	}
	if math.Abs(T.BoxEdge()-40) > 1e-9 {
		Te.Errorf("expected a 40 Å box, got %f", T.BoxEdge())
	}
	na, cl := T.IonsPlanned()
	if na-cl != 2 {
		Te.Errorf("ion counts don't neutralize a -2 solute: %d Na+, %d Cl-", na, cl)
	}
	data, err := os.ReadFile(filepath.Join(dir, "solvate.leap"))
	if err != nil {
		Te.Fatal(err)
	}
	script := string(data)
	for _, want := range []string{
		"leaprc.RNA.OL3", "leaprc.gaff2", "leaprc.water.tip3p",
		"loadmol2 ligand.mol2", "loadamberparams ligand.frcmod",
		"solvateBox sys TIP3PBOX", "addIonsRand",
		"saveamberparm sys solvate.prmtop solvate.rst7",
	} {
		if !strings.Contains(script, want) {
			Te.Errorf("leap script lacks %q:\n%s", want, script)
		}
	}
	if !strings.Contains(script, "Na+ "+strconv.Itoa(na)) {
		Te.Errorf("leap script doesn't add %d Na+:\n%s", na, script)
	}
	if _, err := os.Stat(filepath.Join(dir, "solvate_solute.pdb")); err != nil {
		Te.Errorf("solute structure not written: %v", err)
	}
}

func TestIonInventory(Te *testing.T) {
	ats := []*mol.Atom{
		{Name: "P", ID: 1, Molname: "G", MolID: 1, Symbol: "P"},
		{Name: "Na+", ID: 2, Molname: "Na+", MolID: 2, Symbol: "Na"},
		{Name: "Cl-", ID: 3, Molname: "Cl-", MolID: 3, Symbol: "Cl"},
		{Name: "Na+", ID: 4, Molname: "Na+", MolID: 4, Symbol: "Na"},
	}
	top, err := mol.NewTopology(ats, 0)
	if err != nil {
		Te.Fatal(err)
	}
	ions := Ions(top)
	if len(ions) != 3 {
		Te.Fatalf("expected 3 ions, got %d", len(ions))
	}
	if NetCharge(ions) != 1 {
		Te.Errorf("expected net ion charge +1, got %d", NetCharge(ions))
	}
	if ions[0].Index != 1 || ions[0].Charge != 1 {
		Te.Errorf("wrong first ion: %+v", ions[0])
	}
}

//a PDB carries no formal charges, so the backbone charge has to be
//estimated before ion counting or the box ends up charged.
const rnaPDB = `ATOM      1  O5'   G A   1       2.500   2.000   3.000  1.00  0.30           O
ATOM      2  P     G A   2       1.000   2.000   3.000  1.00  0.50           P
ATOM      3  P     U A   3       4.000   2.000   3.000  1.00  0.50           P
END
`

func TestNeutralizesReadRNA(Te *testing.T) {
	dir := Te.TempDir()
	path := filepath.Join(dir, "rna.pdb")
	if err := os.WriteFile(path, []byte(rnaPDB), 0o644); err != nil {
		Te.Fatal(err)
	}
	rna, err := mol.PDBFileRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if rna.Charge() != 0 {
		Te.Fatalf("a freshly read PDB should report charge 0, got %d", rna.Charge())
	}
	rna.SetCharge(mol.NucleicCharge(rna))
	if rna.Charge() != -2 {
		Te.Fatalf("expected charge -2 from 2 backbone phosphates, got %d", rna.Charge())
	}
	T := NewTleapHandle()
	T.SetWorkDir(dir)
	T.SetMolarity(0)
	if err := T.BuildInput(rna); err != nil {
		Te.Fatal(err)
	}
	na, cl := T.IonsPlanned()
	if na != 2 || cl != 0 {
		Te.Errorf("expected 2 Na+ and 0 Cl- to neutralize, got %d and %d", na, cl)
	}
	if na-cl != -rna.Charge() {
		Te.Errorf("planned ions leave a net charge of %d", rna.Charge()+na-cl)
	}
	data, err := os.ReadFile(filepath.Join(dir, "solvate.leap"))
	if err != nil {
		Te.Fatal(err)
	}
	script := string(data)
	if !strings.Contains(script, "addIonsRand sys Na+ 2\n") {
		Te.Errorf("leap script doesn't add the 2 Na+:\n%s", script)
	}
	//to tleap a count of 0 means "neutralize", which would double up
	if strings.Contains(script, " 0") {
		Te.Errorf("leap script asks tleap for a zero ion count:\n%s", script)
	}
}
