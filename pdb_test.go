/*
 * pdb_test.go, part of rnamd.
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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const samplePDB = `CRYST1   40.000   40.000   40.000  90.00  90.00  90.00 P 1           1
ATOM      1  P     G A   1       1.000   2.000   3.000  1.00  0.50           P
ATOM      2  O5'   G A   1       2.500   2.000   3.000  1.00  0.30           O
HETATM    3  C1  LIG A   2       5.000   5.000   5.000  1.00  0.00           C
HETATM    4 NA   NA  A   3       9.000   9.000   9.000  1.00  0.00          NA
END
`

func TestPDBRead(Te *testing.T) {
	mol, err := pdbRead(strings.NewReader(samplePDB))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 4 {
		Te.Fatalf("expected 4 atoms, got %d", mol.Len())
	}
	if mol.Box == nil || mol.Box[0] != 40.0 {
		Te.Errorf("CRYST1 not read: %v", mol.Box)
	}
	p := mol.Atom(0)
	if p.Name != "P" || p.Molname != "G" || p.MolID != 1 || p.Chain != "A" {
		Te.Errorf("wrong first atom: %+v", p)
	}
	if p.Symbol != "P" || p.Bfactor != 0.5 {
		Te.Errorf("wrong symbol or bfactor: %+v", p)
	}
	if mol.Atom(1).Name != "O5'" {
		Te.Errorf("primed atom name mangled: %q", mol.Atom(1).Name)
	}
	if !mol.Atom(2).Het {
		Te.Error("HETATM flag lost")
	}
	na := mol.Atom(3)
	if na.Symbol != "Na" {
		Te.Errorf("expected sodium symbol Na, got %q", na.Symbol)
	}
	if mol.Coords[0].At(2, 0) != 5.0 {
		Te.Errorf("wrong coordinates: %v", mol.Coords[0])
	}
}

func TestPDBMultiModel(Te *testing.T) {
	text := "MODEL        1\n" +
		"ATOM      1  P     G A   1       0.000   0.000   0.000  1.00  0.00           P\n" +
		"ENDMDL\nMODEL        2\n" +
		"ATOM      1  P     G A   1       1.000   0.000   0.000  1.00  0.00           P\n" +
		"ENDMDL\n"
	mol, err := pdbRead(strings.NewReader(text))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.NFrames() != 2 {
		Te.Fatalf("expected 2 frames, got %d", mol.NFrames())
	}
	if mol.Coords[1].At(0, 0) != 1.0 {
		Te.Errorf("wrong second frame: %v", mol.Coords[1])
	}
}

func TestPDBRoundTrip(Te *testing.T) {
	mol, err := pdbRead(strings.NewReader(samplePDB))
	if err != nil {
		Te.Fatal(err)
	}
	path := filepath.Join(Te.TempDir(), "out.pdb")
	if err := PDBFileWrite(path, mol.Coords[0], mol, mol.Box); err != nil {
		Te.Fatal(err)
	}
	back, err := PDBFileRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Len() != mol.Len() {
		Te.Fatalf("atom count changed: %d vs %d", back.Len(), mol.Len())
	}
	for i := 0; i < mol.Len(); i++ {
		a, b := mol.Atom(i), back.Atom(i)
		if a.Name != b.Name || a.Molname != b.Molname || a.MolID != b.MolID {
			Te.Errorf("atom %d changed: %+v vs %+v", i, a, b)
		}
		for k := 0; k < 3; k++ {
			if math.Abs(mol.Coords[0].At(i, k)-back.Coords[0].At(i, k)) > 1e-3 {
				Te.Errorf("coordinate (%d,%d) changed", i, k)
			}
		}
	}
	if back.Box == nil || math.Abs(back.Box[0]-40.0) > 1e-3 {
		Te.Errorf("box lost in round trip: %v", back.Box)
	}
}

func TestPDBGlobRead(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"a.pdb", "b.pdb"} {
		err := os.WriteFile(filepath.Join(dir, name), []byte(samplePDB), 0o644)
		if err != nil {
			Te.Fatal(err)
		}
	}
	mols, err := PDBGlobRead(filepath.Join(dir, "*.pdb"))
	if err != nil {
		Te.Fatal(err)
	}
	if len(mols) != 2 {
		Te.Fatalf("expected 2 molecules, got %d", len(mols))
	}
	for _, m := range mols {
		if m.Len() != 4 {
			Te.Errorf("expected 4 atoms, got %d", m.Len())
		}
	}
	if _, err := PDBGlobRead(filepath.Join(dir, "*.xyz")); err == nil {
		Te.Error("expected an error for a pattern matching nothing")
	}
}

//two backbone phosphates; the 5' residue has none, and the HETATM
//phosphorus belongs to the ligand.
const rnaPDB = `ATOM      1  O5'   G A   1       2.500   2.000   3.000  1.00  0.30           O
ATOM      2  P     G A   2       1.000   2.000   3.000  1.00  0.50           P
ATOM      3  P     U A   3       4.000   2.000   3.000  1.00  0.50           P
HETATM    4  P   LIG A   4       5.000   5.000   5.000  1.00  0.00           P
END
`

func TestNucleicCharge(Te *testing.T) {
	rna, err := pdbRead(strings.NewReader(rnaPDB))
	if err != nil {
		Te.Fatal(err)
	}
	if rna.Charge() != 0 {
		Te.Fatalf("a PDB carries no formal charge, got %d", rna.Charge())
	}
	if q := NucleicCharge(rna); q != -2 {
		Te.Errorf("expected -2 from 2 backbone phosphates, got %d", q)
	}
}
