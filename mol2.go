/*
 * mol2.go, part of rnamd.
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/molsimtools/rnamd/vec"
)

//Mol2FileRead reads a TRIPOS mol2 file into a Molecule. Atom types
//(column 6 of the ATOM records, e.g. GAFF2 types after antechamber)
//go to Atom.FFType and partial charges (column 9) to Atom.Charge.
//Only the first molecule in the file is read.
func Mol2FileRead(path string) (*Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := mol2Read(f)
	if err != nil {
		return nil, errDecorate(err, "Mol2FileRead "+path)
	}
	return m, nil
}

func mol2Read(r io.Reader) (*Molecule, error) {
	var ats []*Atom
	var data []float64
	inAtoms := false
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "@<TRIPOS>") {
			if inAtoms {
				break //first molecule only
			}
			inAtoms = line == "@<TRIPOS>ATOM"
			continue
		}
		if !inAtoms || line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			return nil, CError{fmt.Sprintf("mol: short mol2 ATOM record: %q", line), []string{"mol2Read"}}
		}
		at := new(Atom)
		var err error
		at.ID, err = strconv.Atoi(fields[0])
		if err != nil {
			return nil, CError{fmt.Sprintf("mol: bad mol2 atom id in %q", line), []string{"mol2Read"}}
		}
		at.Name = fields[1]
		var x, y, z float64
		x, err = strconv.ParseFloat(fields[2], 64)
		if err == nil {
			y, err = strconv.ParseFloat(fields[3], 64)
		}
		if err == nil {
			z, err = strconv.ParseFloat(fields[4], 64)
		}
		if err != nil {
			return nil, CError{fmt.Sprintf("mol: bad mol2 coordinates in %q", line), []string{"mol2Read"}}
		}
		at.FFType = fields[5]
		//the element is the part of the SYBYL/GAFF type before the dot
		at.Symbol = strings.Split(at.FFType, ".")[0]
		if len(at.Symbol) > 2 || AtomicMass[at.Symbol] == 0 {
			at.Symbol = symbolFromName(at.Name)
		}
		at.Mass = massFromSymbol(at.Symbol)
		if len(fields) >= 7 {
			at.MolID, _ = strconv.Atoi(fields[6])
		}
		if len(fields) >= 8 {
			at.Molname = fields[7]
		}
		if len(fields) >= 9 {
			at.Charge, err = strconv.ParseFloat(fields[8], 64)
			if err != nil {
				return nil, CError{fmt.Sprintf("mol: bad mol2 charge in %q", line), []string{"mol2Read"}}
			}
		}
		ats = append(ats, at)
		data = append(data, x, y, z)
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{err.Error(), []string{"mol2Read"}}
	}
	if len(ats) == 0 {
		return nil, CError{"mol: no ATOM records in mol2 input", []string{"mol2Read"}}
	}
	coords, err := vec.NewMatrix(data)
	if err != nil {
		return nil, errDecorate(err, "mol2Read")
	}
	var q float64
	for _, at := range ats {
		q += at.Charge
	}
	return NewMolecule([]*vec.Matrix{coords}, ats, roundInt(q))
}

//Mol2FileWrite writes frame 0 of the molecule to path in TRIPOS mol2
//format. Bonds are not written (the record is left empty), which the
//parameterization tools tolerate, as they perceive connectivity
//themselves.
func Mol2FileWrite(path string, M *Molecule, name string) error {
	f, err := os.Create(path)
	if err != nil {
		return CError{err.Error(), []string{"Mol2FileWrite"}}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	if name == "" {
		name = "MOL"
	}
	fmt.Fprintf(w, "@<TRIPOS>MOLECULE\n%s\n%5d %5d %5d\nSMALL\nUSER_CHARGES\n\n", name, M.Len(), 0, 1)
	fmt.Fprintln(w, "@<TRIPOS>ATOM")
	for i := 0; i < M.Len(); i++ {
		at := M.Atom(i)
		fftype := at.FFType
		if fftype == "" {
			fftype = at.Symbol
		}
		molname := at.Molname
		if molname == "" {
			molname = name
		}
		fmt.Fprintf(w, "%7d %-8s %10.4f %10.4f %10.4f %-6s %5d %-8s %10.6f\n",
			i+1, at.Name, M.Coords[0].At(i, 0), M.Coords[0].At(i, 1), M.Coords[0].At(i, 2),
			fftype, at.MolID, molname, at.Charge)
	}
	fmt.Fprintln(w, "@<TRIPOS>BOND")
	return nil
}
