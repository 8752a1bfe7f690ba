/*
 * pdb.go, part of rnamd.
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
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/molsimtools/rnamd/vec"
)

//PDBFileRead reads a PDB file into a Molecule. Multi-model files
//produce one coordinate frame per MODEL. Files ending in ".gz" are
//decompressed on the fly. Only ATOM, HETATM, MODEL, ENDMDL and CRYST1
//records are interpreted; everything else is skipped.
func PDBFileRead(path string) (*Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, CError{fmt.Sprintf("mol: can't decompress %s: %s", path, err.Error()), []string{"PDBFileRead"}}
		}
		defer gz.Close()
		r = gz
	}
	mol, err := pdbRead(r)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+path)
	}
	return mol, nil
}

//PDBGlobRead reads every PDB file matching the given glob pattern, in
//lexical order, and returns the resulting molecules. It is an error
//for the pattern to match nothing.
func PDBGlobRead(pattern string) ([]*Molecule, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, CError{err.Error(), []string{"PDBGlobRead"}}
	}
	if len(paths) == 0 {
		return nil, CError{fmt.Sprintf("mol: no files match %q", pattern), []string{"PDBGlobRead"}}
	}
	sort.Strings(paths)
	mols := make([]*Molecule, 0, len(paths))
	for _, p := range paths {
		m, err := PDBFileRead(p)
		if err != nil {
			return nil, errDecorate(err, "PDBGlobRead")
		}
		mols = append(mols, m)
	}
	return mols, nil
}

//pdbRead parses PDB-format text. The column layout is fixed by the
//format: serial 7-11, name 13-16, resname 18-20, chain 22, resid
//23-26, x/y/z 31-54, occupancy 55-60, bfactor 61-66, element 77-78.
func pdbRead(r io.Reader) (*Molecule, error) {
	var ats []*Atom
	var frames []*vec.Matrix
	var data []float64
	var box []float64
	first := true //are we reading the first model?
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 6 {
			continue
		}
		switch strings.TrimSpace(line[0:6]) {
		case "CRYST1":
			box = parseCryst1(line)
		case "ENDMDL":
			if len(data) > 0 {
				m, err := vec.NewMatrix(data)
				if err != nil {
					return nil, errDecorate(err, "pdbRead")
				}
				frames = append(frames, m)
				data = nil
				first = false
			}
		case "ATOM", "HETATM":
			x, y, z, at, err := parseAtomRecord(line)
			if err != nil {
				return nil, errDecorate(err, "pdbRead")
			}
			data = append(data, x, y, z)
			if first {
				ats = append(ats, at)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{err.Error(), []string{"pdbRead"}}
	}
	if len(data) > 0 { //file without ENDMDL
		m, err := vec.NewMatrix(data)
		if err != nil {
			return nil, errDecorate(err, "pdbRead")
		}
		frames = append(frames, m)
	}
	if len(frames) == 0 {
		return nil, CError{"mol: no coordinates found in PDB input", []string{"pdbRead"}}
	}
	mol, err := NewMolecule(frames, ats, 0)
	if err != nil {
		return nil, errDecorate(err, "pdbRead")
	}
	mol.Box = box
	return mol, nil
}

//parseAtomRecord parses one ATOM/HETATM line.
func parseAtomRecord(line string) (x, y, z float64, at *Atom, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = CError{fmt.Sprintf("mol: truncated PDB record: %q", line), []string{"parseAtomRecord"}}
		}
	}()
	at = new(Atom)
	at.Het = strings.HasPrefix(line, "HETATM")
	at.ID, err = strconv.Atoi(strings.TrimSpace(line[6:11]))
	if err != nil {
		return 0, 0, 0, nil, CError{fmt.Sprintf("mol: bad atom serial in %q: %s", line, err.Error()), []string{"parseAtomRecord"}}
	}
	at.Name = strings.TrimSpace(line[12:16])
	at.Molname = strings.TrimSpace(line[17:20])
	at.Chain = strings.TrimSpace(line[21:22])
	at.MolID, err = strconv.Atoi(strings.TrimSpace(line[22:26]))
	if err != nil {
		return 0, 0, 0, nil, CError{fmt.Sprintf("mol: bad residue number in %q: %s", line, err.Error()), []string{"parseAtomRecord"}}
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64)
	if err == nil {
		y, err = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64)
	}
	if err == nil {
		z, err = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64)
	}
	if err != nil {
		return 0, 0, 0, nil, CError{fmt.Sprintf("mol: bad coordinates in %q: %s", line, err.Error()), []string{"parseAtomRecord"}}
	}
	if len(line) >= 60 {
		at.Occupancy, _ = strconv.ParseFloat(strings.TrimSpace(line[54:60]), 64)
	}
	if len(line) >= 66 {
		at.Bfactor, _ = strconv.ParseFloat(strings.TrimSpace(line[60:66]), 64)
	}
	if len(line) >= 78 {
		at.Symbol = strings.TrimSpace(line[76:78])
	}
	if at.Symbol == "" {
		at.Symbol = symbolFromName(at.Name)
	} else if len(at.Symbol) == 2 {
		at.Symbol = at.Symbol[:1] + strings.ToLower(at.Symbol[1:])
	}
	at.Mass = massFromSymbol(at.Symbol)
	return x, y, z, at, nil
}

//parseCryst1 extracts the box lengths from a CRYST1 record. Returns
//nil on any parsing trouble, since a box is optional.
func parseCryst1(line string) []float64 {
	if len(line) < 33 {
		return nil
	}
	a, err1 := strconv.ParseFloat(strings.TrimSpace(line[6:15]), 64)
	b, err2 := strconv.ParseFloat(strings.TrimSpace(line[15:24]), 64)
	c, err3 := strconv.ParseFloat(strings.TrimSpace(line[24:33]), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	return []float64{a, b, c}
}

//PDBFileWrite writes the coordinates in coords and the atom data in
//atoms to path, in PDB format. If box has at least 3 elements, a
//CRYST1 record with a rectangular cell is included.
func PDBFileWrite(path string, coords *vec.Matrix, atoms Atomer, box []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return CError{err.Error(), []string{"PDBFileWrite"}}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	return pdbWrite(w, coords, atoms, box)
}

func pdbWrite(w io.Writer, coords *vec.Matrix, atoms Atomer, box []float64) error {
	if coords == nil || atoms == nil {
		return CError{ErrNilData, []string{"pdbWrite"}}
	}
	if coords.NVecs() != atoms.Len() {
		return CError{ErrMismatchedData, []string{"pdbWrite"}}
	}
	if len(box) >= 3 {
		fmt.Fprintf(w, "CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n", box[0], box[1], box[2], 90.0, 90.0, 90.0)
	}
	for i := 0; i < atoms.Len(); i++ {
		at := atoms.Atom(i)
		record := "ATOM"
		if at.Het {
			record = "HETATM"
		}
		name := at.Name
		//one-to-three letter names start one column later
		if len(name) < 4 {
			name = " " + name
		}
		_, err := fmt.Fprintf(w, "%-6s%5d %-4s %-3s %1s%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s\n",
			record, at.ID, name, at.Molname, at.Chain, at.MolID,
			coords.At(i, 0), coords.At(i, 1), coords.At(i, 2),
			at.Occupancy, at.Bfactor, strings.ToUpper(at.Symbol))
		if err != nil {
			return CError{err.Error(), []string{"pdbWrite"}}
		}
	}
	fmt.Fprintln(w, "END")
	return nil
}
