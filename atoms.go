/*
 * atoms.go, part of rnamd.
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

	"github.com/molsimtools/rnamd/vec"
)

//Atom contains the per-atom data read from structure files, except for
//the coordinates, which live in a vec.Matrix, one row per atom.
type Atom struct {
	Name      string //PDB atom name
	ID        int    //1-based serial
	Molname   string //residue name
	MolID     int    //residue number
	Chain     string
	Mass      float64
	Occupancy float64
	Bfactor   float64
	Charge    float64 //partial charge, in e
	FFType    string  //force-field atom type (empty until parameterized)
	Symbol    string  //element symbol
	Het       bool    //was a HETATM record in the PDB
}

//Copy returns a copy of the Atom.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("mol: attempted to copy a nil Atom")
	}
	at := *A
	return &at
}

//Topology contains the information about a molecule that is not
//expected to change during a simulation, i.e. everything except
//coordinates.
type Topology struct {
	atoms  []*Atom
	charge int //total charge
}

//NewTopology returns a topology with the given atoms and total charge.
func NewTopology(ats []*Atom, charge int) (*Topology, error) {
	if ats == nil {
		return nil, CError{ErrNilData, []string{"NewTopology"}}
	}
	return &Topology{atoms: ats, charge: charge}, nil
}

//Len returns the number of atoms in the topology.
func (T *Topology) Len() int { return len(T.atoms) }

//Atom returns the ith atom. It panics if i is out of range, as this
//is considered a programming error.
func (T *Topology) Atom(i int) *Atom {
	if i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.atoms[i]
}

//Charge returns the total charge of the topology.
func (T *Topology) Charge() int { return T.charge }

//SetCharge sets the total charge of the topology.
func (T *Topology) SetCharge(c int) { T.charge = c }

//AppendAtom adds an atom at the end of the topology.
func (T *Topology) AppendAtom(at *Atom) {
	T.atoms = append(T.atoms, at)
}

//SomeAtoms returns a new topology with the atoms whose indexes are
//given in list, in that order. The total charge of the new topology is
//the rounded sum of the partial charges of the selected atoms.
func (T *Topology) SomeAtoms(list []int) (*Topology, error) {
	ats := make([]*Atom, 0, len(list))
	var q float64
	for _, i := range list {
		if i < 0 || i >= T.Len() {
			return nil, CError{fmt.Sprintf("%s: %d", ErrAtomOutOfRange, i), []string{"SomeAtoms"}}
		}
		ats = append(ats, T.atoms[i].Copy())
		q += T.atoms[i].Charge
	}
	return NewTopology(ats, roundInt(q))
}

//Molecule is a topology plus one or more coordinate frames and,
//optionally, a periodic box. It implements Atomer and Traj.
type Molecule struct {
	*Topology
	Coords []*vec.Matrix
	Box    []float64 //a, b, c box lengths in Å, or nil
	//reading state for the Traj interface
	current  int
	readable bool
}

//NewMolecule builds a molecule from coordinate frames, atoms and total
//charge. At least one frame is required, and every frame must have one
//row per atom.
func NewMolecule(coords []*vec.Matrix, ats []*Atom, charge int) (*Molecule, error) {
	if len(coords) == 0 {
		return nil, CError{ErrNilData, []string{"NewMolecule"}}
	}
	top, err := NewTopology(ats, charge)
	if err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	M := &Molecule{Topology: top, Coords: coords, readable: true}
	if err := M.Corrupted(); err != nil {
		return nil, errDecorate(err, "NewMolecule")
	}
	return M, nil
}

//Corrupted checks that every frame has as many rows as the topology has
//atoms, and returns an error if not.
func (M *Molecule) Corrupted() error {
	for i, c := range M.Coords {
		if c.NVecs() != M.Len() {
			return CError{fmt.Sprintf("mol: frame %d has %d vectors for %d atoms", i, c.NVecs(), M.Len()), []string{"Corrupted"}}
		}
	}
	return nil
}

//Copy returns a deep copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	ats := make([]*Atom, M.Len())
	for i := range ats {
		ats[i] = M.Atom(i).Copy()
	}
	coords := make([]*vec.Matrix, len(M.Coords))
	for i, c := range M.Coords {
		coords[i] = vec.Zeros(c.NVecs())
		coords[i].Copy(c)
	}
	top, _ := NewTopology(ats, M.Charge()) //ats can't be nil here
	ret := &Molecule{Topology: top, Coords: coords, readable: true}
	if M.Box != nil {
		ret.Box = make([]float64, len(M.Box))
		copy(ret.Box, M.Box)
	}
	return ret
}

//NFrames returns the number of coordinate frames.
func (M *Molecule) NFrames() int { return len(M.Coords) }

//Readable returns true if there are frames left to read with Next.
func (M *Molecule) Readable() bool {
	return M.readable && M.current < len(M.Coords)
}

//Next fills output with the next frame. A nil output skips the frame.
//After the last frame it returns a LastFrameError.
func (M *Molecule) Next(output *vec.Matrix, box ...[]float64) error {
	if M.current >= len(M.Coords) {
		M.readable = false
		return newLastFrameError("", "Molecule.Next")
	}
	if output != nil {
		output.Copy(M.Coords[M.current])
	}
	if len(box) > 0 && box[0] != nil && M.Box != nil {
		copy(box[0], M.Box)
	}
	M.current++
	return nil
}

//Rewind resets the frame-reading state, so the molecule can be read
//again as a trajectory.
func (M *Molecule) Rewind() {
	M.current = 0
	M.readable = true
}

//SetCoords replaces the coordinates of frame frame with those given.
func (M *Molecule) SetCoords(c *vec.Matrix, frame int) error {
	if frame < 0 || frame >= len(M.Coords) {
		return CError{fmt.Sprintf("mol: no frame %d", frame), []string{"SetCoords"}}
	}
	if c.NVecs() != M.Len() {
		return CError{ErrMismatchedData, []string{"SetCoords"}}
	}
	M.Coords[frame].Copy(c)
	return nil
}

//Merge concatenates the given molecules into one system, in the order
//given: atoms, frame-0 coordinates and total charges are simply
//appended. Only the first frame of each molecule is used. No clash
//detection of any kind is performed. The box, if any, is taken from
//the first molecule that has one.
func Merge(mols ...*Molecule) (*Molecule, error) {
	if len(mols) == 0 {
		return nil, CError{ErrNilData, []string{"Merge"}}
	}
	var ats []*Atom
	var charge int
	var total int
	var box []float64
	for _, m := range mols {
		if m == nil {
			return nil, CError{ErrNilData, []string{"Merge"}}
		}
		total += m.Len()
		charge += m.Charge()
	}
	coords := vec.Zeros(total)
	offset := 0
	for _, m := range mols {
		for i := 0; i < m.Len(); i++ {
			at := m.Atom(i).Copy()
			at.ID = offset + i + 1
			ats = append(ats, at)
			for k := 0; k < 3; k++ {
				coords.Set(offset+i, k, m.Coords[0].At(i, k))
			}
		}
		offset += m.Len()
		if box == nil && m.Box != nil {
			box = append([]float64{}, m.Box...)
		}
	}
	ret, err := NewMolecule([]*vec.Matrix{coords}, ats, charge)
	if err != nil {
		return nil, errDecorate(err, "Merge")
	}
	ret.Box = box
	return ret, nil
}

//ExtractResidues returns a new molecule with only the atoms whose
//residue name is resname and, if one or more resid is given, whose
//residue number is among them. Frame 0 only.
func ExtractResidues(M *Molecule, resname string, resid ...int) (*Molecule, error) {
	var list []int
	for i := 0; i < M.Len(); i++ {
		at := M.Atom(i)
		if at.Molname != resname {
			continue
		}
		if len(resid) > 0 && !isInInt(resid, at.MolID) {
			continue
		}
		list = append(list, i)
	}
	if len(list) == 0 {
		return nil, CError{fmt.Sprintf("mol: no atoms with residue name %q", resname), []string{"ExtractResidues"}}
	}
	top, err := M.SomeAtoms(list)
	if err != nil {
		return nil, errDecorate(err, "ExtractResidues")
	}
	c := vec.Zeros(len(list))
	c.SomeVecs(M.Coords[0], list)
	return &Molecule{Topology: top, Coords: []*vec.Matrix{c}, readable: true}, nil
}

//RemoveResidues returns a new molecule without any atom whose residue
//name is resname. Frame 0 only. The charge of the result is left at
//zero; set it if you know better.
func RemoveResidues(M *Molecule, resname string) (*Molecule, error) {
	var list []int
	for i := 0; i < M.Len(); i++ {
		if M.Atom(i).Molname != resname {
			list = append(list, i)
		}
	}
	if len(list) == 0 {
		return nil, CError{fmt.Sprintf("mol: no atoms left after removing residue %q", resname), []string{"RemoveResidues"}}
	}
	top, err := M.SomeAtoms(list)
	if err != nil {
		return nil, errDecorate(err, "RemoveResidues")
	}
	c := vec.Zeros(len(list))
	c.SomeVecs(M.Coords[0], list)
	ret := &Molecule{Topology: top, Coords: []*vec.Matrix{c}, readable: true}
	ret.Box = M.Box
	return ret, nil
}

//NucleicCharge estimates the formal charge of a nucleic acid at
//physiological pH: one negative charge per backbone phosphate, found
//by counting phosphorus atoms named "P" in the standard (non-HETATM)
//residues. PDB files carry no formal charges, so a freshly read
//molecule reports zero and needs this before ion counting. A 5'
//terminal residue without a phosphate contributes nothing, which
//matches its protonation state.
func NucleicCharge(A Atomer) int {
	n := 0
	for i := 0; i < A.Len(); i++ {
		at := A.Atom(i)
		if !at.Het && at.Symbol == "P" && at.Name == "P" {
			n++
		}
	}
	return -n
}

//roundInt rounds a float64 to the nearest int.
func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

//isInInt returns true if test is in container, false otherwise.
func isInInt(container []int, test int) bool {
	for _, i := range container {
		if test == i {
			return true
		}
	}
	return false
}
