/*
 * solvate.go, part of rnamd.
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

//Package solv builds solvated, ionized simulation boxes around a
//solute. The box and ion arithmetic is done here; the actual placement
//of water and ions, and the generation of the AMBER parameter files
//for the solvated system, are delegated to tleap from AmberTools.
package solv

import (
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

//Defaults for the solvation step.
const (
	DefaultPadding  = 15.0 //Å of water on each side of the solute
	DefaultMolarity = 0.15 //mol/L of NaCl, physiological
)

//avogadro in mol⁻¹.
const avogadro = 6.02214076e23

//BoxEdge returns the edge of the cubic solvation box for the given
//solute coordinates: the largest extent of the axis-aligned bounding
//box plus padding Å on each side.
func BoxEdge(solute *vec.Matrix, padding float64) float64 {
	return mol.MaxExtent(solute) + 2*padding
}

//IonPairs returns the number of cation/anion pairs needed to reach the
//given molarity in a cubic box of the given edge (in Å), before
//neutralization.
func IonPairs(edge, molarity float64) int {
	liters := math.Pow(edge, 3) * 1e-27 //Å³ to L
	return int(math.Round(molarity * avogadro * liters))
}

//IonCounts returns how many Na+ and Cl- to add for a solute of net
//charge q in a box of the given edge: enough pairs for the target
//molarity, plus counter-ions so the net charge of all added ions is
//-q.
func IonCounts(edge, molarity float64, q int) (na, cl int) {
	pairs := IonPairs(edge, molarity)
	na, cl = pairs, pairs
	if q > 0 {
		cl += q
	} else {
		na -= q
	}
	return na, cl
}

//Ion is one ion found in a solvated system, for the verification
//report.
type Ion struct {
	Index  int //atom index in the solvated system
	Symbol string
	Charge int
}

//Ions returns the monoatomic ions present in a system, by residue
//name. The caller can print them as a sanity check on what the
//solvation added; the pipeline does not assert on them.
func Ions(sys mol.Atomer) []Ion {
	var out []Ion
	for i := 0; i < sys.Len(); i++ {
		at := sys.Atom(i)
		if q, ok := mol.IonCharge[at.Molname]; ok {
			out = append(out, Ion{Index: i, Symbol: at.Symbol, Charge: q})
		}
	}
	return out
}

//NetCharge returns the summed formal charge of the given ions.
func NetCharge(ions []Ion) int {
	var q int
	for _, ion := range ions {
		q += ion.Charge
	}
	return q
}

//TleapHandle drives tleap to solvate a combined system and emit the
//prmtop/rst7 pair the MD engines consume.
type TleapHandle struct {
	command  string
	job      string
	wrkdir   string
	padding  float64
	molarity float64
	water    string //leaprc water model name
	ligMol2  string //parameterized ligand, if the system has one
	ligFrc   string //frcmod for the ligand
	ligName  string //residue name of the ligand
	sys      *mol.Molecule
	edge     float64
	na, cl   int
}

//NewTleapHandle returns a handle with values set to their defaults.
func NewTleapHandle() *TleapHandle {
	T := new(TleapHandle)
	T.SetDefaults()
	return T
}

//SetDefaults sets the tleap binary, the water model (TIP3P) and the
//box parameters to their defaults.
func (T *TleapHandle) SetDefaults() {
	T.command = "tleap"
	T.job = "solvate"
	T.water = "tip3p"
	T.padding = DefaultPadding
	T.molarity = DefaultMolarity
}

//SetName sets the job name, from which file names derive.
func (T *TleapHandle) SetName(name string) { T.job = name }

//SetWorkDir sets the working directory for the calculation.
func (T *TleapHandle) SetWorkDir(dir string) { T.wrkdir = dir }

//SetCommand sets the tleap binary.
func (T *TleapHandle) SetCommand(name string) { T.command = name }

//SetPadding sets the water padding in Å.
func (T *TleapHandle) SetPadding(p float64) { T.padding = p }

//SetMolarity sets the target NaCl concentration in mol/L.
func (T *TleapHandle) SetMolarity(m float64) { T.molarity = m }

//SetLigand points the handle at the parameterized ligand files
//produced by the param package, so tleap can load its GAFF2 types.
func (T *TleapHandle) SetLigand(resname, mol2, frcmod string) {
	T.ligName = resname
	T.ligMol2 = mol2
	T.ligFrc = frcmod
}

func (T *TleapHandle) file(name string) string {
	return filepath.Join(T.wrkdir, name)
}

//Prmtop returns the path to the parameter/topology file the run
//produces.
func (T *TleapHandle) Prmtop() string { return T.file(T.job + ".prmtop") }

//Rst7 returns the path to the coordinate file the run produces.
func (T *TleapHandle) Rst7() string { return T.file(T.job + ".rst7") }

//BoxEdge returns the box edge computed by the last BuildInput.
func (T *TleapHandle) BoxEdge() float64 { return T.edge }

//IonsPlanned returns the Na+/Cl- counts computed by the last
//BuildInput.
func (T *TleapHandle) IonsPlanned() (na, cl int) { return T.na, T.cl }

//BuildInput writes the solute structure and the tleap script that
//solvates it in a cubic box and adds ions. The box edge and ion
//counts come from this package's own arithmetic, so they follow the
//solute, not tleap's defaults.
func (T *TleapHandle) BuildInput(sys *mol.Molecule) error {
	if sys == nil {
		return Error{ErrNoSystem, T.job, "", []string{"BuildInput"}, true}
	}
	T.sys = sys
	T.edge = BoxEdge(sys.Coords[0], T.padding)
	T.na, T.cl = IonCounts(T.edge, T.molarity, sys.Charge())
	if err := mol.PDBFileWrite(T.file(T.job+"_solute.pdb"), sys.Coords[0], sys, nil); err != nil {
		return Error{err.Error(), T.job, "", []string{"BuildInput"}, true}
	}
	in, err := os.Create(T.file(T.job + ".leap"))
	if err != nil {
		return Error{err.Error(), T.job, "", []string{"BuildInput"}, true}
	}
	defer in.Close()
	fmt.Fprintln(in, "source leaprc.RNA.OL3")
	fmt.Fprintln(in, "source leaprc.gaff2")
	fmt.Fprintf(in, "source leaprc.water.%s\n", T.water)
	if T.ligMol2 != "" {
		fmt.Fprintf(in, "%s = loadmol2 %s\n", T.ligName, T.ligMol2)
		fmt.Fprintf(in, "loadamberparams %s\n", T.ligFrc)
	}
	fmt.Fprintf(in, "sys = loadpdb %s_solute.pdb\n", T.job)
	//pad each axis so the final box is the cubic box our arithmetic
	//asks for
	min, max := mol.BoundingBox(sys.Coords[0])
	fmt.Fprintf(in, "solvateBox sys TIP3PBOX {%.3f %.3f %.3f}\n",
		(T.edge-(max[0]-min[0]))/2, (T.edge-(max[1]-min[1]))/2, (T.edge-(max[2]-min[2]))/2)
	//a count of 0 tells tleap to neutralize on its own, so zero-count
	//species must be left off the line entirely
	switch {
	case T.na > 0 && T.cl > 0:
		fmt.Fprintf(in, "addIonsRand sys Na+ %d Cl- %d\n", T.na, T.cl)
	case T.na > 0:
		fmt.Fprintf(in, "addIonsRand sys Na+ %d\n", T.na)
	case T.cl > 0:
		fmt.Fprintf(in, "addIonsRand sys Cl- %d\n", T.cl)
	}
	fmt.Fprintf(in, "savepdb sys %s_out.pdb\n", T.job)
	fmt.Fprintf(in, "saveamberparm sys %s.prmtop %s.rst7\n", T.job, T.job)
	fmt.Fprintln(in, "quit")
	return nil
}

//Run runs tleap. With wait true it blocks until it finishes.
func (T *TleapHandle) Run(wait bool) error {
	command := fmt.Sprintf("%s -f %s.leap > %s.log 2>&1", T.command, T.job, T.job)
	var err error
	if wait {
		cmd := exec.Command("sh", "-c", command)
		cmd.Dir = T.wrkdir
		err = cmd.Run()
	} else {
		cmd := exec.Command("sh", "-c", "nohup "+command)
		cmd.Dir = T.wrkdir
		err = cmd.Start()
	}
	if err != nil {
		return Error{ErrNotRunning + ": " + err.Error(), T.job, tail(T.file(T.job + ".log")), []string{"exec", "Run"}, true}
	}
	return nil
}

//System reads back the solvated system tleap wrote. The total charge
//is zero by construction (the ion counts neutralize the solute).
func (T *TleapHandle) System() (*mol.Molecule, error) {
	if T.sys == nil {
		return nil, Error{ErrNoSystem, T.job, "", []string{"System"}, true}
	}
	out, err := mol.PDBFileRead(T.file(T.job + "_out.pdb"))
	if err != nil {
		return nil, Error{ErrNoOutput + ": " + err.Error(), T.job, tail(T.file(T.job + ".log")), []string{"System"}, true}
	}
	if out.Len() <= T.sys.Len() {
		return nil, Error{fmt.Sprintf("%s: solvation did not add atoms (%d -> %d)", ErrNoOutput, T.sys.Len(), out.Len()), T.job, tail(T.file(T.job + ".log")), []string{"System"}, true}
	}
	out.SetCharge(0)
	if out.Box == nil {
		out.Box = []float64{T.edge, T.edge, T.edge}
	}
	return out, nil
}

//tail returns the last bytes of a log file for error reports.
func tail(filename string) string {
	f, err := os.Open(filename)
	if err != nil {
		return ""
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return ""
	}
	n := int64(2000)
	if st.Size() < n {
		n = st.Size()
	}
	if _, err := f.Seek(-n, 2); err != nil {
		return ""
	}
	buf := make([]byte, n)
	if _, err := f.Read(buf); err != nil {
		return ""
	}
	return string(buf)
}

//Errors

//Sentinel messages for solvation errors.
const (
	ErrNotRunning = "Couldn't run the solvation program"
	ErrNoOutput   = "Couldn't read the solvated system back"
	ErrNoSystem   = "No system given"
)

//Error is the error type of the solv package, implementing mol.Error.
type Error struct {
	Message string
	Job     string
	Output  string
	deco    []string
	Fatal   bool
}

func (err Error) Error() string {
	if err.Output == "" {
		return fmt.Sprintf("solv: %s (job %s)", err.Message, err.Job)
	}
	return fmt.Sprintf("solv: %s (job %s). Program output follows:\n%s", err.Message, err.Job, err.Output)
}

//Decorate adds new information to the error and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
