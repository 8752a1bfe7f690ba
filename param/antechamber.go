/*
 * antechamber.go, part of rnamd.
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

//Package param assigns force-field parameters to small molecules by
//driving the antechamber and parmchk2 programs from AmberTools. The
//default scheme is GAFF2 atom types with AM1-BCC charges, which is
//what the rest of the pipeline expects for ligands. RNA and water are
//covered by the standard force-field libraries and need no
//parameterization here.
package param

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
)

//AntechamberHandle represents one ligand parameterization.
type AntechamberHandle struct {
	command      string //antechamber binary
	parmchk      string //parmchk2 binary
	job          string
	wrkdir       string
	chargeMethod string
	atomType     string
	netCharge    int
	chargeSet    bool
	lig          *mol.Molecule
}

//NewAntechamberHandle returns a handle with values set to their
//defaults.
func NewAntechamberHandle() *AntechamberHandle {
	A := new(AntechamberHandle)
	A.SetDefaults()
	return A
}

//SetDefaults sets the binaries and the parameterization scheme to
//their defaults: antechamber/parmchk2 from PATH, GAFF2 types, AM1-BCC
//charges.
func (A *AntechamberHandle) SetDefaults() {
	A.command = "antechamber"
	A.parmchk = "parmchk2"
	A.job = "ligand"
	A.chargeMethod = "bcc"
	A.atomType = "gaff2"
}

//SetName sets the job name, from which file names derive.
func (A *AntechamberHandle) SetName(name string) { A.job = name }

//SetWorkDir sets the working directory for the calculation.
func (A *AntechamberHandle) SetWorkDir(dir string) { A.wrkdir = dir }

//SetCommand sets the antechamber binary.
func (A *AntechamberHandle) SetCommand(name string) { A.command = name }

//SetParmchk sets the parmchk2 binary.
func (A *AntechamberHandle) SetParmchk(name string) { A.parmchk = name }

//SetNetCharge overrides the ligand's net charge, regardless of call
//order with BuildInput. By default the charge recorded in the molecule
//is used.
func (A *AntechamberHandle) SetNetCharge(q int) {
	A.netCharge = q
	A.chargeSet = true
}

//NetCharge returns the net charge the parameterization will use.
func (A *AntechamberHandle) NetCharge() int { return A.netCharge }

//SetChargeMethod sets the charge scheme (bcc, gas, mul...).
func (A *AntechamberHandle) SetChargeMethod(m string) { A.chargeMethod = m }

//SetAtomType sets the atom-type scheme (gaff2, gaff, amber).
func (A *AntechamberHandle) SetAtomType(t string) { A.atomType = t }

func (A *AntechamberHandle) file(name string) string {
	return filepath.Join(A.wrkdir, name)
}

//Mol2 returns the path to the parameterized mol2 the run produces.
func (A *AntechamberHandle) Mol2() string { return A.file(A.job + ".mol2") }

//Frcmod returns the path to the frcmod file with the missing
//parameters parmchk2 estimated.
func (A *AntechamberHandle) Frcmod() string { return A.file(A.job + ".frcmod") }

//BuildInput writes the ligand structure antechamber will read. The
//result is deterministic for a given input structure and connectivity.
func (A *AntechamberHandle) BuildInput(lig *mol.Molecule) error {
	if lig == nil {
		return Error{ErrNoLigand, A.job, "", []string{"BuildInput"}, true}
	}
	A.lig = lig
	if !A.chargeSet {
		A.netCharge = lig.Charge()
	}
	if err := mol.PDBFileWrite(A.file(A.job+".pdb"), lig.Coords[0], lig, nil); err != nil {
		return Error{err.Error(), A.job, "", []string{"BuildInput"}, true}
	}
	return nil
}

//Run runs antechamber and then parmchk2 on its output. With wait true
//it blocks until both finish.
func (A *AntechamberHandle) Run(wait bool) error {
	ante := fmt.Sprintf("%s -i %s.pdb -fi pdb -o %s.mol2 -fo mol2 -c %s -nc %d -at %s -pf y",
		A.command, A.job, A.job, A.chargeMethod, A.netCharge, A.atomType)
	chk := fmt.Sprintf("%s -i %s.mol2 -f mol2 -o %s.frcmod -s %s", A.parmchk, A.job, A.job, A.atomType)
	command := fmt.Sprintf("( %s && %s ) > %s.log 2>&1", ante, chk, A.job)
	var err error
	if wait {
		cmd := exec.Command("sh", "-c", command)
		cmd.Dir = A.wrkdir
		err = cmd.Run()
	} else {
		cmd := exec.Command("sh", "-c", "nohup "+command)
		cmd.Dir = A.wrkdir
		err = cmd.Start()
	}
	if err != nil {
		return Error{ErrNotRunning + ": " + err.Error(), A.job, tail(A.file(A.job + ".log")), []string{"exec", "Run"}, true}
	}
	return nil
}

//Parameterized returns the ligand with GAFF2 atom types and partial
//charges filled in from antechamber's output.
func (A *AntechamberHandle) Parameterized() (*mol.Molecule, error) {
	if A.lig == nil {
		return nil, Error{ErrNoLigand, A.job, "", []string{"Parameterized"}, true}
	}
	out, err := mol.Mol2FileRead(A.Mol2())
	if err != nil {
		return nil, Error{ErrNoOutput + ": " + err.Error(), A.job, tail(A.file(A.job + ".log")), []string{"Parameterized"}, true}
	}
	if out.Len() != A.lig.Len() {
		return nil, Error{fmt.Sprintf("%s: %d atoms came back for %d", ErrNoOutput, out.Len(), A.lig.Len()), A.job, "", []string{"Parameterized"}, true}
	}
	//antechamber renames residues; keep the originals
	for i := 0; i < out.Len(); i++ {
		out.Atom(i).Molname = A.lig.Atom(i).Molname
		out.Atom(i).MolID = A.lig.Atom(i).MolID
	}
	out.SetCharge(A.netCharge)
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

//Sentinel messages for parameterization errors.
const (
	ErrNotRunning = "Couldn't run the parameterization program"
	ErrNoOutput   = "Couldn't read parameterized molecule back"
	ErrNoLigand   = "No ligand given"
)

//Error is the error type of the param package, implementing mol.Error.
type Error struct {
	Message string
	Job     string
	Output  string //captured program output, if any
	deco    []string
	Fatal   bool
}

func (err Error) Error() string {
	if err.Output == "" {
		return fmt.Sprintf("param: %s (job %s)", err.Message, err.Job)
	}
	return fmt.Sprintf("param: %s (job %s). Program output follows:\n%s", err.Message, err.Job, err.Output)
}

//Decorate adds new information to the error and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}
