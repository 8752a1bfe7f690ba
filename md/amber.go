/*
 * amber.go, part of rnamd.
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
//To use this handle you need AMBER (or AmberTools, for sander), which
//must be obtained and licensed separately.

package md

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	mol "github.com/molsimtools/rnamd"
)

//AmberHandle runs sander/pmemd. Minimizations run on the CPU binary;
//dynamics stages use the CUDA binary when the protocol asks for GPU.
type AmberHandle struct {
	command    string //CPU binary
	gpuCommand string //GPU binary
	job        string
	wrkdir     string
	prmtop     string //parameter/topology file for the system
	sys        *mol.Molecule
	p          *Protocol
}

//NewAmberHandle returns an AmberHandle with default binary names.
//Defaults can change between AMBER versions, so they are not part of
//the API.
func NewAmberHandle() *AmberHandle {
	A := new(AmberHandle)
	A.SetDefaults()
	return A
}

//SetDefaults sets the engine binaries to their default names, to be
//found in PATH.
func (A *AmberHandle) SetDefaults() {
	A.command = "sander"
	A.gpuCommand = "pmemd.cuda"
	A.job = "amber"
}

//SetName sets the job name, from which input and output file names
//derive.
func (A *AmberHandle) SetName(name string) { A.job = name }

//SetWorkDir sets the working directory for the calculation.
func (A *AmberHandle) SetWorkDir(dir string) { A.wrkdir = dir }

//SetCommand sets the CPU engine binary.
func (A *AmberHandle) SetCommand(name string) { A.command = name }

//SetGPUCommand sets the GPU engine binary.
func (A *AmberHandle) SetGPUCommand(name string) { A.gpuCommand = name }

//SetTopology sets the path to the prmtop file describing the system's
//force-field parameters. The solvation step produces it.
func (A *AmberHandle) SetTopology(prmtop string) { A.prmtop = prmtop }

//file returns name inside the working directory.
func (A *AmberHandle) file(name string) string {
	return filepath.Join(A.wrkdir, name)
}

//BuildInput writes the mdin control file and the starting coordinates
//for simulating sys under P.
func (A *AmberHandle) BuildInput(sys *mol.Molecule, P *Protocol) error {
	if sys == nil || P == nil {
		return Error{ErrNilSystem, "amber", A.job, "", []string{"BuildInput"}, true}
	}
	if A.prmtop == "" {
		return Error{ErrCantInput + ": no prmtop set", "amber", A.job, "", []string{"BuildInput"}, true}
	}
	A.sys = sys
	A.p = P
	if err := RestartWrite(A.file(A.job+".rst7"), sys.Coords[0], sys.Box); err != nil {
		return errDecorate(err, "BuildInput")
	}
	mdin, err := os.Create(A.file(A.job + ".in"))
	if err != nil {
		return Error{ErrCantInput + ": " + err.Error(), "amber", A.job, "", []string{"BuildInput"}, true}
	}
	defer mdin.Close()
	fmt.Fprintf(mdin, "%s, built by rnamd\n &cntrl\n", A.job)
	restrained := P.RestraintMask != ""
	switch P.Kind {
	case Minimization:
		fmt.Fprintf(mdin, "  imin=1, maxcyc=%d, ncyc=%d,\n", P.Steps, P.Steps/2)
		fmt.Fprintf(mdin, "  ntb=1, cut=8.0,\n")
	default:
		dt := P.Timestep * 0.001 //fs to ps
		fmt.Fprintf(mdin, "  imin=0, nstlim=%d, dt=%.4f,\n", P.TotalSteps(), dt)
		fmt.Fprintf(mdin, "  irest=0, ntx=1, ig=-1,\n")
		fmt.Fprintf(mdin, "  tempi=%.2f, temp0=%.2f, ntt=3, gamma_ln=2.0,\n", P.TempInit, P.TempFinal)
		fmt.Fprintf(mdin, "  ntc=2, ntf=2, cut=8.0,\n")
		if P.Pressure > 0 {
			fmt.Fprintf(mdin, "  ntb=2, ntp=1, barostat=2, pres0=%.5f,\n", P.Pressure*1.01325) //atm to bar
		} else {
			fmt.Fprintf(mdin, "  ntb=1,\n")
		}
		fmt.Fprintf(mdin, "  ntwx=%d,\n", P.ReportEvery)
	}
	fmt.Fprintf(mdin, "  ntpr=%d,\n", P.ReportEvery)
	if restrained {
		fmt.Fprintf(mdin, "  ntr=1, restraintmask='%s', restraint_wt=%.1f,\n", P.RestraintMask, P.RestraintForce)
	}
	fmt.Fprintf(mdin, " &end\n")
	return nil
}

//binary returns the engine binary to use for the protocol of the last
//BuildInput.
func (A *AmberHandle) binary() string {
	if A.p != nil && A.p.GPU && A.p.Kind != Minimization {
		return A.gpuCommand
	}
	return A.command
}

//Run runs the engine. With wait true it blocks until the process
//finishes and checks its exit status; otherwise the process is started
//and left alone, which only works on unix-like systems.
func (A *AmberHandle) Run(wait bool) error {
	args := fmt.Sprintf("-O -i %s.in -o %s.out -p %s -c %s.rst7 -r %s_out.rst7 -inf %s.mdinfo",
		A.job, A.job, A.prmtop, A.job, A.job, A.job)
	if A.p != nil && A.p.RestraintMask != "" {
		args += fmt.Sprintf(" -ref %s.rst7", A.job)
	}
	if A.p != nil && A.p.Kind == Production {
		args += fmt.Sprintf(" -x %s.nc", A.job)
	}
	command := A.binary() + " " + args + fmt.Sprintf(" > %s.log 2>&1", A.job)
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
		return Error{ErrNotRunning + ": " + err.Error(), "amber", A.job, A.capturedOutput(), []string{"exec", "Run"}, true}
	}
	return nil
}

//capturedOutput collects the tails of the engine's log and mdout, for
//error reports.
func (A *AmberHandle) capturedOutput() string {
	var b strings.Builder
	if s := tailFile(A.file(A.job+".log"), 2000); s != "" {
		b.WriteString(s)
	}
	if s := tailFile(A.file(A.job+".out"), 2000); s != "" {
		b.WriteString(s)
	}
	return b.String()
}

//normalTermination reports whether the engine's mdout ends the way a
//successful sander/pmemd run does.
func (A *AmberHandle) normalTermination() bool {
	out := A.file(A.job + ".out")
	return searchBackwards("Total wall time", out) != "" ||
		searchBackwards("wallclock() was called", out) != ""
}

//System returns the system resulting from the last run, i.e. the input
//topology with the final coordinates and box read from the engine's
//restart file.
func (A *AmberHandle) System() (*mol.Molecule, error) {
	if A.sys == nil {
		return nil, Error{ErrNilSystem, "amber", A.job, "", []string{"System"}, true}
	}
	if !A.normalTermination() {
		return nil, Error{ErrAbnormal, "amber", A.job, A.capturedOutput(), []string{"System"}, true}
	}
	coords, box, err := RestartRead(A.file(A.job + "_out.rst7"))
	if err != nil {
		return nil, errDecorate(err, "System")
	}
	out := A.sys.Copy()
	if coords.NVecs() != out.Len() {
		return nil, Error{fmt.Sprintf("%s: %d atoms came back for %d", ErrNoSystem, coords.NVecs(), out.Len()), "amber", A.job, "", []string{"System"}, true}
	}
	if err := out.SetCoords(coords, 0); err != nil {
		return nil, errDecorate(err, "System")
	}
	if box != nil {
		out.Box = box
	}
	return out, nil
}
