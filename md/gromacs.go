/*
 * gromacs.go, part of rnamd.
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
//To use this handle you need GROMACS, available under LGPL from
//gromacs.org.

package md

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

//GromacsHandle runs gmx grompp + gmx mdrun. GPU runs use the same
//binary with the nonbonded work offloaded.
type GromacsHandle struct {
	command string
	job     string
	wrkdir  string
	topol   string //GROMACS topology (.top) for the system
	sys     *mol.Molecule
	p       *Protocol
}

//NewGromacsHandle returns a GromacsHandle with default binary names.
func NewGromacsHandle() *GromacsHandle {
	G := new(GromacsHandle)
	G.SetDefaults()
	return G
}

//SetDefaults sets the gmx binary to its default name, to be found in
//PATH.
func (G *GromacsHandle) SetDefaults() {
	G.command = "gmx"
	G.job = "gromacs"
}

//SetName sets the job name, from which file names derive.
func (G *GromacsHandle) SetName(name string) { G.job = name }

//SetWorkDir sets the working directory for the calculation.
func (G *GromacsHandle) SetWorkDir(dir string) { G.wrkdir = dir }

//SetCommand sets the gmx binary.
func (G *GromacsHandle) SetCommand(name string) { G.command = name }

//SetTopology sets the path to the .top file for the system.
func (G *GromacsHandle) SetTopology(topol string) { G.topol = topol }

func (G *GromacsHandle) file(name string) string {
	return filepath.Join(G.wrkdir, name)
}

//BuildInput writes the mdp parameter file and the starting structure
//for simulating sys under P. Restrained stages are expressed through
//the POSRES define, which the topology must support (pdb2gmx and
//acpype-generated topologies do).
func (G *GromacsHandle) BuildInput(sys *mol.Molecule, P *Protocol) error {
	if sys == nil || P == nil {
		return Error{ErrNilSystem, "gromacs", G.job, "", []string{"BuildInput"}, true}
	}
	if G.topol == "" {
		return Error{ErrCantInput + ": no topology set", "gromacs", G.job, "", []string{"BuildInput"}, true}
	}
	G.sys = sys
	G.p = P
	if err := mol.PDBFileWrite(G.file(G.job+"_start.pdb"), sys.Coords[0], sys, sys.Box); err != nil {
		return errDecorate(err, "BuildInput")
	}
	mdp, err := os.Create(G.file(G.job + ".mdp"))
	if err != nil {
		return Error{ErrCantInput + ": " + err.Error(), "gromacs", G.job, "", []string{"BuildInput"}, true}
	}
	defer mdp.Close()
	if P.RestraintMask != "" {
		fmt.Fprintln(mdp, "define                  = -DPOSRES")
	}
	switch P.Kind {
	case Minimization:
		fmt.Fprintln(mdp, "integrator              = steep")
		fmt.Fprintf(mdp, "nsteps                  = %d\n", P.Steps)
		fmt.Fprintln(mdp, "emtol                   = 1000.0")
	default:
		fmt.Fprintln(mdp, "integrator              = md")
		fmt.Fprintf(mdp, "nsteps                  = %d\n", P.TotalSteps())
		fmt.Fprintf(mdp, "dt                      = %.4f\n", P.Timestep*0.001) //fs to ps
		fmt.Fprintln(mdp, "constraints             = h-bonds")
		fmt.Fprintln(mdp, "tcoupl                  = V-rescale")
		fmt.Fprintln(mdp, "tc-grps                 = System")
		fmt.Fprintf(mdp, "ref-t                   = %.2f\n", P.TempFinal)
		fmt.Fprintln(mdp, "tau-t                   = 0.1")
		fmt.Fprintln(mdp, "gen-vel                 = yes")
		fmt.Fprintf(mdp, "gen-temp                = %.2f\n", P.TempInit)
		if P.Pressure > 0 {
			fmt.Fprintln(mdp, "pcoupl                  = C-rescale")
			fmt.Fprintf(mdp, "ref-p                   = %.5f\n", P.Pressure*1.01325) //atm to bar
			fmt.Fprintln(mdp, "compressibility         = 4.5e-5")
		}
		fmt.Fprintf(mdp, "nstxout-compressed      = %d\n", P.ReportEvery)
	}
	fmt.Fprintln(mdp, "cutoff-scheme           = Verlet")
	fmt.Fprintln(mdp, "rcoulomb                = 1.0")
	fmt.Fprintln(mdp, "rvdw                    = 1.0")
	fmt.Fprintln(mdp, "coulombtype             = PME")
	fmt.Fprintf(mdp, "nstlog                  = %d\n", P.ReportEvery)
	return nil
}

//Run preprocesses and runs the simulation. With wait true it blocks
//until mdrun finishes.
func (G *GromacsHandle) Run(wait bool) error {
	grompp := fmt.Sprintf("%s grompp -f %s.mdp -c %s_start.pdb -r %s_start.pdb -p %s -o %s.tpr -maxwarn 2",
		G.command, G.job, G.job, G.job, G.topol, G.job)
	mdrun := fmt.Sprintf("%s mdrun -deffnm %s", G.command, G.job)
	if G.p != nil && G.p.GPU && G.p.Kind != Minimization {
		mdrun += " -nb gpu"
	}
	command := grompp + " && " + mdrun + fmt.Sprintf(" > %s.log 2>&1", G.job)
	var err error
	if wait {
		cmd := exec.Command("sh", "-c", command)
		cmd.Dir = G.wrkdir
		err = cmd.Run()
	} else {
		cmd := exec.Command("sh", "-c", "nohup "+command)
		cmd.Dir = G.wrkdir
		err = cmd.Start()
	}
	if err != nil {
		return Error{ErrNotRunning + ": " + err.Error(), "gromacs", G.job, tailFile(G.file(G.job+".log"), 4000), []string{"exec", "Run"}, true}
	}
	return nil
}

//normalTermination reports whether mdrun's log ends the way a
//successful run does.
func (G *GromacsHandle) normalTermination() bool {
	return searchBackwards("Finished mdrun", G.file(G.job+".log")) != ""
}

//System returns the input topology with the final coordinates and box
//read from mdrun's output structure.
func (G *GromacsHandle) System() (*mol.Molecule, error) {
	if G.sys == nil {
		return nil, Error{ErrNilSystem, "gromacs", G.job, "", []string{"System"}, true}
	}
	if !G.normalTermination() {
		return nil, Error{ErrAbnormal, "gromacs", G.job, tailFile(G.file(G.job+".log"), 4000), []string{"System"}, true}
	}
	coords, box, err := groRead(G.file(G.job + ".gro"))
	if err != nil {
		return nil, errDecorate(err, "System")
	}
	out := G.sys.Copy()
	if coords.NVecs() != out.Len() {
		return nil, Error{fmt.Sprintf("%s: %d atoms came back for %d", ErrNoSystem, coords.NVecs(), out.Len()), "gromacs", G.job, "", []string{"System"}, true}
	}
	if err := out.SetCoords(coords, 0); err != nil {
		return nil, errDecorate(err, "System")
	}
	if box != nil {
		out.Box = box
	}
	return out, nil
}

//groRead reads coordinates and box from a GROMACS .gro file,
//converting nm to Å.
func groRead(path string) (*vec.Matrix, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, Error{err.Error(), "gromacs", path, "", []string{"groRead"}, true}
	}
	defer f.Close()
	badFormat := func(line string) error {
		return Error{fmt.Sprintf("malformed gro line: %q", line), "gromacs", path, "", []string{"groRead"}, true}
	}
	scanner := bufio.NewScanner(f)
	if !scanner.Scan() { //title
		return nil, nil, badFormat("")
	}
	if !scanner.Scan() {
		return nil, nil, badFormat("")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || natoms <= 0 {
		return nil, nil, badFormat(scanner.Text())
	}
	data := make([]float64, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		if !scanner.Scan() {
			return nil, nil, badFormat("truncated file")
		}
		line := scanner.Text()
		if len(line) < 44 {
			return nil, nil, badFormat(line)
		}
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[20+8*k:28+8*k]), 64)
			if err != nil {
				return nil, nil, badFormat(line)
			}
			data = append(data, v*10) //nm to Å
		}
	}
	var box []float64
	if scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) >= 3 {
			box = make([]float64, 3)
			for k := 0; k < 3; k++ {
				v, err := strconv.ParseFloat(fields[k], 64)
				if err != nil {
					box = nil
					break
				}
				box[k] = v * 10
			}
		}
	}
	coords, err := vec.NewMatrix(data)
	if err != nil {
		return nil, nil, errDecorate(err, "groRead")
	}
	return coords, box, nil
}
