/*
 * openmm.go, part of rnamd.
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
//To use this handle you need OpenMM and its Python layer, available
//from openmm.org.

package md

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
)

//OpenMMHandle drives OpenMM through a generated Python script. The
//script loads the same AMBER prmtop/rst7 pair the AmberHandle uses, so
//the two backends are interchangeable on the same prepared system.
//Production trajectories are written in DCD, which the analyze package
//reads directly.
type OpenMMHandle struct {
	command string //python interpreter
	job     string
	wrkdir  string
	prmtop  string
	sys     *mol.Molecule
	p       *Protocol
}

//NewOpenMMHandle returns an OpenMMHandle with default binary names.
func NewOpenMMHandle() *OpenMMHandle {
	O := new(OpenMMHandle)
	O.SetDefaults()
	return O
}

//SetDefaults sets the interpreter to python3, to be found in PATH.
func (O *OpenMMHandle) SetDefaults() {
	O.command = "python3"
	O.job = "openmm"
}

//SetName sets the job name, from which file names derive.
func (O *OpenMMHandle) SetName(name string) { O.job = name }

//SetWorkDir sets the working directory for the calculation.
func (O *OpenMMHandle) SetWorkDir(dir string) { O.wrkdir = dir }

//SetCommand sets the Python interpreter used to run the script.
func (O *OpenMMHandle) SetCommand(name string) { O.command = name }

//SetTopology sets the path to the prmtop file for the system.
func (O *OpenMMHandle) SetTopology(prmtop string) { O.prmtop = prmtop }

func (O *OpenMMHandle) file(name string) string {
	return filepath.Join(O.wrkdir, name)
}

//BuildInput writes the starting coordinates and the Python driver
//script for simulating sys under P.
func (O *OpenMMHandle) BuildInput(sys *mol.Molecule, P *Protocol) error {
	if sys == nil || P == nil {
		return Error{ErrNilSystem, "openmm", O.job, "", []string{"BuildInput"}, true}
	}
	if O.prmtop == "" {
		return Error{ErrCantInput + ": no prmtop set", "openmm", O.job, "", []string{"BuildInput"}, true}
	}
	O.sys = sys
	O.p = P
	if err := RestartWrite(O.file(O.job+".rst7"), sys.Coords[0], sys.Box); err != nil {
		return errDecorate(err, "BuildInput")
	}
	script, err := os.Create(O.file(O.job + ".py"))
	if err != nil {
		return Error{ErrCantInput + ": " + err.Error(), "openmm", O.job, "", []string{"BuildInput"}, true}
	}
	defer script.Close()
	platform := "CPU"
	if P.GPU && P.Kind != Minimization {
		platform = "CUDA"
	}
	fmt.Fprintln(script, "from openmm.app import *")
	fmt.Fprintln(script, "from openmm import *")
	fmt.Fprintln(script, "from openmm.unit import *")
	fmt.Fprintf(script, "prmtop = AmberPrmtopFile(%q)\n", O.prmtop)
	fmt.Fprintf(script, "inpcrd = AmberInpcrdFile(%q)\n", O.job+".rst7")
	fmt.Fprintln(script, "system = prmtop.createSystem(nonbondedMethod=PME, nonbondedCutoff=1.0*nanometer, constraints=HBonds)")
	if P.Pressure > 0 {
		fmt.Fprintf(script, "system.addForce(MonteCarloBarostat(%.5f*bar, %.2f*kelvin))\n", P.Pressure*1.01325, P.TempFinal)
	}
	if P.RestraintMask != "" {
		//positional restraints on non-solvent heavy atoms; the mask
		//semantics of the AMBER side are reduced to that case here.
		fmt.Fprintln(script, "force = CustomExternalForce('k*periodicdistance(x, y, z, x0, y0, z0)^2')")
		fmt.Fprintf(script, "force.addGlobalParameter('k', %.1f*kilocalories_per_mole/angstroms**2)\n", P.RestraintForce)
		fmt.Fprintln(script, "for p in ('x0', 'y0', 'z0'):")
		fmt.Fprintln(script, "    force.addPerParticleParameter(p)")
		fmt.Fprintln(script, "solvent = ('WAT', 'HOH', 'NA', 'CL', 'K')")
		fmt.Fprintln(script, "for atom, pos in zip(prmtop.topology.atoms(), inpcrd.positions):")
		fmt.Fprintln(script, "    if atom.residue.name not in solvent and atom.element.symbol != 'H':")
		fmt.Fprintln(script, "        force.addParticle(atom.index, pos.value_in_unit(nanometers))")
		fmt.Fprintln(script, "system.addForce(force)")
	}
	temp := P.TempFinal
	if temp <= 0 {
		temp = 300
	}
	fmt.Fprintf(script, "integrator = LangevinMiddleIntegrator(%.2f*kelvin, 1/picosecond, %.4f*picoseconds)\n", temp, P.Timestep*0.001)
	fmt.Fprintf(script, "platform = Platform.getPlatformByName(%q)\n", platform)
	fmt.Fprintln(script, "simulation = Simulation(prmtop.topology, system, integrator, platform)")
	fmt.Fprintln(script, "simulation.context.setPositions(inpcrd.positions)")
	fmt.Fprintln(script, "if inpcrd.boxVectors is not None:")
	fmt.Fprintln(script, "    simulation.context.setPeriodicBoxVectors(*inpcrd.boxVectors)")
	switch P.Kind {
	case Minimization:
		fmt.Fprintf(script, "simulation.minimizeEnergy(maxIterations=%d)\n", P.Steps)
	default:
		if P.TempInit != P.TempFinal {
			fmt.Fprintf(script, "simulation.context.setVelocitiesToTemperature(max(%.2f, 1.0)*kelvin)\n", P.TempInit)
		}
		fmt.Fprintf(script, "simulation.reporters.append(StateDataReporter(%q, %d, step=True, temperature=True, potentialEnergy=True))\n", O.job+".csv", P.ReportEvery)
		if P.Kind == Production {
			fmt.Fprintf(script, "simulation.reporters.append(DCDReporter(%q, %d))\n", O.job+".dcd", P.ReportEvery)
		}
		fmt.Fprintf(script, "simulation.step(%d)\n", P.TotalSteps())
	}
	fmt.Fprintln(script, "state = simulation.context.getState(getPositions=True, enforcePeriodicBox=True)")
	fmt.Fprintf(script, "with open(%q, 'w') as out:\n", O.job+"_out.pdb")
	fmt.Fprintln(script, "    PDBFile.writeFile(simulation.topology, state.getPositions(), out)")
	fmt.Fprintln(script, "print('rnamd: openmm run done')")
	return nil
}

//Run runs the generated script. With wait true it blocks until the
//interpreter exits.
func (O *OpenMMHandle) Run(wait bool) error {
	command := fmt.Sprintf("%s %s.py > %s.log 2>&1", O.command, O.job, O.job)
	var err error
	if wait {
		cmd := exec.Command("sh", "-c", command)
		cmd.Dir = O.wrkdir
		err = cmd.Run()
	} else {
		cmd := exec.Command("sh", "-c", "nohup "+command)
		cmd.Dir = O.wrkdir
		err = cmd.Start()
	}
	if err != nil {
		return Error{ErrNotRunning + ": " + err.Error(), "openmm", O.job, tailFile(O.file(O.job+".log"), 4000), []string{"exec", "Run"}, true}
	}
	return nil
}

//normalTermination reports whether the script reached its final print.
func (O *OpenMMHandle) normalTermination() bool {
	return searchBackwards("rnamd: openmm run done", O.file(O.job+".log")) != ""
}

//System returns the input topology with the final coordinates read
//from the PDB the script writes at the end.
func (O *OpenMMHandle) System() (*mol.Molecule, error) {
	if O.sys == nil {
		return nil, Error{ErrNilSystem, "openmm", O.job, "", []string{"System"}, true}
	}
	if !O.normalTermination() {
		return nil, Error{ErrAbnormal, "openmm", O.job, tailFile(O.file(O.job+".log"), 4000), []string{"System"}, true}
	}
	res, err := mol.PDBFileRead(O.file(O.job + "_out.pdb"))
	if err != nil {
		return nil, errDecorate(err, "System")
	}
	out := O.sys.Copy()
	if res.Len() != out.Len() {
		return nil, Error{fmt.Sprintf("%s: %d atoms came back for %d", ErrNoSystem, res.Len(), out.Len()), "openmm", O.job, "", []string{"System"}, true}
	}
	if err := out.SetCoords(res.Coords[0], 0); err != nil {
		return nil, errDecorate(err, "System")
	}
	if res.Box != nil {
		out.Box = res.Box
	}
	return out, nil
}
