/*
 * md.go, part of rnamd.
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

//Package md drives external molecular dynamics engines. Each engine
//(AMBER, GROMACS, OpenMM) is wrapped by a handle that builds the
//engine's input files from a system and a protocol, runs the engine
//binary, and reads the resulting system back. The handles share the
//Handle interface so the pipeline can treat the three backends as
//interchangeable.
//
//To use this package you need at least one of the engines installed;
//please cite the corresponding engine papers for any published work.
package md

import (
	"fmt"

	mol "github.com/molsimtools/rnamd"
)

//Kind tells a handle what class of simulation a protocol describes.
type Kind int

const (
	//Minimization is an energy minimization (no dynamics).
	Minimization Kind = iota
	//Equilibration is a finite-length dynamics stage.
	Equilibration
	//Production is a long dynamics run with periodic trajectory output.
	Production
)

//Protocol describes the parameters of one simulation stage. It is
//built once per stage, never mutated afterwards, and consumed by a
//single handle invocation.
type Protocol struct {
	Kind     Kind
	Steps    int     //step count; ignored for Production
	Runtime  float64 //total simulated time in ns; Production only
	Timestep float64 //integration timestep in fs

	TempInit  float64 //initial temperature, K
	TempFinal float64 //target temperature, K
	Pressure  float64 //pressure in atm; <=0 means constant volume

	//RestraintMask selects restrained atoms, in AMBER mask syntax
	//(e.g. "!:WAT" or "!:WAT & !@H="). Empty means no restraints.
	RestraintMask  string
	RestraintForce float64 //restraint force constant, kcal/mol/Å²

	ReportEvery int  //steps between energy/trajectory reports
	GPU         bool //prefer the engine's GPU-accelerated binary
}

//NewMinimization returns a minimization protocol with the given number
//of steps.
func NewMinimization(steps int) *Protocol {
	return &Protocol{Kind: Minimization, Steps: steps, ReportEvery: 100}
}

//NewHeating returns a restrained heating protocol ramping the
//thermostat from t0 to t1 K over the given steps, with everything
//matched by mask restrained with force kcal/mol/Å². Constant volume.
func NewHeating(steps int, t0, t1 float64, mask string, force float64) *Protocol {
	return &Protocol{
		Kind:           Equilibration,
		Steps:          steps,
		Timestep:       2.0,
		TempInit:       t0,
		TempFinal:      t1,
		RestraintMask:  mask,
		RestraintForce: force,
		ReportEvery:    500,
		GPU:            true,
	}
}

//NewNVT returns an unrestrained constant-volume equilibration protocol
//at temp K.
func NewNVT(steps int, temp float64) *Protocol {
	return &Protocol{
		Kind:        Equilibration,
		Steps:       steps,
		Timestep:    2.0,
		TempInit:    temp,
		TempFinal:   temp,
		ReportEvery: 500,
		GPU:         true,
	}
}

//NewNPT returns a constant-pressure equilibration protocol at temp K
//and press atm. If mask is not empty, the matched atoms are restrained
//with force kcal/mol/Å².
func NewNPT(steps int, temp, press float64, mask string, force float64) *Protocol {
	return &Protocol{
		Kind:           Equilibration,
		Steps:          steps,
		Timestep:       2.0,
		TempInit:       temp,
		TempFinal:      temp,
		Pressure:       press,
		RestraintMask:  mask,
		RestraintForce: force,
		ReportEvery:    500,
		GPU:            true,
	}
}

//NewProduction returns a production protocol of ns nanoseconds at temp
//K and press atm, reporting every report steps.
func NewProduction(ns, temp, press float64, report int) *Protocol {
	return &Protocol{
		Kind:        Production,
		Runtime:     ns,
		Timestep:    2.0,
		TempInit:    temp,
		TempFinal:   temp,
		Pressure:    press,
		ReportEvery: report,
		GPU:         true,
	}
}

//TotalSteps returns the number of integration steps the protocol
//amounts to.
func (P *Protocol) TotalSteps() int {
	if P.Kind == Production {
		//ns to fs, over the timestep
		return int(P.Runtime * 1e6 / P.Timestep)
	}
	return P.Steps
}

//Handle is the interface the three MD engine wrappers implement. The
//lifecycle of a handle is BuildInput → Run → System, once per stage.
type Handle interface {
	//SetName sets the name of the job, used to derive input and
	//output file names.
	SetName(name string)

	//SetWorkDir sets the directory the input files are written to and
	//the engine is run in.
	SetWorkDir(dir string)

	//BuildInput writes the engine input files for simulating sys
	//under the protocol P.
	BuildInput(sys *mol.Molecule, P *Protocol) error

	//Run runs the engine, waiting for it to finish if wait is true.
	//A failed run returns an Error with the engine's captured output.
	Run(wait bool) error

	//System returns the system resulting from the last run: the same
	//topology with the engine's final coordinates.
	System() (*mol.Molecule, error)
}

//Errors

//Sentinel messages for engine errors.
const (
	ErrNotRunning   = "Couldn't run the external MD program"
	ErrCantInput    = "Can't build input for the MD program"
	ErrNoSystem     = "Couldn't read a system back from the MD output"
	ErrAbnormal     = "MD program terminated abnormally"
	ErrNilSystem    = "Nil system or protocol given"
	ErrNoTrajectory = "No trajectory was produced"
)

//Error is the error type for MD engine invocations, implementing
//mol.Error. The Output field carries whatever the engine printed, so a
//failing run can be diagnosed without rerunning it.
type Error struct {
	Message string
	Engine  string
	Job     string //job name, from which the file names derive
	Output  string //captured stdout/stderr of the failed invocation
	deco    []string
	Fatal   bool
}

func (err Error) Error() string {
	if err.Output == "" {
		return fmt.Sprintf("md: %s (engine %s, job %s)", err.Message, err.Engine, err.Job)
	}
	return fmt.Sprintf("md: %s (engine %s, job %s). Engine output follows:\n%s", err.Message, err.Engine, err.Job, err.Output)
}

//Decorate adds new information to the error and returns the trail.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//errDecorate decorates err with the caller's name if err is a
//mol.Error, and returns it unchanged otherwise.
func errDecorate(err error, caller string) error {
	err2, ok := err.(mol.Error)
	if !ok {
		return err
	}
	err2.Decorate(caller)
	return err2
}
