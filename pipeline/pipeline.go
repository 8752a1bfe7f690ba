/*
 * pipeline.go, part of rnamd.
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

//Package pipeline chains the simulation stages of a run: the fixed
//five-stage equilibration schedule, then production. It is engine
//agnostic; any md.Handle will do.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/md"
)

//A Stage is one simulation step of the schedule: a name, used for job
//and checkpoint file names, and the protocol to run.
type Stage struct {
	Name     string
	Protocol *md.Protocol
}

//Restraint masks for the equilibration schedule, in AMBER syntax. The
//solute is everything that is not water or a counter-ion.
const (
	soluteMask = "!:WAT,Na+,Cl-"
	heavyMask  = "!:WAT,Na+,Cl- & !@H="
)

//EquilibrationStages returns the five-stage equilibration schedule:
//minimization, restrained heating from 0 to temp K at constant
//volume, unrestrained constant-volume dynamics at temp, constant
//pressure dynamics with the solute heavy atoms restrained, and
//unrestrained constant-pressure dynamics. steps gives the step count
//of each dynamics stage; minSteps the minimization cycles.
func EquilibrationStages(minSteps, steps int, temp, press float64) []Stage {
	return []Stage{
		{"min", md.NewMinimization(minSteps)},
		{"heat", md.NewHeating(steps, 0, temp, soluteMask, 10.0)},
		{"nvt", md.NewNVT(steps, temp)},
		{"npt_restrained", md.NewNPT(steps, temp, press, heavyMask, 5.0)},
		{"npt", md.NewNPT(steps, temp, press, "", 0)},
	}
}

//A Runner drives an MD engine through a schedule of stages, feeding
//the output system of each stage to the next and writing a PDB
//checkpoint after each one.
type Runner struct {
	handle md.Handle
	wrkdir string
	log    *slog.Logger
}

//NewRunner returns a Runner using the given handle, working in dir.
//A nil logger disables logging.
func NewRunner(handle md.Handle, dir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{handle: handle, wrkdir: dir, log: logger}
}

//RunStage runs one stage on sys and returns the resulting system. The
//final structure is also written to <name>.pdb in the working
//directory, so an interrupted schedule can be inspected and resumed.
func (R *Runner) RunStage(sys *mol.Molecule, stage Stage) (*mol.Molecule, error) {
	R.log.Info("running stage", "stage", stage.Name, "steps", stage.Protocol.TotalSteps())
	R.handle.SetName(stage.Name)
	R.handle.SetWorkDir(R.wrkdir)
	if err := R.handle.BuildInput(sys, stage.Protocol); err != nil {
		return nil, fmt.Errorf("pipeline: stage %s: %w", stage.Name, err)
	}
	if err := R.handle.Run(true); err != nil {
		return nil, fmt.Errorf("pipeline: stage %s: %w", stage.Name, err)
	}
	out, err := R.handle.System()
	if err != nil {
		return nil, fmt.Errorf("pipeline: stage %s: %w", stage.Name, err)
	}
	checkpoint := filepath.Join(R.wrkdir, stage.Name+".pdb")
	if err := mol.PDBFileWrite(checkpoint, out.Coords[0], out, out.Box); err != nil {
		return nil, fmt.Errorf("pipeline: stage %s: %w", stage.Name, err)
	}
	R.log.Info("stage done", "stage", stage.Name, "checkpoint", checkpoint)
	return out, nil
}

//Equilibrate runs the given stages in order, starting from sys, and
//returns the equilibrated system.
func (R *Runner) Equilibrate(sys *mol.Molecule, stages []Stage) (*mol.Molecule, error) {
	cur := sys
	for _, stage := range stages {
		out, err := R.RunStage(cur, stage)
		if err != nil {
			return nil, err
		}
		cur = out
	}
	return cur, nil
}

//Production runs a production stage of ns nanoseconds on sys at temp K
//and press atm, reporting every report steps, and returns the final
//system. The trajectory file lands in the working directory under the
//engine's conventions for the job name "prod".
func (R *Runner) Production(sys *mol.Molecule, ns, temp, press float64, report int) (*mol.Molecule, error) {
	return R.RunStage(sys, Stage{"prod", md.NewProduction(ns, temp, press, report)})
}
