/*
 * equilibrate.go, part of rnamd.
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

package main

import (
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/pipeline"
	"github.com/spf13/cobra"
)

var equilibrateCmd = &cobra.Command{
	Use:   "equilibrate",
	Short: "Run the five-stage equilibration on the solvated system",
	Long: `equilibrate takes the solvated system through minimization,
restrained heating, constant-volume dynamics, restrained
constant-pressure dynamics and free constant-pressure dynamics. Each
stage starts from the previous one's output and leaves a PDB
checkpoint named after the stage in the working directory; the last
one, npt.pdb, is the input of the production run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger(cmd)
		system, _ := cmd.Flags().GetString("system")
		topology, _ := cmd.Flags().GetString("topology")
		if system == "" {
			system = filepath.Join(cfg.WorkDir, "system.pdb")
		}
		if topology == "" {
			topology = filepath.Join(cfg.WorkDir, "system.prmtop")
		}
		sys, err := mol.PDBFileRead(system)
		if err != nil {
			return err
		}
		engine, err := pipeline.NewEngine(cfg.Engine, cfg.Command, topology)
		if err != nil {
			return err
		}
		log.Info("equilibrating", "engine", cfg.Engine, "atoms", sys.Len(),
			"temperature", cfg.Temperature, "pressure", cfg.Pressure)
		runner := pipeline.NewRunner(engine, cfg.WorkDir, log)
		stages := pipeline.EquilibrationStages(cfg.MinSteps, cfg.EquilSteps, cfg.Temperature, cfg.Pressure)
		if !cfg.GPU {
			for _, s := range stages {
				s.Protocol.GPU = false
			}
		}
		if _, err := runner.Equilibrate(sys, stages); err != nil {
			return err
		}
		log.Info("equilibration done", "final structure", filepath.Join(cfg.WorkDir, "npt.pdb"))
		return nil
	},
}

func init() {
	equilibrateCmd.Flags().String("system", "", "Solvated structure (default <workdir>/system.pdb)")
	equilibrateCmd.Flags().String("topology", "", "Engine topology file (default <workdir>/system.prmtop)")
	rootCmd.AddCommand(equilibrateCmd)
}
