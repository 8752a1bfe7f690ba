/*
 * production.go, part of rnamd.
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

var productionCmd = &cobra.Command{
	Use:   "production",
	Short: "Run the production simulation from the equilibrated system",
	Long: `production runs the long, unrestrained simulation that produces the
trajectory for analysis. It starts from the last equilibration
checkpoint and writes the trajectory under the job name "prod" in the
working directory, in the selected engine's native format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger(cmd)
		system, _ := cmd.Flags().GetString("system")
		topology, _ := cmd.Flags().GetString("topology")
		if system == "" {
			system = filepath.Join(cfg.WorkDir, "npt.pdb")
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
		log.Info("starting production", "engine", cfg.Engine, "length", cfg.ProductionNs,
			"report every", cfg.ReportEvery)
		runner := pipeline.NewRunner(engine, cfg.WorkDir, log)
		if _, err := runner.Production(sys, cfg.ProductionNs, cfg.Temperature, cfg.Pressure, cfg.ReportEvery); err != nil {
			return err
		}
		log.Info("production done", "final structure", filepath.Join(cfg.WorkDir, "prod.pdb"))
		return nil
	},
}

func init() {
	productionCmd.Flags().String("system", "", "Equilibrated structure (default <workdir>/npt.pdb)")
	productionCmd.Flags().String("topology", "", "Engine topology file (default <workdir>/system.prmtop)")
	rootCmd.AddCommand(productionCmd)
}
