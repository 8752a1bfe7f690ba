/*
 * root.go, part of rnamd.
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
	"fmt"
	"log/slog"
	"os"

	"github.com/molsimtools/rnamd/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rnamd",
	Short: "rnamd runs MD simulations of RNA-ligand systems",
	Long: `rnamd takes an RNA-ligand complex from PDB files to an analyzed
production trajectory: ligand parameterization (GAFF2), solvation and
ionization, a five-stage equilibration and a production run on AMBER,
GROMACS or OpenMM, and RMSD/RMSF analysis of the result.`,
}

//Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log debug information")
}

//loadConfig reads the configuration named by the --config flag, or the
//defaults plus environment when the flag is empty.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

//logger builds the slog logger the commands report progress with.
func logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
