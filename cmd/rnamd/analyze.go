/*
 * analyze.go, part of rnamd.
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
	"os"
	"strings"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/analyze"
	"github.com/molsimtools/rnamd/traj/dcd"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute observables from a production trajectory",
}

var rmsdCmd = &cobra.Command{
	Use:   "rmsd <structure.pdb> <trajectory.dcd>",
	Short: "Per-frame RMSD against the starting structure",
	Long: `rmsd reads the trajectory and reports, for each frame, the RMSD of
the selected atoms against the same atoms in the given structure,
after best-fit superposition. The values go to a text file and a PNG
plot. The trajectory may be gzip or zstd compressed (.dcd.gz,
.dcd.zst).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, traj, indexes, err := analysisInputs(cmd, args)
		if err != nil {
			return err
		}
		defer traj.Close()
		dt, _ := cmd.Flags().GetFloat64("dt")
		skip, _ := cmd.Flags().GetInt("skip")
		out, _ := cmd.Flags().GetString("out")
		rmsds, err := analyze.RMSDTraj(traj, ref.Coords[0], indexes, skip)
		if err != nil {
			return err
		}
		if err := writeSeries(out+".dat", rmsds, dt); err != nil {
			return err
		}
		if err := analyze.PlotRMSD(rmsds, dt, out+".png"); err != nil {
			return err
		}
		logger(cmd).Info("RMSD computed", "frames", len(rmsds), "atoms", len(indexes),
			"data", out+".dat", "plot", out+".png")
		return nil
	},
}

var rmsfCmd = &cobra.Command{
	Use:   "rmsf <structure.pdb> <trajectory.dcd>",
	Short: "Per-atom RMSF over the trajectory",
	Long: `rmsf reports the root-mean-square fluctuation of each selected atom
around its mean position, with the frames superimposed on the mean
structure. The values go to a text file and a PNG plot, labeled by
residue number.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, traj, indexes, err := analysisInputs(cmd, args)
		if err != nil {
			return err
		}
		defer traj.Close()
		skip, _ := cmd.Flags().GetInt("skip")
		out, _ := cmd.Flags().GetString("out")
		rmsf, err := analyze.RMSFTraj(traj, ref.Coords[0], indexes, skip)
		if err != nil {
			return err
		}
		labels := make([]int, len(indexes))
		for i, idx := range indexes {
			labels[i] = ref.Atom(idx).MolID
		}
		if err := writeLabeled(out+".dat", rmsf, labels); err != nil {
			return err
		}
		if err := analyze.PlotRMSF(rmsf, labels, out+".png"); err != nil {
			return err
		}
		logger(cmd).Info("RMSF computed", "atoms", len(indexes),
			"data", out+".dat", "plot", out+".png")
		return nil
	},
}

//analysisInputs reads the reference structure and opens the
//trajectory, checking that they agree on the atom count, and applies
//the selection from the --select flag.
func analysisInputs(cmd *cobra.Command, args []string) (*mol.Molecule, mol.TrajCloser, []int, error) {
	ref, err := mol.PDBFileRead(args[0])
	if err != nil {
		return nil, nil, nil, err
	}
	traj, err := dcd.New(args[1])
	if err != nil {
		return nil, nil, nil, err
	}
	if traj.Len() != ref.Len() {
		traj.Close()
		return nil, nil, nil, fmt.Errorf("%s has %d atoms but %s has %d", args[0], ref.Len(), args[1], traj.Len())
	}
	expr, _ := cmd.Flags().GetString("select")
	sel, err := analyze.ParseSelection(expr)
	if err != nil {
		traj.Close()
		return nil, nil, nil, err
	}
	indexes := sel.Apply(ref)
	if len(indexes) == 0 {
		traj.Close()
		return nil, nil, nil, fmt.Errorf("selection %q matches no atoms", expr)
	}
	return ref, traj, indexes, nil
}

func writeSeries(filename string, vals []float64, dt float64) error {
	var b strings.Builder
	if dt <= 0 {
		dt = 1
	}
	for i, v := range vals {
		fmt.Fprintf(&b, "%10.4f %8.4f\n", float64(i)*dt, v)
	}
	return os.WriteFile(filename, []byte(b.String()), 0644)
}

func writeLabeled(filename string, vals []float64, labels []int) error {
	var b strings.Builder
	for i, v := range vals {
		fmt.Fprintf(&b, "%6d %8.4f\n", labels[i], v)
	}
	return os.WriteFile(filename, []byte(b.String()), 0644)
}

func init() {
	for _, c := range []*cobra.Command{rmsdCmd, rmsfCmd} {
		c.Flags().String("select", "not resname WAT Na+ Cl-", "Atom selection the observable is computed over")
		c.Flags().Int("skip", 0, "Frames to discard between used frames")
	}
	rmsdCmd.Flags().Float64("dt", 0, "Time between frames in ns; 0 plots against the frame index")
	rmsdCmd.Flags().String("out", "rmsd", "Output name; <out>.dat and <out>.png are written")
	rmsfCmd.Flags().String("out", "rmsf", "Output name; <out>.dat and <out>.png are written")
	analyzeCmd.AddCommand(rmsdCmd, rmsfCmd)
	rootCmd.AddCommand(analyzeCmd)
}
