/*
 * prepare.go, part of rnamd.
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
	"path/filepath"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/param"
	"github.com/molsimtools/rnamd/solv"
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Parameterize the ligand, merge and solvate the system",
	Long: `prepare takes the system from input structures to a solvated,
ionized box ready for equilibration. The ligand gets GAFF2 atom types
and AM1-BCC charges from antechamber; tleap then solvates the merged
system in a cubic TIP3P box and adds Na+/Cl- to the configured
concentration, neutralizing the net charge. The outputs are the
solvated structure (system.pdb) and the AMBER parameter files
(system.prmtop, system.rst7) in the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := logger(cmd)
		complexPath, _ := cmd.Flags().GetString("complex")
		rnaPath, _ := cmd.Flags().GetString("rna")
		ligPath, _ := cmd.Flags().GetString("ligand")

		var rna, lig *mol.Molecule
		switch {
		case complexPath != "":
			if cfg.LigandResname == "" {
				return fmt.Errorf("extracting the ligand from %s needs ligand_resname in the configuration", complexPath)
			}
			full, err := mol.PDBFileRead(complexPath)
			if err != nil {
				return err
			}
			lig, err = mol.ExtractResidues(full, cfg.LigandResname)
			if err != nil {
				return err
			}
			rna, err = mol.RemoveResidues(full, cfg.LigandResname)
			if err != nil {
				return err
			}
			log.Info("extracted ligand", "resname", cfg.LigandResname, "atoms", lig.Len(), "remaining", rna.Len())
		case rnaPath != "" && ligPath != "":
			rna, err = mol.PDBFileRead(rnaPath)
			if err != nil {
				return err
			}
			lig, err = mol.PDBFileRead(ligPath)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("give either --complex, or both --rna and --ligand")
		}
		lig.SetCharge(cfg.LigandCharge)
		//PDB files carry no formal charges, so the RNA's has to be
		//estimated or given; without it the ion counts only neutralize
		//the ligand.
		if cfg.RNACharge != nil {
			rna.SetCharge(*cfg.RNACharge)
		} else {
			rna.SetCharge(mol.NucleicCharge(rna))
		}
		log.Info("solute charges", "rna", rna.Charge(), "ligand", cfg.LigandCharge)

		ante := param.NewAntechamberHandle()
		ante.SetWorkDir(cfg.WorkDir)
		if err := ante.BuildInput(lig); err != nil {
			return err
		}
		log.Info("parameterizing ligand", "atoms", lig.Len(), "net charge", cfg.LigandCharge)
		if err := ante.Run(true); err != nil {
			return err
		}
		lig, err = ante.Parameterized()
		if err != nil {
			return err
		}
		log.Info("ligand parameterized", "mol2", ante.Mol2(), "frcmod", ante.Frcmod())

		merged, err := mol.Merge(rna, lig)
		if err != nil {
			return err
		}
		log.Info("merged system", "atoms", merged.Len(), "charge", merged.Charge())

		tleap := solv.NewTleapHandle()
		tleap.SetName("system")
		tleap.SetWorkDir(cfg.WorkDir)
		tleap.SetPadding(cfg.Padding)
		tleap.SetMolarity(cfg.Molarity)
		tleap.SetLigand(cfg.LigandResname, ante.Mol2(), ante.Frcmod())
		if err := tleap.BuildInput(merged); err != nil {
			return err
		}
		na, cl := tleap.IonsPlanned()
		log.Info("solvating", "box edge", fmt.Sprintf("%.1f Å", tleap.BoxEdge()), "Na+", na, "Cl-", cl)
		if err := tleap.Run(true); err != nil {
			return err
		}
		solvated, err := tleap.System()
		if err != nil {
			return err
		}
		ions := solv.Ions(solvated)
		for _, ion := range ions {
			log.Debug("ion added", "index", ion.Index, "element", ion.Symbol, "charge", ion.Charge)
		}
		log.Info("solvated system ready", "atoms", solvated.Len(),
			"ions", len(ions), "ion net charge", solv.NetCharge(ions),
			"prmtop", tleap.Prmtop(), "rst7", tleap.Rst7())

		out := filepath.Join(cfg.WorkDir, "system.pdb")
		if err := mol.PDBFileWrite(out, solvated.Coords[0], solvated, solvated.Box); err != nil {
			return err
		}
		log.Info("wrote solvated structure", "path", out)
		return nil
	},
}

func init() {
	prepareCmd.Flags().String("complex", "", "PDB with RNA and ligand together; the ligand is extracted by residue name")
	prepareCmd.Flags().String("rna", "", "PDB with the RNA (and any structural waters)")
	prepareCmd.Flags().String("ligand", "", "PDB with the ligand alone")
	rootCmd.AddCommand(prepareCmd)
}
