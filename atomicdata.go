/*
 * atomicdata.go, part of rnamd.
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

package mol

import "strings"

//AtomicMass maps element symbols to atomic masses (u) for the elements
//that appear in nucleic-acid/ligand/solvent systems. It is not a
//complete periodic table.
var AtomicMass = map[string]float64{
	"H":  1.008,
	"C":  12.011,
	"N":  14.007,
	"O":  15.999,
	"F":  18.998,
	"Na": 22.990,
	"Mg": 24.305,
	"P":  30.974,
	"S":  32.06,
	"Cl": 35.45,
	"K":  39.098,
	"Ca": 40.078,
	"Br": 79.904,
	"I":  126.904,
	"Zn": 65.38,
}

//IonCharge maps the residue/atom names of the monoatomic ions the
//solvation step adds to their formal charges.
var IonCharge = map[string]int{
	"NA": 1, "Na+": 1, "K": 1, "K+": 1,
	"CL": -1, "Cl-": -1,
	"MG": 2, "Mg2+": 2, "CA": 2, "Zn2+": 2,
}

//symbolFromName guesses the element symbol from a PDB atom name, for
//files that leave columns 77-78 empty. Two-letter elements relevant to
//this pipeline are checked first; everything else falls back to the
//first letter of the name.
func symbolFromName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	upper := strings.ToUpper(name)
	for _, two := range []string{"NA", "CL", "MG", "BR", "ZN"} {
		if upper == two {
			return two[:1] + strings.ToLower(two[1:])
		}
	}
	//strip leading digits, as in "1H5'"
	i := 0
	for i < len(upper) && upper[i] >= '0' && upper[i] <= '9' {
		i++
	}
	if i == len(upper) {
		return ""
	}
	return string(upper[i])
}

//massFromSymbol returns the atomic mass for symbol, or 0 if unknown.
func massFromSymbol(symbol string) float64 {
	return AtomicMass[symbol]
}
