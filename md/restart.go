/*
 * restart.go, part of rnamd.
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

package md

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/molsimtools/rnamd/vec"
)

//RestartWrite writes coordinates (and the box, if given) to path in
//the AMBER ASCII restart (rst7) format, which sander/pmemd take as
//their starting and reference coordinates.
func RestartWrite(path string, coords *vec.Matrix, box []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return Error{err.Error(), "amber", path, "", []string{"RestartWrite"}, true}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	n := coords.NVecs()
	fmt.Fprintf(w, "rnamd generated restart\n%5d\n", n)
	col := 0
	for i := 0; i < n; i++ {
		for k := 0; k < 3; k++ {
			fmt.Fprintf(w, "%12.7f", coords.At(i, k))
			col++
			if col == 6 {
				fmt.Fprintln(w)
				col = 0
			}
		}
	}
	if col != 0 {
		fmt.Fprintln(w)
	}
	if len(box) >= 3 {
		fmt.Fprintf(w, "%12.7f%12.7f%12.7f%12.7f%12.7f%12.7f\n", box[0], box[1], box[2], 90.0, 90.0, 90.0)
	}
	return nil
}

//RestartRead reads the coordinates and box from an AMBER ASCII restart
//file. A velocity block, if present, is skipped.
func RestartRead(path string) (*vec.Matrix, []float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, Error{err.Error(), "amber", path, "", []string{"RestartRead"}, true}
	}
	defer f.Close()
	c, box, err := restartRead(f)
	if err != nil {
		return nil, nil, errDecorate(err, "RestartRead "+path)
	}
	return c, box, nil
}

func restartRead(r io.Reader) (*vec.Matrix, []float64, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() { //title
		return nil, nil, Error{"empty restart file", "amber", "", "", []string{"restartRead"}, true}
	}
	if !scanner.Scan() {
		return nil, nil, Error{"restart file has no atom count", "amber", "", "", []string{"restartRead"}, true}
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return nil, nil, Error{"restart file has no atom count", "amber", "", "", []string{"restartRead"}, true}
	}
	natoms, err := strconv.Atoi(fields[0])
	if err != nil || natoms <= 0 {
		return nil, nil, Error{fmt.Sprintf("bad atom count %q in restart", fields[0]), "amber", "", "", []string{"restartRead"}, true}
	}
	var values []float64
	for scanner.Scan() {
		line := scanner.Text()
		//fixed 12-character fields; values at full width can touch
		for i := 0; i+12 <= len(line); i += 12 {
			v, err := strconv.ParseFloat(strings.TrimSpace(line[i:i+12]), 64)
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("bad value in restart: %q", line[i:i+12]), "amber", "", "", []string{"restartRead"}, true}
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, Error{err.Error(), "amber", "", "", []string{"restartRead"}, true}
	}
	want := 3 * natoms
	if len(values) < want {
		return nil, nil, Error{fmt.Sprintf("restart has %d values for %d atoms", len(values), natoms), "amber", "", "", []string{"restartRead"}, true}
	}
	coords, err := vec.NewMatrix(values[:want])
	if err != nil {
		return nil, nil, errDecorate(err, "restartRead")
	}
	var box []float64
	rest := values[want:]
	if len(rest) >= want { //velocity block present
		rest = rest[want:]
	}
	if len(rest) >= 6 {
		box = []float64{rest[0], rest[1], rest[2]}
	}
	return coords, box, nil
}
