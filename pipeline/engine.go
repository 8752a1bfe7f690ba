/*
 * engine.go, part of rnamd.
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

package pipeline

import (
	"fmt"

	"github.com/molsimtools/rnamd/md"
)

//Engine is an md.Handle that also takes a topology file path and lets
//the caller replace the engine binary. All three backends satisfy it.
type Engine interface {
	md.Handle
	SetTopology(path string)
	SetCommand(name string)
}

//NewEngine returns the handle for the named backend: "amber",
//"gromacs" or "openmm". With a non-empty command the engine binary is
//replaced; topology is the path the backend expects (a prmtop for
//amber and openmm, a .top for gromacs).
func NewEngine(name, command, topology string) (Engine, error) {
	var e Engine
	switch name {
	case "amber":
		e = md.NewAmberHandle()
	case "gromacs":
		e = md.NewGromacsHandle()
	case "openmm":
		e = md.NewOpenMMHandle()
	default:
		return nil, fmt.Errorf("pipeline: unknown MD engine %q", name)
	}
	if command != "" {
		e.SetCommand(command)
	}
	e.SetTopology(topology)
	return e, nil
}
