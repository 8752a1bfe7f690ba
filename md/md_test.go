/*
 * md_test.go, part of rnamd.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mol "github.com/molsimtools/rnamd"
	"github.com/molsimtools/rnamd/vec"
)

func TestTotalSteps(Te *testing.T) {
	p := NewNVT(250000, 300)
	if p.TotalSteps() != 250000 {
		Te.Errorf("expected 250000 steps, got %d", p.TotalSteps())
	}
	//100 ns at 2 fs is 5e7 steps
	prod := NewProduction(100, 300, 1, 5000)
	if prod.TotalSteps() != 50000000 {
		Te.Errorf("expected 5e7 production steps, got %d", prod.TotalSteps())
	}
}

func TestProtocolConstructors(Te *testing.T) {
	h := NewHeating(100000, 0, 300, "!:WAT", 10)
	if h.TempInit != 0 || h.TempFinal != 300 {
		Te.Errorf("heating ramp wrong: %f to %f", h.TempInit, h.TempFinal)
	}
	if h.Pressure > 0 {
		Te.Error("heating protocol should be constant volume")
	}
	if h.RestraintMask != "!:WAT" || h.RestraintForce != 10 {
		Te.Errorf("restraints wrong: %+v", h)
	}
	npt := NewNPT(100000, 300, 1, "", 0)
	if npt.Pressure != 1 {
		Te.Errorf("NPT pressure wrong: %f", npt.Pressure)
	}
	min := NewMinimization(5000)
	if min.Kind != Minimization || min.Steps != 5000 {
		Te.Errorf("minimization protocol wrong: %+v", min)
	}
}

func testSystem(Te *testing.T) *mol.Molecule {
	ats := []*mol.Atom{
		{Name: "P", ID: 1, Molname: "G", MolID: 1, Symbol: "P"},
		{Name: "O5'", ID: 2, Molname: "G", MolID: 1, Symbol: "O"},
		{Name: "C5'", ID: 3, Molname: "G", MolID: 1, Symbol: "C"},
	}
	c, err := vec.NewMatrix([]float64{
		1.234, -2.5, 3.75,
		0.1, 0.2, 0.3,
		-4.5, 6.0, -7.125,
	})
	if err != nil {
		Te.Fatal(err)
	}
	m, err := mol.NewMolecule([]*vec.Matrix{c}, ats, 0)
	if err != nil {
		Te.Fatal(err)
	}
	m.Box = []float64{40, 40, 40}
	return m
}

func TestRestartRoundTrip(Te *testing.T) {
	m := testSystem(Te)
	path := filepath.Join(Te.TempDir(), "test.rst7")
	if err := RestartWrite(path, m.Coords[0], m.Box); err != nil {
		Te.Fatal(err)
	}
	c, box, err := RestartRead(path)
	if err != nil {
		Te.Fatal(err)
	}
	if c.NVecs() != 3 {
		Te.Fatalf("expected 3 atoms, got %d", c.NVecs())
	}
	for i := 0; i < 3; i++ {
		for k := 0; k < 3; k++ {
			if math.Abs(c.At(i, k)-m.Coords[0].At(i, k)) > 1e-6 {
				Te.Errorf("coordinate (%d,%d): %f vs %f", i, k, c.At(i, k), m.Coords[0].At(i, k))
			}
		}
	}
	if len(box) < 3 || math.Abs(box[0]-40) > 1e-6 {
		Te.Errorf("box lost: %v", box)
	}
}

func TestAmberBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	A := NewAmberHandle()
	A.SetName("heat")
	A.SetWorkDir(dir)
	A.SetTopology("system.prmtop")
	m := testSystem(Te)
	p := NewHeating(100000, 0, 300, "!:WAT", 10)
	if err := A.BuildInput(m, p); err != nil {
		Te.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "heat.in"))
	if err != nil {
		Te.Fatal(err)
	}
	mdin := string(data)
	for _, want := range []string{
		"nstlim=100000", "tempi=0.00", "temp0=300.00", "ntt=3",
		"ntb=1", "ntr=1", "restraintmask='!:WAT'", "restraint_wt=10.0",
	} {
		if !strings.Contains(mdin, want) {
			Te.Errorf("mdin lacks %q:\n%s", want, mdin)
		}
	}
	if strings.Contains(mdin, "ntp=1") {
		Te.Error("constant-volume mdin asks for a barostat")
	}
	if _, err := os.Stat(filepath.Join(dir, "heat.rst7")); err != nil {
		Te.Errorf("starting coordinates not written: %v", err)
	}
}

func TestAmberMinimizationInput(Te *testing.T) {
	dir := Te.TempDir()
	A := NewAmberHandle()
	A.SetName("min")
	A.SetWorkDir(dir)
	A.SetTopology("system.prmtop")
	if err := A.BuildInput(testSystem(Te), NewMinimization(5000)); err != nil {
		Te.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "min.in"))
	if err != nil {
		Te.Fatal(err)
	}
	mdin := string(data)
	if !strings.Contains(mdin, "imin=1") || !strings.Contains(mdin, "maxcyc=5000") {
		Te.Errorf("not a minimization mdin:\n%s", mdin)
	}
	if strings.Contains(mdin, "nstlim") {
		Te.Error("minimization mdin sets dynamics steps")
	}
}

func TestAmberInputNeedsPrmtop(Te *testing.T) {
	A := NewAmberHandle()
	A.SetWorkDir(Te.TempDir())
	if err := A.BuildInput(testSystem(Te), NewNVT(1000, 300)); err == nil {
		Te.Error("expected an error without a prmtop")
	}
}

func TestGromacsBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	G := NewGromacsHandle()
	G.SetName("npt")
	G.SetWorkDir(dir)
	G.SetTopology("topol.top")
	p := NewNPT(100000, 300, 1, "!:WAT & !@H=", 5)
	if err := G.BuildInput(testSystem(Te), p); err != nil {
		Te.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "npt.mdp"))
	if err != nil {
		Te.Fatal(err)
	}
	mdp := string(data)
	for _, want := range []string{"integrator", "md", "-DPOSRES", "pcoupl", "ref-t"} {
		if !strings.Contains(mdp, want) {
			Te.Errorf("mdp lacks %q:\n%s", want, mdp)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "npt_start.pdb")); err != nil {
		Te.Errorf("starting structure not written: %v", err)
	}
}

func TestOpenMMBuildInput(Te *testing.T) {
	dir := Te.TempDir()
	O := NewOpenMMHandle()
	O.SetName("prod")
	O.SetWorkDir(dir)
	O.SetTopology("system.prmtop")
	p := NewProduction(100, 300, 1, 5000)
	if err := O.BuildInput(testSystem(Te), p); err != nil {
		Te.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "prod.py"))
	if err != nil {
		Te.Fatal(err)
	}
	script := string(data)
	for _, want := range []string{
		"AmberPrmtopFile", "LangevinMiddleIntegrator", "MonteCarloBarostat",
		"DCDReporter", "50000000",
	} {
		if !strings.Contains(script, want) {
			Te.Errorf("script lacks %q", want)
		}
	}
}

func TestSearchBackwards(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "out.log")
	content := "some output\nmore output\n   Total wall time:          12 seconds\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		Te.Fatal(err)
	}
	if s := searchBackwards("Total wall time", path); s == "" {
		Te.Error("marker not found")
	}
	if s := searchBackwards("no such marker", path); s != "" {
		Te.Errorf("found a marker that isn't there: %q", s)
	}
}
