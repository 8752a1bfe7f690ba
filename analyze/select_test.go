/*
 * select_test.go, part of rnamd.
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

package analyze

import (
	"testing"

	mol "github.com/molsimtools/rnamd"
)

func testTop(Te *testing.T) *mol.Topology {
	ats := []*mol.Atom{
		{Name: "P", Molname: "G", MolID: 1, Chain: "A", Symbol: "P"},
		{Name: "C1'", Molname: "G", MolID: 1, Chain: "A", Symbol: "C"},
		{Name: "P", Molname: "U", MolID: 2, Chain: "A", Symbol: "P"},
		{Name: "N3", Molname: "U", MolID: 2, Chain: "A", Symbol: "N"},
		{Name: "C7", Molname: "LIG", MolID: 3, Chain: "B", Symbol: "C"},
		{Name: "O", Molname: "WAT", MolID: 4, Chain: "", Symbol: "O"},
		{Name: "Na+", Molname: "Na+", MolID: 5, Chain: "", Symbol: "Na"},
	}
	top, err := mol.NewTopology(ats, 0)
	if err != nil {
		Te.Fatal(err)
	}
	return top
}

func apply(Te *testing.T, top *mol.Topology, expr string) []int {
	sel, err := ParseSelection(expr)
	if err != nil {
		Te.Fatalf("parsing %q: %v", expr, err)
	}
	return sel.Apply(top)
}

func eqInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelections(Te *testing.T) {
	top := testTop(Te)
	cases := []struct {
		expr string
		want []int
	}{
		{"all", []int{0, 1, 2, 3, 4, 5, 6}},
		{"", []int{0, 1, 2, 3, 4, 5, 6}},
		{"name P", []int{0, 2}},
		{"resname G U", []int{0, 1, 2, 3}},
		{"resname LIG", []int{4}},
		{"resid 2", []int{2, 3}},
		{"resid 1-2", []int{0, 1, 2, 3}},
		{"resid 1-2 4", []int{0, 1, 2, 3, 5}},
		{"elem P", []int{0, 2}},
		{"chain B", []int{4}},
		{"not resname WAT Na+", []int{0, 1, 2, 3, 4}},
		{"resname G U and name P", []int{0, 2}},
		{"resid 1-3 and not elem P", []int{1, 3, 4}},
	}
	for _, c := range cases {
		if got := apply(Te, top, c.expr); !eqInts(got, c.want) {
			Te.Errorf("%q selected %v, expected %v", c.expr, got, c.want)
		}
	}
}

func TestSelectionErrors(Te *testing.T) {
	for _, expr := range []string{
		"nonsense P",
		"resid x",
		"resid 5-2",
		"name",
		"resname G and",
	} {
		if _, err := ParseSelection(expr); err == nil {
			Te.Errorf("parsing %q should fail", expr)
		}
	}
}
