/*
 * select.go, part of rnamd.
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

//Package analyze computes structural observables from trajectories:
//per-frame RMSD against a reference and per-atom RMSF, over an atom
//selection, plus plots for both.
package analyze

import (
	"fmt"
	"strconv"
	"strings"

	mol "github.com/molsimtools/rnamd"
)

//A Selection picks atoms out of a system by their properties. Terms
//are combined with "and"; "not" negates the term that follows it.
//
//	name P C4' O5'
//	resname A U G C and not name P
//	resid 1-12 and elem P
//	not resname WAT Na+ Cl-
//	all
type Selection struct {
	terms []term
}

type term struct {
	negated bool
	match   func(*mol.Atom, int) bool //atom and its residue ID
}

//ParseSelection parses a selection expression. An empty expression
//selects everything.
func ParseSelection(expr string) (*Selection, error) {
	S := new(Selection)
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "all" {
		return S, nil
	}
	for _, clause := range strings.Split(expr, " and ") {
		fields := strings.Fields(clause)
		neg := false
		if len(fields) > 0 && fields[0] == "not" {
			neg = true
			fields = fields[1:]
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("analyze: empty clause in selection %q", expr)
		}
		key := fields[0]
		args := fields[1:]
		if key != "all" && len(args) == 0 {
			return nil, fmt.Errorf("analyze: selection keyword %q needs arguments", key)
		}
		var match func(*mol.Atom, int) bool
		switch key {
		case "all":
			match = func(*mol.Atom, int) bool { return true }
		case "name":
			set := toSet(args)
			match = func(at *mol.Atom, _ int) bool { return set[at.Name] }
		case "resname":
			set := toSet(args)
			match = func(at *mol.Atom, _ int) bool { return set[at.Molname] }
		case "elem":
			set := toSet(args)
			match = func(at *mol.Atom, _ int) bool { return set[at.Symbol] }
		case "chain":
			set := toSet(args)
			match = func(at *mol.Atom, _ int) bool { return set[at.Chain] }
		case "resid":
			ranges, err := parseRanges(args)
			if err != nil {
				return nil, err
			}
			match = func(_ *mol.Atom, resid int) bool {
				for _, r := range ranges {
					if resid >= r[0] && resid <= r[1] {
						return true
					}
				}
				return false
			}
		default:
			return nil, fmt.Errorf("analyze: unknown selection keyword %q", key)
		}
		S.terms = append(S.terms, term{negated: neg, match: match})
	}
	return S, nil
}

func toSet(args []string) map[string]bool {
	set := make(map[string]bool, len(args))
	for _, a := range args {
		set[a] = true
	}
	return set
}

func parseRanges(args []string) ([][2]int, error) {
	var out [][2]int
	for _, a := range args {
		if lo, hi, found := strings.Cut(a, "-"); found {
			l, err1 := strconv.Atoi(lo)
			h, err2 := strconv.Atoi(hi)
			if err1 != nil || err2 != nil || h < l {
				return nil, fmt.Errorf("analyze: bad resid range %q", a)
			}
			out = append(out, [2]int{l, h})
			continue
		}
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("analyze: bad resid %q", a)
		}
		out = append(out, [2]int{v, v})
	}
	return out, nil
}

//Apply returns the indexes, in ascending order, of the atoms of sys
//matched by the selection.
func (S *Selection) Apply(sys mol.Atomer) []int {
	var out []int
	for i := 0; i < sys.Len(); i++ {
		at := sys.Atom(i)
		ok := true
		for _, t := range S.terms {
			m := t.match(at, at.MolID)
			if t.negated {
				m = !m
			}
			if !m {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, i)
		}
	}
	return out
}
