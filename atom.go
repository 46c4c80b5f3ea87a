/*
 * atom.go, part of gomof.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package chem

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	v3 "github.com/rmera/gomof/v3"
)

// Atom contains the atoms read except for the coordinates, which will be in a matrix.
type Atom struct {
	Label  string //the CIF site label, i.e. Zn1, O23
	Symbol string
	ID     int
}

// Copy returns a copy of the Atom object.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic("Attempted to copy a nil atom")
	}
	ret := *A
	return &ret
}

// Structure is one crystal structure: the unit cell, the atoms in it,
// and their fractional coordinates (one row per atom, in the same order as Atoms).
// Structures are not modified after being read.
type Structure struct {
	Name  string
	Cell  *Cell
	Atoms []*Atom
	Frac  *v3.Matrix
}

// NewStructure returns a new structure from its parts. It returns error if
// the number of atoms doesn't match the number of fractional coordinates or
// if the cell is nil.
func NewStructure(name string, cell *Cell, atoms []*Atom, frac *v3.Matrix) (*Structure, error) {
	if cell == nil {
		return nil, NewMissingFieldError(name, "_cell", "no unit cell given")
	}
	if frac == nil {
		frac = v3.Zeros(0)
	}
	if frac.NVecs() != len(atoms) {
		return nil, NewMissingFieldError(name, "_atom_site_fract", fmt.Sprintf("%d atoms but %d coordinates", len(atoms), frac.NVecs()))
	}
	return &Structure{Name: name, Cell: cell, Atoms: atoms, Frac: frac}, nil
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Structure. Panics if
// out of range.
func (S *Structure) Atom(i int) *Atom {
	if i >= S.Len() {
		panic("Structure: Requested Atom out of bounds")
	}
	return S.Atoms[i]
}

// Len returns the number of atoms in the structure.
func (S *Structure) Len() int {
	return len(S.Atoms)
}

// Symbols returns the element symbol of every atom, in order.
func (S *Structure) Symbols() []string {
	return AtomSymbols(S)
}

// AtomSymbols returns the element symbol of each atom in A, in order.
func AtomSymbols(A Atomer) []string {
	ret := make([]string, A.Len())
	for i := range ret {
		ret[i] = A.Atom(i).Symbol
	}
	return ret
}

// Elements returns the sorted set of element symbols present in the structure.
func (S *Structure) Elements() []string {
	ret := lo.Uniq(S.Symbols())
	sort.Strings(ret)
	return ret
}

// Cartesian returns a new matrix with the cartesian coordinates of all the
// atoms in the structure.
func (S *Structure) Cartesian() *v3.Matrix {
	return S.Cell.Cartesian(S.Frac)
}
