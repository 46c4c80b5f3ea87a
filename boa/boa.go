/*
 * boa.go, part of gomof.
 *
 * Copyright 2024 Raul Mera <rmeraa{at}academicos(dot)uta(dot)cl>
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

// Package boa implements the bag-of-atoms descriptor. The unit cell is
// cut in NxNxN boxes ("bags") along the lattice vectors, and each bag is described
// by the sums of the Lennard-Jones epsilon and sigma of the atoms in it, divided
// by the total number of atoms in the cell.
package boa

import (
	"fmt"
	"math"
	"strings"

	chem "github.com/rmera/gomof"
)

// DefaultGrid is the number of divisions of the cell along each lattice vector.
const DefaultGrid = 6

// Bag contains the indexes of the atoms of a structure that fall in each box.
type Bag struct {
	n     int
	atoms [][]int //row-major, the box i,j,k is i*n*n+j*n+k
	syms  []string
}

// Box returns the indexes of the box, along each lattice vector, that contains the point
// with fractional coordinates frac, in a grid of n divisions. The coordinates are first
// brought into [0,1), so points outside the cell go to the box of their image inside it.
func Box(frac []float64, n int) [3]int {
	var ret [3]int
	for i := 0; i < 3; i++ {
		f := frac[i] - math.Floor(frac[i])
		b := int(f * float64(n))
		if b >= n { //f can be 1-ε, so f*n rounds to n
			b = n - 1
		}
		ret[i] = b
	}
	return ret
}

// NewBag distributes the atoms of s in a grid of n divisions per lattice vector.
// It panics if n is not positive.
func NewBag(s *chem.Structure, n int) *Bag {
	if n <= 0 {
		panic(fmt.Sprintf("boa.NewBag: invalid grid size %d", n))
	}
	ret := &Bag{n: n, atoms: make([][]int, n*n*n), syms: s.Symbols()}
	for i := 0; i < s.Len(); i++ {
		b := Box(s.Frac.RawRowView(i), n)
		idx := ret.index(b[0], b[1], b[2])
		ret.atoms[idx] = append(ret.atoms[idx], i)
	}
	return ret
}

func (B *Bag) index(i, j, k int) int {
	return i*B.n*B.n + j*B.n + k
}

// N returns the number of divisions along each lattice vector.
func (B *Bag) N() int {
	return B.n
}

// Atoms returns the indexes of the atoms in the box i,j,k.
// The slice should not be modified.
func (B *Bag) Atoms(i, j, k int) []int {
	return B.atoms[B.index(i, j, k)]
}

// Symbols returns the element symbols of the atoms in the box i,j,k.
func (B *Bag) Symbols(i, j, k int) []string {
	at := B.Atoms(i, j, k)
	ret := make([]string, len(at))
	for n, v := range at {
		ret[n] = B.syms[v]
	}
	return ret
}

// Contents returns, for each box in row-major order, the symbols of the atoms in it
// separated by spaces.
func (B *Bag) Contents() []string {
	ret := make([]string, len(B.atoms))
	for i := 0; i < B.n; i++ {
		for j := 0; j < B.n; j++ {
			for k := 0; k < B.n; k++ {
				ret[B.index(i, j, k)] = strings.Join(B.Symbols(i, j, k), " ")
			}
		}
	}
	return ret
}

// Record is the bag-of-atoms descriptor of a structure.
type Record struct {
	Name    string
	NAtoms  int
	Epsilon []float64 //one value per box, row-major
	Sigma   []float64
}

// Fields returns the record as CSV fields: name, number of atoms, and then the epsilon and sigma
// of each box, with 8 decimals.
func (R *Record) Fields() []string {
	ret := make([]string, 0, 2*len(R.Epsilon)+2)
	ret = append(ret, R.Name, fmt.Sprintf("%d", R.NAtoms))
	for i := range R.Epsilon {
		ret = append(ret, fmt.Sprintf("%.8f", R.Epsilon[i]), fmt.Sprintf("%.8f", R.Sigma[i]))
	}
	return ret
}

// Header returns the CSV header for a grid of n divisions.
// For grids of more than 10 divisions the box indexes are separated by
// underscores, as in "epsilon bin 1_0_10".
func Header(n int) []string {
	format := "%s bin %d%d%d"
	if n > 10 {
		format = "%s bin %d_%d_%d"
	}
	ret := make([]string, 0, 2*n*n*n+2)
	ret = append(ret, "Structure_Name", "num_atoms")
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				ret = append(ret, fmt.Sprintf(format, "epsilon", i, j, k), fmt.Sprintf(format, "sigma", i, j, k))
			}
		}
	}
	return ret
}

// Compute returns the bag-of-atoms descriptor of s in a grid of n divisions, with the epsilon
// and sigma values taken from table. Empty boxes get zeros.
func Compute(s *chem.Structure, table chem.Propertier, n int) (*Record, error) {
	if s.Len() == 0 {
		return nil, chem.NewDegenerateStructureError(s.Name, 0)
	}
	if n <= 0 {
		n = DefaultGrid
	}
	eps := make(map[string]float64)
	sig := make(map[string]float64)
	for _, e := range s.Elements() {
		var err error
		if eps[e], err = table.Value(e, chem.Epsilon); err == nil {
			sig[e], err = table.Value(e, chem.Sigma)
		}
		if err != nil {
			if uerr, ok := err.(*chem.UnknownElementError); ok {
				uerr.SetFileName(s.Name)
			}
			return nil, err
		}
	}
	bag := NewBag(s, n)
	ret := &Record{Name: s.Name, NAtoms: s.Len(), Epsilon: make([]float64, n*n*n), Sigma: make([]float64, n*n*n)}
	natoms := float64(s.Len())
	for b, atoms := range bag.atoms {
		if len(atoms) == 0 {
			continue
		}
		var et, st float64
		for _, a := range atoms {
			et += eps[bag.syms[a]]
			st += sig[bag.syms[a]]
		}
		ret.Epsilon[b] = et / natoms
		ret.Sigma[b] = st / natoms
	}
	return ret, nil
}
