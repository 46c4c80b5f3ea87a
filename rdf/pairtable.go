/*
 * pairtable.go, part of gomof.
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

package rdf

import (
	chem "github.com/rmera/gomof"
)

// PairTable contains, for each pair of elements, the products of their values for
// a list of properties. It is symmetric: the pair (a,b) gives the same slice as (b,a).
type PairTable struct {
	index map[string]int
	prods [][][]float64
	props []string
}

// NewPairTable builds the table for the given element symbols and properties, taking
// the values from table. It returns an *chem.UnknownElementError if some value is missing.
func NewPairTable(elements, props []string, table chem.Propertier) (*PairTable, error) {
	ret := &PairTable{index: make(map[string]int, len(elements)), props: props}
	vals := make([][]float64, 0, len(elements))
	for _, e := range elements {
		if _, ok := ret.index[e]; ok {
			continue
		}
		v := make([]float64, len(props))
		for k, p := range props {
			var err error
			v[k], err = table.Value(e, p)
			if err != nil {
				return nil, err
			}
		}
		ret.index[e] = len(vals)
		vals = append(vals, v)
	}
	ret.prods = make([][][]float64, len(vals))
	for i := range vals {
		ret.prods[i] = make([][]float64, len(vals))
	}
	for i := range vals {
		for j := i; j < len(vals); j++ {
			p := make([]float64, len(props))
			for k := range p {
				p[k] = vals[i][k] * vals[j][k]
			}
			ret.prods[i][j] = p
			ret.prods[j][i] = p
		}
	}
	return ret, nil
}

// Index returns the index of the element symbol in the table, or -1 if it's not there.
func (P *PairTable) Index(symbol string) int {
	i, ok := P.index[symbol]
	if !ok {
		return -1
	}
	return i
}

// ByIndex returns the property products for the elements with indexes i and j.
// The returned slice should not be modified.
func (P *PairTable) ByIndex(i, j int) []float64 {
	return P.prods[i][j]
}

// Get returns the property products for the elements a and b, or nil if either
// is not in the table. The returned slice should not be modified.
func (P *PairTable) Get(a, b string) []float64 {
	i, j := P.Index(a), P.Index(b)
	if i < 0 || j < 0 {
		return nil
	}
	return P.prods[i][j]
}

// Properties returns the names of the properties in the table, in order.
func (P *PairTable) Properties() []string {
	return P.props
}
