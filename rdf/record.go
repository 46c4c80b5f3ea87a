/*
 * record.go, part of gomof.
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
	"math"
	"strconv"
	"strings"
)

// Record is the descriptor of one structure: its name and
// the values, in the same order as the header.
type Record struct {
	Name   string
	Values []float64
}

// Fields returns the record as CSV fields: the name, then all the values.
func (R *Record) Fields() []string {
	ret := make([]string, 0, len(R.Values)+1)
	ret = append(ret, R.Name)
	for _, v := range R.Values {
		ret = append(ret, FormatValue(v))
	}
	return ret
}

// FormatValue returns the shortest decimal representation of v that reads back
// as the same float64. Numbers with decimal exponents in [-4,16) are written without exponent,
// and always with a decimal point, so 0 is written as 0.0 and 1e-05 stays as it is.
func FormatValue(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if v == 0 {
		if math.Signbit(v) {
			return "-0.0"
		}
		return "0.0"
	}
	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e
	}
	ret := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(ret, '.') {
		ret += ".0"
	}
	return ret
}
