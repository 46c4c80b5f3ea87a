/*
 * images.go, part of gomof.
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

	"gonum.org/v1/gonum/mat"

	chem "github.com/rmera/gomof"
	v3 "github.com/rmera/gomof/v3"
)

// NImages is the number of periodic images of each atom considered: the
// cell itself plus a single shell of neighbouring cells.
const NImages = 27

// Shifts contains the translations, in fractional coordinates, that give the
// periodic images. The order is lexicographic over {-1,0,1}, with z changing fastest,
// so the untranslated cell is the 14th element.
var Shifts = func() [NImages][3]float64 {
	var ret [NImages][3]float64
	n := 0
	for _, i := range []float64{-1, 0, 1} {
		for _, j := range []float64{-1, 0, 1} {
			for _, k := range []float64{-1, 0, 1} {
				ret[n] = [3]float64{i, j, k}
				n++
			}
		}
	}
	return ret
}()

// Images puts in dst the cartesian coordinates of the 27 periodic images of the point
// with fractional coordinates frac, using the fractional-to-cartesian matrix f2c, and returns dst.
// If dst is nil or doesn't have 27 rows, a new matrix is allocated.
func Images(frac []float64, f2c *mat.Dense, dst *v3.Matrix) *v3.Matrix {
	if dst == nil || dst.NVecs() != NImages {
		dst = v3.Zeros(NImages)
	}
	m := f2c.RawMatrix()
	f := m.Data
	s := m.Stride
	d := dst.RawMatrix()
	var p [3]float64
	for n, sh := range Shifts {
		p[0], p[1], p[2] = sh[0]+frac[0], sh[1]+frac[1], sh[2]+frac[2]
		row := d.Data[n*d.Stride : n*d.Stride+3]
		for r := 0; r < 3; r++ {
			row[r] = f[r*s]*p[0] + f[r*s+1]*p[1] + f[r*s+2]*p[2]
		}
	}
	return dst
}

// AllImages returns the periodic images of every atom in the structure.
// The element i of the slice has the images of the atom i.
func AllImages(s *chem.Structure) []*v3.Matrix {
	f2c := s.Cell.FracToCart()
	ret := make([]*v3.Matrix, s.Len())
	for i := range ret {
		ret[i] = Images(s.Frac.RawRowView(i), f2c, nil)
	}
	return ret
}

// PairDistance returns the smallest euclidean distance between the point cart and
// the rows of images. If several images are at the same, minimum, distance, the first one
// is the one taken into account (which makes no difference for the value returned).
func PairDistance(cart []float64, images *v3.Matrix) float64 {
	d := images.RawMatrix()
	min := math.Inf(1)
	for n := 0; n < d.Rows; n++ {
		row := d.Data[n*d.Stride : n*d.Stride+3]
		x := row[0] - cart[0]
		y := row[1] - cart[1]
		z := row[2] - cart[2]
		if dist := math.Sqrt(x*x + y*y + z*z); dist < min {
			min = dist
		}
	}
	return min
}

// Pairs calls f for every unordered pair of the indexes 0..n-1, i.e. for
// every (i,j) with i<j, in lexicographic order. f is never called with i==j.
func Pairs(n int, f func(i, j int)) {
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			f(i, j)
		}
	}
}
