/*
 * cell.go, part of gomof.
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

package chem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	v3 "github.com/rmera/gomof/v3"
)

const deg2rad = math.Pi / 180.0

// Cell is a triclinic unit cell. Lengths are in A, angles in radians.
type Cell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
	Volume             float64
	f2c                *mat.Dense
}

// NewCell returns a unit cell from its lengths and its angles, in degrees.
// If a positive volume is given it is used, otherwise the volume is obtained from the
// other parameters. The fractional to cartesian transformation is built here, with
// the a axis along x and the b axis on the xy plane.
func NewCell(a, b, c, alpha, beta, gamma float64, volume ...float64) (*Cell, error) {
	for _, v := range []float64{a, b, c} {
		if !(v > 0) || math.IsInf(v, 0) {
			return nil, NewGeometryError(fmt.Sprintf("cell lengths must be positive, got %v, %v, %v", a, b, c))
		}
	}
	for _, v := range []float64{alpha, beta, gamma} {
		if !(v > 0 && v < 180) {
			return nil, NewGeometryError(fmt.Sprintf("cell angles must be in (0,180), got %v, %v, %v", alpha, beta, gamma))
		}
	}
	ret := &Cell{A: a, B: b, C: c, Alpha: alpha * deg2rad, Beta: beta * deg2rad, Gamma: gamma * deg2rad}
	if len(volume) > 0 && volume[0] > 0 {
		ret.Volume = volume[0]
	} else {
		v, err := cellVolume(a, b, c, ret.Alpha, ret.Beta, ret.Gamma)
		if err != nil {
			return nil, err
		}
		ret.Volume = v
	}
	ret.f2c = frac2Cart(ret)
	return ret, nil
}

// cellVolume obtains the volume of a triclinic cell. Angles in radians.
func cellVolume(a, b, c, alpha, beta, gamma float64) (float64, error) {
	ca, cb, cg := math.Cos(alpha), math.Cos(beta), math.Cos(gamma)
	rad := 1 - ca*ca - cb*cb - cg*cg + 2*ca*cb*cg
	if rad <= 0 {
		return 0, NewGeometryError(fmt.Sprintf("the angles don't form a cell (1-cos²α-cos²β-cos²γ+2cosαcosβcosγ=%g)", rad))
	}
	return a * b * c * math.Sqrt(rad), nil
}

func frac2Cart(C *Cell) *mat.Dense {
	ca, cb, cg := math.Cos(C.Alpha), math.Cos(C.Beta), math.Cos(C.Gamma)
	sg := math.Sin(C.Gamma)
	return mat.NewDense(3, 3, []float64{
		C.A, C.B * cg, C.C * cb,
		0, C.B * sg, C.C * (ca - cb*cg) / sg,
		0, 0, C.Volume / (C.A * C.B * sg),
	})
}

// FracToCart returns the 3x3 matrix that transforms a column vector of fractional coordinates
// into cartesian coordinates. The columns are the lattice vectors. The matrix should not be modified.
func (C *Cell) FracToCart() *mat.Dense {
	return C.f2c
}

// Cartesian returns a new matrix with the cartesian coordinates
// corresponding to the fractional coordinates in frac.
func (C *Cell) Cartesian(frac *v3.Matrix) *v3.Matrix {
	n := frac.NVecs()
	ret := v3.Zeros(n)
	if n == 0 {
		return ret
	}
	ret.Mul(frac, C.f2c.T())
	return ret
}

// ToCartesian puts in dst the cartesian coordinates of the fractional point frac.
// dst must have at least 3 elements.
func (C *Cell) ToCartesian(dst, frac []float64) {
	m := C.f2c.RawMatrix().Data
	dst[0] = m[0]*frac[0] + m[1]*frac[1] + m[2]*frac[2]
	dst[1] = m[3]*frac[0] + m[4]*frac[1] + m[5]*frac[2]
	dst[2] = m[6]*frac[0] + m[7]*frac[1] + m[8]*frac[2]
}

// Widths returns the perpendicular widths of the cell, i.e. the distances between
// opposite faces, along a, b and c.
func (C *Cell) Widths() [3]float64 {
	lattice := v3.Zeros(3) //one lattice vector per row
	lattice.Copy(C.f2c.T())
	cross := v3.Zeros(1)
	var ret [3]float64
	for i := 0; i < 3; i++ {
		cross.Cross(lattice.VecView((i+1)%3), lattice.VecView((i+2)%3))
		ret[i] = C.Volume / cross.Norm()
	}
	return ret
}

// MinWidth returns the smallest perpendicular width of the cell.
func (C *Cell) MinWidth() float64 {
	w := C.Widths()
	return math.Min(w[0], math.Min(w[1], w[2]))
}

func (C *Cell) String() string {
	return fmt.Sprintf("a=%.4f b=%.4f c=%.4f α=%.3f β=%.3f γ=%.3f V=%.3f", C.A, C.B, C.C, C.Alpha/deg2rad, C.Beta/deg2rad, C.Gamma/deg2rad, C.Volume)
}
