/*
 * chem_test.go, part of gomof.
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
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCIFRead(Te *testing.T) {
	s, err := CIFFileRead("test/cubic2.cif")
	require.NoError(Te, err)
	assert.Equal(Te, "cubic2.cif", s.Name)
	assert.Equal(Te, 2, s.Len())
	assert.Equal(Te, []string{"C", "C"}, s.Symbols())
	assert.Equal(Te, "C2", s.Atom(1).Label)
	assert.InDelta(Te, 1000.0, s.Cell.Volume, 1e-9)
	cart := s.Cartesian()
	assert.InDelta(Te, 5.0, cart.At(1, 0), 1e-12)
	assert.InDelta(Te, 0.0, cart.At(1, 1), 1e-12)
	assert.InDelta(Te, 0.0, cart.At(1, 2), 1e-12)
}

func TestCIFMMCIFNames(Te *testing.T) {
	s, err := CIFFileRead("test/mixed.cif")
	require.NoError(Te, err)
	assert.Equal(Te, 6, s.Len())
	assert.InDelta(Te, 7.512, s.Cell.A, 1e-12)
	assert.InDelta(Te, 101.7*math.Pi/180, s.Cell.Gamma, 1e-12)
	assert.InDelta(Te, 0.1021, s.Frac.At(0, 0), 1e-12)
	assert.Equal(Te, []string{"C", "H", "N", "O", "Zn"}, s.Elements())
	//the volume is not in the file, so it has to match the determinant of the transformation.
	assert.InDelta(Te, mat.Det(s.Cell.FracToCart()), s.Cell.Volume, 1e-8)
}

func TestCIFMissingField(Te *testing.T) {
	_, err := CIFFileRead("test/nogamma.cif")
	require.Error(Te, err)
	var merr *MissingFieldError
	require.True(Te, errors.As(err, &merr))
	assert.Equal(Te, cifGamma, merr.Field)
	assert.Equal(Te, "nogamma.cif", merr.FileName())
	assert.Equal(Te, KindMissingField, KindOf(err))
	assert.False(Te, IsCritical(err))
}

func TestCIFNoAtoms(Te *testing.T) {
	s, err := CIFFileRead("test/noatoms.cif")
	require.NoError(Te, err)
	assert.Equal(Te, 0, s.Len())
	assert.Equal(Te, 0, s.Cartesian().NVecs())
}

func TestCIFNotExisting(Te *testing.T) {
	_, err := CIFFileRead("test/doesnotexist.cif")
	require.Error(Te, err)
	assert.Equal(Te, KindIO, KindOf(err))
}

func TestCIFCompressed(Te *testing.T) {
	data, err := os.ReadFile("test/cubic2.cif")
	require.NoError(Te, err)
	dir := Te.TempDir()

	gzname := filepath.Join(dir, "cubic2.cif.gz")
	f, err := os.Create(gzname)
	require.NoError(Te, err)
	gw := gzip.NewWriter(f)
	_, err = gw.Write(data)
	require.NoError(Te, err)
	require.NoError(Te, gw.Close())
	require.NoError(Te, f.Close())

	zname := filepath.Join(dir, "cubic2.cif.zst")
	f, err = os.Create(zname)
	require.NoError(Te, err)
	zw, err := zstd.NewWriter(f)
	require.NoError(Te, err)
	_, err = zw.Write(data)
	require.NoError(Te, err)
	require.NoError(Te, zw.Close())
	require.NoError(Te, f.Close())

	for _, name := range []string{gzname, zname} {
		s, err := CIFFileRead(name)
		require.NoError(Te, err, name)
		assert.Equal(Te, filepath.Base(name), s.Name)
		assert.Equal(Te, 2, s.Len())
	}
}

func TestCIFLoopMismatch(Te *testing.T) {
	cif := `data_bad
_cell_length_a 5
loop_
_atom_site_label
_atom_site_fract_x
C1 0.1 C2
`
	_, err := CIFRead(strings.NewReader(cif), "bad")
	require.Error(Te, err)
	assert.Equal(Te, KindIO, KindOf(err))
}

func TestSymbolFromType(Te *testing.T) {
	cases := map[string]string{
		"Zn":   "Zn",
		"Zn2+": "Zn",
		"ZN":   "Zn",
		"O12":  "O",
		"CA1":  "C",
		"Cu1":  "Cu",
		"h":    "H",
		"12":   "",
	}
	for in, out := range cases {
		assert.Equal(Te, out, symbolFromType(in), in)
	}
}

func TestCifLineTokens(Te *testing.T) {
	toks := cifLineTokens(`_name 'it''s quoted' "x y" plain # comment`)
	require.Len(Te, toks, 4)
	assert.Equal(Te, "it''s quoted", toks[1].s)
	assert.True(Te, toks[1].quoted)
	assert.Equal(Te, "x y", toks[2].s)
	assert.Equal(Te, "plain", toks[3].s)
	assert.True(Te, toks[0].isTag())
}

func TestOrthogonalCell(Te *testing.T) {
	c, err := NewCell(10, 12, 14, 90, 90, 90)
	require.NoError(Te, err)
	f2c := c.FracToCart()
	diag := []float64{10, 12, 14}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			exp := 0.0
			if i == j {
				exp = diag[i]
			}
			assert.InDelta(Te, exp, f2c.At(i, j), 1e-9)
		}
	}
	w := c.Widths()
	for i := range w {
		assert.InDelta(Te, diag[i], w[i], 1e-9)
	}
	assert.InDelta(Te, 10.0, c.MinWidth(), 1e-9)
	dst := make([]float64, 3)
	c.ToCartesian(dst, []float64{0.5, 0.5, 0.5})
	assert.InDeltaSlice(Te, []float64{5, 6, 7}, dst, 1e-9)
}

func TestTriclinicCell(Te *testing.T) {
	c, err := NewCell(7.5, 8.1, 9.3, 84.2, 79.35, 101.7)
	require.NoError(Te, err)
	assert.InDelta(Te, mat.Det(c.FracToCart()), c.Volume, 1e-8)
	//the a axis lies on x
	assert.InDelta(Te, 0.0, c.FracToCart().At(1, 0), 1e-12)
	assert.InDelta(Te, 0.0, c.FracToCart().At(2, 0), 1e-12)
	w := c.Widths()
	for i, l := range []float64{c.A, c.B, c.C} {
		assert.True(Te, w[i] < l, "width %d should be smaller than the cell length", i)
	}
	//a given volume is used as is.
	c2, err := NewCell(7.5, 8.1, 9.3, 84.2, 79.35, 101.7, 500)
	require.NoError(Te, err)
	assert.Equal(Te, 500.0, c2.Volume)
}

func TestBadCell(Te *testing.T) {
	bad := [][6]float64{
		{-1, 10, 10, 90, 90, 90},
		{10, 0, 10, 90, 90, 90},
		{10, 10, 10, 0, 90, 90},
		{10, 10, 10, 90, 180, 90},
		{10, 10, 10, 10, 10, 170}, //angles that can't close a cell
	}
	for _, p := range bad {
		_, err := NewCell(p[0], p[1], p[2], p[3], p[4], p[5])
		require.Error(Te, err, "%v", p)
		assert.Equal(Te, KindGeometry, KindOf(err))
	}
}

func TestNewStructureMismatch(Te *testing.T) {
	c, err := NewCell(10, 10, 10, 90, 90, 90)
	require.NoError(Te, err)
	_, err = NewStructure("x", c, []*Atom{{Symbol: "C"}}, nil)
	assert.Equal(Te, KindMissingField, KindOf(err))
	_, err = NewStructure("x", nil, nil, nil)
	assert.Equal(Te, KindMissingField, KindOf(err))
}

func TestPropertyTable(Te *testing.T) {
	P := DefaultProperties()
	v, err := P.Value("C", Electronegativity)
	require.NoError(Te, err)
	assert.Equal(Te, 2.55, v)
	v, err = P.Value("H", VdWVolume)
	require.NoError(Te, err)
	assert.InDelta(Te, 4.0/3.0*math.Pi*1.2*1.2*1.2, v, 1e-12)
	_, err = P.Value("Xx", Electronegativity)
	var uerr *UnknownElementError
	require.True(Te, errors.As(err, &uerr))
	assert.Equal(Te, "Xx", uerr.Symbol)
	_, err = P.Value("C", "charge")
	assert.Equal(Te, KindUnknownElem, KindOf(err))
	assert.Contains(Te, P.Properties(), Sigma)

	P, err = PropertyFileRead("test/props.yaml")
	require.NoError(Te, err)
	v, err = P.Value("Xx", Electronegativity)
	require.NoError(Te, err)
	assert.Equal(Te, 1.5, v)
	v, err = P.Value("C", Electronegativity)
	require.NoError(Te, err)
	assert.Equal(Te, 2.55, v)
	assert.True(Te, P.HasProperty("charge"))
	assert.False(Te, P.HasProperty("spin"))
}

func TestPropertyFileMissing(Te *testing.T) {
	_, err := PropertyFileRead("test/nothere.yaml")
	require.Error(Te, err)
	assert.True(Te, IsCritical(err))
}

func TestErrorDecoration(Te *testing.T) {
	err := NewDegenerateStructureError("a.cif", 0)
	errDecorate(err, "Compute")
	assert.Equal(Te, "a.cif: Compute: not enough atoms (0)", err.Error())
	wrapped := errors.Wrap(err, "batch")
	assert.Equal(Te, KindDegenerate, KindOf(wrapped))
	assert.Equal(Te, "Error", KindOf(errors.New("plain")))
}
