package boa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chem "github.com/rmera/gomof"
)

func TestBox(Te *testing.T) {
	assert.Equal(Te, [3]int{0, 0, 0}, Box([]float64{0, 0, 0}, 6))
	assert.Equal(Te, [3]int{3, 5, 0}, Box([]float64{0.5, 0.99, 0.1}, 6))
	//outside the cell
	assert.Equal(Te, [3]int{0, 5, 3}, Box([]float64{1.0, -0.01, 2.5}, 6))
	assert.Equal(Te, [3]int{5, 0, 0}, Box([]float64{1 - 1e-16, 0, 0}, 6))
}

func TestHeader(Te *testing.T) {
	h := Header(6)
	require.Len(Te, h, 2*216+2)
	assert.Equal(Te, "Structure_Name", h[0])
	assert.Equal(Te, "num_atoms", h[1])
	assert.Equal(Te, "epsilon bin 000", h[2])
	assert.Equal(Te, "sigma bin 000", h[3])
	assert.Equal(Te, "epsilon bin 001", h[4])
	assert.Equal(Te, "sigma bin 555", h[len(h)-1])
	h = Header(11)
	require.Len(Te, h, 2*11*11*11+2)
	assert.Equal(Te, "epsilon bin 0_0_0", h[2])
	assert.Equal(Te, "sigma bin 10_10_10", h[len(h)-1])
	seen := make(map[string]bool, len(h))
	for _, c := range h {
		assert.False(Te, seen[c], "repeated column %s", c)
		seen[c] = true
	}
}

func TestCompute(Te *testing.T) {
	s, err := chem.CIFFileRead("../test/mixed.cif")
	require.NoError(Te, err)
	rec, err := Compute(s, chem.DefaultProperties(), DefaultGrid)
	require.NoError(Te, err)
	assert.Equal(Te, 6, rec.NAtoms)
	require.Len(Te, rec.Fields(), len(Header(DefaultGrid)))
	//Zn1 at (0.1021, 0.2210, 0.3001) is alone in the box 011
	assert.InDelta(Te, 0.124/6, rec.Epsilon[0*36+1*6+1], 1e-15)
	assert.InDelta(Te, 2.4616/6, rec.Sigma[0*36+1*6+1], 1e-15)
	assert.Equal(Te, "0.02066667", rec.Fields()[2+2*(0*36+1*6+1)])
	//N1 at (0.5,0.5,0.5) and C1 at (0.55,0.52,0.55) share the box 333
	assert.InDelta(Te, (0.069+0.105)/6, rec.Epsilon[3*36+3*6+3], 1e-15)
	sum := 0.0
	for _, v := range rec.Epsilon {
		sum += v
	}
	assert.InDelta(Te, (0.124+0.06+0.06+0.069+0.105+0.044)/6, sum, 1e-12)
	bag := NewBag(s, DefaultGrid)
	assert.Equal(Te, []string{"N", "C"}, bag.Symbols(3, 3, 3))
	assert.Equal(Te, "N C", bag.Contents()[3*36+3*6+3])
	assert.Equal(Te, "0.00000000", rec.Fields()[2])
}

func TestComputeErrors(Te *testing.T) {
	s, err := chem.CIFFileRead("../test/unknown.cif")
	require.NoError(Te, err)
	_, err = Compute(s, chem.DefaultProperties(), 6)
	assert.Equal(Te, chem.KindUnknownElem, chem.KindOf(err))
	s, err = chem.CIFFileRead("../test/noatoms.cif")
	require.NoError(Te, err)
	_, err = Compute(s, chem.DefaultProperties(), 6)
	assert.Equal(Te, chem.KindDegenerate, chem.KindOf(err))
	assert.Panics(Te, func() { NewBag(s, 0) })
}
