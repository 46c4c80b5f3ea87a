/*
 * plot_test.go
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
 *
 */

package chemplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/rdf"
)

// TestRDFPlot plots the RDF curves of a small structure.
func TestRDFPlot(Te *testing.T) {
	s, err := chem.CIFFileRead("../test/mixed.cif")
	require.NoError(Te, err)
	o := rdf.DefaultOptions()
	rec, err := rdf.Compute(s, chem.DefaultProperties(), o)
	require.NoError(Te, err)
	name := PlotName(Te.TempDir(), "../test/mixed.cif.gz")
	assert.Equal(Te, "mixed", filepath.Base(name))
	require.NoError(Te, RDFPlot(rec, o.Props(), o.Bins(), nil, name))
	st, err := os.Stat(name + ".png")
	require.NoError(Te, err)
	assert.Greater(Te, st.Size(), int64(0))
	//only one curve
	require.NoError(Te, RDFPlot(rec, o.Props(), o.Bins(), []string{chem.Hardness}, name+"_hardness"))
	//wrong sizes
	assert.Error(Te, RDFPlot(rec, o.Props()[:1], o.Bins(), nil, name))
}

func TestColors(Te *testing.T) {
	r, g, b := colors(0, 3)
	assert.Equal(Te, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})
	r2, g2, b2 := colors(2, 3)
	assert.NotEqual(Te, [3]uint8{r, g, b}, [3]uint8{r2, g2, b2})
}
