/*
 * config_test.go, part of gomof.
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmera/gomof/predict"
	"github.com/rmera/gomof/rdf"
)

func writeConf(Te *testing.T, content string) string {
	name := filepath.Join(Te.TempDir(), "gomof.toml")
	require.NoError(Te, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestDefault(Te *testing.T) {
	C := Default()
	require.NoError(Te, C.Check())
	assert.Equal(Te, rdf.ReferenceBins(), C.Bins())
	o, err := C.RDFOptions()
	require.NoError(Te, err)
	ref := rdf.DefaultOptions()
	assert.Equal(Te, ref.Props(), o.Props())
	assert.Equal(Te, ref.Bins(), o.Bins())
	assert.Equal(Te, -10.0, o.Smooth())
	assert.Equal(Te, 0.001, o.Factor())
	assert.Equal(Te, rdf.CutoffIgnore, o.Cutoff())
	p, err := C.PredictOptions()
	require.NoError(Te, err)
	assert.Equal(Te, predict.RDFBOA, p.FeatureSet)
	assert.Equal(Te, predict.WorkingCapacity, p.Target)
}

func TestLoad(Te *testing.T) {
	name := writeConf(Te, `properties_file = "../test/props.yaml"

[rdf]
src = "mofs"
workers = 3
smooth = -25.0
properties = ["electronegativity", "charge"]
cutoff_policy = "strict"

[rdf.bins]
start = 1.0
step = 0.5
growth = 0.0
count = 4

[boa]
grid = 4

[predict]
descriptors = ["RDF.csv", "geo.csv"]
feature_set = "geo+rdf"
target = "Sel"

[log]
level = "debug"
`)
	C, err := Load(name)
	require.NoError(Te, err)
	require.NoError(Te, C.Check())
	assert.Equal(Te, "mofs", C.RDF.Src)
	assert.Equal(Te, "RDF.csv", C.RDF.Dst, "defaults are kept")
	assert.Equal(Te, 3, C.RDF.Workers)
	assert.Equal(Te, []float64{1, 1.5, 2, 2.5}, C.Bins())
	assert.Equal(Te, 4, C.BOA.Grid)
	assert.Equal(Te, "debug", C.Log.Level)
	o, err := C.RDFOptions()
	require.NoError(Te, err)
	assert.Equal(Te, rdf.CutoffStrict, o.Cutoff())
	assert.Equal(Te, -25.0, o.Smooth())
	assert.Equal(Te, []string{"RDF_electronegativity_1.00", "RDF_electronegativity_1.50"}, o.Header()[1:3])
	p, err := C.PredictOptions()
	require.NoError(Te, err)
	assert.Equal(Te, predict.GeoRDF, p.FeatureSet)
	assert.Equal(Te, predict.Selectivity, p.Target)
	assert.Len(Te, p.Descriptors, 2)
}

func TestLoadUnknownKey(Te *testing.T) {
	_, err := Load(writeConf(Te, "[rdf]\nsmoth = -10.0\n"))
	require.Error(Te, err)
	assert.Contains(Te, err.Error(), "rdf.smoth")
	_, err = Load(writeConf(Te, "[rdf\n"))
	assert.Error(Te, err)
	_, err = Load("nothere.toml")
	assert.Error(Te, err)
}

func TestCheck(Te *testing.T) {
	bad := []func(*Config){
		func(C *Config) { C.RDF.Workers = 0 },
		func(C *Config) { C.RDF.Smooth = 0 },
		func(C *Config) { C.RDF.Factor = -1 },
		func(C *Config) { C.RDF.Properties = nil },
		func(C *Config) { C.RDF.Properties = []string{"charge"} },
		func(C *Config) { C.RDF.Bins.Count = 0 },
		func(C *Config) { C.RDF.Bins.Step = 0 },
		func(C *Config) { C.RDF.CutoffPolicy = "sometimes" },
		func(C *Config) { C.BOA.Grid = 0 },
		func(C *Config) { C.Predict.FeatureSet = "everything" },
		func(C *Config) { C.Predict.Target = "uptake" },
		func(C *Config) { C.PropertiesFile = "nothere.yaml" },
	}
	for i, f := range bad {
		C := Default()
		f(C)
		assert.Error(Te, C.Check(), "case %d", i)
	}
}
