/*
 * config.go, part of gomof.
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

// Package config reads and checks the TOML run file of gomof.
package config

import (
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/boa"
	"github.com/rmera/gomof/log"
	"github.com/rmera/gomof/predict"
	"github.com/rmera/gomof/rdf"
)

// Bins describes the RDF distance bins. See rdf.MakeBins.
type Bins struct {
	Start  float64 `toml:"start"`
	Step   float64 `toml:"step"`
	Growth float64 `toml:"growth"`
	Count  int     `toml:"count"`
}

// RDF is the [rdf] section.
type RDF struct {
	Src          string   `toml:"src"`
	Dst          string   `toml:"dst"`
	Pattern      string   `toml:"pattern"`
	Workers      int      `toml:"workers"`
	Smooth       float64  `toml:"smooth"`
	Factor       float64  `toml:"factor"`
	Properties   []string `toml:"properties"`
	CutoffPolicy string   `toml:"cutoff_policy"`
	PlotDir      string   `toml:"plot_dir"` //no plots if empty
	Bins         Bins     `toml:"bins"`
}

// BOA is the [boa] section.
type BOA struct {
	Src     string `toml:"src"`
	Dst     string `toml:"dst"`
	Pattern string `toml:"pattern"`
	Workers int    `toml:"workers"`
	Grid    int    `toml:"grid"`
}

// Predict is the [predict] section.
type Predict struct {
	Descriptors []string `toml:"descriptors"`
	ModelDir    string   `toml:"model_dir"`
	FeatureSet  string   `toml:"feature_set"`
	Target      string   `toml:"target"`
	Out         string   `toml:"out"`
	ScalerDir   string   `toml:"scaler"`
}

// Config is a whole run file.
type Config struct {
	PropertiesFile string     `toml:"properties_file"` //YAML, merged over the built-in table
	RDF            RDF        `toml:"rdf"`
	BOA            BOA        `toml:"boa"`
	Predict        Predict    `toml:"predict"`
	Log            log.Config `toml:"log"`
}

// Default returns the reference configuration.
func Default() *Config {
	workers := runtime.NumCPU()
	return &Config{
		RDF: RDF{
			Src:          "cifs",
			Dst:          "RDF.csv",
			Pattern:      "*.cif",
			Workers:      workers,
			Smooth:       -10,
			Factor:       0.001,
			Properties:   []string{chem.Electronegativity, chem.Hardness, chem.VdWVolume},
			CutoffPolicy: string(rdf.CutoffIgnore),
			Bins: Bins{
				Start:  rdf.RefBinStart,
				Step:   rdf.RefBinStep,
				Growth: rdf.RefBinGrowth,
				Count:  rdf.RefBinCount,
			},
		},
		BOA: BOA{
			Src:     "cifs",
			Dst:     "BOA.csv",
			Pattern: "*.cif",
			Workers: workers,
			Grid:    boa.DefaultGrid,
		},
		Predict: Predict{
			ModelDir:   "models",
			FeatureSet: string(predict.RDFBOA),
			Target:     string(predict.WorkingCapacity),
		},
		Log: log.Config{Level: "info"},
	}
}

// Load reads the TOML file name on top of the default configuration.
// Keys that don't belong to the configuration are an error.
func Load(name string) (*Config, error) {
	C := Default()
	md, err := toml.DecodeFile(name, C)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration %s", name)
	}
	if und := md.Undecoded(); len(und) > 0 {
		keys := make([]string, len(und))
		for i, k := range und {
			keys[i] = k.String()
		}
		return nil, errors.Newf("unknown keys in %s: %s", name, strings.Join(keys, ", "))
	}
	return C, nil
}

// Check returns an error if the configuration doesn't make sense.
// The properties requested for the RDF must exist in the property table.
func (C *Config) Check() error {
	r := C.RDF
	if r.Workers < 1 || C.BOA.Workers < 1 {
		return errors.Newf("workers must be at least 1, got %d (rdf) and %d (boa)", r.Workers, C.BOA.Workers)
	}
	if !(r.Smooth < 0) {
		return errors.Newf("the smoothing coefficient must be negative, got %g", r.Smooth)
	}
	if !(r.Factor > 0) {
		return errors.Newf("the scaling factor must be positive, got %g", r.Factor)
	}
	if len(r.Properties) == 0 {
		return errors.New("no properties for the RDF")
	}
	if r.Bins.Count < 1 {
		return errors.Newf("at least one bin is needed, got %d", r.Bins.Count)
	}
	if err := rdf.CheckBins(C.Bins()); err != nil {
		return errors.Wrap(err, "invalid bins")
	}
	if _, err := rdf.ParseCutoffPolicy(r.CutoffPolicy); err != nil {
		return err
	}
	if C.BOA.Grid < 1 {
		return errors.Newf("the bag-of-atoms grid must be at least 1, got %d", C.BOA.Grid)
	}
	if _, err := predict.ParseFeatureSet(C.Predict.FeatureSet); err != nil {
		return err
	}
	if _, err := predict.ParseTarget(C.Predict.Target); err != nil {
		return err
	}
	table, err := C.Properties()
	if err != nil {
		return err
	}
	for _, p := range r.Properties {
		if !table.HasProperty(p) {
			return errors.Newf("property %q is not in the property table (have %v)", p, table.Properties())
		}
	}
	return nil
}

// Properties returns the property table: the built-in one, with the contents of
// PropertiesFile, if any, merged over it.
func (C *Config) Properties() (*chem.PropertyTable, error) {
	if C.PropertiesFile == "" {
		return chem.DefaultProperties(), nil
	}
	return chem.PropertyFileRead(C.PropertiesFile)
}

// Bins returns the RDF bin centres.
func (C *Config) Bins() []float64 {
	b := C.RDF.Bins
	return rdf.MakeBins(b.Start, b.Step, b.Growth, b.Count)
}

// RDFOptions returns the options for rdf.Compute. The configuration should
// have been checked.
func (C *Config) RDFOptions() (*rdf.Options, error) {
	pol, err := rdf.ParseCutoffPolicy(C.RDF.CutoffPolicy)
	if err != nil {
		return nil, err
	}
	o := rdf.DefaultOptions()
	o.Props(C.RDF.Properties)
	o.Bins(C.Bins())
	o.Smooth(C.RDF.Smooth)
	o.Factor(C.RDF.Factor)
	o.Cutoff(pol)
	return o, nil
}

// PredictOptions returns the options for predict.Run.
func (C *Config) PredictOptions() (predict.Options, error) {
	p := C.Predict
	fs, err := predict.ParseFeatureSet(p.FeatureSet)
	if err != nil {
		return predict.Options{}, err
	}
	t, err := predict.ParseTarget(p.Target)
	if err != nil {
		return predict.Options{}, err
	}
	return predict.Options{
		Descriptors: p.Descriptors,
		ModelDir:    p.ModelDir,
		FeatureSet:  fs,
		Target:      t,
		ScalerDir:   p.ScalerDir,
		Out:         p.Out,
	}, nil
}
