/*
 * predict.go, part of gomof.
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

package predict

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/log"
	"github.com/rmera/gomof/rdf"
)

// Target is the adsorption property a model predicts.
type Target string

const (
	WorkingCapacity Target = "wc"  //CO2 working capacity
	Selectivity     Target = "Sel" //CO2/N2 selectivity
)

// ParseTarget returns the target named s ("wc" or "Sel").
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case WorkingCapacity, Selectivity:
		return Target(s), nil
	}
	return "", errors.Newf("unknown target %q, use %q or %q", s, WorkingCapacity, Selectivity)
}

// ModelPath returns the manifest of the model for the target and
// feature set, under the directory dir: dir/<target>/<set>_<target>_model.toml
func (T Target) ModelPath(dir string, fs FeatureSet) string {
	return filepath.Join(dir, string(T), fmt.Sprintf("%s_%s_model.toml", fs, T))
}

// OutputName returns the default name of the predictions file for the target.
func (T Target) OutputName() string {
	if T == Selectivity {
		return "CO2N2SelectivityPredictions.csv"
	}
	return "CO2WorkingCapacityPredictions.csv"
}

// WritePredictions writes one name,value row per structure, after
// a ",Predictions" header.
func WritePredictions(w io.Writer, names []string, values []float64) error {
	if len(names) != len(values) {
		return errors.Newf("%d names for %d predictions", len(names), len(values))
	}
	c := csv.NewWriter(w)
	if err := c.Write([]string{"", "Predictions"}); err != nil {
		return err
	}
	for i, n := range names {
		if err := c.Write([]string{n, rdf.FormatValue(values[i])}); err != nil {
			return err
		}
	}
	c.Flush()
	return c.Error()
}

// Options for a prediction run.
type Options struct {
	Descriptors []string //CSV files, joined on the structure name
	ModelDir    string
	FeatureSet  FeatureSet
	Target      Target
	ScalerDir   string //if empty, the scaler is fitted on the descriptors
	Out         string //if empty, Target.OutputName() is used
}

// Run reads the descriptors, selects and scales the features, runs the model and writes
// the predictions. It returns the name of the file written.
func Run(o Options) (string, error) {
	if len(o.Descriptors) == 0 {
		return "", errors.New("no descriptor files given")
	}
	tables := make([]*Table, 0, len(o.Descriptors))
	for _, d := range o.Descriptors {
		t, err := TableFileRead(d)
		if err != nil {
			return "", err
		}
		log.L().Debug("read descriptor table", zap.String("file", d), zap.Int("rows", t.Len()), zap.Int("columns", len(t.Columns())))
		tables = append(tables, t)
	}
	data, err := Join(tables...)
	if err != nil {
		return "", err
	}
	cols, err := o.FeatureSet.Columns(data.Columns())
	if err != nil {
		return "", err
	}
	X, err := data.Select(cols)
	if err != nil {
		return "", err
	}
	log.L().Info("feature set", zap.Stringer("set", o.FeatureSet), zap.Int("features", len(cols)), zap.Int("structures", data.Len()))
	var scaler *Scaler
	if o.ScalerDir != "" {
		if scaler, err = ReadScaler(o.ScalerDir); err != nil {
			return "", err
		}
	} else {
		scaler = FitScaler(X)
	}
	if err := scaler.Transform(X); err != nil {
		return "", err
	}
	mpath := o.Target.ModelPath(o.ModelDir, o.FeatureSet)
	model, err := LoadModel(mpath)
	if err != nil {
		return "", err
	}
	pred, err := model.Predict(X)
	if err != nil {
		return "", err
	}
	out := o.Out
	if out == "" {
		out = o.Target.OutputName()
	}
	f, err := os.Create(out)
	if err != nil {
		return "", chem.NewIOError(out, err, true)
	}
	if err := WritePredictions(f, data.Names(), pred); err != nil {
		f.Close()
		return "", chem.NewIOError(out, err, true)
	}
	if err := f.Close(); err != nil {
		return "", chem.NewIOError(out, err, true)
	}
	log.L().Info("predictions written", zap.String("file", out), zap.String("model", model.Name), zap.Int("rows", len(pred)))
	return out, nil
}
