/*
 * scaler.go, part of gomof.
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
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	chem "github.com/rmera/gomof"
)

// Scaler standardizes each feature column: (x-mean)/scale.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler obtains the mean and the population standard deviation of each column of X.
// Columns with zero deviation get a scale of 1, so they are only centered.
func FitScaler(X mat.Matrix) *Scaler {
	r, c := X.Dims()
	S := &Scaler{Mean: make([]float64, c), Scale: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m, sd := stat.PopMeanStdDev(col, nil)
		if sd == 0 {
			sd = 1
		}
		S.Mean[j] = m
		S.Scale[j] = sd
	}
	return S
}

// Transform standardizes X in place. X must have as many columns as the scaler.
func (S *Scaler) Transform(X *mat.Dense) error {
	r, c := X.Dims()
	if c != len(S.Mean) {
		return chem.NewModelError("", fmt.Sprintf("scaler has %d features, data has %d", len(S.Mean), c))
	}
	for i := 0; i < r; i++ {
		row := X.RawRowView(i)
		for j := range row {
			row[j] = (row[j] - S.Mean[j]) / S.Scale[j]
		}
	}
	return nil
}

// ReadScaler reads a fitted scaler from the files mean.npy and scale.npy in dir.
func ReadScaler(dir string) (*Scaler, error) {
	mean, _, err := readNpy(filepath.Join(dir, "mean.npy"))
	if err != nil {
		return nil, err
	}
	scale, _, err := readNpy(filepath.Join(dir, "scale.npy"))
	if err != nil {
		return nil, err
	}
	if len(mean) != len(scale) {
		return nil, chem.NewModelError(dir, fmt.Sprintf("%d means but %d scales", len(mean), len(scale)))
	}
	for i, v := range scale {
		if v == 0 {
			scale[i] = 1
		}
	}
	return &Scaler{Mean: mean, Scale: scale}, nil
}
