/*
 * model.go, part of gomof.
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
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	chem "github.com/rmera/gomof"
)

// Activation functions for the layers of a model.
const (
	ReLU   = "relu"
	Linear = "linear"
)

// LayerSpec is the description of one layer in a model manifest.
type LayerSpec struct {
	Weights    string `toml:"weights"`
	Bias       string `toml:"bias"`
	Activation string `toml:"activation"`
}

// Manifest describes a model: its layers, in order, from input to output.
// Array paths are relative to the manifest file.
//
//	name = "rdf+boa_wc"
//	[[layers]]
//	weights = "hidden1.weight.npy"
//	bias = "hidden1.bias.npy"
//	activation = "relu"
type Manifest struct {
	Name   string      `toml:"name"`
	Layers []LayerSpec `toml:"layers"`
}

// Layer is a fully connected layer: y = act(x·Wᵀ + b).
type Layer struct {
	W          *mat.Dense //out x in
	B          []float64  //out
	Activation string
}

// Model is a multilayer perceptron in evaluation mode (no dropout).
type Model struct {
	Name   string
	Layers []*Layer
}

// NewModel checks that the layers chain (each one takes as many inputs as the previous
// one gives outputs) and that the last one has a single output, and returns a model with them.
func NewModel(name string, layers ...*Layer) (*Model, error) {
	if len(layers) == 0 {
		return nil, chem.NewModelError(name, "no layers")
	}
	for i, l := range layers {
		out, in := l.W.Dims()
		if len(l.B) != out {
			return nil, chem.NewModelError(name, fmt.Sprintf("layer %d: %d outputs but %d biases", i, out, len(l.B)))
		}
		if i > 0 {
			prev, _ := layers[i-1].W.Dims()
			if prev != in {
				return nil, chem.NewModelError(name, fmt.Sprintf("layer %d takes %d inputs, layer %d gives %d", i, in, i-1, prev))
			}
		}
		switch l.Activation {
		case ReLU, Linear:
		default:
			return nil, chem.NewModelError(name, fmt.Sprintf("layer %d: unknown activation %q", i, l.Activation))
		}
	}
	if out, _ := layers[len(layers)-1].W.Dims(); out != 1 {
		return nil, chem.NewModelError(name, fmt.Sprintf("the output layer gives %d values, should give 1", out))
	}
	return &Model{Name: name, Layers: layers}, nil
}

// Inputs returns the number of features the model takes.
func (M *Model) Inputs() int {
	_, in := M.Layers[0].W.Dims()
	return in
}

// Predict returns one prediction per row of X.
func (M *Model) Predict(X mat.Matrix) ([]float64, error) {
	r, c := X.Dims()
	if c != M.Inputs() {
		return nil, chem.NewModelError(M.Name, fmt.Sprintf("model takes %d features, got %d", M.Inputs(), c))
	}
	var cur mat.Matrix = X
	for _, l := range M.Layers {
		out, _ := l.W.Dims()
		next := mat.NewDense(r, out, nil)
		next.Mul(cur, l.W.T())
		for i := 0; i < r; i++ {
			row := next.RawRowView(i)
			for j := range row {
				row[j] += l.B[j]
				if l.Activation == ReLU && row[j] < 0 {
					row[j] = 0
				}
			}
		}
		cur = next
	}
	return mat.Col(nil, 0, cur), nil
}

// LoadModel reads a model manifest in TOML format and the arrays it lists.
func LoadModel(manifest string) (*Model, error) {
	var m Manifest
	md, err := toml.DecodeFile(manifest, &m)
	if err != nil {
		return nil, chem.NewIOError(manifest, err, true)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, chem.NewModelError(manifest, fmt.Sprintf("unknown keys in manifest: %v", und))
	}
	if m.Name == "" {
		m.Name = strings.TrimSuffix(filepath.Base(manifest), filepath.Ext(manifest))
	}
	dir := filepath.Dir(manifest)
	layers := make([]*Layer, 0, len(m.Layers))
	for i, ls := range m.Layers {
		if ls.Weights == "" || ls.Bias == "" {
			return nil, chem.NewModelError(manifest, fmt.Sprintf("layer %d lacks weights or bias", i))
		}
		w, shape, err := readNpy(filepath.Join(dir, ls.Weights))
		if err != nil {
			return nil, err
		}
		if len(shape) != 2 {
			return nil, chem.NewModelError(ls.Weights, fmt.Sprintf("weights must be 2D, shape is %v", shape))
		}
		b, bshape, err := readNpy(filepath.Join(dir, ls.Bias))
		if err != nil {
			return nil, err
		}
		if len(bshape) != 1 {
			return nil, chem.NewModelError(ls.Bias, fmt.Sprintf("biases must be 1D, shape is %v", bshape))
		}
		act := strings.ToLower(ls.Activation)
		if act == "" {
			act = ReLU
		}
		layers = append(layers, &Layer{W: mat.NewDense(shape[0], shape[1], w), B: b, Activation: act})
	}
	return NewModel(m.Name, layers...)
}

// readNpy reads a float32 or float64 numpy array and returns its values as float64,
// in C order, and its shape.
func readNpy(name string) ([]float64, []int, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, chem.NewIOError(name, err, true)
	}
	defer f.Close()
	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, nil, chem.NewIOError(name, err, true)
	}
	descr := r.Header.Descr
	if descr.Fortran && len(descr.Shape) > 1 {
		return nil, nil, chem.NewModelError(name, "arrays in Fortran order are not supported")
	}
	var ret []float64
	switch strings.TrimLeft(descr.Type, "<>|=") {
	case "f8":
		err = r.Read(&ret)
	case "f4":
		var f32 []float32
		err = r.Read(&f32)
		ret = make([]float64, len(f32))
		for i, v := range f32 {
			ret[i] = float64(v)
		}
	default:
		return nil, nil, chem.NewModelError(name, fmt.Sprintf("unsupported array type %s", descr.Type))
	}
	if err != nil {
		return nil, nil, chem.NewIOError(name, err, true)
	}
	if len(ret) == 0 {
		return nil, nil, chem.NewModelError(name, "empty array")
	}
	return ret, descr.Shape, nil
}
