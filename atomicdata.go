/*
 * atomicdata.go, part of gomof.
 *
 *
 * Copyright 2021 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package chem

import (
	"io"
	"math"
	"os"
	"sort"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Names of the properties in the default table.
const (
	Electronegativity = "electronegativity"
	Hardness          = "hardness"
	VdWVolume         = "vdWaalsVolume"
	Mass              = "mass"
	Epsilon           = "epsilon"
	Sigma             = "sigma"
)

// Pauling electronegativities.
var symbolElectroneg = map[string]float64{
	"H": 2.20, "Li": 0.98, "Be": 1.57, "B": 2.04, "C": 2.55, "N": 3.04, "O": 3.44, "F": 3.98,
	"Na": 0.93, "Mg": 1.31, "Al": 1.61, "Si": 1.90, "P": 2.19, "S": 2.58, "Cl": 3.16,
	"K": 0.82, "Ca": 1.00, "Sc": 1.36, "Ti": 1.54, "V": 1.63, "Cr": 1.66, "Mn": 1.55,
	"Fe": 1.83, "Co": 1.88, "Ni": 1.91, "Cu": 1.90, "Zn": 1.65, "Ga": 1.81, "Ge": 2.01,
	"As": 2.18, "Se": 2.55, "Br": 2.96, "Rb": 0.82, "Sr": 0.95, "Y": 1.22, "Zr": 1.33,
	"Nb": 1.60, "Mo": 2.16, "Ru": 2.20, "Rh": 2.28, "Pd": 2.20, "Ag": 1.93, "Cd": 1.69,
	"In": 1.78, "Sn": 1.96, "Sb": 2.05, "Te": 2.10, "I": 2.66, "Cs": 0.79, "Ba": 0.89,
	"La": 1.10,
}

// Absolute (Pearson) hardness, in eV.
var symbolHardness = map[string]float64{
	"H": 6.43, "Li": 2.39, "Be": 4.50, "B": 4.01, "C": 5.00, "N": 7.23, "O": 6.08, "F": 7.01,
	"Na": 2.30, "Mg": 3.90, "Al": 2.77, "Si": 3.38, "P": 4.88, "S": 4.14, "Cl": 4.68,
	"K": 1.92, "Ca": 4.00, "Sc": 3.20, "Ti": 3.37, "V": 3.10, "Cr": 3.06, "Mn": 3.72,
	"Fe": 3.81, "Co": 3.60, "Ni": 3.25, "Cu": 3.25, "Zn": 4.94, "Ga": 2.90, "Ge": 3.40,
	"As": 4.50, "Se": 3.87, "Br": 4.22, "Rb": 1.85, "Sr": 3.70, "Y": 3.19, "Zr": 3.21,
	"Nb": 3.00, "Mo": 3.10, "Ru": 3.00, "Rh": 3.16, "Pd": 3.89, "Ag": 3.14, "Cd": 4.66,
	"In": 2.80, "Sn": 3.05, "Sb": 3.80, "Te": 3.52, "I": 3.69, "Cs": 1.71, "Ba": 2.90,
	"La": 2.60,
}

// van der Waals radii, mostly from 10.1021/j100785a001 and 10.1021/jp8111556.
// The volumes in the default table are obtained from these.
var symbolVdwrad = map[string]float64{
	"H": 1.20, "Li": 1.82, "Be": 1.53, "B": 1.92, "C": 1.70, "N": 1.55, "O": 1.52, "F": 1.47,
	"Na": 2.27, "Mg": 1.73, "Al": 1.84, "Si": 2.10, "P": 1.80, "S": 1.80, "Cl": 1.75,
	"K": 2.75, "Ca": 2.31, "Sc": 2.15, "Ti": 2.11, "V": 2.07, "Cr": 2.06, "Mn": 2.05,
	"Fe": 2.04, "Co": 2.00, "Ni": 1.63, "Cu": 1.40, "Zn": 1.39, "Ga": 1.87, "Ge": 2.11,
	"As": 1.85, "Se": 1.90, "Br": 1.85, "Rb": 3.03, "Sr": 2.49, "Y": 2.32, "Zr": 2.23,
	"Nb": 2.18, "Mo": 2.17, "Ru": 2.13, "Rh": 2.10, "Pd": 1.63, "Ag": 1.72, "Cd": 1.58,
	"In": 1.93, "Sn": 2.17, "Sb": 2.06, "Te": 2.06, "I": 1.98, "Cs": 3.43, "Ba": 2.68,
	"La": 2.43,
}

var symbolMass = map[string]float64{
	"H": 1.008, "Li": 6.94, "Be": 9.012, "B": 10.81, "C": 12.01, "N": 14.01, "O": 16.00, "F": 18.998,
	"Na": 22.99, "Mg": 24.30, "Al": 26.98, "Si": 28.08, "P": 30.97, "S": 32.06, "Cl": 35.45,
	"K": 39.10, "Ca": 40.08, "Sc": 44.96, "Ti": 47.87, "V": 50.94, "Cr": 51.996, "Mn": 54.94,
	"Fe": 55.84, "Co": 58.93, "Ni": 58.69, "Cu": 63.55, "Zn": 65.38, "Ga": 69.72, "Ge": 72.63,
	"As": 74.92, "Se": 78.96, "Br": 79.904, "Rb": 85.47, "Sr": 87.62, "Y": 88.91, "Zr": 91.22,
	"Nb": 92.91, "Mo": 95.95, "Ru": 101.07, "Rh": 102.91, "Pd": 106.42, "Ag": 107.87, "Cd": 112.41,
	"In": 114.82, "Sn": 118.71, "Sb": 121.76, "Te": 127.60, "I": 126.90, "Cs": 132.91, "Ba": 137.33,
	"La": 138.91,
}

// Lennard-Jones well depths (kcal/mol) used by the bag-of-atoms descriptor.
var symbolEpsilon = map[string]float64{
	"O": 0.06, "C": 0.105, "Zn": 0.124, "N": 0.069, "H": 0.044, "Fe": 0.013,
	"Cl": 0.227, "Cu": 0.005, "S": 0.274, "Co": 0.014, "F": 0.05, "Ni": 0.015,
	"In": 0.599, "I": 0.339, "V": 0.016, "Cd": 0.228, "Br": 0.251, "Cr": 0.015,
	"Mn": 0.013, "Zr": 0.069, "P": 0.305, "Ba": 0.364, "Mg": 0.111, "Al": 0.505,
}

// Lennard-Jones sigma, in A.
var symbolSigma = map[string]float64{
	"O": 3.1181, "C": 3.4309, "Zn": 2.4616, "N": 3.2607, "H": 2.5711, "Fe": 2.5943,
	"Cl": 3.5164, "Cu": 3.1137, "S": 3.5948, "Co": 2.5587, "F": 2.997, "Ni": 2.5248,
	"In": 3.9761, "I": 4.009, "V": 2.801, "Cd": 2.5373, "Br": 3.732, "Cr": 2.6932,
	"Mn": 2.638, "Zr": 2.7832, "P": 3.6946, "Ba": 3.299, "Mg": 2.6914, "Al": 4.0082,
}

// PropertyTable holds scalar properties for element symbols. It is filled
// before a run starts and only read afterwards, so it can be shared among goroutines.
type PropertyTable struct {
	props map[string]map[string]float64 //property -> symbol -> value
}

// NewPropertyTable returns an empty table.
func NewPropertyTable() *PropertyTable {
	return &PropertyTable{props: make(map[string]map[string]float64)}
}

// DefaultProperties returns a new table with the built-in properties:
// electronegativity, hardness, vdWaalsVolume, mass, epsilon and sigma.
func DefaultProperties() *PropertyTable {
	P := NewPropertyTable()
	for s, v := range symbolElectroneg {
		P.Set(Electronegativity, s, v)
	}
	for s, v := range symbolHardness {
		P.Set(Hardness, s, v)
	}
	for s, r := range symbolVdwrad {
		P.Set(VdWVolume, s, (4.0/3.0)*math.Pi*r*r*r)
	}
	for s, v := range symbolMass {
		P.Set(Mass, s, v)
	}
	for s, v := range symbolEpsilon {
		P.Set(Epsilon, s, v)
	}
	for s, v := range symbolSigma {
		P.Set(Sigma, s, v)
	}
	return P
}

// Set sets the value of the property prop for the element symbol.
func (P *PropertyTable) Set(prop, symbol string, value float64) {
	m, ok := P.props[prop]
	if !ok {
		m = make(map[string]float64)
		P.props[prop] = m
	}
	m[symbol] = value
}

// Value returns the value of the property prop for the element symbol,
// or an *UnknownElementError if the table doesn't have it.
func (P *PropertyTable) Value(symbol, prop string) (float64, error) {
	m, ok := P.props[prop]
	if !ok {
		return 0, NewUnknownElementError(symbol, prop)
	}
	v, ok := m[symbol]
	if !ok {
		return 0, NewUnknownElementError(symbol, prop)
	}
	return v, nil
}

// HasProperty returns true if the table contains the property prop for at least
// one element.
func (P *PropertyTable) HasProperty(prop string) bool {
	return len(P.props[prop]) > 0
}

// Properties returns the sorted names of the properties in the table.
func (P *PropertyTable) Properties() []string {
	ret := lo.Keys(P.props)
	sort.Strings(ret)
	return ret
}

// Merge copies all the values in o into P, replacing the existing ones.
func (P *PropertyTable) Merge(o *PropertyTable) {
	for prop, m := range o.props {
		for s, v := range m {
			P.Set(prop, s, v)
		}
	}
}

// ReadPropertyTable reads a YAML property table, where each property maps element
// symbols to values:
//
//	electronegativity:
//	  H: 2.20
//	  C: 2.55
func ReadPropertyTable(r io.Reader) (*PropertyTable, error) {
	var raw map[string]map[string]float64
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, NewIOError("", err, true)
	}
	P := NewPropertyTable()
	for prop, m := range raw {
		for s, v := range m {
			P.Set(prop, s, v)
		}
	}
	return P, nil
}

// PropertyFileRead reads a YAML property table from the file name and merges
// it on top of the default table.
func PropertyFileRead(name string) (*PropertyTable, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, NewIOError(name, err, true)
	}
	defer f.Close()
	read, err := ReadPropertyTable(f)
	if err != nil {
		if ioerr, ok := err.(*IOError); ok {
			ioerr.SetFileName(name)
		}
		return nil, err
	}
	P := DefaultProperties()
	P.Merge(read)
	return P, nil
}
