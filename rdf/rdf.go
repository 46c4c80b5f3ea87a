/*
 * rdf.go, part of gomof.
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

// Package rdf computes atomic-property weighted radial distribution function
// descriptors for periodic structures.
package rdf

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	chem "github.com/rmera/gomof"
	"github.com/rmera/gomof/histo"
	"github.com/rmera/gomof/log"
	v3 "github.com/rmera/gomof/v3"
)

// CutoffPolicy says what to do with structures for which a single shell of periodic images
// might not contain the minimum image for every distance in the bin set.
type CutoffPolicy string

const (
	CutoffIgnore CutoffPolicy = "ignore" //compute the descriptor anyway, silently
	CutoffWarn   CutoffPolicy = "warn"   //compute the descriptor, log a warning
	CutoffStrict CutoffPolicy = "strict" //skip the structure with a *chem.CutoffError
)

// ParseCutoffPolicy returns the policy with the given name, case-insensitive.
// The empty string gives CutoffIgnore.
func ParseCutoffPolicy(s string) (CutoffPolicy, error) {
	switch CutoffPolicy(strings.ToLower(s)) {
	case "", CutoffIgnore:
		return CutoffIgnore, nil
	case CutoffWarn:
		return CutoffWarn, nil
	case CutoffStrict:
		return CutoffStrict, nil
	}
	return "", fmt.Errorf("unknown cutoff policy %q (use ignore, warn or strict)", s)
}

// Options for the RDF calculation.
type Options struct {
	props  []string
	bins   []float64
	smooth float64
	factor float64
	cutoff CutoffPolicy
}

// Returns an Options with the reference settings: electronegativity, hardness and
// van der Waals volume, the reference bins, a smoothing coefficient of -10,
// a scaling factor of 0.001, and no cutoff checks.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.props = []string{chem.Electronegativity, chem.Hardness, chem.VdWVolume}
	ret.bins = ReferenceBins()
	ret.smooth = -10
	ret.factor = 0.001
	ret.cutoff = CutoffIgnore
	return ret
}

// Returns the properties used for the RDF and sets them, if a non-empty
// list is given.
func (o *Options) Props(props ...[]string) []string {
	ret := o.props
	if len(props) > 0 && len(props[0]) > 0 {
		o.props = props[0]
	}
	return ret
}

// Returns the bin centres and sets them, if a non-empty slice is given.
func (o *Options) Bins(bins ...[]float64) []float64 {
	ret := o.bins
	if len(bins) > 0 && len(bins[0]) > 0 {
		o.bins = bins[0]
	}
	return ret
}

// Returns the smoothing coefficient and sets it, if a negative value is given.
func (o *Options) Smooth(smooth ...float64) float64 {
	ret := o.smooth
	if len(smooth) > 0 && smooth[0] < 0 {
		o.smooth = smooth[0]
	}
	return ret
}

// Returns the scaling factor and sets it, if a positive value is given.
func (o *Options) Factor(factor ...float64) float64 {
	ret := o.factor
	if len(factor) > 0 && factor[0] > 0 {
		o.factor = factor[0]
	}
	return ret
}

// Returns the cutoff policy and sets it, if given.
func (o *Options) Cutoff(policy ...CutoffPolicy) CutoffPolicy {
	ret := o.cutoff
	if len(policy) > 0 && policy[0] != "" {
		o.cutoff = policy[0]
	}
	return ret
}

// Header returns the CSV header for these options.
func (o *Options) Header() []string {
	return Header(o.props, o.bins)
}

// CheckCutoff returns a *chem.CutoffError if maxdist is not smaller than half
// the narrowest perpendicular width of cell, i.e., if the 27 images of an atom
// might not include the closest one for all distances up to maxdist.
func CheckCutoff(cell *chem.Cell, maxdist float64) error {
	w := cell.MinWidth()
	if maxdist >= w/2 {
		return chem.NewCutoffError("", maxdist, w)
	}
	return nil
}

// Accumulate returns the un-normalized RDF of the structure: a matrix with one row per
// property and one column per bin, where each unordered pair of atoms at minimum-image
// distance d contributes the product of the atoms' properties times exp(smooth*(bin-d)^2)
// to each bin.
func Accumulate(s *chem.Structure, table chem.Propertier, o *Options) (*histo.Matrix, error) {
	pt, err := NewPairTable(s.Elements(), o.props, table)
	if err != nil {
		return nil, err
	}
	n := s.Len()
	elem := make([]int, n)
	for i, a := range s.Atoms {
		elem[i] = pt.Index(a.Symbol)
	}
	images := AllImages(s)
	cart := v3.Zeros(n)
	for i := 0; i < n; i++ {
		s.Cell.ToCartesian(cart.RawRowView(i), s.Frac.RawRowView(i))
	}
	acc := histo.NewMatrix(len(o.props), o.bins, o.smooth)
	Pairs(n, func(i, j int) {
		d := PairDistance(cart.RawRowView(i), images[j])
		acc.AddSmoothed(d, pt.ByIndex(elem[i], elem[j]))
	})
	return acc, nil
}

// Normalize flattens the accumulated RDF in row-major order (all the bins of the first property,
// then the second, etc.), multiplies it by factor and divides it by the number of atoms, and
// rounds the result to 12 decimals, with ties to even. It returns a *chem.DegenerateStructureError if natoms
// is not positive.
func Normalize(acc *histo.Matrix, natoms int, factor float64) ([]float64, error) {
	if natoms <= 0 {
		return nil, chem.NewDegenerateStructureError("", natoms)
	}
	ret := acc.Flatten()
	n := float64(natoms)
	for i, v := range ret {
		ret[i] = Round(v*factor/n, 12)
	}
	return ret, nil
}

// Round rounds v to the given number of decimals, with ties to even.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.RoundToEven(v*p) / p
}

// Compute obtains the normalized RDF descriptor for the structure s, using the
// properties in table. Structures with less than 2 atoms have no pairs, and give
// a *chem.DegenerateStructureError.
func Compute(s *chem.Structure, table chem.Propertier, options ...*Options) (*Record, error) {
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if s.Len() < 2 {
		return nil, chem.NewDegenerateStructureError(s.Name, s.Len())
	}
	if o.cutoff != CutoffIgnore && len(o.bins) > 0 {
		if err := CheckCutoff(s.Cell, o.bins[len(o.bins)-1]); err != nil {
			if o.cutoff == CutoffStrict {
				err.(*chem.CutoffError).SetFileName(s.Name)
				return nil, err
			}
			log.L().Warn("single shell of images might miss minimum images", zap.String("structure", s.Name), zap.Error(err))
		}
	}
	acc, err := Accumulate(s, table, o)
	if err != nil {
		if serr, ok := err.(*chem.UnknownElementError); ok {
			serr.SetFileName(s.Name)
			serr.Decorate("Compute")
		}
		return nil, err
	}
	vals, err := Normalize(acc, s.Len(), o.factor)
	if err != nil {
		return nil, err
	}
	return &Record{Name: s.Name, Values: vals}, nil
}
