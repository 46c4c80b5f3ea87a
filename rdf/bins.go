/*
 * bins.go, part of gomof.
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

package rdf

import (
	"fmt"
)

// Parameters of the reference bin set: 113 centres from 2 A to about 30 A,
// where each spacing is 0.004425 A larger than the previous one.
const (
	RefBinStart  = 2.0
	RefBinStep   = 0.004425
	RefBinGrowth = 0.004425
	RefBinCount  = 113
)

// MakeBins returns count bin centres. The first one is start, and the distance between
// consecutive centres is step for the first pair, and increases by growth after each one.
// With growth 0 the bins are evenly spaced.
func MakeBins(start, step, growth float64, count int) []float64 {
	if count <= 0 {
		return nil
	}
	ret := make([]float64, count)
	ret[0] = start
	for i := 1; i < count; i++ {
		ret[i] = ret[i-1] + step
		step += growth
	}
	return ret
}

// ReferenceBins returns the reference set of bins.
func ReferenceBins() []float64 {
	return MakeBins(RefBinStart, RefBinStep, RefBinGrowth, RefBinCount)
}

// CheckBins returns an error if bins is empty or not strictly increasing.
func CheckBins(bins []float64) error {
	if len(bins) == 0 {
		return fmt.Errorf("no distance bins")
	}
	for i := 1; i < len(bins); i++ {
		if !(bins[i] > bins[i-1]) {
			return fmt.Errorf("bins must be strictly increasing, bin %d (%g) <= bin %d (%g)", i, bins[i], i-1, bins[i-1])
		}
	}
	return nil
}

// Header returns the CSV header for the given properties and bins: Structure_Name followed
// by RDF_<property>_<bin>, with the bins printed with 2 decimals, bins varying fastest.
func Header(props []string, bins []float64) []string {
	ret := make([]string, 0, len(props)*len(bins)+1)
	ret = append(ret, "Structure_Name")
	for _, p := range props {
		for _, b := range bins {
			ret = append(ret, fmt.Sprintf("RDF_%s_%.2f", p, b))
		}
	}
	return ret
}
