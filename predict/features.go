/*
 * features.go, part of gomof.
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
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// FeatureSet names a group of descriptor columns a model was trained on.
type FeatureSet string

const (
	Geo          FeatureSet = "geo"
	RDF          FeatureSet = "rdf"
	Mot          FeatureSet = "mot"
	BOA          FeatureSet = "boa"
	RDFBOA       FeatureSet = "rdf+boa"
	GeoRDF       FeatureSet = "geo+rdf"
	GeoMot       FeatureSet = "geo+mot"
	GeoBOA       FeatureSet = "geo+boa"
	GeoMotBOA    FeatureSet = "geo+mot+boa"
	GeoRDFBOA    FeatureSet = "geo+rdf+boa"
	GeoMotRDF    FeatureSet = "geo+mot+rdf"
	NoFeatureSet FeatureSet = ""
)

// FeatureSets lists all the valid feature sets.
var FeatureSets = []FeatureSet{Geo, RDF, Mot, BOA, RDFBOA, GeoRDF, GeoMot, GeoBOA, GeoMotBOA, GeoRDFBOA, GeoMotRDF}

// GeometricColumns are the pore geometry descriptors, in the order the models expect them.
var GeometricColumns = []string{"CO2_Surf_m2/g", "CO2_VFrac", "Pore_1", "CO2_Surf_m2/cm3", "dense", "Pore_3"}

// droppedMotifs are removed from every table before selecting.
var droppedMotifs = []string{"motif_furan", "motif_pyrrole", "motif_thiophene", "motif_PO3"}

// never selected as features.
var nonFeatures = []string{"wc", "Sel", "label", "num_atoms", "Unnamed: 0", "Structure_Name"}

// ParseFeatureSet returns the feature set named s, or an error if there is no such set.
func ParseFeatureSet(s string) (FeatureSet, error) {
	f := FeatureSet(strings.ToLower(strings.TrimSpace(s)))
	if lo.Contains(FeatureSets, f) {
		return f, nil
	}
	return NoFeatureSet, errors.Newf("unknown feature set %q, valid sets are %v", s, FeatureSets)
}

func (F FeatureSet) String() string {
	return string(F)
}

// Columns returns, in order, the columns of the table with the given column names
// that form the feature set. Names in the list that are not part of any set (targets,
// labels, structure names and atom counts) are never returned.
func (F FeatureSet) Columns(names []string) ([]string, error) {
	avail := lo.Filter(names, func(n string, _ int) bool {
		return !lo.Contains(droppedMotifs, n) && !lo.Contains(nonFeatures, n)
	})
	like := func(sub string) []string {
		return lo.Filter(avail, func(n string, _ int) bool { return strings.Contains(n, sub) })
	}
	var geoerr error
	geo := func() []string {
		for _, g := range GeometricColumns {
			if !lo.Contains(avail, g) {
				geoerr = errors.Newf("feature set %s requires the column %q", F, g)
			}
		}
		return GeometricColumns
	}
	var ret []string
	switch F {
	case Geo:
		ret = geo()
	case GeoRDFBOA:
		ret = lo.Filter(avail, func(n string, _ int) bool { return !strings.Contains(n, "motif") })
	case RDFBOA:
		ret = lo.Filter(avail, func(n string, _ int) bool {
			return !strings.Contains(n, "motif") && !lo.Contains(GeometricColumns, n)
		})
	case GeoBOA:
		ret = concat(like("epsilon"), like("sigma"), geo())
	case BOA:
		ret = concat(like("epsilon"), like("sigma"))
	case RDF:
		ret = like("RDF")
	case GeoRDF:
		ret = concat(like("RDF"), geo())
	case Mot:
		ret = like("motif")
	case GeoMot:
		ret = concat(like("motif"), geo())
	case GeoMotBOA:
		ret = concat(like("motif"), geo(), like("sigma"), like("epsilon"))
	case GeoMotRDF:
		ret = concat(like("motif"), geo(), like("RDF"))
	default:
		return nil, errors.Newf("unknown feature set %q", string(F))
	}
	if geoerr != nil {
		return nil, geoerr
	}
	if len(ret) == 0 {
		return nil, errors.Newf("no columns for feature set %s", F)
	}
	return ret, nil
}

func concat(s ...[]string) []string {
	ret := make([]string, 0, 10)
	for _, v := range s {
		ret = append(ret, v...)
	}
	return ret
}
