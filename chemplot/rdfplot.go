/*
 * rdfplot.go, part of gomof
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2.1 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
*/

package chemplot

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/samber/lo"

	"github.com/rmera/gomof/rdf"
)

func basicRDFPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = "r (A)"
	p.Y.Label.Text = "RDF / max(RDF)"
	p.Y.Min = 0
	p.Y.Max = 1.05
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// RDFPlot produces a PNG plot with one curve per property of the RDF record rec, which must have
// been obtained for the given properties and bins. Each curve is scaled so its maximum is 1.
// If only is not empty, only the properties in it are plotted. The extension is added to plotname.
func RDFPlot(rec *rdf.Record, props []string, bins []float64, only []string, plotname string) error {
	nb := len(bins)
	if len(rec.Values) != len(props)*nb {
		return fmt.Errorf("chemplot.RDFPlot: %d values for %d properties and %d bins", len(rec.Values), len(props), nb)
	}
	p := basicRDFPlot(rec.Name)
	for key, prop := range props {
		if len(only) > 0 && !lo.Contains(only, prop) {
			continue
		}
		vals := rec.Values[key*nb : (key+1)*nb]
		max := floats.Max(vals)
		if max <= 0 || math.IsNaN(max) {
			max = 1
		}
		pts := make(plotter.XYs, nb)
		for i, v := range vals {
			pts[i].X = bins[i]
			pts[i].Y = v / max
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		r, g, b := colors(key, len(props))
		l.LineStyle.Color = color.RGBA{R: r, B: b, G: g, A: 255}
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(prop, l)
	}
	filename := fmt.Sprintf("%s.png", plotname)
	//here I  intentionally shadow err.
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return err
	}
	return nil
}

// PlotName returns the base name for the plot of a structure in the directory dir:
// the structure name without the CIF and compression extensions.
func PlotName(dir, structure string) string {
	name := filepath.Base(structure)
	for _, ext := range []string{".gz", ".zst", ".cif"} {
		name = strings.TrimSuffix(name, ext)
	}
	return filepath.Join(dir, name)
}

// takes hue (0-360), v and s (0-1), returns r,g,b (0-255)
func iHVS2RGB(h, v, s float64) (uint8, uint8, uint8) {
	var i, f, p, q, t float64
	var r, g, b float64
	maxcolor := 255.0
	conversion := maxcolor * v
	if s == 0.0 {
		return uint8(conversion), uint8(conversion), uint8(conversion)
	}
	h = h / 60
	i = math.Floor(h)
	f = h - i
	p = v * (1 - s)
	q = v * (1 - s*f)
	t = v * (1 - s*(1-f))
	switch int(i) {
	case 0:
		r = v
		g = t
		b = p
	case 1:
		r = q
		g = v
		b = p
	case 2:
		r = p
		g = v
		b = t
	case 3:
		r = p
		g = q
		b = v
	case 4:
		r = t
		g = p
		b = v
	default: //case 5
		r = v
		g = p
		b = q
	}
	r = r * conversion
	g = g * conversion
	b = b * conversion
	return uint8(r), uint8(g), uint8(b)
}

// colors spreads steps colors over the hue circle, skipping the yellows,
// which are hard to see on a white background.
func colors(key, steps int) (r, g, b uint8) {
	norm := 260.0 / float64(steps)
	hp := float64((float64(key) * norm) + 20.0)
	var h float64
	if hp < 55 {
		h = hp - 20.0
	} else {
		h = hp + 20.0
	}
	r, g, b = iHVS2RGB(h, 1, 1)
	return r, g, b
}
