/*
 * plot.go, part of rnamd.
 *
 * Copyright 2026 The rnamd developers
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

package analyze

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//PlotRMSD writes a PNG with the RMSD time series. dt is the time
//between consecutive values, in ns; with dt<=0 the x axis is the
//frame index.
func PlotRMSD(rmsds []float64, dt float64, filename string) error {
	if len(rmsds) == 0 {
		return fmt.Errorf("analyze: nothing to plot")
	}
	p := plot.New()
	p.Title.Text = "RMSD"
	p.Y.Label.Text = "RMSD (Å)"
	if dt > 0 {
		p.X.Label.Text = "Time (ns)"
	} else {
		p.X.Label.Text = "Frame"
		dt = 1
	}
	pts := make(plotter.XYs, len(rmsds))
	for i, r := range rmsds {
		pts[i].X = float64(i) * dt
		pts[i].Y = r
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	line.Color = color.RGBA{B: 180, A: 255}
	p.Add(line)
	return p.Save(16*vg.Centimeter, 10*vg.Centimeter, filename)
}

//PlotRMSF writes a PNG with the per-atom RMSF. labels, if not nil,
//must have one residue number per value; it turns the x axis into
//residue numbers instead of selection indexes.
func PlotRMSF(rmsf []float64, labels []int, filename string) error {
	if len(rmsf) == 0 {
		return fmt.Errorf("analyze: nothing to plot")
	}
	if labels != nil && len(labels) != len(rmsf) {
		return fmt.Errorf("analyze: %d labels for %d RMSF values", len(labels), len(rmsf))
	}
	p := plot.New()
	p.Title.Text = "RMSF"
	p.Y.Label.Text = "RMSF (Å)"
	if labels != nil {
		p.X.Label.Text = "Residue"
	} else {
		p.X.Label.Text = "Atom"
	}
	pts := make(plotter.XYs, len(rmsf))
	for i, r := range rmsf {
		if labels != nil {
			pts[i].X = float64(labels[i])
		} else {
			pts[i].X = float64(i)
		}
		pts[i].Y = r
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	line.Color = color.RGBA{R: 180, A: 255}
	p.Add(line)
	return p.Save(16*vg.Centimeter, 10*vg.Centimeter, filename)
}
