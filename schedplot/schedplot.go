/*
 * schedplot.go, part of preparemd.
 *
 *
 * Copyright 2024 The preparemd Authors
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

// Package schedplot draws the heating schedule: target temperature and
// restraint weight against the cumulative step count of the nine stages.
package schedplot

import (
	"image/color"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/preparemd/preparemd"
	"github.com/preparemd/preparemd/mdin"
)

// Series returns the temperature and restraint weight curves of stages,
// each as a polyline over cumulative steps.
func Series(stages []mdin.HeatStage) (temperature, weight plotter.XYs) {
	temperature = make(plotter.XYs, 0, 2*len(stages))
	weight = make(plotter.XYs, 0, 2*len(stages))
	start := 0.0
	for _, s := range stages {
		end := start + float64(s.Steps)
		t0, t1 := s.Temperature.Target, s.Temperature.Target
		if s.Temperature.Ramp {
			t0 = s.Temperature.Start
		}
		temperature = append(temperature, plotter.XY{X: start, Y: t0}, plotter.XY{X: end, Y: t1})
		weight = append(weight, plotter.XY{X: start, Y: s.Weight}, plotter.XY{X: end, Y: s.Weight})
		start = end
	}
	return temperature, weight
}

func panel(title, ylabel string, xys plotter.XYs, c color.Color) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.Title.Padding = 2 * vg.Millimeter
	p.X.Label.Text = "step"
	p.Y.Label.Text = ylabel
	p.Y.Min = 0
	p.Add(plotter.NewGrid())
	l, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	l.LineStyle.Width = vg.Points(1.5)
	l.LineStyle.Color = c
	p.Add(l)
	return p, nil
}

// Write draws stages as a PNG on w.
func Write(w io.Writer, stages []mdin.HeatStage) error {
	if len(stages) == 0 {
		return preparemd.Errorf(preparemd.ErrValidation, "no heating stages to plot")
	}
	temp, wt := Series(stages)
	pt, err := panel("Heating schedule", "temperature (K)", temp, color.RGBA{R: 200, A: 255})
	if err != nil {
		return errors.WithStack(err)
	}
	pw, err := panel("", "restraint weight (kcal/mol/A^2)", wt, color.RGBA{B: 200, A: 255})
	if err != nil {
		return errors.WithStack(err)
	}
	img := vgimg.New(6*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadX:      vg.Millimeter,
		PadY:      3 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}
	plots := [][]*plot.Plot{{pt}, {pw}}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// Save writes the plot of stages to the PNG file name.
func Save(name string, stages []mdin.HeatStage) error {
	f, err := os.Create(name)
	if err != nil {
		return preparemd.NewError(preparemd.ErrMissingFile, name, "cannot create plot", err)
	}
	err = Write(f, stages)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = preparemd.NewError(preparemd.ErrMissingFile, name, "", cerr)
	}
	return err
}
