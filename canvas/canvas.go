// seehuhn.de/go/ratepdf - merge rate plots and reference fits into PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package canvas implements the plot canvases stored in rate plot archives.
//
// A canvas holds the data of one plot: scatter series (typically one per
// run) and an optional fit curve with an error band.  Canvases can draw
// themselves into a rectangular region of a PDF page.
package canvas

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"seehuhn.de/go/ratepdf/model"
)

// Canvas is a single rate plot.
type Canvas struct {
	// Name identifies the canvas within its archive.
	Name string `yaml:"name"`

	Title  string `yaml:"title,omitempty"`
	XLabel string `yaml:"x_label,omitempty"`
	YLabel string `yaml:"y_label,omitempty"`

	// XMin, XMax and YMax fix the axis ranges.
	// Zero values select automatic ranges.
	XMin float64 `yaml:"x_min,omitempty"`
	XMax float64 `yaml:"x_max,omitempty"`
	YMax float64 `yaml:"y_max,omitempty"`

	Series []*Series `yaml:"series,omitempty"`

	// Fit, if non-nil, is drawn on top of the data.
	Fit *Fit `yaml:"fit,omitempty"`
}

// Series is a set of data points, usually the rates of one run.
type Series struct {
	Label string    `yaml:"label"`
	X     []float64 `yaml:"x,flow"`
	Y     []float64 `yaml:"y,flow"`
}

// Fit describes a fitted model.
type Fit struct {
	// Type is one of the model names from [model.Names].
	Type string `yaml:"type"`

	Params []float64 `yaml:"params,flow"`

	// MSE is the mean squared error of the fit.
	MSE float64 `yaml:"mse,omitempty"`

	// Sigmas gives the half-width of the error band, in units of
	// sqrt(MSE).  If this is zero, no error band is drawn.
	Sigmas float64 `yaml:"sigmas,omitempty"`
}

// ErrInvalid is wrapped by all errors returned by [Canvas.Validate].
var ErrInvalid = errors.New("invalid canvas")

// Validate checks the canvas for consistency.
func (c *Canvas) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	for i, s := range c.Series {
		if s == nil {
			return fmt.Errorf("%w: %s: series %d is nil", ErrInvalid, c.Name, i)
		}
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("%w: %s: series %q has %d x values but %d y values",
				ErrInvalid, c.Name, s.Label, len(s.X), len(s.Y))
		}
	}
	if c.XMax != 0 && c.XMax <= c.XMin {
		return fmt.Errorf("%w: %s: empty x range [%g, %g]", ErrInvalid, c.Name, c.XMin, c.XMax)
	}
	if c.YMax < 0 {
		return fmt.Errorf("%w: %s: negative y maximum %g", ErrInvalid, c.Name, c.YMax)
	}
	if c.Fit != nil {
		m, err := model.Lookup(c.Fit.Type)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, c.Name, err)
		}
		if err := m.Check(c.Fit.Params); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, c.Name, err)
		}
		if c.Fit.MSE < 0 || math.IsNaN(c.Fit.MSE) {
			return fmt.Errorf("%w: %s: invalid MSE %g", ErrInvalid, c.Name, c.Fit.MSE)
		}
	}
	return nil
}

// NumPoints returns the total number of data points in all series.
func (c *Canvas) NumPoints() int {
	n := 0
	for _, s := range c.Series {
		n += len(s.X)
	}
	return n
}

// Clone returns a deep copy of the canvas.
func (c *Canvas) Clone() *Canvas {
	if c == nil {
		return nil
	}
	res := *c
	if c.Series != nil {
		res.Series = make([]*Series, len(c.Series))
		for i, s := range c.Series {
			if s == nil {
				continue
			}
			res.Series[i] = &Series{
				Label: s.Label,
				X:     slices.Clone(s.X),
				Y:     slices.Clone(s.Y),
			}
		}
	}
	if c.Fit != nil {
		fit := *c.Fit
		fit.Params = slices.Clone(c.Fit.Params)
		res.Fit = &fit
	}
	return &res
}
