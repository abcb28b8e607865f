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

// Package model implements the fit models used for trigger rate plots.
//
// The models are evaluated, never fitted: parameters are produced by an
// external fitting engine and stored together with the plots.  The
// functions in this package are pure and safe for concurrent use.
package model

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Func is a fit model in the calling convention of the fitting engine.
// The slice x holds the independent variable in x[0], par holds the
// model parameters.
type Func func(x, par []float64) float64

// Model describes one of the fit types used by the rate monitor.
type Model struct {
	// Name is the fit type, as stored in the plot archives.
	Name string

	// NumParams is the number of parameters used by Eval and Deriv.
	NumParams int

	// Eval evaluates the model at x.
	Eval func(x float64, par []float64) float64

	// Deriv evaluates the derivative of the model with respect to x.
	Deriv func(x float64, par []float64) float64
}

var (
	// ErrUnknown is returned by [Lookup] for fit types which are not
	// supported.
	ErrUnknown = errors.New("unknown fit type")

	// ErrParams indicates that too few parameters are given for a model.
	ErrParams = errors.New("not enough fit parameters")
)

// Check verifies that par can be used with the model.
func (m *Model) Check(par []float64) error {
	if len(par) < m.NumParams {
		return fmt.Errorf("%s: %w (need %d, got %d)",
			m.Name, ErrParams, m.NumParams, len(par))
	}
	return nil
}

// Func returns the model in the calling convention of the fitting engine.
func (m *Model) Func() Func {
	return func(x, par []float64) float64 {
		return m.Eval(x[0], par)
	}
}

// Lookup returns the model for the given fit type.
func Lookup(name string) (*Model, error) {
	m, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return m, nil
}

// Names returns the supported fit types in alphabetical order.
func Names() []string {
	res := make([]string, 0, len(registry))
	for name := range registry {
		res = append(res, name)
	}
	slices.Sort(res)
	return res
}

var registry = map[string]*Model{}

func register(m *Model) {
	registry[m.Name] = m
}

func init() {
	register(&Model{
		Name:      "linear",
		NumParams: 2,
		Eval:      func(x float64, p []float64) float64 { return p[0] + p[1]*x },
		Deriv:     func(x float64, p []float64) float64 { return p[1] },
	})
	quad := func(name string) *Model {
		return &Model{
			Name:      name,
			NumParams: 3,
			Eval:      func(x float64, p []float64) float64 { return p[0] + (p[1]+p[2]*x)*x },
			Deriv:     func(x float64, p []float64) float64 { return p[1] + 2*p[2]*x },
		}
	}
	// "quad2" is a quadratic fit with the constant term fixed to zero by
	// the fitter.  The evaluation is the same.
	register(quad("quad"))
	register(quad("quad2"))
	register(&Model{
		Name:      "cube",
		NumParams: 4,
		Eval: func(x float64, p []float64) float64 {
			return p[0] + (p[1]+(p[2]+p[3]*x)*x)*x
		},
		Deriv: func(x float64, p []float64) float64 {
			return p[1] + (2*p[2]+3*p[3]*x)*x
		},
	})
	register(&Model{
		Name:      "exp",
		NumParams: 4,
		Eval: func(x float64, p []float64) float64 {
			return p[0] + p[1]*math.Exp(p[2]+p[3]*x)
		},
		Deriv: func(x float64, p []float64) float64 {
			return p[1] * p[3] * math.Exp(p[2]+p[3]*x)
		},
	})
	register(&Model{
		Name:      "sinh",
		NumParams: 3,
		Eval: func(x float64, p []float64) float64 {
			return SinhSeries(x, p[0], p[1], p[2])
		},
		Deriv: func(x float64, p []float64) float64 {
			return SinhSeriesDeriv(x, p[0], p[1], p[2])
		},
	})
	register(&Model{
		Name:      "sinh-exact",
		NumParams: 3,
		Eval: func(x float64, p []float64) float64 {
			return sinhExact(x, p[0], p[1], p[2])
		},
		Deriv: func(x float64, p []float64) float64 {
			return p[1] * p[0] * math.Cosh(p[0]*x)
		},
	})
}
