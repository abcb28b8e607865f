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

package model

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNames(t *testing.T) {
	want := []string{"cube", "exp", "linear", "quad", "quad2", "sinh", "sinh-exact"}
	if d := cmp.Diff(want, Names()); d != "" {
		t.Errorf("unexpected model names (-want +got):\n%s", d)
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("pol7")
	if !errors.Is(err, ErrUnknown) {
		t.Errorf("expected ErrUnknown, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	m, err := Lookup("cube")
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Check([]float64{1, 2, 3}); !errors.Is(err, ErrParams) {
		t.Errorf("expected ErrParams, got %v", err)
	}
	if err := m.Check([]float64{1, 2, 3, 4}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		par  []float64
		x    float64
		want float64
	}{
		{"linear", []float64{1, 2}, 3, 7},
		{"quad", []float64{1, 2, 3}, 2, 17},
		{"quad2", []float64{0, 2, 3}, -1, 1},
		{"cube", []float64{0, 1, 1, 1}, 2, 14},
		{"exp", []float64{1, 2, 0, 1}, 0, 3},
		{"sinh", []float64{1, 1, 0}, 0, 0},
		{"sinh-exact", []float64{2, 3, 1}, 0.5, 3*math.Sinh(1) + 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m, err := Lookup(c.name)
			if err != nil {
				t.Fatal(err)
			}
			got := m.Eval(c.x, c.par)
			if math.Abs(got-c.want) > 1e-12 {
				t.Errorf("%s(%g) = %g, want %g", c.name, c.x, got, c.want)
			}
		})
	}
}

// TestDeriv compares all analytic derivatives to central differences.
func TestDeriv(t *testing.T) {
	par := []float64{0.3, -0.7, 0.2, 0.9}
	for _, name := range Names() {
		m, _ := Lookup(name)
		for _, x := range []float64{-2, -0.1, 0.5, 1.5} {
			const h = 1e-6
			num := (m.Eval(x+h, par) - m.Eval(x-h, par)) / (2 * h)
			got := m.Deriv(x, par)
			if math.Abs(got-num) > 1e-5*math.Max(1, math.Abs(num)) {
				t.Errorf("%s'(%g) = %g, numerical %g", name, x, got, num)
			}
		}
	}
}

// TestFunc checks that the registry models agree with the functions in
// the calling convention of the fitter.
func TestFunc(t *testing.T) {
	cases := []struct {
		name string
		f    Func
	}{
		{"sinh", Sinh},
		{"sinh-exact", SinhExact},
	}
	par := []float64{0.3, 2, -1}
	for _, c := range cases {
		m, err := Lookup(c.name)
		if err != nil {
			t.Fatal(err)
		}
		f := m.Func()
		for _, x := range []float64{-3, 0, 0.25, 7} {
			xx := []float64{x}
			if got, want := f(xx, par), c.f(xx, par); got != want {
				t.Errorf("%s: Func()(%g) = %g, want %g", c.name, x, got, want)
			}
		}
	}
}
