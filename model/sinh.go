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

import "math"

// SinhSeries evaluates the Taylor polynomial of order 11 of
// amplitude*sinh(scale*x) + offset:
//
//	u = scale*x
//	f = amplitude*(u + u³/3! + u⁵/5! + u⁷/7! + u⁹/9! + u¹¹/11!) + offset
//
// The polynomial agrees with the hyperbolic sine to better than 1e-12
// (relative) for |u| < 0.5, and falls behind it for large |u|.  This is
// the form of the sinh model used by the rate fits, and it is not a
// replacement for [math.Sinh].
//
// Special cases are:
//
//	SinhSeries(0, s, a, o) = o
func SinhSeries(x, scale, amplitude, offset float64) float64 {
	u := x * scale
	u2 := u * u
	u3 := u * u2
	u5 := u3 * u2
	u7 := u5 * u2
	u9 := u7 * u2
	u11 := u9 * u2
	return amplitude*(u+u3/6+u5/120+u7/5040+u9/362880+u11/39916800) + offset
}

// SinhSeriesDeriv returns the derivative of [SinhSeries] with respect to x.
func SinhSeriesDeriv(x, scale, amplitude, offset float64) float64 {
	u := x * scale
	u2 := u * u
	u4 := u2 * u2
	u6 := u4 * u2
	u8 := u6 * u2
	u10 := u8 * u2
	return amplitude * scale * (1 + u2/2 + u4/24 + u6/720 + u8/40320 + u10/3628800)
}

// Sinh evaluates [SinhSeries] in the calling convention of the fitter:
// x[0] is the independent variable and par holds (scale, amplitude, offset).
// The function panics if x has fewer than one or par fewer than three
// elements.
func Sinh(x, par []float64) float64 {
	return SinhSeries(x[0], par[0], par[1], par[2])
}

// SinhExact evaluates amplitude*sinh(scale*x) + offset using [math.Sinh].
// This is the function which [SinhSeries] approximates.
func SinhExact(x, par []float64) float64 {
	return sinhExact(x[0], par[0], par[1], par[2])
}

var (
	_ Func = Sinh
	_ Func = SinhExact
)

func sinhExact(x, scale, amplitude, offset float64) float64 {
	return amplitude*math.Sinh(scale*x) + offset
}
