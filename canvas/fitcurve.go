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

package canvas

import (
	"honnef.co/go/curve"

	"seehuhn.de/go/ratepdf/model"
)

// fitAccuracy is the maximal distance, in PDF units, between the model
// and the Bézier curves used to draw it.
const fitAccuracy = 0.05

// modelCurve is the graph of a fitted model over the x range of the axes,
// in page coordinates.  The parameter t runs from 0 at the left edge of the
// plot area to 1 at the right edge.
type modelCurve struct {
	ax    *axes
	m     *model.Model
	par   []float64
	shift float64
}

var _ curve.FittableCurve = (*modelCurve)(nil)

// SamplePtDeriv implements [curve.FittableCurve].
func (mc *modelCurve) SamplePtDeriv(t float64) (curve.Point, curve.Vec2) {
	ax := mc.ax
	x := ax.x.Min + t*ax.x.Len()
	y := mc.m.Eval(x, mc.par) + mc.shift

	sy := ax.height / ax.y.Len()
	dy := mc.m.Deriv(x, mc.par) * ax.x.Len() * sy
	return curve.Pt(ax.px(x), ax.py(y)), curve.Vec(ax.width, dy)
}

// SamplePtTangent implements [curve.FittableCurve].
func (mc *modelCurve) SamplePtTangent(t, sign float64) curve.CurveFitSample {
	p, d := mc.SamplePtDeriv(t)
	return curve.CurveFitSample{Point: p, Tangent: d}
}

// BreakCusp implements [curve.FittableCurve].
// All models are smooth, so there are no cusps.
func (mc *modelCurve) BreakCusp(start, end float64) (float64, bool) {
	return 0, false
}

// traceModel appends the graph of m, shifted vertically by shift, to the
// current path.  The return value indicates whether anything was added.
// Models which are not finite over the whole x range are skipped.
func (a *axes) traceModel(p Painter, m *model.Model, par []float64, shift float64) bool {
	src := &modelCurve{ax: a, m: m, par: par, shift: shift}

	const n = 32
	for i := 0; i <= n; i++ {
		pt, d := src.SamplePtDeriv(float64(i) / n)
		if !isFinite(pt.X) || !isFinite(pt.Y) || !isFinite(d.Y) {
			return false
		}
	}

	var cur curve.Point
	for el := range curve.FitToBezPath(src, fitAccuracy) {
		switch el.Kind {
		case curve.MoveToKind:
			p.MoveTo(el.P0.X, el.P0.Y)
			cur = el.P0
		case curve.LineToKind:
			p.LineTo(el.P0.X, el.P0.Y)
			cur = el.P0
		case curve.QuadToKind:
			// degree elevation
			c1x := cur.X + 2.0/3.0*(el.P0.X-cur.X)
			c1y := cur.Y + 2.0/3.0*(el.P0.Y-cur.Y)
			c2x := el.P1.X + 2.0/3.0*(el.P0.X-el.P1.X)
			c2y := el.P1.Y + 2.0/3.0*(el.P0.Y-el.P1.Y)
			p.CurveTo(c1x, c1y, c2x, c2y, el.P1.X, el.P1.Y)
			cur = el.P1
		case curve.CubicToKind:
			p.CurveTo(el.P0.X, el.P0.Y, el.P1.X, el.P1.Y, el.P2.X, el.P2.Y)
			cur = el.P2
		}
	}
	return true
}
