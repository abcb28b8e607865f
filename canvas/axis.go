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
	"math"
	"strconv"
	"strings"

	"seehuhn.de/go/ratepdf/model"
)

// headroom is the fraction added above the largest data value, when
// axis ranges are chosen automatically.
const headroom = 0.1

// maxTicks bounds the number of ticks returned by [Ticks].
const maxTicks = 1000

// Range is a closed interval of data values.
type Range struct {
	Min, Max float64
}

// Len returns the length of the interval.
func (r Range) Len() float64 {
	return r.Max - r.Min
}

// Ranges returns the x and y ranges used to plot the canvas.
//
// Both axes start at zero, unless the data contains negative values or
// XMin is set.  The y range always includes zero.  The upper limits leave
// 10% of headroom above the data, unless XMax or YMax are set.
func (c *Canvas) Ranges() (x, y Range) {
	xLo, xHi := math.Inf(+1), math.Inf(-1)
	yLo, yHi := math.Inf(+1), math.Inf(-1)
	for _, s := range c.Series {
		for i := range s.X {
			xi, yi := s.X[i], s.Y[i]
			if !isFinite(xi) || !isFinite(yi) {
				continue
			}
			xLo = min(xLo, xi)
			xHi = max(xHi, xi)
			yLo = min(yLo, yi)
			yHi = max(yHi, yi)
		}
	}

	x.Min = min(0, xLo)
	if c.XMin != 0 {
		x.Min = c.XMin
	}
	switch {
	case c.XMax != 0:
		x.Max = c.XMax
	case xHi > x.Min:
		x.Max = xHi + headroom*(xHi-x.Min)
	default:
		x.Max = x.Min + 1
	}

	if c.Fit != nil && math.IsInf(yHi, -1) {
		// no data, use the fit to find the y range
		if m, err := model.Lookup(c.Fit.Type); err == nil && m.Check(c.Fit.Params) == nil {
			const n = 50
			for i := 0; i <= n; i++ {
				xi := x.Min + float64(i)/n*x.Len()
				yi := m.Eval(xi, c.Fit.Params)
				if isFinite(yi) {
					yLo = min(yLo, yi)
					yHi = max(yHi, yi)
				}
			}
		}
	}

	lo := min(0, yLo)
	hi := max(0, yHi)
	y.Min = lo
	if lo < 0 {
		y.Min -= headroom * (hi - lo)
	}
	switch {
	case c.YMax > 0:
		y.Max = c.YMax
	case hi > lo:
		y.Max = hi + headroom*(hi-lo)
	default:
		y.Max = y.Min + 1
	}
	return x, y
}

// Ticks returns the positions of the axis ticks for the range r.
// The tick spacing is 1, 2 or 5 times a power of ten, chosen so that
// there are about n ticks.  The second return value gives the number of
// decimal digits needed to label the ticks.
func Ticks(r Range, n int) ([]float64, int) {
	if n < 1 || !(r.Max > r.Min) || !isFinite(r.Len()) {
		return nil, 0
	}

	raw := r.Len() / float64(n)
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	var step float64
	switch f := raw / base; {
	case f < 1.5:
		step = base
	case f < 3.5:
		step = 2 * base
	case f < 7.5:
		step = 5 * base
	default:
		step = 10 * base
		exp++
	}

	digits := 0
	if exp < 0 {
		digits = int(-exp)
	}

	const eps = 1e-9
	first := math.Ceil(r.Min/step - eps)
	last := math.Floor(r.Max/step + eps)
	if first+1 == first || last-first > maxTicks {
		// the range is too narrow for its magnitude
		return nil, 0
	}
	count := int(last - first)
	ticks := make([]float64, 0, count+1)
	for i := 0; i <= count; i++ {
		v := (first + float64(i)) * step
		if v == 0 {
			v = 0 // avoid -0
		}
		ticks = append(ticks, v)
	}
	return ticks, digits
}

// FormatTick formats a tick value with the given number of decimal digits.
func FormatTick(v float64, digits int) string {
	s := strconv.FormatFloat(v, 'f', digits, 64)
	if strings.Trim(s, "-0.") == "" {
		s = strings.TrimPrefix(s, "-")
	}
	return s
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
