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
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/ratepdf/model"
)

// Painter is the subset of the PDF content stream builder used to draw
// canvases.  A *document.Page implements this interface.
type Painter interface {
	PushGraphicsState()
	PopGraphicsState()
	Transform(m matrix.Matrix)

	SetLineWidth(width float64)
	SetLineDash(pattern []float64, phase float64)
	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)

	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	Rectangle(x, y, width, height float64)
	Circle(x, y, radius float64)
	Stroke()
	Fill()
	ClipNonZero()
	EndPath()

	TextBegin()
	TextEnd()
	TextSetFont(f font.Instance, size float64)
	TextSetMatrix(m matrix.Matrix)
	TextShowAligned(s string, width, q float64)
}

// Theme collects the fonts, sizes and colours used to draw canvases.
type Theme struct {
	// Font is used for all text.  If Font is nil, no text is drawn.
	Font font.Instance

	TitleSize float64
	LabelSize float64
	TickSize  float64

	LineWidth    float64
	MarkerRadius float64

	Axis   color.Color
	Series []color.Color
	Fit    color.Color
	Band   color.Color
}

// SeriesColor returns the colour for the i-th data series.
func (th *Theme) SeriesColor(i int) color.Color {
	if len(th.Series) == 0 {
		return th.Axis
	}
	return th.Series[i%len(th.Series)]
}

const tickLength = 4

// axes maps data coordinates to the plot area of a region.
type axes struct {
	x, y                        Range
	left, bottom, width, height float64
}

func (a *axes) px(x float64) float64 {
	return a.left + (x-a.x.Min)/a.x.Len()*a.width
}

func (a *axes) py(y float64) float64 {
	return a.bottom + (y-a.y.Min)/a.y.Len()*a.height
}

// Draw draws the canvas into the given region of a page.
// The canvas itself is not modified.
func (c *Canvas) Draw(p Painter, box pdf.Rectangle, th *Theme) error {
	err := c.Validate()
	if err != nil {
		return err
	}

	w := box.URx - box.LLx
	h := box.URy - box.LLy

	left := 5*th.TickSize + 1.8*th.LabelSize
	bottom := 1.8*th.TickSize + 2*th.LabelSize
	top := 2.2 * th.TitleSize
	right := 2 * th.TickSize
	ax := &axes{
		left:   left,
		bottom: bottom,
		width:  w - left - right,
		height: h - bottom - top,
	}
	if ax.width <= 0 || ax.height <= 0 {
		return fmt.Errorf("%s: region %gx%g is too small", c.Name, w, h)
	}
	ax.x, ax.y = c.Ranges()

	p.PushGraphicsState()
	p.Transform(matrix.Matrix{1, 0, 0, 1, box.LLx, box.LLy})

	p.SetLineWidth(th.LineWidth)
	p.SetStrokeColor(th.Axis)
	p.Rectangle(0, 0, w, h)
	p.Stroke()

	c.drawAxes(p, ax, th)

	p.PushGraphicsState()
	p.Rectangle(ax.left, ax.bottom, ax.width, ax.height)
	p.ClipNonZero()
	p.EndPath()
	c.drawSeries(p, ax, th)
	c.drawFit(p, ax, th)
	p.PopGraphicsState()

	if th.Font != nil {
		p.TextBegin()
		if c.Title != "" {
			p.TextSetFont(th.Font, th.TitleSize)
			showText(p, c.Title, w/2, h-1.5*th.TitleSize, 0.5)
		}
		c.drawLabels(p, ax, th)
		p.TextEnd()
	}
	c.drawLegend(p, ax, th)

	p.PopGraphicsState()
	return nil
}

func (c *Canvas) drawAxes(p Painter, ax *axes, th *Theme) {
	p.SetLineWidth(th.LineWidth)
	p.SetStrokeColor(th.Axis)
	p.Rectangle(ax.left, ax.bottom, ax.width, ax.height)

	xTicks, _ := Ticks(ax.x, 6)
	for _, v := range xTicks {
		x := ax.px(v)
		p.MoveTo(x, ax.bottom)
		p.LineTo(x, ax.bottom+tickLength)
	}
	yTicks, _ := Ticks(ax.y, 5)
	for _, v := range yTicks {
		y := ax.py(v)
		p.MoveTo(ax.left, y)
		p.LineTo(ax.left+tickLength, y)
	}
	p.Stroke()
}

func (c *Canvas) drawLabels(p Painter, ax *axes, th *Theme) {
	p.TextSetFont(th.Font, th.TickSize)
	xTicks, xDigits := Ticks(ax.x, 6)
	for _, v := range xTicks {
		showText(p, FormatTick(v, xDigits), ax.px(v), ax.bottom-1.3*th.TickSize, 0.5)
	}
	yTicks, yDigits := Ticks(ax.y, 5)
	for _, v := range yTicks {
		showText(p, FormatTick(v, yDigits), ax.left-tickLength, ax.py(v)-0.35*th.TickSize, 1)
	}

	p.TextSetFont(th.Font, th.LabelSize)
	if c.XLabel != "" {
		showText(p, c.XLabel, ax.left+ax.width/2, 0.6*th.LabelSize, 0.5)
	}
	if c.YLabel != "" {
		p.TextSetMatrix(matrix.Matrix{0, 1, -1, 0, 1.2 * th.LabelSize, ax.bottom + ax.height/2})
		p.TextShowAligned(c.YLabel, 0, 0.5)
	}
}

func (c *Canvas) drawSeries(p Painter, ax *axes, th *Theme) {
	for i, s := range c.Series {
		n := 0
		for j := range s.X {
			if !isFinite(s.X[j]) || !isFinite(s.Y[j]) {
				continue
			}
			p.Circle(ax.px(s.X[j]), ax.py(s.Y[j]), th.MarkerRadius)
			n++
		}
		if n > 0 {
			p.SetFillColor(th.SeriesColor(i))
			p.Fill()
		}
	}
}

func (c *Canvas) drawFit(p Painter, ax *axes, th *Theme) {
	if c.Fit == nil {
		return
	}
	m, err := model.Lookup(c.Fit.Type)
	if err != nil {
		return // checked in Validate
	}

	if c.Fit.Sigmas > 0 && c.Fit.MSE > 0 {
		delta := c.Fit.Sigmas * math.Sqrt(c.Fit.MSE)
		p.PushGraphicsState()
		p.SetLineWidth(th.LineWidth)
		p.SetLineDash([]float64{3, 2}, 0)
		p.SetStrokeColor(th.Band)
		upper := ax.traceModel(p, m, c.Fit.Params, delta)
		lower := ax.traceModel(p, m, c.Fit.Params, -delta)
		if upper || lower {
			p.Stroke()
		}
		p.PopGraphicsState()
	}

	p.SetLineWidth(1.5 * th.LineWidth)
	p.SetStrokeColor(th.Fit)
	if ax.traceModel(p, m, c.Fit.Params, 0) {
		p.Stroke()
	}
}

func (c *Canvas) drawLegend(p Painter, ax *axes, th *Theme) {
	hasLabels := false
	for _, s := range c.Series {
		if s.Label != "" {
			hasLabels = true
			break
		}
	}
	if !hasLabels {
		return
	}

	lineHeight := 1.4 * th.TickSize
	x := ax.left + 2*tickLength + 2*th.MarkerRadius
	y0 := ax.bottom + ax.height - tickLength - lineHeight
	n := 0
	for y := y0; n < len(c.Series) && y >= ax.bottom; y -= lineHeight {
		n++
	}

	for i := range n {
		y := y0 - float64(i)*lineHeight + 0.35*th.TickSize
		p.Circle(x-1.5*th.MarkerRadius-2, y, th.MarkerRadius)
		p.SetFillColor(th.SeriesColor(i))
		p.Fill()
	}

	if th.Font == nil {
		return
	}
	p.TextBegin()
	p.TextSetFont(th.Font, th.TickSize)
	for i, s := range c.Series[:n] {
		showText(p, s.Label, x, y0-float64(i)*lineHeight, 0)
	}
	p.TextEnd()
}

// showText shows s at the position (x, y).  The parameter q selects the
// alignment: 0 for left aligned, 0.5 for centred and 1 for right aligned.
func showText(p Painter, s string, x, y, q float64) {
	p.TextSetMatrix(matrix.Matrix{1, 0, 0, 1, x, y})
	p.TextShowAligned(s, 0, q)
}
