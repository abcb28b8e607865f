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

// Package paintrec provides a painter which records drawing operations,
// for use in tests.
package paintrec

import (
	"fmt"

	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/graphics/color"
)

// Recorder records the operators of a content stream, using the PDF
// operator names.  Nesting errors are collected in Errors.
type Recorder struct {
	Ops    []string
	Text   []string
	Errors []string

	depth  int
	inText bool
}

// Count returns how often the operator op was recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, o := range r.Ops {
		if o == op {
			n++
		}
	}
	return n
}

// Balanced reports whether all graphics states and text objects have been
// closed, and no nesting errors occurred.
func (r *Recorder) Balanced() bool {
	return r.depth == 0 && !r.inText && len(r.Errors) == 0
}

func (r *Recorder) add(op string) {
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) fail(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf("op %d: ", len(r.Ops))+fmt.Sprintf(format, args...))
}

func (r *Recorder) PushGraphicsState() {
	if r.inText {
		r.fail("q inside text object")
	}
	r.depth++
	r.add("q")
}

func (r *Recorder) PopGraphicsState() {
	if r.depth == 0 {
		r.fail("unbalanced Q")
	} else {
		r.depth--
	}
	r.add("Q")
}

func (r *Recorder) Transform(m matrix.Matrix) { r.add("cm") }

func (r *Recorder) SetLineWidth(width float64) { r.add("w") }

func (r *Recorder) SetLineDash(pattern []float64, phase float64) { r.add("d") }

func (r *Recorder) SetStrokeColor(c color.Color) {
	if c == nil {
		r.fail("nil stroke colour")
	}
	r.add("RG")
}

func (r *Recorder) SetFillColor(c color.Color) {
	if c == nil {
		r.fail("nil fill colour")
	}
	r.add("rg")
}

func (r *Recorder) MoveTo(x, y float64)                    { r.add("m") }
func (r *Recorder) LineTo(x, y float64)                    { r.add("l") }
func (r *Recorder) CurveTo(x1, y1, x2, y2, x3, y3 float64) { r.add("c") }
func (r *Recorder) Rectangle(x, y, width, height float64)  { r.add("re") }
func (r *Recorder) Circle(x, y, radius float64)            { r.add("circle") }
func (r *Recorder) Stroke()                                { r.add("S") }
func (r *Recorder) Fill()                                  { r.add("f") }
func (r *Recorder) ClipNonZero()                           { r.add("W") }
func (r *Recorder) EndPath()                               { r.add("n") }

func (r *Recorder) TextBegin() {
	if r.inText {
		r.fail("nested BT")
	}
	r.inText = true
	r.add("BT")
}

func (r *Recorder) TextEnd() {
	if !r.inText {
		r.fail("ET without BT")
	}
	r.inText = false
	r.add("ET")
}

func (r *Recorder) TextSetFont(f font.Instance, size float64) {
	if !r.inText {
		r.fail("Tf outside text object")
	}
	r.add("Tf")
}

func (r *Recorder) TextSetMatrix(m matrix.Matrix) {
	if !r.inText {
		r.fail("Tm outside text object")
	}
	r.add("Tm")
}

func (r *Recorder) TextShowAligned(s string, width, q float64) {
	if !r.inText {
		r.fail("Tj outside text object")
	}
	r.Text = append(r.Text, s)
	r.add("Tj")
}
