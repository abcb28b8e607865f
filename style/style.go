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

// Package style implements the style sheets which control the appearance
// of the generated PDF files.
//
// Style sheets are TOML files.  All keys are optional; missing keys keep
// the values from [Default].  Example:
//
//	paper = "Letter"
//	font = "Times-Roman"
//	series_colors = ["#1f77b4", "#ff7f0e"]
package style

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/ratepdf/canvas"
)

// Style describes the page layout and the appearance of the plots.
// Lengths are given in PDF units (1/72 inch).
type Style struct {
	Paper  string  `toml:"paper"`
	Margin float64 `toml:"margin"`
	Gap    float64 `toml:"gap"`

	Font      string  `toml:"font"`
	TitleSize float64 `toml:"title_size"`
	LabelSize float64 `toml:"label_size"`
	TickSize  float64 `toml:"tick_size"`

	LineWidth    float64 `toml:"line_width"`
	MarkerRadius float64 `toml:"marker_radius"`

	AxisColor    string   `toml:"axis_color"`
	SeriesColors []string `toml:"series_colors"`
	FitColor     string   `toml:"fit_color"`
	BandColor    string   `toml:"band_color"`
}

// Default returns the built-in style.
func Default() *Style {
	return &Style{
		Paper:  "A4",
		Margin: 36,
		Gap:    18,

		Font:      string(standard.Helvetica),
		TitleSize: 12,
		LabelSize: 10,
		TickSize:  8,

		LineWidth:    0.5,
		MarkerRadius: 1.5,

		AxisColor: "#000000",
		SeriesColors: []string{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728",
			"#9467bd", "#8c564b", "#e377c2", "#17becf",
		},
		FitColor:  "#d62728",
		BandColor: "#7f7f7f",
	}
}

// Load reads a style sheet.  Keys not present in the file keep their
// default values.
func Load(path string) (*Style, error) {
	st := Default()
	meta, err := toml.DecodeFile(path, st)
	if err != nil {
		return nil, fmt.Errorf("load style: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("load style: unknown key %q", undecoded[0].String())
	}
	if meta.IsDefined("paper") {
		st.Paper = strings.TrimSpace(st.Paper)
	}
	if meta.IsDefined("font") {
		st.Font = strings.TrimSpace(st.Font)
	}

	err = st.Validate()
	if err != nil {
		return nil, err
	}
	return st, nil
}

var errStyle = errors.New("invalid style")

var papers = map[string]*pdf.Rectangle{
	"a4":     document.A4,
	"a5":     document.A5,
	"letter": document.Letter,
}

var fonts = []standard.Font{
	standard.Courier,
	standard.CourierBold,
	standard.CourierBoldOblique,
	standard.CourierOblique,
	standard.Helvetica,
	standard.HelveticaBold,
	standard.HelveticaBoldOblique,
	standard.HelveticaOblique,
	standard.TimesRoman,
	standard.TimesBold,
	standard.TimesBoldItalic,
	standard.TimesItalic,
	standard.Symbol,
	standard.ZapfDingbats,
}

// Validate checks that all values of the style are usable.
func (st *Style) Validate() error {
	if _, ok := papers[strings.ToLower(st.Paper)]; !ok {
		return fmt.Errorf("%w: unknown paper size %q", errStyle, st.Paper)
	}
	if _, err := st.font(); err != nil {
		return err
	}

	positive := []struct {
		name string
		val  float64
	}{
		{"title_size", st.TitleSize},
		{"label_size", st.LabelSize},
		{"tick_size", st.TickSize},
		{"line_width", st.LineWidth},
		{"marker_radius", st.MarkerRadius},
	}
	for _, p := range positive {
		if !(p.val > 0) {
			return fmt.Errorf("%w: %s must be positive, not %g", errStyle, p.name, p.val)
		}
	}
	if st.Margin < 0 || st.Gap < 0 {
		return fmt.Errorf("%w: negative margin or gap", errStyle)
	}

	if len(st.SeriesColors) == 0 {
		return fmt.Errorf("%w: no series colors", errStyle)
	}
	for _, c := range append([]string{st.AxisColor, st.FitColor, st.BandColor}, st.SeriesColors...) {
		if _, err := ParseColor(c); err != nil {
			return err
		}
	}
	return nil
}

// PaperSize returns the page size selected by the style.
func (st *Style) PaperSize() (*pdf.Rectangle, error) {
	paper, ok := papers[strings.ToLower(st.Paper)]
	if !ok {
		return nil, fmt.Errorf("%w: unknown paper size %q", errStyle, st.Paper)
	}
	return paper, nil
}

func (st *Style) font() (standard.Font, error) {
	for _, f := range fonts {
		if string(f) == st.Font {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not a standard PDF font", errStyle, st.Font)
}

// Theme converts the style into the form used for drawing canvases.
// This loads the font.
func (st *Style) Theme() (*canvas.Theme, error) {
	err := st.Validate()
	if err != nil {
		return nil, err
	}
	f, _ := st.font()

	th := &canvas.Theme{
		Font:         f.New(),
		TitleSize:    st.TitleSize,
		LabelSize:    st.LabelSize,
		TickSize:     st.TickSize,
		LineWidth:    st.LineWidth,
		MarkerRadius: st.MarkerRadius,
	}
	th.Axis, _ = ParseColor(st.AxisColor)
	th.Fit, _ = ParseColor(st.FitColor)
	th.Band, _ = ParseColor(st.BandColor)
	for _, s := range st.SeriesColors {
		c, _ := ParseColor(s)
		th.Series = append(th.Series, c)
	}
	return th, nil
}

// ParseColor converts a colour given as "#rrggbb" or "#rgb" into a
// DeviceRGB colour.
func ParseColor(s string) (color.Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if ok && len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if !ok || len(hex) != 6 {
		return nil, fmt.Errorf("%w: invalid colour %q", errStyle, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid colour %q", errStyle, s)
	}
	r := float64(v>>16&0xff) / 255
	g := float64(v>>8&0xff) / 255
	b := float64(v&0xff) / 255
	return color.DeviceRGB{r, g, b}, nil
}
