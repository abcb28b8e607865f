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

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"seehuhn.de/go/ratepdf/pairexport"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa"))
	indexStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

// printPairs writes a table of the pairs to w.  Pairs with name similarity
// below minSim are marked.  If color is false, no escape sequences are
// written.
func printPairs(w io.Writer, pairs []pairexport.Pair, minSim float64, color bool) error {
	if minSim <= 0 {
		minSim = pairexport.DefaultMinSimilarity
	}

	rows := [][]string{{"page", "plot", "fit", "similarity"}}
	for _, p := range pairs {
		rows = append(rows, []string{
			strconv.Itoa(p.Index + 1),
			p.Primary,
			p.Reference,
			strconv.FormatFloat(p.Similarity, 'f', 2, 64),
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for j, cell := range row {
			widths[j] = max(widths[j], lipgloss.Width(cell))
		}
	}

	for i, row := range rows {
		var line strings.Builder
		for j, cell := range row {
			if j > 0 {
				line.WriteString("  ")
			}
			pad := strings.Repeat(" ", widths[j]-lipgloss.Width(cell))
			if j == 0 {
				cell = pad + cell // right align page numbers
			} else if j < len(row)-1 {
				cell += pad
			}
			if color {
				switch {
				case i == 0:
					cell = headerStyle.Render(cell)
				case j == 0:
					cell = indexStyle.Render(cell)
				case pairs[i-1].Similarity < minSim:
					cell = warnStyle.Render(cell)
				}
			}
			line.WriteString(cell)
		}
		if i > 0 && !color && pairs[i-1].Similarity < minSim {
			line.WriteString("  !")
		}
		_, err := fmt.Fprintln(w, line.String())
		if err != nil {
			return err
		}
	}
	return nil
}
