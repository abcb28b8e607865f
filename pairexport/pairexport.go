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

// Package pairexport merges two archives of rate plots into one PDF file.
//
// The i-th entry of the primary archive (typically the rates of the
// current run) is drawn on the top half of page i, and the i-th entry of
// the reference archive (typically the fits from earlier runs) is drawn
// on the bottom half.  Each page has an outline entry named after the
// primary entry.
package pairexport

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/canvas"
	"seehuhn.de/go/ratepdf/style"
)

// DefaultMinSimilarity is the name similarity below which a pair is
// reported by the name check.
const DefaultMinSimilarity = 0.5

// Document is the paginated output of a paired export.
// [*report.Report] implements this interface.
type Document interface {
	// Open starts the document.
	Open() error

	// AddPage appends a page divided into the given number of vertically
	// stacked regions, and adds an outline entry for the page.
	AddPage(bookmark string, regions int, draw func(p canvas.Painter, regions []pdf.Rectangle) error) error

	// Close completes the document.
	Close() error

	// Abort discards an incomplete document.
	Abort() error
}

// Options control a paired export.  The zero value uses the default
// style and warns about pairs with dissimilar names.
type Options struct {
	NameCheck     NameCheck
	MinSimilarity float64

	// Theme controls the appearance of the plots.
	// If this is nil, the default style is used.
	Theme *canvas.Theme

	// Logger receives progress and diagnostic messages.
	// If this is nil, nothing is logged.
	Logger *zerolog.Logger
}

func (opt *Options) logger() *zerolog.Logger {
	if opt == nil || opt.Logger == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return opt.Logger
}

// Summary describes a completed export.
type Summary struct {
	Pages int
	Pairs []Pair
}

// Bookmark returns the outline title for the page showing the given
// primary entry.
func Bookmark(name string) string {
	return "Title: " + name
}

// OutputPath returns the name of the PDF file for the given primary
// archive, by replacing the archive file name extension with ".pdf".
func OutputPath(primary string) (string, error) {
	format, ext := archive.FormatOf(primary)
	if format == archive.FormatUnknown {
		return "", fmt.Errorf("%q: %w", primary, archive.ErrFormat)
	}
	return strings.TrimSuffix(primary, ext) + ".pdf", nil
}

// Run draws all pairs of entries from the primary and reference archives
// into doc, one page per pair.
//
// Run opens and closes doc.  If any error occurs after doc has been
// opened, doc is aborted.  Violated preconditions are reported as
// [*PreconditionError] values.
func Run(ctx context.Context, primary, reference archive.Archive, doc Document, opt *Options) (_ *Summary, err error) {
	log := opt.logger()

	var th *canvas.Theme
	if opt != nil {
		th = opt.Theme
	}
	if th == nil {
		th, err = style.Default().Theme()
		if err != nil {
			return nil, err
		}
	}

	err = doc.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if abortErr := doc.Abort(); abortErr != nil {
				log.Warn().Err(abortErr).Msg("cannot discard incomplete output")
			}
		}
	}()

	sum := &Summary{}
	err = forEachPair(ctx, primary, reference, opt, func(p Pair, pc, rc *canvas.Canvas) error {
		err := doc.AddPage(Bookmark(p.Primary), 2, func(page canvas.Painter, regions []pdf.Rectangle) error {
			err := pc.Draw(page, regions[0], th)
			if err != nil {
				return err
			}
			return rc.Draw(page, regions[1], th)
		})
		if err != nil {
			return fmt.Errorf("page %d (%s): %w", p.Index+1, p.Primary, err)
		}
		sum.Pages++
		sum.Pairs = append(sum.Pairs, p)
		log.Debug().Int("page", sum.Pages).Str("plot", p.Primary).Str("fit", p.Reference).Msg("page added")
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = doc.Close()
	if err != nil {
		return nil, err
	}
	log.Info().Int("pages", sum.Pages).Msg("document closed")
	return sum, nil
}
