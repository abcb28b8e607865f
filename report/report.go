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

// Package report writes the merged rate plots as a paginated PDF document.
//
// A report is opened, receives one page per pair of plots, and is then
// closed.  Every page gets an entry in the document outline.  If anything
// goes wrong, [Report.Abort] discards the partially written file, so that
// no truncated PDF files are left behind.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/destination"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/outline"

	"seehuhn.de/go/ratepdf/canvas"
)

// outputMode is the permission of completed report files.  Temporary
// files are created with mode 0600.
const outputMode fs.FileMode = 0o644

// Options control the layout and metadata of a report.
type Options struct {
	// Paper is the page size.  The default is A4.
	Paper *pdf.Rectangle

	// Version is the PDF version of the output.  The default is PDF-1.7.
	Version pdf.Version

	// Title and Creator are written to the document information dictionary.
	Title   string
	Creator string

	// Margin is the space between the paper edge and the plot regions,
	// Gap is the vertical space between regions.
	Margin float64
	Gap    float64
}

var defaultOptions = Options{
	Paper:   document.A4,
	Version: pdf.V1_7,
	Margin:  36,
	Gap:     18,
}

type state int

const (
	stateNew state = iota
	stateOpen
	stateFailed
	stateDone
)

var (
	errNotOpen = errors.New("report is not open")
	errFailed  = errors.New("report is in a failed state")
)

// Report is a PDF document under construction.
type Report struct {
	opt   Options
	state state

	// file output
	path string
	tmp  *os.File
	buf  *bufio.Writer

	w     io.Writer
	doc   *document.MultiPage
	items []*outline.Item
}

// Create prepares a report which will be written to the file at path.
// Output goes to a temporary file in the same directory, which is renamed
// to path by [Report.Close].  An existing file at path is replaced.
func Create(path string, opt *Options) *Report {
	return &Report{
		opt:  withDefaults(opt),
		path: path,
	}
}

// New prepares a report which will be written to w.
// Aborted reports leave partial output in w.
func New(w io.Writer, opt *Options) *Report {
	return &Report{
		opt: withDefaults(opt),
		w:   w,
	}
}

func withDefaults(opt *Options) Options {
	res := defaultOptions
	if opt == nil {
		return res
	}
	if opt.Paper != nil {
		res.Paper = opt.Paper
	}
	if opt.Version != 0 {
		res.Version = opt.Version
	}
	res.Title = opt.Title
	res.Creator = opt.Creator
	if opt.Margin > 0 {
		res.Margin = opt.Margin
	}
	if opt.Gap > 0 {
		res.Gap = opt.Gap
	}
	return res
}

// Open starts the PDF document.
func (r *Report) Open() error {
	if r.state != stateNew {
		return errors.New("report already opened")
	}

	w := r.w
	if r.path != "" {
		dir, base := filepath.Split(r.path)
		if dir == "" {
			dir = "."
		}
		tmp, err := os.CreateTemp(dir, "."+base+".*")
		if err != nil {
			r.state = stateFailed
			return err
		}
		r.tmp = tmp
		r.buf = bufio.NewWriter(tmp)
		w = r.buf
	}

	doc, err := document.WriteMultiPage(w, r.opt.Paper, r.opt.Version, nil)
	if err != nil {
		r.state = stateFailed
		r.discard()
		return err
	}
	r.doc = doc
	r.state = stateOpen
	return nil
}

// AddPage appends a page to the report.  The page is split into n regions
// of equal height, stacked vertically with regions[0] at the top, and
// draw is called to fill them.  The page gets an outline entry with the
// given title.  The page is written to the file before AddPage returns.
//
// If AddPage fails, the report can only be aborted.
func (r *Report) AddPage(title string, n int, draw func(p canvas.Painter, regions []pdf.Rectangle) error) error {
	switch r.state {
	case stateOpen:
		// pass
	case stateFailed:
		return errFailed
	default:
		return errNotOpen
	}
	if n < 1 {
		return fmt.Errorf("invalid number of regions %d", n)
	}

	ref := r.doc.Out.Alloc()
	page := r.doc.AddPage()
	page.Ref = ref

	err := draw(page, Regions(r.opt.Paper, n, r.opt.Margin, r.opt.Gap))
	if err != nil {
		r.state = stateFailed
		return err
	}
	err = page.Close()
	if err != nil {
		r.state = stateFailed
		return err
	}

	r.items = append(r.items, &outline.Item{
		Title: title,
		Destination: &destination.XYZ{
			Page: ref,
			Left: destination.Unset,
			Top:  r.opt.Paper.URy,
			Zoom: destination.Unset,
		},
	})
	return nil
}

// NumPages returns the number of pages added so far.
func (r *Report) NumPages() int {
	return len(r.items)
}

// Close writes the document outline and metadata and completes the
// PDF file.
func (r *Report) Close() error {
	switch r.state {
	case stateOpen:
		// pass
	case stateFailed:
		r.Abort()
		return errFailed
	default:
		return errNotOpen
	}

	err := r.finish()
	if err != nil {
		r.state = stateFailed
		r.discard()
		return err
	}
	r.state = stateDone
	return nil
}

func (r *Report) finish() error {
	if len(r.items) > 0 {
		tree := &outline.Outline{Items: r.items}
		err := tree.Write(r.doc.RM)
		if err != nil {
			return err
		}
	}

	if r.opt.Title != "" || r.opt.Creator != "" {
		r.doc.Out.GetMeta().Info = &pdf.Info{
			Title:   pdf.TextString(r.opt.Title),
			Creator: pdf.TextString(r.opt.Creator),
		}
	}

	err := r.doc.Close()
	if err != nil {
		return err
	}
	if r.tmp == nil {
		return nil
	}

	err = r.buf.Flush()
	if err != nil {
		return err
	}
	err = r.tmp.Chmod(outputMode)
	if err != nil {
		return err
	}
	err = r.tmp.Close()
	if err != nil {
		return err
	}
	err = os.Rename(r.tmp.Name(), r.path)
	if err != nil {
		os.Remove(r.tmp.Name())
		return err
	}
	r.tmp = nil
	return nil
}

// Abort discards the report.  For reports written to a file, the
// partially written file is removed.  Abort can be called in any state;
// after a successful [Report.Close] it has no effect.
func (r *Report) Abort() error {
	if r.state == stateDone {
		return nil
	}
	r.state = stateFailed
	return r.discard()
}

// discard removes the temporary file, if any.
func (r *Report) discard() error {
	r.doc = nil
	if r.tmp == nil {
		return nil
	}
	name := r.tmp.Name()
	r.tmp.Close()
	r.tmp = nil
	return os.Remove(name)
}

// Regions divides a page of the given size into n regions of equal height,
// stacked vertically.  The regions are ordered from top to bottom.
func Regions(paper *pdf.Rectangle, n int, margin, gap float64) []pdf.Rectangle {
	h := (paper.URy - paper.LLy - 2*margin - float64(n-1)*gap) / float64(n)
	res := make([]pdf.Rectangle, n)
	for i := range res {
		top := paper.URy - margin - float64(i)*(h+gap)
		res[i] = pdf.Rectangle{
			LLx: paper.LLx + margin,
			LLy: top - h,
			URx: paper.URx - margin,
			URy: top,
		}
	}
	return res
}
