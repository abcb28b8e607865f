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

package pairexport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/outline"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/canvas"
	"seehuhn.de/go/ratepdf/internal/paintrec"
	"seehuhn.de/go/ratepdf/report"
)

var _ Document = (*report.Report)(nil)

// fakeDoc records the calls made to a document.
type fakeDoc struct {
	calls []string
	pages []*paintrec.Recorder
}

func (d *fakeDoc) Open() error {
	d.calls = append(d.calls, "open")
	return nil
}

func (d *fakeDoc) AddPage(bookmark string, n int, draw func(canvas.Painter, []pdf.Rectangle) error) error {
	d.calls = append(d.calls, "page "+bookmark)
	rec := &paintrec.Recorder{}
	err := draw(rec, report.Regions(document.A4, n, 36, 18))
	if err != nil {
		return err
	}
	if !rec.Balanced() {
		return fmt.Errorf("unbalanced page: %v", rec.Errors)
	}
	d.pages = append(d.pages, rec)
	return nil
}

func (d *fakeDoc) Close() error {
	d.calls = append(d.calls, "close")
	return nil
}

func (d *fakeDoc) Abort() error {
	d.calls = append(d.calls, "abort")
	return nil
}

// staleArchive hides one of the entries from Get, but not from Keys.
type staleArchive struct {
	*archive.Memory
	gone string
}

func (a *staleArchive) Get(name string) (*canvas.Canvas, error) {
	if name == a.gone {
		return nil, fmt.Errorf("%q: %w", name, archive.ErrNotFound)
	}
	return a.Memory.Get(name)
}

func plots(names ...string) []*canvas.Canvas {
	var res []*canvas.Canvas
	for i, name := range names {
		res = append(res, &canvas.Canvas{
			Name:  name,
			Title: name,
			Series: []*canvas.Series{
				{Label: "run 1", X: []float64{1, 2, 3}, Y: []float64{2, 4.1, 5.9 + float64(i)}},
			},
		})
	}
	return res
}

func fits(names ...string) []*canvas.Canvas {
	var res []*canvas.Canvas
	for _, name := range names {
		res = append(res, &canvas.Canvas{
			Name:  name,
			Title: name,
			XMax:  4,
			Fit:   &canvas.Fit{Type: "sinh", Params: []float64{0.2, 10, 0}, MSE: 0.1, Sigmas: 3},
		})
	}
	return res
}

func memory(t *testing.T, cc []*canvas.Canvas) *archive.Memory {
	t.Helper()
	a, err := archive.NewMemory(cc...)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestBookmark(t *testing.T) {
	if got := Bookmark("HLT_Rate_1"); got != "Title: HLT_Rate_1" {
		t.Errorf("Bookmark(%q) = %q", "HLT_Rate_1", got)
	}
}

func TestOutputPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"rates.root", "rates.pdf"},
		{"/data/run.root/HLT.root", "/data/run.root/HLT.pdf"},
		{"rates.sqlite", "rates.pdf"},
		{"fits.YML", "fits.pdf"},
	}
	for _, c := range cases {
		got, err := OutputPath(c.in)
		if err != nil {
			t.Errorf("OutputPath(%q): %v", c.in, err)
		} else if got != c.want {
			t.Errorf("OutputPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	for _, in := range []string{"rates", "rates.pdf", "rates.root.txt"} {
		if _, err := OutputPath(in); !errors.Is(err, archive.ErrFormat) {
			t.Errorf("OutputPath(%q): expected ErrFormat, got %v", in, err)
		}
	}
}

func TestRun(t *testing.T) {
	names := []string{"HLT_Rate_1", "HLT_Rate_2", "L1_Rate_1"}
	doc := &fakeDoc{}
	sum, err := Run(context.Background(),
		memory(t, plots(names...)), memory(t, fits(names...)), doc, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"open",
		"page Title: HLT_Rate_1",
		"page Title: HLT_Rate_2",
		"page Title: L1_Rate_1",
		"close",
	}
	if d := cmp.Diff(want, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}
	if sum.Pages != 3 || len(sum.Pairs) != 3 {
		t.Errorf("unexpected summary %+v", sum)
	}

	for i, page := range doc.pages {
		// primary above reference: both titles, data points only on top
		if d := cmp.Diff([]string{names[i], names[i]}, titles(page, names[i])); d != "" {
			t.Errorf("page %d titles (-want +got):\n%s", i, d)
		}
		if n := page.Count("circle"); n != 3+1 {
			t.Errorf("page %d: %d circles, want 4", i, n)
		}
	}
}

func titles(rec *paintrec.Recorder, name string) []string {
	var res []string
	for _, s := range rec.Text {
		if s == name {
			res = append(res, s)
		}
	}
	return res
}

func TestRunCountMismatch(t *testing.T) {
	doc := &fakeDoc{}
	_, err := Run(context.Background(),
		memory(t, plots("a", "b", "c")), memory(t, fits("a", "b")), doc, nil)

	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PreconditionError, got %T", err)
	}
	if pe.Kind != CountMismatch || pe.NumPrimary != 3 || pe.NumReference != 2 {
		t.Errorf("unexpected error %+v", pe)
	}
	if d := cmp.Diff([]string{"open", "abort"}, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}
}

func TestRunStaleKey(t *testing.T) {
	doc := &fakeDoc{}
	ref := &staleArchive{Memory: memory(t, fits("a", "b", "c")), gone: "b"}
	_, err := Run(context.Background(), memory(t, plots("a", "b", "c")), ref, doc, nil)

	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PreconditionError, got %v", err)
	}
	if pe.Kind != StaleKey || pe.Index != 1 || pe.Side != Reference || pe.Name != "b" {
		t.Errorf("unexpected error %+v", pe)
	}
	if !errors.Is(err, archive.ErrNotFound) {
		t.Error("archive error not wrapped")
	}
	if d := cmp.Diff([]string{"open", "page Title: a", "abort"}, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}
}

func TestRunInvalidCanvas(t *testing.T) {
	pp := plots("a")
	pp[0].Series[0].Y = nil
	doc := &fakeDoc{}
	_, err := Run(context.Background(), memory(t, pp), memory(t, fits("a")), doc, nil)
	if !errors.Is(err, canvas.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if errors.Is(err, ErrPrecondition) {
		t.Error("drawing error reported as precondition failure")
	}
	if d := cmp.Diff([]string{"open", "page Title: a", "abort"}, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &fakeDoc{}
	_, err := Run(ctx, memory(t, plots("a")), memory(t, fits("a")), doc, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if d := cmp.Diff([]string{"open", "abort"}, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}
}

func TestNameCheck(t *testing.T) {
	primary := plots("HLT_Rate_1", "HLT_Rate_2")
	reference := fits("HLT_Rate_1", "xyzzy")

	// warn
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	doc := &fakeDoc{}
	_, err := Run(context.Background(), memory(t, primary), memory(t, reference), doc,
		&Options{Logger: &logger})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "dissimilar") {
		t.Errorf("no warning logged: %s", buf.String())
	}
	if !strings.Contains(buf.String(), `"nplots":2`) {
		t.Errorf("entry counts not logged: %s", buf.String())
	}

	// strict
	doc = &fakeDoc{}
	_, err = Run(context.Background(), memory(t, primary), memory(t, reference), doc,
		&Options{NameCheck: NameCheckStrict})
	var pe *PreconditionError
	if !errors.As(err, &pe) || pe.Kind != NameMismatch || pe.Index != 1 {
		t.Errorf("expected name mismatch for pair 1, got %v", err)
	}
	if d := cmp.Diff([]string{"open", "page Title: HLT_Rate_1", "abort"}, doc.calls); d != "" {
		t.Errorf("document calls (-want +got):\n%s", d)
	}

	// off
	_, err = Run(context.Background(), memory(t, primary), memory(t, reference), &fakeDoc{},
		&Options{NameCheck: NameCheckOff, MinSimilarity: 0.99})
	if err != nil {
		t.Errorf("name check off: %v", err)
	}
}

func TestParseNameCheck(t *testing.T) {
	for _, c := range []NameCheck{NameCheckOff, NameCheckWarn, NameCheckStrict} {
		got, err := ParseNameCheck(c.String())
		if err != nil || got != c {
			t.Errorf("ParseNameCheck(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseNameCheck("lenient"); err == nil {
		t.Error("invalid name check accepted")
	}
}

func TestSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"HLT_Rate_1", "HLT_Rate_1", 1},
		{"HLT_Rate_1", "HLT_Rate_2", 0.9},
		{"abc", "xyz", 0},
		{"a", "", 0},
	}
	for _, c := range cases {
		if got := Similarity(c.a, c.b); got != c.want {
			t.Errorf("Similarity(%q, %q) = %g, want %g", c.a, c.b, got, c.want)
		}
	}
}

func TestPairs(t *testing.T) {
	pp, err := Pairs(context.Background(),
		memory(t, plots("a", "b")), memory(t, fits("a", "c")), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []Pair{
		{Index: 0, Primary: "a", Reference: "a", Similarity: 1},
		{Index: 1, Primary: "b", Reference: "c", Similarity: 0},
	}
	if d := cmp.Diff(want, pp); d != "" {
		t.Errorf("pairs (-want +got):\n%s", d)
	}

	_, err = Pairs(context.Background(), memory(t, plots("a")), memory(t, fits()), nil)
	if !errors.Is(err, ErrPrecondition) {
		t.Errorf("expected ErrPrecondition, got %v", err)
	}
}

func TestRunReport(t *testing.T) {
	names := []string{"HLT_Rate_1", "HLT_Rate_2", "HLT_Rate_3", "L1_Rate_4"}
	buf := &bytes.Buffer{}
	doc := report.New(buf, &report.Options{Title: "rates"})
	sum, err := Run(context.Background(),
		memory(t, plots(names...)), memory(t, fits(names...)), doc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Pages != len(names) {
		t.Errorf("%d pages, want %d", sum.Pages, len(names))
	}

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(names) {
		t.Errorf("PDF has %d pages, want %d", n, len(names))
	}

	tree, err := outline.Read(r)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, item := range tree.Items {
		got = append(got, item.Title)
	}
	var want []string
	for _, name := range names {
		want = append(want, Bookmark(name))
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("outline (-want +got):\n%s", d)
	}
}

func TestRunReportMismatch(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "rates.pdf")
	doc := report.Create(out, nil)
	_, err := Run(context.Background(),
		memory(t, plots("a", "b")), memory(t, fits("a")), doc, nil)
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("%d files left behind", len(entries))
	}
}
