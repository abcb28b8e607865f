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
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/pairexport"
)

const plotsYAML = `canvases:
  - name: HLT_Rate_1
    series:
      - label: run 1
        x: [1, 2, 3]
        y: [1.1, 2.0, 3.2]
  - name: HLT_Rate_2
    series:
      - label: run 1
        x: [1, 2]
        y: [0.5, 0.7]
`

const fitsYAML = `canvases:
  - name: HLT_Rate_1_fit
    fit:
      type: sinh
      params: [0.1, 10, 0]
  - name: HLT_Rate_2_fit
    fit:
      type: linear
      params: [0, 0.3]
`

const oneFitYAML = `canvases:
  - name: HLT_Rate_1_fit
    fit:
      type: linear
      params: [0, 1]
`

// isolate keeps the user's configuration out of the tests.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("RATEPDF_CONFIG", "")
	t.Setenv("RATEPDF_OUTPUT_OVERWRITE", "")
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(body), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names
}

func TestRun(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	plots := writeFile(t, dir, "run42.yaml", plotsYAML)
	fits := writeFile(t, dir, "fits.yaml", fitsYAML)

	out := &bytes.Buffer{}
	err := run(out, &options{}, plots, fits)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"fits.yaml", "run42.pdf", "run42.yaml"}
	if d := cmp.Diff(want, dirNames(t, dir)); d != "" {
		t.Errorf("directory contents (-want +got):\n%s", d)
	}
	if !strings.Contains(out.String(), "PDF written") {
		t.Errorf("missing completion message in %q", out.String())
	}
}

func TestRunDryRun(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	plots := writeFile(t, dir, "run42.yaml", plotsYAML)
	fits := writeFile(t, dir, "fits.yaml", fitsYAML)

	out := &bytes.Buffer{}
	err := run(out, &options{dryRun: true}, plots, fits)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "HLT_Rate_2_fit") {
		t.Errorf("pair missing from listing %q", out.String())
	}
	if d := cmp.Diff([]string{"fits.yaml", "run42.yaml"}, dirNames(t, dir)); d != "" {
		t.Errorf("dry run changed the directory (-want +got):\n%s", d)
	}
}

func TestRunFailures(t *testing.T) {
	cases := []struct {
		name     string
		fits     string // empty for a missing file
		existing bool
		force    bool
		check    func(error) bool
	}{
		{
			name:  "missing archive",
			check: func(err error) bool { var e *archive.OpenError; return errors.As(err, &e) },
		},
		{
			name: "count mismatch",
			fits: oneFitYAML,
			check: func(err error) bool {
				var e *pairexport.PreconditionError
				return errors.As(err, &e) && e.Kind == pairexport.CountMismatch
			},
		},
		{
			name:     "existing output",
			fits:     fitsYAML,
			existing: true,
			check:    func(err error) bool { return errors.Is(err, fs.ErrExist) },
		},
		{
			name:     "count mismatch with force",
			fits:     oneFitYAML,
			existing: true,
			force:    true,
			check:    func(err error) bool { return errors.Is(err, pairexport.ErrPrecondition) },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			dir := t.TempDir()
			plots := writeFile(t, dir, "run42.yaml", plotsYAML)
			fits := filepath.Join(dir, "fits.yaml")
			if tc.fits != "" {
				writeFile(t, dir, "fits.yaml", tc.fits)
			}
			const old = "previous output"
			pdfPath := filepath.Join(dir, "run42.pdf")
			if tc.existing {
				writeFile(t, dir, "run42.pdf", old)
			}
			before := dirNames(t, dir)

			err := run(&bytes.Buffer{}, &options{force: tc.force}, plots, fits)
			if err == nil {
				t.Fatal("run succeeded")
			}
			if !tc.check(err) {
				t.Errorf("unexpected error: %v", err)
			}

			// no output and no temporary files are left behind
			if d := cmp.Diff(before, dirNames(t, dir)); d != "" {
				t.Errorf("directory contents (-want +got):\n%s", d)
			}
			if tc.existing {
				data, err := os.ReadFile(pdfPath)
				if err != nil {
					t.Fatal(err)
				}
				if string(data) != old {
					t.Error("existing output was modified")
				}
			}
		})
	}
}

func TestRunProfileError(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	plots := writeFile(t, dir, "run42.yaml", plotsYAML)
	fits := writeFile(t, dir, "fits.yaml", fitsYAML)

	opt := &options{
		dryRun:     true,
		memprofile: filepath.Join(dir, "no-such-dir", "mem.prof"),
	}
	err := run(&bytes.Buffer{}, opt, plots, fits)
	if err == nil || !strings.Contains(err.Error(), "memory profile") {
		t.Errorf("expected a memory profile error, got %v", err)
	}
}
