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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/ratepdf/pairexport"
)

func TestPrintPairs(t *testing.T) {
	pairs := []pairexport.Pair{
		{Index: 0, Primary: "rate_A", Reference: "fit_A", Similarity: 0.6},
		{Index: 1, Primary: "rate_B", Reference: "other", Similarity: 0.0},
	}

	buf := &bytes.Buffer{}
	err := printPairs(buf, pairs, 0.5, false)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		"page  plot    fit    similarity",
		"   1  rate_A  fit_A  0.60",
		"   2  rate_B  other  0.00  !",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("unexpected table (-want +got):\n%s", d)
	}
}

func TestPrintPairsEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	err := printPairs(buf, nil, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "page  plot  fit  similarity\n" {
		t.Errorf("got %q", got)
	}
}
