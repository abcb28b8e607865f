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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvConfig, "")

	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Output:  OutputConfig{PDFVersion: "1.7"},
		Pairing: PairingConfig{NameCheck: "warn", MinSimilarity: 0.5},
		Log:     LogConfig{Level: "info"},
	}
	if d := cmp.Diff(want, c); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratepdf.toml")
	body := `
[output]
overwrite = true

[pairing]
name_check = "strict"
min_similarity = 0.8

[style]
path = "/etc/ratepdf/style.toml"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("RATEPDF_LOG_LEVEL", "debug")
	t.Setenv("RATEPDF_PAIRING_MIN_SIMILARITY", "0.25")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Output:  OutputConfig{Overwrite: true, PDFVersion: "1.7"},
		Pairing: PairingConfig{NameCheck: "strict", MinSimilarity: 0.25},
		Style:   StyleConfig{Path: "/etc/ratepdf/style.toml"},
		Log:     LogConfig{Level: "debug"},
	}
	if d := cmp.Diff(want, c); d != "" {
		t.Errorf("config (-want +got):\n%s", d)
	}
}

func TestMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("missing config file accepted")
	}
}
