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

// Package archive provides read access to collections of named plot canvases.
//
// Archives are stored either as SQLite databases or as YAML files.  The
// order of the canvases in an archive is significant: two archives written
// by the same monitoring job list corresponding plots at the same positions.
package archive

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/ratepdf/canvas"
)

// Archive is a read-only, ordered collection of named canvases.
type Archive interface {
	// Keys lists the canvas names, in archive order.
	Keys() []string

	// Len returns the number of canvases in the archive.
	Len() int

	// Get returns the canvas with the given name.  If the archive has no
	// such canvas, an error wrapping [ErrNotFound] is returned.
	// The caller may modify the returned canvas.
	Get(name string) (*canvas.Canvas, error)

	// Close releases all resources held by the archive.
	Close() error
}

var (
	// ErrNotFound indicates that a canvas is missing from an archive.
	ErrNotFound = errors.New("canvas not found")

	// ErrDuplicate indicates that a canvas name occurs more than once.
	ErrDuplicate = errors.New("duplicate canvas name")

	// ErrFormat indicates that a file name has no recognised archive
	// extension.
	ErrFormat = errors.New("unknown archive format")

	errClosed = errors.New("archive is closed")
)

// OpenError is returned when an archive cannot be opened.
type OpenError struct {
	Path string
	Err  error
}

func (err *OpenError) Error() string {
	return fmt.Sprintf("cannot open archive %q: %v", err.Path, err.Err)
}

func (err *OpenError) Unwrap() error {
	return err.Err
}

// Format identifies an archive storage format.
type Format int

// These are the supported archive formats.
const (
	FormatUnknown Format = iota
	FormatSQLite
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatSQLite:
		return "sqlite"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

var extensions = map[string]Format{
	".root":   FormatSQLite,
	".sqlite": FormatSQLite,
	".db":     FormatSQLite,
	".yaml":   FormatYAML,
	".yml":    FormatYAML,
}

// FormatOf determines the archive format from the extension of path.
// The extension is returned together with the format.
func FormatOf(path string) (Format, string) {
	ext := filepath.Ext(path)
	return extensions[strings.ToLower(ext)], ext
}

// Open opens the archive stored at path.  The storage format is chosen
// by the file name extension.  All errors are of type [*OpenError].
func Open(path string) (Archive, error) {
	format, ext := FormatOf(path)
	var a Archive
	var err error
	switch format {
	case FormatSQLite:
		a, err = openSQLite(path)
	case FormatYAML:
		a, err = openYAML(path)
	default:
		err = fmt.Errorf("%w %q", ErrFormat, ext)
	}
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return a, nil
}

// index maps canvas names to archive positions.
// Names are compared in Unicode normalization form C.
type index struct {
	keys []string
	pos  map[string]int
}

func newIndex(names []string) (*index, error) {
	ix := &index{
		keys: names,
		pos:  make(map[string]int, len(names)),
	}
	for i, name := range names {
		key := norm.NFC.String(name)
		if _, seen := ix.pos[key]; seen {
			return nil, fmt.Errorf("%w %q", ErrDuplicate, name)
		}
		ix.pos[key] = i
	}
	return ix, nil
}

func (ix *index) Keys() []string {
	res := make([]string, len(ix.keys))
	copy(res, ix.keys)
	return res
}

func (ix *index) Len() int {
	return len(ix.keys)
}

func (ix *index) lookup(name string) (int, bool) {
	i, ok := ix.pos[norm.NFC.String(name)]
	return i, ok
}
