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

package archive

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/ratepdf/canvas"
)

// yamlFile is the top-level structure of a YAML archive.
type yamlFile struct {
	Canvases []*canvas.Canvas `yaml:"canvases"`
}

func openYAML(path string) (*Memory, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()
	return ReadYAML(fd)
}

// ReadYAML reads a YAML archive.  All canvases are validated.
func ReadYAML(r io.Reader) (*Memory, error) {
	var file yamlFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	err := dec.Decode(&file)
	if err == io.EOF {
		// an empty file is an empty archive
	} else if err != nil {
		return nil, err
	}

	for i, c := range file.Canvases {
		if c == nil {
			return nil, fmt.Errorf("canvas %d: %w", i, canvas.ErrInvalid)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("canvas %d: %w", i, err)
		}
	}
	return NewMemory(file.Canvases...)
}

// WriteYAML writes all canvases of a to w, in archive order.
func WriteYAML(w io.Writer, a Archive) error {
	var file yamlFile
	for _, name := range a.Keys() {
		c, err := a.Get(name)
		if err != nil {
			return err
		}
		file.Canvases = append(file.Canvases, c)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	err := enc.Encode(&file)
	if err != nil {
		return err
	}
	return enc.Close()
}
