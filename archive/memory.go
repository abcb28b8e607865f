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

	"seehuhn.de/go/ratepdf/canvas"
)

// Memory is an archive held in memory.
type Memory struct {
	*index
	canvases []*canvas.Canvas
	closed   bool
}

var _ Archive = (*Memory)(nil)

// NewMemory returns an archive containing copies of the given canvases,
// in the given order.
func NewMemory(cc ...*canvas.Canvas) (*Memory, error) {
	names := make([]string, len(cc))
	canvases := make([]*canvas.Canvas, len(cc))
	for i, c := range cc {
		names[i] = c.Name
		canvases[i] = c.Clone()
	}
	ix, err := newIndex(names)
	if err != nil {
		return nil, err
	}
	return &Memory{index: ix, canvases: canvases}, nil
}

// Get implements the [Archive] interface.
func (m *Memory) Get(name string) (*canvas.Canvas, error) {
	if m.closed {
		return nil, errClosed
	}
	i, ok := m.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return m.canvases[i].Clone(), nil
}

// Close implements the [Archive] interface.
func (m *Memory) Close() error {
	m.closed = true
	return nil
}
