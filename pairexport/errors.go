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
	"errors"
	"fmt"
)

// ErrPrecondition is matched by all [*PreconditionError] values.
var ErrPrecondition = errors.New("precondition failed")

// Kind classifies precondition failures.
type Kind int

// These are the possible precondition failures.
const (
	// CountMismatch means that the two archives have different numbers of
	// entries.
	CountMismatch Kind = iota + 1

	// StaleKey means that a name from the key listing of an archive could
	// not be resolved.
	StaleKey

	// NameMismatch means that the names of a pair are too different.
	// This is only reported if the name check is strict.
	NameMismatch
)

func (k Kind) String() string {
	switch k {
	case CountMismatch:
		return "count mismatch"
	case StaleKey:
		return "stale key"
	case NameMismatch:
		return "name mismatch"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Side identifies one of the two input archives.
type Side int

// These are the two sides of a pair.
const (
	Primary Side = iota
	Reference
)

func (s Side) String() string {
	if s == Reference {
		return "reference"
	}
	return "primary"
}

// PreconditionError reports that the inputs of a paired export are not
// suitable for pairing.
type PreconditionError struct {
	Kind Kind

	// NumPrimary and NumReference give the entry counts of the archives.
	NumPrimary, NumReference int

	// Index is the zero-based position of the affected pair.
	// This is -1 for count mismatches.
	Index int

	// Side and Name identify the stale key.
	Side Side
	Name string

	// Names and Similarity describe a name mismatch.
	Names      [2]string
	Similarity float64

	// Err is the underlying error, if any.
	Err error
}

func (e *PreconditionError) Error() string {
	switch e.Kind {
	case CountMismatch:
		return fmt.Sprintf("different number of entries: %d plots but %d fits",
			e.NumPrimary, e.NumReference)
	case StaleKey:
		return fmt.Sprintf("pair %d: %s entry %q not found", e.Index+1, e.Side, e.Name)
	case NameMismatch:
		return fmt.Sprintf("pair %d: %q and %q do not match (similarity %.2f)",
			e.Index+1, e.Names[0], e.Names[1], e.Similarity)
	default:
		return e.Kind.String()
	}
}

// Is makes all precondition errors match [ErrPrecondition].
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
