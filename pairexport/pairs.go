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
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/canvas"
)

// NameCheck selects how the names of paired entries are compared.
// Entries are always paired by position; the name check only reports
// pairs whose names look unrelated.
type NameCheck int

// These are the supported name checks.
const (
	NameCheckWarn NameCheck = iota
	NameCheckOff
	NameCheckStrict
)

func (c NameCheck) String() string {
	switch c {
	case NameCheckWarn:
		return "warn"
	case NameCheckOff:
		return "off"
	case NameCheckStrict:
		return "strict"
	default:
		return fmt.Sprintf("NameCheck(%d)", int(c))
	}
}

// ParseNameCheck converts "off", "warn" or "strict" into a [NameCheck].
func ParseNameCheck(s string) (NameCheck, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn", "":
		return NameCheckWarn, nil
	case "off", "none":
		return NameCheckOff, nil
	case "strict":
		return NameCheckStrict, nil
	default:
		return 0, fmt.Errorf("invalid name check %q", s)
	}
}

// Pair describes two corresponding archive entries.
type Pair struct {
	Index      int
	Primary    string
	Reference  string
	Similarity float64
}

// Similarity returns a number between 0 and 1 which describes how similar
// the strings a and b are.  Identical strings have similarity 1.
func Similarity(a, b string) float64 {
	n := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if n == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(n)
}

// Pairs lists the pairs which [Run] would draw, without drawing anything.
// The same precondition checks as in [Run] are applied.
func Pairs(ctx context.Context, primary, reference archive.Archive, opt *Options) ([]Pair, error) {
	var res []Pair
	err := forEachPair(ctx, primary, reference, opt, func(p Pair, _, _ *canvas.Canvas) error {
		res = append(res, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// forEachPair checks the entry counts and then calls fn for every pair,
// in archive order.  Every key is resolved again before use.
func forEachPair(ctx context.Context, primary, reference archive.Archive, opt *Options,
	fn func(p Pair, pc, rc *canvas.Canvas) error) error {
	log := opt.logger()

	np, nr := primary.Len(), reference.Len()
	log.Info().Int("nplots", np).Int("nfits", nr).Msg("entries")
	if np != nr {
		log.Error().Msg("PDF output would be wrong, since the archives contain different numbers of entries")
		return &PreconditionError{
			Kind:         CountMismatch,
			NumPrimary:   np,
			NumReference: nr,
			Index:        -1,
		}
	}

	// Entries are paired by position.  This relies on both archives having
	// been written in the same order.
	pKeys := primary.Keys()
	rKeys := reference.Keys()
	if len(pKeys) != np || len(rKeys) != nr {
		return fmt.Errorf("key listing does not match entry count")
	}

	for i := range np {
		if err := ctx.Err(); err != nil {
			return err
		}

		pc, err := resolve(primary, Primary, i, pKeys[i], np, nr)
		if err != nil {
			return err
		}
		rc, err := resolve(reference, Reference, i, rKeys[i], np, nr)
		if err != nil {
			return err
		}

		p := Pair{
			Index:      i,
			Primary:    pKeys[i],
			Reference:  rKeys[i],
			Similarity: Similarity(pKeys[i], rKeys[i]),
		}
		if err := opt.checkNames(log, p, np, nr); err != nil {
			return err
		}

		if err := fn(p, pc, rc); err != nil {
			return err
		}
	}
	return nil
}

func resolve(a archive.Archive, side Side, i int, name string, np, nr int) (*canvas.Canvas, error) {
	c, err := a.Get(name)
	if errors.Is(err, archive.ErrNotFound) {
		return nil, &PreconditionError{
			Kind:         StaleKey,
			NumPrimary:   np,
			NumReference: nr,
			Index:        i,
			Side:         side,
			Name:         name,
			Err:          err,
		}
	} else if err != nil {
		return nil, fmt.Errorf("%s entry %q: %w", side, name, err)
	}
	return c, nil
}

func (opt *Options) checkNames(log *zerolog.Logger, p Pair, np, nr int) error {
	check := NameCheckWarn
	minSim := DefaultMinSimilarity
	if opt != nil {
		check = opt.NameCheck
		if opt.MinSimilarity > 0 {
			minSim = opt.MinSimilarity
		}
	}
	if check == NameCheckOff || p.Similarity >= minSim {
		return nil
	}

	if check == NameCheckStrict {
		return &PreconditionError{
			Kind:         NameMismatch,
			NumPrimary:   np,
			NumReference: nr,
			Index:        p.Index,
			Names:        [2]string{p.Primary, p.Reference},
			Similarity:   p.Similarity,
		}
	}
	log.Warn().
		Int("pair", p.Index+1).
		Str("plot", p.Primary).
		Str("fit", p.Reference).
		Float64("similarity", p.Similarity).
		Msg("paired entries have dissimilar names")
	return nil
}
