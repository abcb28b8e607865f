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
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/ratepdf/canvas"
)

// Writer creates a new SQLite archive.
type Writer struct {
	db    *sql.DB
	path  string
	names map[string]bool
}

// Create creates a new SQLite archive at path.  The file must not exist.
// Canvases are added using [Writer.Add], and the archive must be closed
// using [Writer.Close].
func Create(path string) (*Writer, error) {
	_, err := os.Stat(path)
	if err == nil {
		return nil, &OpenError{Path: path, Err: fs.ErrExist}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &OpenError{Path: path, Err: err}
	}

	err = migrateUp(path)
	if err != nil {
		os.Remove(path)
		return nil, &OpenError{Path: path, Err: err}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf(writeDSN, path))
	if err != nil {
		os.Remove(path)
		return nil, &OpenError{Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)

	w := &Writer{
		db:    db,
		path:  path,
		names: make(map[string]bool),
	}
	return w, nil
}

// Add appends a canvas to the archive.
func (w *Writer) Add(c *canvas.Canvas) error {
	if w.db == nil {
		return errClosed
	}
	err := c.Validate()
	if err != nil {
		return err
	}
	key := norm.NFC.String(c.Name)
	if w.names[key] {
		return fmt.Errorf("%w %q", ErrDuplicate, c.Name)
	}

	id := canvasID(c.Name)
	err = withTx(w.db, func(tx *sql.Tx) error {
		var fitType sql.NullString
		var fitMSE, fitSigmas float64
		if c.Fit != nil {
			fitType = sql.NullString{String: c.Fit.Type, Valid: true}
			fitMSE = c.Fit.MSE
			fitSigmas = c.Fit.Sigmas
		}
		_, err := tx.Exec(`INSERT INTO canvases
			(id, position, name, title, x_label, y_label, x_min, x_max, y_max,
			 fit_type, fit_mse, fit_sigmas)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, len(w.names), c.Name, c.Title, c.XLabel, c.YLabel,
			c.XMin, c.XMax, c.YMax, fitType, fitMSE, fitSigmas)
		if err != nil {
			return err
		}

		for k, s := range c.Series {
			_, err := tx.Exec(`INSERT INTO series (canvas_id, position, label) VALUES (?, ?, ?)`,
				id, k, s.Label)
			if err != nil {
				return err
			}
			for j := range s.X {
				_, err := tx.Exec(`INSERT INTO points (canvas_id, series, seq, x, y) VALUES (?, ?, ?, ?, ?)`,
					id, k, j, nanToNull(s.X[j]), nanToNull(s.Y[j]))
				if err != nil {
					return err
				}
			}
		}

		if c.Fit != nil {
			for i, v := range c.Fit.Params {
				_, err := tx.Exec(`INSERT INTO fit_params (canvas_id, idx, value) VALUES (?, ?, ?)`,
					id, i, v)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name, err)
	}

	w.names[key] = true
	return nil
}

// Len returns the number of canvases added so far.
func (w *Writer) Len() int {
	return len(w.names)
}

// Close closes the archive.
func (w *Writer) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}

// withTx runs fn in a transaction.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
