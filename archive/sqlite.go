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
	"embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/ratepdf/canvas"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	readDSN  = "file:%s?mode=ro&_busy_timeout=5000"
	writeDSN = "file:%s?_foreign_keys=on&_busy_timeout=5000"
)

// canvasNamespace is used to derive canvas ids from canvas names.
var canvasNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://seehuhn.de/go/ratepdf/canvas"))

// canvasID returns the database id of the canvas with the given name.
// Names are NFC normalized first.
func canvasID(name string) string {
	return uuid.NewSHA1(canvasNamespace, []byte(norm.NFC.String(name))).String()
}

// migrateUp brings the database schema of the file at path up to date.
// The file is created if needed.
func migrateUp(path string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite3://"+path)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// sqliteArchive is an archive stored in an SQLite database.
type sqliteArchive struct {
	*index
	db *sql.DB
}

func openSQLite(path string) (*sqliteArchive, error) {
	// mode=ro does not report missing files in a useful way
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf(readDSN, path))
	if err != nil {
		return nil, err
	}

	names, err := listNames(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	ix, err := newIndex(names)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteArchive{index: ix, db: db}, nil
}

func listNames(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT name FROM canvases ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Get implements the [Archive] interface.
func (a *sqliteArchive) Get(name string) (*canvas.Canvas, error) {
	if a.db == nil {
		return nil, errClosed
	}
	i, ok := a.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	stored := a.keys[i]

	var id string
	var fitType sql.NullString
	var fitMSE, fitSigmas float64
	c := &canvas.Canvas{}
	err := a.db.QueryRow(`SELECT id, name, title, x_label, y_label, x_min, x_max, y_max,
			fit_type, fit_mse, fit_sigmas
		FROM canvases WHERE name = ?`, stored).Scan(
		&id, &c.Name, &c.Title, &c.XLabel, &c.YLabel, &c.XMin, &c.XMax, &c.YMax,
		&fitType, &fitMSE, &fitSigmas)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}

	c.Series, err = a.readSeries(id)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}

	if fitType.Valid {
		params, err := a.readParams(id)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		c.Fit = &canvas.Fit{
			Type:   fitType.String,
			Params: params,
			MSE:    fitMSE,
			Sigmas: fitSigmas,
		}
	}
	return c, nil
}

func (a *sqliteArchive) readSeries(id string) ([]*canvas.Series, error) {
	rows, err := a.db.Query(`SELECT label FROM series WHERE canvas_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	var series []*canvas.Series
	for rows.Next() {
		s := &canvas.Series{}
		if err := rows.Scan(&s.Label); err != nil {
			rows.Close()
			return nil, err
		}
		series = append(series, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = a.db.Query(`SELECT series, x, y FROM points WHERE canvas_id = ? ORDER BY series, seq`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var k int
		var x, y sql.NullFloat64
		if err := rows.Scan(&k, &x, &y); err != nil {
			return nil, err
		}
		if k < 0 || k >= len(series) {
			return nil, fmt.Errorf("point belongs to unknown series %d", k)
		}
		s := series[k]
		s.X = append(s.X, nullToNaN(x))
		s.Y = append(s.Y, nullToNaN(y))
	}
	return series, rows.Err()
}

func (a *sqliteArchive) readParams(id string) ([]float64, error) {
	rows, err := a.db.Query(`SELECT value FROM fit_params WHERE canvas_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	params := []float64{}
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		params = append(params, v)
	}
	return params, rows.Err()
}

// Close implements the [Archive] interface.
func (a *sqliteArchive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

func nullToNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func nanToNull(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
