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

// Package logging sets up the diagnostic output of the command line tools.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Environment variables which override the logging configuration.
const (
	EnvLogLevel   = "RATEPDF_LOG_LEVEL"
	EnvLogNoColor = "RATEPDF_LOG_NOCOLOR"
)

// Profile selects a set of logging defaults.
type Profile int

// These are the supported profiles.
const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Config describes a logger.
type Config struct {
	Level     zerolog.Level
	NoColor   bool
	Timestamp bool
}

// DefaultConfig returns the configuration for the given profile, with
// environment overrides applied.
func DefaultConfig(profile Profile) Config {
	var cfg Config
	switch profile {
	case ProfileTest:
		cfg.Level = zerolog.DebugLevel
		cfg.NoColor = true
	default:
		cfg.Level = zerolog.InfoLevel
		cfg.NoColor = !term.IsTerminal(int(os.Stdout.Fd()))
		cfg.Timestamp = true
	}
	applyEnvOverrides(&cfg)
	return cfg
}

// New returns a logger which writes human readable messages to w.
func New(w io.Writer, cfg Config) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.TimeOnly,
	}
	if !cfg.Timestamp {
		out.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	return zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
}

// SetLevel changes cfg.Level if raw names a valid level.
// The return value indicates whether the level was changed.
func SetLevel(cfg *Config, raw string) bool {
	lvl, ok := parseLevel(raw)
	if ok {
		cfg.Level = lvl
	}
	return ok
}

func applyEnvOverrides(cfg *Config) {
	SetLevel(cfg, os.Getenv(EnvLogLevel))
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
