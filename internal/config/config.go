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

// Package config loads the settings of the rate-pdf command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfig names the environment variable which selects the config file.
const EnvConfig = "RATEPDF_CONFIG"

// Config holds the command settings.
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Pairing PairingConfig `mapstructure:"pairing"`
	Style   StyleConfig   `mapstructure:"style"`
	Log     LogConfig     `mapstructure:"log"`
}

// OutputConfig controls the generated PDF file.
type OutputConfig struct {
	Overwrite  bool   `mapstructure:"overwrite"`
	PDFVersion string `mapstructure:"pdf_version"`
}

// PairingConfig controls how archive entries are paired.
type PairingConfig struct {
	NameCheck     string  `mapstructure:"name_check"`
	MinSimilarity float64 `mapstructure:"min_similarity"`
}

// StyleConfig selects the style sheet.
type StyleConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads the configuration.  Values are taken, in order of
// precedence, from environment variables with prefix RATEPDF_, from the
// config file, and from the built-in defaults.
//
// If path is empty, the file named by $RATEPDF_CONFIG is used, or else
// $HOME/.config/ratepdf/config.toml if it exists.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("output.overwrite", false)
	v.SetDefault("output.pdf_version", "1.7")
	v.SetDefault("pairing.name_check", "warn")
	v.SetDefault("pairing.min_similarity", 0.5)
	v.SetDefault("style.path", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "ratepdf"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RATEPDF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && (explicit || !errors.As(err, &notFound)) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
