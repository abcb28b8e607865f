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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"

	"seehuhn.de/go/pdf"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/internal/config"
	"seehuhn.de/go/ratepdf/internal/logging"
	"seehuhn.de/go/ratepdf/pairexport"
	"seehuhn.de/go/ratepdf/report"
	"seehuhn.de/go/ratepdf/style"
	"seehuhn.de/go/ratepdf/tools/internal/buildinfo"
	"seehuhn.de/go/ratepdf/tools/internal/profile"
)

const toolName = "rate-pdf"

var (
	outArg     = flag.String("o", "", "write the PDF to `file`")
	forceArg   = flag.Bool("f", false, "overwrite an existing output file")
	configArg  = flag.String("config", "", "read settings from `file`")
	styleArg   = flag.String("style", "", "read the style sheet from `file`")
	namesArg   = flag.String("names", "", "name check: off, warn or strict")
	dryRunArg  = flag.Bool("n", false, "list the pairs, but don't write a PDF file")
	verboseArg = flag.Bool("v", false, "show debug messages")
	versionArg = flag.Bool("version", false, "print version information and exit")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s \u2014 merge rate plots and reference fits into a PDF file\n", toolName)
		fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short(toolName))
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options] <plots> <fits>\n\n", toolName)
		fmt.Fprintf(os.Stderr, "Arguments:\n")
		fmt.Fprintf(os.Stderr, "  plots   archive with the rate plots (.root, .sqlite, .db, .yaml)\n")
		fmt.Fprintf(os.Stderr, "  fits    archive with the reference fits, same number of entries\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s run42.root fits.root          # writes run42.pdf\n", toolName)
		fmt.Fprintf(os.Stderr, "  %s -n -names strict run42.yaml fits.yaml\n", toolName)
	}
	flag.Parse()

	if *versionArg {
		fmt.Println(buildinfo.Short(toolName))
		return
	}
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	opt := &options{
		out:        *outArg,
		force:      *forceArg,
		configPath: *configArg,
		stylePath:  *styleArg,
		names:      *namesArg,
		dryRun:     *dryRunArg,
		verbose:    *verboseArg,
		cpuprofile: *cpuprofile,
		memprofile: *memprofile,
	}
	if err := run(os.Stdout, opt, flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", toolName, err)
		os.Exit(1)
	}
}

// options holds the command line settings.
type options struct {
	out        string
	force      bool
	configPath string
	stylePath  string
	names      string
	dryRun     bool
	verbose    bool
	cpuprofile string
	memprofile string
}

// run merges the two archives.  Diagnostics and the dry-run listing are
// written to stdout.
func run(stdout io.Writer, opt *options, primaryPath, referencePath string) (err error) {
	prof, err := profile.Start(opt.cpuprofile, opt.memprofile)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, prof.Stop())
	}()

	cfg, err := config.Load(opt.configPath)
	if err != nil {
		return err
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	logging.SetLevel(&logCfg, cfg.Log.Level)
	if opt.verbose {
		logCfg.Level = zerolog.DebugLevel
	}
	log := logging.New(stdout, logCfg)

	nameCheck := cfg.Pairing.NameCheck
	if opt.names != "" {
		nameCheck = opt.names
	}
	check, err := pairexport.ParseNameCheck(nameCheck)
	if err != nil {
		return err
	}

	st, err := loadStyle(cfg, opt.stylePath)
	if err != nil {
		return err
	}
	theme, err := st.Theme()
	if err != nil {
		return err
	}
	paper, err := st.PaperSize()
	if err != nil {
		return err
	}

	outPath := opt.out
	if outPath == "" {
		outPath, err = pairexport.OutputPath(primaryPath)
		if err != nil {
			return err
		}
	}

	primary, err := archive.Open(primaryPath)
	if err != nil {
		return err
	}
	defer primary.Close()
	reference, err := archive.Open(referencePath)
	if err != nil {
		return err
	}
	defer reference.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exportOpt := &pairexport.Options{
		NameCheck:     check,
		MinSimilarity: cfg.Pairing.MinSimilarity,
		Theme:         theme,
		Logger:        &log,
	}

	if opt.dryRun {
		pairs, err := pairexport.Pairs(ctx, primary, reference, exportOpt)
		if err != nil {
			return err
		}
		return printPairs(stdout, pairs, exportOpt.MinSimilarity, !logCfg.NoColor)
	}

	if !opt.force && !cfg.Output.Overwrite {
		_, err := os.Stat(outPath)
		if err == nil {
			return fmt.Errorf("%s: %w (use -f to overwrite)", outPath, fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	version, err := pdf.ParseVersion(cfg.Output.PDFVersion)
	if err != nil {
		return fmt.Errorf("output.pdf_version: %w", err)
	}

	doc := report.Create(outPath, &report.Options{
		Paper:   paper,
		Version: version,
		Title:   filepath.Base(primaryPath),
		Creator: buildinfo.Short(toolName),
		Margin:  st.Margin,
		Gap:     st.Gap,
	})
	sum, err := pairexport.Run(ctx, primary, reference, doc, exportOpt)
	if err != nil {
		return err
	}

	log.Info().
		Str("file", outPath).
		Int("pages", sum.Pages).
		Msg("PDF written")
	return nil
}

func loadStyle(cfg config.Config, override string) (*style.Style, error) {
	path := cfg.Style.Path
	if override != "" {
		path = override
	}
	if path == "" {
		return style.Default(), nil
	}
	return style.Load(path)
}
