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
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"seehuhn.de/go/ratepdf/archive"
	"seehuhn.de/go/ratepdf/tools/internal/buildinfo"
)

const toolName = "plot-archive"

func usage() {
	fmt.Fprintf(os.Stderr, "%s \u2014 create and inspect rate plot archives\n", toolName)
	fmt.Fprintf(os.Stderr, "%s\n\n", buildinfo.Short(toolName))
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  %s pack -o <out.sqlite> <in>...\n", toolName)
	fmt.Fprintf(os.Stderr, "  %s list <archive>\n", toolName)
	fmt.Fprintf(os.Stderr, "  %s dump <archive>\n\n", toolName)
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  pack   copy the entries of all input archives into a new SQLite archive\n")
	fmt.Fprintf(os.Stderr, "  list   list the entries of an archive\n")
	fmt.Fprintf(os.Stderr, "  dump   write an archive in YAML format to standard output\n\n")
	fmt.Fprintf(os.Stderr, "Examples:\n")
	fmt.Fprintf(os.Stderr, "  %s pack -o run42.sqlite run42.yaml\n", toolName)
	fmt.Fprintf(os.Stderr, "  %s dump fits.root > fits.yaml\n", toolName)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	cmd, args := flag.Arg(0), flag.Args()[1:]
	switch cmd {
	case "pack":
		fs := flag.NewFlagSet("pack", flag.ExitOnError)
		out := fs.String("o", "", "write the archive to `file`")
		fs.Parse(args)
		if *out == "" || fs.NArg() < 1 {
			usage()
			os.Exit(2)
		}
		var n int
		n, err = pack(*out, fs.Args())
		if err == nil {
			fmt.Printf("%s: %d entries\n", *out, n)
		}
	case "list", "dump":
		if len(args) != 1 {
			usage()
			os.Exit(2)
		}
		err = show(os.Stdout, args[0], cmd == "dump")
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n\n", toolName, cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", toolName, err)
		os.Exit(1)
	}
}

// pack creates a new SQLite archive at out, containing the entries of all
// input archives in order.  If an error occurs, out is removed.
func pack(out string, inputs []string) (_ int, err error) {
	w, err := archive.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, w.Close())
		if err != nil {
			os.Remove(out)
		}
	}()

	for _, in := range inputs {
		err := copyEntries(w, in)
		if err != nil {
			return 0, err
		}
	}
	return w.Len(), nil
}

func copyEntries(w *archive.Writer, in string) error {
	a, err := archive.Open(in)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, name := range a.Keys() {
		c, err := a.Get(name)
		if err != nil {
			return err
		}
		err = w.Add(c)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}
	}
	return nil
}

// show writes the entries of an archive to w, either as a summary table
// or as a complete YAML document.
func show(w io.Writer, path string, dump bool) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()

	if dump {
		return archive.WriteYAML(w, a)
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tname\tseries\tpoints\tfit")
	for i, name := range a.Keys() {
		c, err := a.Get(name)
		if err != nil {
			return err
		}
		fit := "-"
		if c.Fit != nil {
			fit = c.Fit.Type
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", i+1, name, len(c.Series), c.NumPoints(), fit)
	}
	return tw.Flush()
}
