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

// Package profile enables the runtime profilers for the command line tools.
package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler writes CPU and memory profiles.
type Profiler struct {
	cpuFile *os.File
	memPath string
}

// Start begins CPU profiling, if cpuPath is non-empty.  The memory profile
// is written to memPath, if this is non-empty, when [Profiler.Stop] is
// called.
func Start(cpuPath, memPath string) (*Profiler, error) {
	p := &Profiler{memPath: memPath}
	if cpuPath == "" {
		return p, nil
	}

	fd, err := os.Create(cpuPath)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	err = pprof.StartCPUProfile(fd)
	if err != nil {
		fd.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	p.cpuFile = fd
	return p, nil
}

// Stop ends CPU profiling and writes the memory profile.
func (p *Profiler) Stop() error {
	var errs []error
	if p.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, p.cpuFile.Close())
		p.cpuFile = nil
	}
	if p.memPath != "" {
		errs = append(errs, writeHeapProfile(p.memPath))
		p.memPath = ""
	}
	return errors.Join(errs...)
}

func writeHeapProfile(path string) error {
	fd, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	runtime.GC()
	allocs := pprof.Lookup("allocs")
	if allocs == nil {
		fd.Close()
		return errors.New("could not look up memory profile")
	}
	err = allocs.WriteTo(fd, 0)
	if err != nil {
		fd.Close()
		return fmt.Errorf("could not write memory profile: %w", err)
	}
	return fd.Close()
}
