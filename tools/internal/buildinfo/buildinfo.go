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

// Package buildinfo reports the version of the command line tools.
package buildinfo

import (
	"runtime/debug"
)

// Info identifies the build of a tool.
type Info struct {
	Path     string
	Version  string
	Revision string
	Dirty    bool
}

// Read returns the build information of the running binary.
func Read() *Info {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return &Info{}
	}
	return fromBuildInfo(bi)
}

func fromBuildInfo(bi *debug.BuildInfo) *Info {
	info := &Info{Path: bi.Main.Path}
	if v := bi.Main.Version; v != "(devel)" {
		info.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Label returns the version, or a shortened VCS revision if the module
// version is not known.  The empty string is returned if neither is
// available.
func (info *Info) Label() string {
	if info.Version != "" {
		return info.Version
	}
	rev := info.Revision
	if rev == "" {
		return ""
	}
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if info.Dirty {
		rev += "+dirty"
	}
	return rev
}

// Short returns a short version string for a tool, e.g.
// "rate-pdf (seehuhn.de/go/ratepdf v0.1.0)".
func Short(toolName string) string {
	return Read().short(toolName)
}

func (info *Info) short(toolName string) string {
	label := info.Label()
	if label == "" {
		return toolName
	}
	return toolName + " (" + info.Path + " " + label + ")"
}
