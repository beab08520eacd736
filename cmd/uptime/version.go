package main

import (
	"fmt"
	"runtime/debug"
)

// version is stamped at release: -ldflags "-X main.version=v1.0.0".
var version = ""

// buildInfo describes the running binary for `uptime version`.
type buildInfo struct {
	Version   string
	Revision  string
	GoVersion string
}

func (b buildInfo) String() string {
	s := "uptime " + b.Version
	switch {
	case b.Revision != "" && b.GoVersion != "":
		s += fmt.Sprintf(" (%s, %s)", b.Revision, b.GoVersion)
	case b.GoVersion != "":
		s += fmt.Sprintf(" (%s)", b.GoVersion)
	}
	return s
}

// readBuildInfo prefers the stamped version, then the module version of a
// `go install pkg@version` build, then "dev".
func readBuildInfo() buildInfo {
	info, _ := debug.ReadBuildInfo()
	return newBuildInfo(version, info)
}

func newBuildInfo(stamped string, info *debug.BuildInfo) buildInfo {
	b := buildInfo{Version: "dev"}
	if info != nil {
		b.GoVersion = info.GoVersion
		if v := info.Main.Version; v != "" && v != "(devel)" {
			b.Version = v
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				b.Revision = shortRevision(s.Value)
			}
		}
	}
	if stamped != "" {
		b.Version = stamped
	}
	return b
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
