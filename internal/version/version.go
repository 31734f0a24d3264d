// Package version reports the build identity of the upwell binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via ldflags:
//
//	-X github.com/upwell-app/upwell/internal/version.Version=v1.2.0
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Full is the version with commit, build date and platform.
func Full() string {
	return fmt.Sprintf("%s (%s) %s %s/%s", Version, Commit, Date, runtime.GOOS, runtime.GOARCH)
}

func Short() string {
	return Version
}

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fromBuildInfo(info)
	}
}

// fromBuildInfo fills whichever of Version, Commit and Date still hold their
// placeholder, so `go install` builds report something useful. Values given
// through ldflags are never overwritten.
func fromBuildInfo(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	if Version == "dev" {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			Version = v
		}
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		case "vcs.time":
			if Date == "unknown" && s.Value != "" {
				Date = s.Value
			}
		}
	}
	if Commit == "none" && rev != "" {
		Commit = shortRevision(rev)
		if dirty {
			Commit += "+dirty"
		}
	}
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
