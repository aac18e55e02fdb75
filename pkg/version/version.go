// Package version holds build information for the verifier binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   string // Set via ldflags.
	BuildDate string // Set via ldflags.

	Revision  = readRevision()
	GoVersion = runtime.Version()
	Platform  = runtime.GOOS + "/" + runtime.GOARCH
)

// GetVersion returns the release version, falling back to the module version
// for `go install` builds and to the VCS revision otherwise.
func GetVersion() string {
	if Version != "" {
		return Version
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	return Revision
}

// Info returns a one line description of the build.
func Info() string {
	s := fmt.Sprintf("%s (revision %s, %s, %s)", GetVersion(), Revision, GoVersion, Platform)
	if BuildDate != "" {
		s += " built " + BuildDate
	}

	return s
}

func readRevision() string {
	rev := "unknown"

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return rev
	}

	modified := false

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value[:min(len(s.Value), 7)]
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
