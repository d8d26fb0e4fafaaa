// Package buildinfo exposes the version stamped into the binary.
//
// Release builds inject the three variables through ldflags:
//
//	go build -ldflags "\
//	  -X github.com/nichetrace/nichetrace/pkg/buildinfo.Version=v1.0.0 \
//	  -X github.com/nichetrace/nichetrace/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	  -X github.com/nichetrace/nichetrace/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A plain `go install` stamps nothing; [Effective] then falls back to
// the module version the toolchain embeds on its own.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Stamped by ldflags; see the package comment.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Effective resolves the version to report: the stamped one when
// present, otherwise the module version from the embedded build info.
func Effective() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// String formats the build information for --version output.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Effective(), Commit, Date)
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Effective(), Commit, Date)
}
