// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report a release tag when stamped at link time, else the VCS revision.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version is set at link time: -ldflags "-X github.com/poruru/mlstack/internal/version.Version=v0.3.0".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version, the module version for `go install`
// builds, or the short VCS revision. It returns "dev" when nothing is known.
func GetVersion() string {
	if Version != "" {
		return Version
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
