// Where: internal/version/version_test.go
// What: Tests for version resolution order.
// Why: Ensure stamped builds win over module and VCS metadata.
package version

import (
	"runtime/debug"
	"testing"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo, ok bool) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, ok }
	t.Cleanup(func() { readBuildInfo = prev })
}

func TestGetVersion(t *testing.T) {
	cases := []struct {
		name    string
		stamped string
		info    *debug.BuildInfo
		ok      bool
		want    string
	}{
		{name: "stamped", stamped: "v1.2.3", ok: false, want: "v1.2.3"},
		{name: "no build info", ok: false, want: "dev"},
		{name: "module version", info: &debug.BuildInfo{Main: debug.Module{Version: "v0.4.0"}}, ok: true, want: "v0.4.0"},
		{
			name: "dirty revision",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			ok:   true,
			want: "0123456 (dirty)",
		},
		{name: "devel without vcs", info: &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, ok: true, want: "dev"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			prev := Version
			Version = tc.stamped
			t.Cleanup(func() { Version = prev })
			withBuildInfo(t, tc.info, tc.ok)
			if got := GetVersion(); got != tc.want {
				t.Fatalf("GetVersion() = %q, want %q", got, tc.want)
			}
		})
	}
}
