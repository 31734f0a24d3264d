package version

import (
	"runtime"
	"runtime/debug"
	"strings"
	"testing"
)

func TestFull(t *testing.T) {
	result := Full()
	if !strings.Contains(result, Version) {
		t.Errorf("Full() %q does not contain version %q", result, Version)
	}
	if !strings.HasSuffix(result, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Full() %q does not end with the platform", result)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != Version {
		t.Errorf("Short() = %q, want %q", got, Version)
	}
}

func resetVars(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = "dev", "none", "unknown"
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestFromBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
		wantDate    string
	}{
		{
			name:        "nil info",
			info:        nil,
			wantVersion: "dev", wantCommit: "none", wantDate: "unknown",
		},
		{
			name: "tagged module build",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abcdef1234567890"},
					{Key: "vcs.time", Value: "2024-05-20T10:00:00Z"},
				},
			},
			wantVersion: "v0.3.0", wantCommit: "abcdef1", wantDate: "2024-05-20T10:00:00Z",
		},
		{
			name: "devel build keeps dev",
			info: &debug.BuildInfo{
				Main:     debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "123"}},
			},
			wantVersion: "dev", wantCommit: "123", wantDate: "unknown",
		},
		{
			name: "modified tree",
			info: &debug.BuildInfo{
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abcdef1234567890"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVersion: "dev", wantCommit: "abcdef1+dirty", wantDate: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetVars(t)
			fromBuildInfo(tt.info)
			if Version != tt.wantVersion || Commit != tt.wantCommit || Date != tt.wantDate {
				t.Errorf("got (%q, %q, %q), want (%q, %q, %q)",
					Version, Commit, Date, tt.wantVersion, tt.wantCommit, tt.wantDate)
			}
		})
	}
}

func TestFromBuildInfo_LdflagsWin(t *testing.T) {
	resetVars(t)
	Version, Commit, Date = "v1.0.0", "release", "2024-01-01"
	fromBuildInfo(&debug.BuildInfo{
		Main: debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef1234567890"},
			{Key: "vcs.time", Value: "2023-01-01T00:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})
	if Version != "v1.0.0" || Commit != "release" || Date != "2024-01-01" {
		t.Errorf("ldflags values overwritten: (%q, %q, %q)", Version, Commit, Date)
	}
}
