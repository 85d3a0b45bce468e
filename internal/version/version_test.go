package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestGetInfo(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version = "1.0.0"
	Commit = "abc123def456"
	Date = "2026-01-01T12:00:00Z"
	defer func() {
		Version, Commit, Date = origVersion, origCommit, origDate
	}()

	info := GetInfo()

	if info.Version != "1.0.0" {
		t.Errorf("GetInfo().Version = %v, want 1.0.0", info.Version)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GetInfo().GoVersion = %v, want %v", info.GoVersion, runtime.Version())
	}
	if !strings.Contains(info.Platform, runtime.GOOS) {
		t.Errorf("GetInfo().Platform = %v, want it to contain %v", info.Platform, runtime.GOOS)
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "0.3.0",
		Commit:    "abc123def456",
		Date:      "2026-01-01",
		GoVersion: "go1.24.6",
		Platform:  "linux/amd64",
	}

	want := "testrank 0.3.0 (abc123de) built 2026-01-01 with go1.24.6 for linux/amd64"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := info.Short(); got != "0.3.0" {
		t.Errorf("Short() = %q, want 0.3.0", got)
	}
}
