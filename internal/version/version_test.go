package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	t.Cleanup(func() { Commit, Date = origCommit, origDate })

	tests := []struct {
		name   string
		commit string
		date   string
		want   string
	}{
		{"dev build", "unknown", "unknown", "wallhue version dev ("},
		{"release", "0123456789abcdef", "2026-01-02T03:04:05Z", "commit: 01234567, built: 2026-01-02T03:04:05Z"},
		{"short commit", "abc", "2026-01-02T03:04:05Z", "commit: abc,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Commit, Date = tt.commit, tt.date
			if got := String(); !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version != Short() {
		t.Errorf("Info.Version = %q, Short() = %q", info.Version, Short())
	}
	if !strings.Contains(info.Platform, "/") {
		t.Errorf("Platform = %q", info.Platform)
	}
}
