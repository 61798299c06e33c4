package version

import (
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if BuildTime == "" || GitCommit == "" {
		t.Error("build metadata should be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "mdsite "+Version) {
		t.Errorf("String() = %q, want prefix %q", s, "mdsite "+Version)
	}
	if !strings.Contains(s, GitCommit) {
		t.Errorf("String() = %q should mention commit %q", s, GitCommit)
	}
}
