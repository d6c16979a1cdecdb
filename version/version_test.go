package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	got := Describe("soundscape-play")
	if !strings.HasPrefix(got, "soundscape-play "+VersionOrHash) {
		t.Errorf("Describe() = %q, want prefix with version %q", got, VersionOrHash)
	}
	if !strings.Contains(got, runtime.GOOS) {
		t.Errorf("Describe() = %q does not mention %v", got, runtime.GOOS)
	}
	if VersionOrHash == "" {
		t.Error("VersionOrHash is empty")
	}
}
