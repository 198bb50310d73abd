package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "ulabox-report "+Version) {
		t.Fatalf("unexpected info %q", info)
	}
	if !strings.Contains(info, "commit: "+Commit) {
		t.Fatalf("info %q does not carry the commit", info)
	}
	if Short() != Version {
		t.Fatalf("Short() = %q, want %q", Short(), Version)
	}
}
