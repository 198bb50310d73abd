package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevelAndRunID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Out: &buf, RunID: "abc"})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, `"run":"abc"`) {
		t.Errorf("expected warn message with run id, got %s", out)
	}
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "loud", Out: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug")
	Info().Msg("info")
	if strings.Contains(buf.String(), `"message":"debug"`) {
		t.Error("debug logged with fallback level")
	}
	if !strings.Contains(buf.String(), `"message":"info"`) {
		t.Errorf("info missing: %s", buf.String())
	}
}
