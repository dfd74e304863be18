package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewLogger_UsesJSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "debug", Writer: &buf, Component: "devevent"})
	lg.Debug("boot", "k", "v")

	out := strings.TrimSpace(buf.String())
	if !strings.Contains(out, `"level":"DEBUG"`) {
		t.Fatalf("expected DEBUG level, got %s", out)
	}
	if !strings.Contains(out, `"component":"devevent"`) {
		t.Fatalf("expected component field, got %s", out)
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Level: "info", Format: "text", Writer: &buf})
	lg.Info("hello", "k", "v")

	out := buf.String()
	if strings.Contains(out, "{") {
		t.Fatalf("expected text output, got %s", out)
	}
	if !strings.Contains(out, "msg=hello") {
		t.Fatalf("expected message attr, got %s", out)
	}
}

func TestNewLogger_DefaultLevelSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogger(Options{Writer: &buf})
	lg.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug should be suppressed at default level, got %s", buf.String())
	}
}
