package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, false)

	l.LogInfo("sitemap %s found", "x")
	l.LogDebug("hidden")
	l.LogError("boom: %d", 42)

	out := buf.String()
	if !strings.Contains(out, "[INFO] sitemap x found") {
		t.Errorf("missing info line in %q", out)
	}
	if !strings.Contains(out, "[ERROR] boom: 42") {
		t.Errorf("missing error line in %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged with debug off: %q", out)
	}
}

func TestFileLogger(t *testing.T) {
	dir := t.TempDir()
	l, err := NewFileLogger(dir, "Sitemap Server", true)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.LogDebug("visible")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "sitemap_server", "sitemap_server_*.log"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one log file, got %v (%v)", matches, err)
	}
	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "[DEBUG] visible") {
		t.Errorf("unexpected log content %q", b)
	}
}
