package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFallbackWriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closeLog, err := New(Options{Level: "info", Fallback: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeLog()

	logger.Debug("hidden")
	logger.Info("shown", "id", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "id=3") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "tada") {
		t.Errorf("missing prefix: %q", out)
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")
	logger, closeLog, err := New(Options{File: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("to file")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Errorf("log file = %q", b)
	}
}

func TestBadLevel(t *testing.T) {
	if _, _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestDiscardByDefault(t *testing.T) {
	logger, closeLog, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closeLog()
	logger.Error("goes nowhere")
}
