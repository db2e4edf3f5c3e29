package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDisabledIsNoop(t *testing.T) {
	if err := Initialize(Options{}); err != nil {
		t.Fatalf("Initialize with empty file should not fail: %v", err)
	}
	// Must not panic or write anywhere.
	Boot("hello %s", "world")
	Sync()
}

func TestInitializeWritesToFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "logs", "clinicterm.log")

	if err := Initialize(Options{Level: "debug", Format: "console", File: file}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	API("listing patients")
	APIDebug("request id=%s", "abc")
	Sync()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "listing patients") {
		t.Errorf("expected info entry in log output, got: %s", out)
	}
	if !strings.Contains(out, "request id=abc") {
		t.Errorf("expected debug entry in log output, got: %s", out)
	}

	// Reset for other tests.
	if err := Initialize(Options{}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "clinicterm.log")

	if err := Initialize(Options{Level: "info", Format: "console", File: file}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	UIDebug("hidden")
	SetLevel("debug")
	UIDebug("visible")
	Sync()

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry should be filtered at info level, got: %s", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("debug entry should appear after SetLevel(debug), got: %s", out)
	}

	if err := Initialize(Options{}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
}
