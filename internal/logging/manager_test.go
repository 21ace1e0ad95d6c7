// pattern: Imperative Shell

package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, level string, console *bytes.Buffer) (*Manager, string) {
	t.Helper()
	logFile := filepath.Join(t.TempDir(), "logs", "gitscan.log")
	cfg := Config{FilePath: logFile, Level: level}
	if console != nil {
		cfg.Console = console
	}
	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, logFile
}

func TestNewManager_RequiresFilePath(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("expected error for empty FilePath")
	}
}

func TestManager_ForCachesByScope(t *testing.T) {
	mgr, _ := newTestManager(t, "info", nil)

	a := mgr.For("discovery.walker")
	if a != mgr.For("discovery.walker") {
		t.Error("For() should return the cached logger for the same scope")
	}
	if a == mgr.For("cli") {
		t.Error("For() should return distinct loggers for distinct scopes")
	}
	if a.Scope() != "discovery.walker" {
		t.Errorf("Scope() = %q, want %q", a.Scope(), "discovery.walker")
	}
}

func TestManager_WritesJSONToFile(t *testing.T) {
	mgr, logFile := newTestManager(t, "info", nil)

	mgr.For("cli").Info("scan finished", "entries", 3)
	mgr.For("cli").Debug("suppressed at info level")
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"scan finished"`) {
		t.Errorf("log file missing message, got %s", out)
	}
	if !strings.Contains(out, `"logger":"cli"`) {
		t.Errorf("log file missing logger name, got %s", out)
	}
	if !strings.Contains(out, `"entries":3`) {
		t.Errorf("log file missing field, got %s", out)
	}
	if strings.Contains(out, "suppressed") {
		t.Errorf("debug entry written at info level: %s", out)
	}
}

func TestManager_ConsoleCopy(t *testing.T) {
	var console bytes.Buffer
	mgr, _ := newTestManager(t, "debug", &console)

	mgr.For("discovery").Debug("classified directory", "kind", "git")
	_ = mgr.Sync()

	if !strings.Contains(console.String(), "classified directory") {
		t.Errorf("console output missing entry: %q", console.String())
	}
	if !strings.Contains(console.String(), "discovery") {
		t.Errorf("console output missing logger name: %q", console.String())
	}
}

func TestManager_InvalidLevelFallsBackToInfo(t *testing.T) {
	mgr, logFile := newTestManager(t, "loud", nil)

	mgr.For("app").Debug("hidden")
	mgr.For("app").Info("shown")
	_ = mgr.Sync()

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(data), "hidden") {
		t.Error("debug entry should be filtered with fallback level")
	}
	if !strings.Contains(string(data), "shown") {
		t.Error("info entry should be written with fallback level")
	}
}
