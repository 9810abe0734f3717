package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/testsupport"
)

func TestCheckFileReadable_OK(t *testing.T) {
	f := filepath.Join(t.TempDir(), "stats.ini")
	if err := os.WriteFile(f, []byte("[Trophy_A]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckFileReadable("test", f)
	if !result.Passed {
		t.Fatalf("expected pass for readable file, got: %s", result.Detail)
	}
}

func TestCheckFileReadable_NotExist(t *testing.T) {
	result := CheckFileReadable("test", filepath.Join(t.TempDir(), "nope.ini"))
	if result.Passed {
		t.Fatal("expected failure for missing file")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckFileReadable_Directory(t *testing.T) {
	result := CheckFileReadable("test", t.TempDir())
	if result.Passed {
		t.Fatal("expected failure for directory path")
	}
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestRunAllCoversConfiguredPaths(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "[Trophy_A]\n")

	sink := notifications.NewSink(cfg, logging.NewNop())
	results := RunAll(cfg, sink)

	byName := make(map[string]Result, len(results))
	for _, result := range results {
		byName[result.Name] = result
	}
	for _, name := range []string{"Source file", "Target directory", "Data directory", "Log directory", "Notifications"} {
		result, ok := byName[name]
		if !ok {
			t.Errorf("missing check %q", name)
			continue
		}
		if !result.Passed {
			t.Errorf("%s failed: %s", name, result.Detail)
		}
	}
	if !AllPassed(results) {
		t.Errorf("AllPassed = false for %+v", results)
	}
}

func TestRunAllReportsMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := RunAll(cfg, nil)
	if AllPassed(results) {
		t.Fatal("expected the source check to fail before the emulator's first write")
	}
	for _, result := range results {
		if result.Name == "Source file" && result.Passed {
			t.Errorf("source check passed for a missing file: %s", result.Detail)
		}
	}
}
