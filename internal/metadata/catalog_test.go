package metadata_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/metadata"
)

func writeDescriptor(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "achievements.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return path
}

func TestLoadCatalogAndDescribe(t *testing.T) {
	dir := t.TempDir()
	iconRel := filepath.Join("icons", "bronze.png")
	iconAbs := filepath.Join(dir, iconRel)
	if err := os.MkdirAll(filepath.Dir(iconAbs), 0o755); err != nil {
		t.Fatalf("make icon dir: %v", err)
	}
	if err := os.WriteFile(iconAbs, []byte("png"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	path := writeDescriptor(t, dir, `[
		{"name": "Trophy_Bronze_First", "displayName": "First Steps", "description": "Finish the tutorial.", "icon": "icons/bronze.png"},
		{"name": "Trophy_NoIcon", "displayName": "Iconless"},
		{"name": "", "displayName": "Dropped"}
	]`)

	catalog := metadata.LoadCatalog(path, logging.NewNop())
	if catalog.Len() != 2 {
		t.Fatalf("unexpected catalog size: %d", catalog.Len())
	}

	display := catalog.Describe("Trophy_Bronze_First")
	if display.Title != "First Steps" {
		t.Fatalf("unexpected title: %q", display.Title)
	}
	if display.Body != "Finish the tutorial." {
		t.Fatalf("unexpected body: %q", display.Body)
	}
	if display.IconPath != iconAbs {
		t.Fatalf("unexpected icon path: %q want %q", display.IconPath, iconAbs)
	}

	display = catalog.Describe("Trophy_NoIcon")
	if display.Title != "Iconless" || display.Body != metadata.DefaultBody || display.IconPath != "" {
		t.Fatalf("unexpected display: %+v", display)
	}
}

func TestDescribeUnknownTrophyFallsBack(t *testing.T) {
	catalog := metadata.LoadCatalog("", logging.NewNop())

	display := catalog.Describe("Trophy_Mystery")
	if display.Title != "Trophy_Mystery" {
		t.Fatalf("expected identifier fallback title, got %q", display.Title)
	}
	if display.Body != metadata.DefaultBody {
		t.Fatalf("expected default body, got %q", display.Body)
	}
	if display.IconPath != "" {
		t.Fatalf("expected no icon, got %q", display.IconPath)
	}
}

func TestLoadCatalogMissingOrMalformed(t *testing.T) {
	missing := metadata.LoadCatalog(filepath.Join(t.TempDir(), "absent.json"), logging.NewNop())
	if missing.Len() != 0 {
		t.Fatalf("expected empty catalog for missing file, got %d", missing.Len())
	}

	malformedPath := writeDescriptor(t, t.TempDir(), `{"not": "a list"}`)
	malformed := metadata.LoadCatalog(malformedPath, logging.NewNop())
	if malformed.Len() != 0 {
		t.Fatalf("expected empty catalog for malformed file, got %d", malformed.Len())
	}
}

func TestDescribeDropsMissingIcon(t *testing.T) {
	dir := t.TempDir()
	path := writeDescriptor(t, dir, `[
		{"name": "Trophy_Gone", "displayName": "Gone", "icon": "icons/gone.png"}
	]`)

	catalog := metadata.LoadCatalog(path, logging.NewNop())
	if display := catalog.Describe("Trophy_Gone"); display.IconPath != "" {
		t.Fatalf("expected missing icon to be dropped, got %q", display.IconPath)
	}
}

func TestDescribeAbsoluteIconPath(t *testing.T) {
	dir := t.TempDir()
	iconAbs := filepath.Join(dir, "gold.png")
	if err := os.WriteFile(iconAbs, []byte("png"), 0o644); err != nil {
		t.Fatalf("write icon: %v", err)
	}

	path := writeDescriptor(t, dir, `[
		{"name": "Trophy_Gold", "icon": "`+iconAbs+`"}
	]`)

	catalog := metadata.LoadCatalog(path, logging.NewNop())
	if display := catalog.Describe("Trophy_Gold"); display.IconPath != iconAbs {
		t.Fatalf("expected absolute icon path kept, got %q", display.IconPath)
	}
}
