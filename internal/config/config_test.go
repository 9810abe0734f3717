package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
)

func TestLoadDefaultConfigUsesEnvPathsAndExpands(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TROPHYD_STATS_FILE", "~/emu/stats.ini")
	t.Setenv("TROPHYD_ACHIEVEMENTS_FILE", "~/launcher/achievements.ini")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "emu", "stats.ini"); cfg.Paths.StatsFile != want {
		t.Fatalf("unexpected stats file: got %q want %q", cfg.Paths.StatsFile, want)
	}
	if want := filepath.Join(tempHome, "launcher", "achievements.ini"); cfg.Paths.AchievementsFile != want {
		t.Fatalf("unexpected achievements file: got %q want %q", cfg.Paths.AchievementsFile, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "trophyd"); cfg.Paths.DataDir != want {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, want)
	}
	if cfg.Sync.DebounceMS != 500 {
		t.Fatalf("unexpected debounce default: %d", cfg.Sync.DebounceMS)
	}
	if !cfg.Sync.PreserveMissing {
		t.Fatal("expected preserve_missing enabled by default")
	}
	if !cfg.Notifications.Enabled || cfg.Notifications.Backend != "auto" {
		t.Fatalf("unexpected notification defaults: %+v", cfg.Notifications)
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if want := filepath.Join(cfg.Paths.DataDir, "journal.db"); cfg.JournalPath() != want {
		t.Fatalf("unexpected journal path: got %q want %q", cfg.JournalPath(), want)
	}
	if want := filepath.Join(cfg.Paths.DataDir, "trophyd.sock"); cfg.SocketPath() != want {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, filepath.Dir(cfg.Paths.AchievementsFile)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "trophyd.toml")

	type payload struct {
		Paths struct {
			StatsFile        string `toml:"stats_file"`
			AchievementsFile string `toml:"achievements_file"`
		} `toml:"paths"`
		Sync struct {
			DebounceMS      int  `toml:"debounce_ms"`
			PreserveMissing bool `toml:"preserve_missing"`
		} `toml:"sync"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.StatsFile = filepath.Join(tempDir, "stats.ini")
	custom.Paths.AchievementsFile = filepath.Join(tempDir, "achievements.ini")
	custom.Sync.DebounceMS = 250
	custom.Sync.PreserveMissing = false
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Sync.DebounceMS != 250 {
		t.Fatalf("expected debounce override, got %d", cfg.Sync.DebounceMS)
	}
	if cfg.Sync.PreserveMissing {
		t.Fatal("expected preserve_missing override to false")
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestEnvVarDoesNotOverrideConfigFilePaths(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "trophyd.toml")
	statsPath := filepath.Join(tempDir, "stats.ini")
	achievementsPath := filepath.Join(tempDir, "achievements.ini")

	payload := "[paths]\nstats_file = \"" + statsPath + "\"\nachievements_file = \"" + achievementsPath + "\"\n"
	if err := os.WriteFile(configPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	t.Setenv("TROPHYD_STATS_FILE", filepath.Join(tempDir, "env-stats.ini"))

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.StatsFile != statsPath {
		t.Fatalf("expected file value to win over env fallback, got %q", cfg.Paths.StatsFile)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "stats_file") {
		t.Fatalf("sample config missing stats_file: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Sync.DebounceMS != 500 {
		t.Fatalf("expected sample debounce 500, got %d", cfg.Sync.DebounceMS)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	base := func() config.Config {
		cfg := config.Default()
		cfg.Paths.StatsFile = "/tmp/stats.ini"
		cfg.Paths.AchievementsFile = "/tmp/achievements.ini"
		return cfg
	}

	cfg := config.Default()
	cfg.Paths.AchievementsFile = "/tmp/achievements.ini"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing stats file")
	}

	cfg = base()
	cfg.Paths.AchievementsFile = cfg.Paths.StatsFile
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for identical stats and achievements paths")
	}

	cfg = base()
	cfg.Sync.DebounceMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative debounce")
	}

	cfg = base()
	cfg.Notifications.Backend = "carrier-pigeon"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown notification backend")
	}

	cfg = base()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestDisabledNotificationsNormalizeToNone(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "trophyd.toml")
	payload := "[paths]\nstats_file = \"" + filepath.Join(tempDir, "s.ini") + "\"\nachievements_file = \"" + filepath.Join(tempDir, "a.ini") + "\"\n\n[notifications]\nenabled = false\nbackend = \"desktop\"\n"
	if err := os.WriteFile(configPath, []byte(payload), 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Notifications.Backend != "none" {
		t.Fatalf("expected backend forced to none when disabled, got %q", cfg.Notifications.Backend)
	}
}
