package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/daemon"
	"github.com/pytatbro/metaltrophysolidv/internal/ipc"
	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/syncer"
	"github.com/pytatbro/metaltrophysolidv/internal/testsupport"
	"github.com/pytatbro/metaltrophysolidv/internal/tracker"
	"github.com/pytatbro/metaltrophysolidv/internal/watcher"
)

const statsOneTrophy = "[Trophy_A]\nState=0101\nTime=B0BA866959290000\n\n"

type cliTestEnv struct {
	cfg        *config.Config
	store      *journal.Store
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	baseDir    string
	cancel     context.CancelFunc
}

// setupCLITestEnv starts a real daemon plus IPC server against temp paths so
// commands exercise the same wire path as a deployed binary.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(0))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, statsOneTrophy)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "trophyd", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenJournal(t, cfg)

	logger := logging.NewNop()
	watch, err := watcher.New(cfg, logger)
	if err != nil {
		t.Fatalf("watcher.New: %v", err)
	}
	sink := notifications.NewSink(cfg, logger)
	sync := syncer.New(cfg, logger, tracker.New(nil), nil, store, sink)

	d, err := daemon.New(cfg, logger, sync, watch, store, sink)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("daemon.Start: %v", err)
	}

	socketPath := filepath.Join(cfg.Paths.DataDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("unix sockets unavailable: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		store:      store,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		baseDir:    base,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

// setupOfflineCLIEnv provisions config and stats files but no daemon, so
// commands hit their direct fallback paths.
func setupOfflineCLIEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(0))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, statsOneTrophy)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "trophyd", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		socketPath: filepath.Join(cfg.Paths.DataDir, "offline.sock"),
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nstats_file = %q\nachievements_file = %q\ndata_dir = %q\nlog_dir = %q\n\n[sync]\ndebounce_ms = %d\n\n[notifications]\nenabled = true\nbackend = \"console\"\n\n[journal]\nenabled = true\n",
		cfg.Paths.StatsFile,
		cfg.Paths.AchievementsFile,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Sync.DebounceMS,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
