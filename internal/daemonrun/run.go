package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/daemon"
	"github.com/pytatbro/metaltrophysolidv/internal/ipc"
	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/metadata"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
	"github.com/pytatbro/metaltrophysolidv/internal/syncer"
	"github.com/pytatbro/metaltrophysolidv/internal/tracker"
	"github.com/pytatbro/metaltrophysolidv/internal/watcher"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the trophyd daemon runtime loop and blocks until the process
// receives SIGINT/SIGTERM or a stop request arrives over IPC.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	signalCtx = services.WithRunID(signalCtx, runID)
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("trophyd-%s.log", runID))

	level := opts.LogLevel
	if strings.TrimSpace(level) == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update trophyd.log link: %v\n", err)
	}
	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays,
		logging.RetentionTarget{Dir: cfg.Paths.LogDir, Pattern: "trophyd-*.log", Exclude: []string{logPath}},
	)

	pidPath := cfg.PIDFilePath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	var store *journal.Store
	if cfg.Journal.Enabled {
		store, err = journal.Open(cfg)
		if err != nil {
			logger.Error("open unlock journal", logging.Error(err))
			return err
		}
	}

	catalog := metadata.LoadCatalog(cfg.Paths.MetadataFile, logger)
	sink := notifications.NewSink(cfg, logger)
	logStartupSnapshot(logger, cfg, sink, catalog)

	seed := syncer.SeedKnownIDs(signalCtx, cfg, store, logger)
	sync := syncer.New(cfg, logger, tracker.New(seed), catalog, store, sink)

	watch, err := watcher.New(cfg, logger)
	if err != nil {
		logger.Error("initialize stats watcher", logging.Error(err))
		if store != nil {
			_ = store.Close()
		}
		return err
	}

	d, err := daemon.New(cfg, logger, sync, watch, store, sink)
	if err != nil {
		_ = watch.Close()
		if store != nil {
			_ = store.Close()
		}
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "daemon_start_failed"),
			logging.String(logging.FieldErrorHint, "check that no other trophyd instance is running and that the stats file directory exists"),
		)
		return err
	}

	select {
	case <-signalCtx.Done():
	case <-d.Stopped():
	}
	logger.Info("trophyd daemon shutting down")
	return nil
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "trophyd.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logStartupSnapshot(logger *slog.Logger, cfg *config.Config, sink notifications.Sink, catalog *metadata.Catalog) {
	if logger == nil || cfg == nil {
		return
	}
	backend := "none"
	available := false
	if sink != nil {
		backend = sink.Name()
		available = sink.Available()
	}
	logger.Info("startup snapshot",
		logging.String(logging.FieldEventType, "startup_snapshot"),
		logging.String("stats_file", cfg.Paths.StatsFile),
		logging.String("achievements_file", cfg.Paths.AchievementsFile),
		logging.Int("debounce_ms", cfg.Sync.DebounceMS),
		logging.Bool("preserve_missing", cfg.Sync.PreserveMissing),
		logging.String("notify_backend", backend),
		logging.Bool("notify_available", available),
		logging.Bool("journal_enabled", cfg.Journal.Enabled),
		logging.Int("metadata_entries", catalog.Len()),
	)
}
