package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/preflight"
	"github.com/pytatbro/metaltrophysolidv/internal/syncer"
	"github.com/pytatbro/metaltrophysolidv/internal/watcher"
)

// Daemon owns the watch loop and enforces single-instance execution. Sync
// passes triggered by watch events and by IPC requests are serialized on one
// mutex so the tracker only ever sees one pass at a time.
type Daemon struct {
	cfg   *config.Config
	log   *slog.Logger
	sync  *syncer.Syncer
	watch *watcher.Watcher
	store *journal.Store
	sink  notifications.Sink

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time

	passMu sync.Mutex

	mu         sync.Mutex
	passes     int
	lastPass   *syncer.PassResult
	lastPassAt time.Time
	lastError  string
	checks     []preflight.Result

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool
	PID         int
	StartedAt   time.Time
	WatchedPath string
	TargetPath  string
	Passes      int
	LastPass    *syncer.PassResult
	LastPassAt  time.Time
	LastError   string
	KnownCount  int
	SinkName    string
	JournalPath string
	LockPath    string
	SocketPath  string
	Checks      []preflight.Result
}

// New constructs a daemon with initialized collaborators. store may be nil
// when the journal is disabled and sink may be nil when notifications are
// off.
func New(cfg *config.Config, logger *slog.Logger, s *syncer.Syncer, w *watcher.Watcher, store *journal.Store, sink notifications.Sink) (*Daemon, error) {
	if cfg == nil || s == nil || w == nil {
		return nil, errors.New("daemon requires config, syncer, and watcher")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		log:      logging.NewComponentLogger(logger, "daemon"),
		sync:     s,
		watch:    w,
		store:    store,
		sink:     sink,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		stopped:  make(chan struct{}),
	}, nil
}

// Start acquires the instance lock, runs preflight checks and one startup
// sync pass, then launches the watch loop.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another trophyd instance holds %s", d.lockPath)
	}

	checks := preflight.RunAll(d.cfg, d.sink)
	d.mu.Lock()
	d.checks = checks
	d.mu.Unlock()
	for _, check := range checks {
		if check.Passed {
			continue
		}
		d.log.Warn("preflight check failed",
			logging.String("check", check.Name),
			logging.String("detail", check.Detail),
		)
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.startedAt = time.Now()
	d.running.Store(true)

	// Startup pass: trophies unlocked while the daemon was down are synced
	// before the first filesystem event arrives.
	if _, err := d.RunPass(d.ctx); err != nil {
		d.log.Warn("startup sync pass failed", logging.Error(err))
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		err := d.watch.Run(d.ctx, func(ctx context.Context, _ watcher.Event) {
			_, _ = d.RunPass(ctx)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			d.log.Error("watch loop exited", logging.Error(err))
		}
	}()

	d.log.Info("trophyd daemon started",
		logging.String("lock", d.lockPath),
		logging.String(logging.FieldPath, d.watch.Source()),
	)
	return nil
}

// RunPass executes one serialized sync pass and records its outcome for
// status reporting. Pass failures are contained; the error is returned for
// the caller that asked but never stops the daemon.
func (d *Daemon) RunPass(ctx context.Context) (*syncer.PassResult, error) {
	d.passMu.Lock()
	result, err := d.sync.RunPass(ctx)
	d.passMu.Unlock()

	d.mu.Lock()
	d.passes++
	d.lastPassAt = time.Now()
	if result != nil {
		d.lastPass = result
	}
	if err != nil {
		d.lastError = err.Error()
	} else {
		d.lastError = ""
	}
	d.mu.Unlock()

	if err != nil {
		d.log.Error("sync pass failed", logging.Error(err))
	}
	return result, err
}

// Status returns a point-in-time snapshot of daemon state.
func (d *Daemon) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	status := Status{
		Running:     d.running.Load(),
		PID:         os.Getpid(),
		StartedAt:   d.startedAt,
		WatchedPath: d.cfg.Paths.StatsFile,
		TargetPath:  d.cfg.Paths.AchievementsFile,
		Passes:      d.passes,
		LastPass:    d.lastPass,
		LastPassAt:  d.lastPassAt,
		LastError:   d.lastError,
		KnownCount:  d.sync.KnownCount(),
		LockPath:    d.lockPath,
		SocketPath:  d.cfg.SocketPath(),
		Checks:      d.checks,
	}
	if d.sink != nil {
		status.SinkName = d.sink.Name()
	}
	if d.store != nil {
		status.JournalPath = d.store.Path()
	}
	return status
}

// History returns recent unlock journal rows, newest first.
func (d *Daemon) History(ctx context.Context, limit int) ([]journal.Entry, error) {
	if d.store == nil {
		return nil, errors.New("journal disabled")
	}
	return d.store.Recent(ctx, limit)
}

// TestNotification pushes a test message through the configured sink.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if d.sink == nil {
		return false, "notifications disabled", nil
	}
	err := d.sink.Publish(ctx, notifications.Notification{
		Title: "trophyd",
		Body:  "Notifications are working.",
	})
	if err != nil {
		return false, err.Error(), err
	}
	return true, fmt.Sprintf("sent via %s backend", d.sink.Name()), nil
}

// Stop shuts the watch loop down, waits for an in-flight pass to finish, and
// releases the instance lock. Safe to call more than once.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		d.stopOnce.Do(func() { close(d.stopped) })
		return
	}

	if d.cancel != nil {
		d.cancel()
	}
	_ = d.watch.Close()
	d.wg.Wait()

	if err := d.lock.Unlock(); err != nil {
		d.log.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.log.Info("trophyd daemon stopped")
	d.stopOnce.Do(func() { close(d.stopped) })
}

// Stopped is closed once Stop has completed. The run loop uses it to exit
// after an IPC-initiated shutdown.
func (d *Daemon) Stopped() <-chan struct{} {
	return d.stopped
}

// Close stops the daemon and closes the journal store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}
