package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

// Kind classifies an accepted source file event.
type Kind string

const (
	KindWrite  Kind = "write"
	KindCreate Kind = "create"
	KindRename Kind = "rename"
)

// Event is one accepted change to the source file.
type Event struct {
	Path string
	Kind Kind
	At   time.Time
}

// Handler processes one accepted event. Invocations are serialized on the
// watch loop goroutine.
type Handler func(ctx context.Context, event Event)

// Watcher monitors the source file's parent directory and forwards debounced
// events for the source file itself. Emulators rewrite the stats file in
// place or replace it atomically, so writes, creates, and renames all count.
type Watcher struct {
	source  string
	dir     string
	fsw     *fsnotify.Watcher
	limiter *RateLimiter
	logger  *slog.Logger
}

// New registers a non-recursive watch on the source file's parent directory.
// Registration failure is the one fatal error in the watch pipeline.
func New(cfg *config.Config, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	source, err := filepath.Abs(cfg.Paths.StatsFile)
	if err != nil {
		return nil, services.Wrap(services.ErrWatchSetup, "watcher", "resolve source path", cfg.Paths.StatsFile, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, services.Wrap(services.ErrWatchSetup, "watcher", "create watcher", "", err)
	}

	dir := filepath.Dir(source)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, services.Wrap(services.ErrWatchSetup, "watcher", "watch directory", dir, err)
	}

	return &Watcher{
		source:  source,
		dir:     dir,
		fsw:     fsw,
		limiter: NewRateLimiter(time.Duration(cfg.Sync.DebounceMS) * time.Millisecond),
		logger:  logging.NewComponentLogger(logger, "watcher"),
	}, nil
}

// Source returns the absolute path of the watched file.
func (w *Watcher) Source() string { return w.source }

// Close releases the underlying fsnotify watcher. Run returns once the event
// channel drains.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run owns the event loop until ctx is canceled or the watcher is closed.
// Watch errors are logged and the loop continues.
func (w *Watcher) Run(ctx context.Context, handler Handler) error {
	w.logger.Info("watching for source changes",
		logging.String(logging.FieldPath, w.source),
		logging.Duration("debounce", w.limiter.interval),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			accepted, ok := w.convertEvent(event)
			if !ok {
				continue
			}
			if !w.limiter.Allow(accepted.Path, accepted.At) {
				w.logger.Debug("event debounced",
					logging.String(logging.FieldPath, accepted.Path),
					logging.String(logging.FieldEventType, string(accepted.Kind)),
				)
				continue
			}
			w.logger.Debug("source event accepted",
				logging.String(logging.FieldPath, accepted.Path),
				logging.String(logging.FieldEventType, string(accepted.Kind)),
			)
			handler(ctx, accepted)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

// convertEvent filters directory noise down to source file changes.
func (w *Watcher) convertEvent(event fsnotify.Event) (Event, bool) {
	path, err := filepath.Abs(event.Name)
	if err != nil || path != w.source {
		return Event{}, false
	}

	var kind Kind
	switch {
	case event.Has(fsnotify.Write):
		kind = KindWrite
	case event.Has(fsnotify.Create):
		kind = KindCreate
	case event.Has(fsnotify.Rename):
		kind = KindRename
	default:
		return Event{}, false
	}

	return Event{Path: path, Kind: kind, At: time.Now()}, true
}
