package notifications

import (
	"context"
	"log/slog"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
)

// Notification is one user-facing unlock message.
type Notification struct {
	Title    string
	Body     string
	IconPath string
}

// Sink delivers notifications to the user.
type Sink interface {
	Publish(ctx context.Context, n Notification) error
	Name() string
	Available() bool
}

// NewSink selects a notification backend from the configuration. The auto
// backend prefers a desktop transport when one is present on PATH and falls
// back to console logging otherwise.
func NewSink(cfg *config.Config, logger *slog.Logger) Sink {
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logging.NewComponentLogger(logger, "notifications")

	if cfg == nil || !cfg.Notifications.Enabled {
		return noopSink{}
	}

	switch cfg.Notifications.Backend {
	case "none":
		return noopSink{}
	case "console":
		return &consoleSink{logger: log}
	case "desktop":
		return newDesktopSink(log)
	}

	desktop := newDesktopSink(log)
	if desktop.Available() {
		return desktop
	}
	return &consoleSink{logger: log}
}

type noopSink struct{}

func (noopSink) Publish(context.Context, Notification) error { return nil }
func (noopSink) Name() string                                { return "none" }
func (noopSink) Available() bool                             { return true }

// consoleSink writes unlock lines to the daemon log. It never fails.
type consoleSink struct {
	logger *slog.Logger
}

func (c *consoleSink) Publish(_ context.Context, n Notification) error {
	c.logger.Info("ACHIEVEMENT UNLOCKED",
		logging.String("title", n.Title),
		logging.String("body", n.Body),
	)
	return nil
}

func (c *consoleSink) Name() string    { return "console" }
func (c *consoleSink) Available() bool { return true }
