package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp paths per test. It
// defaults common fields and applies any provided options. Notifications are
// routed to the console backend so tests never reach a desktop transport.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StatsFile = filepath.Join(base, "source", "stats.ini")
	cfgVal.Paths.AchievementsFile = filepath.Join(base, "target", "achievements.ini")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Notifications.Backend = "console"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMetadataFile points the config at an achievements descriptor.
func WithMetadataFile(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.MetadataFile = path
	}
}

// WithDebounce overrides the event debounce interval in milliseconds.
func WithDebounce(ms int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.DebounceMS = ms
	}
}

// WithPreserveMissing toggles retention of trophies absent from the source.
func WithPreserveMissing(preserve bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sync.PreserveMissing = preserve
	}
}

// WithOnlyAchieved narrows notifications to achieved trophies.
func WithOnlyAchieved(only bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.OnlyAchieved = only
	}
}

// WithNotificationsDisabled turns the notification pipeline off entirely.
func WithNotificationsDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.Enabled = false
		b.cfg.Notifications.Backend = "none"
	}
}

// WithJournalDisabled turns off unlock history persistence.
func WithJournalDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Journal.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
