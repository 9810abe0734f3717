package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StatsFile == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/trophyd/config.toml"
		}
		return fmt.Errorf("paths.stats_file is required. Set TROPHYD_STATS_FILE env var or edit %s (create with 'trophyd config init')", defaultPath)
	}
	if c.Paths.AchievementsFile == "" {
		return errors.New("paths.achievements_file is required (the launcher file trophyd rewrites)")
	}
	if c.Paths.StatsFile == c.Paths.AchievementsFile {
		return errors.New("paths.stats_file and paths.achievements_file must differ")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.DebounceMS < 0 {
		return errors.New("sync.debounce_ms must be >= 0")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	switch c.Notifications.Backend {
	case "auto", "desktop", "console", "none":
		return nil
	default:
		return fmt.Errorf("notifications.backend must be one of auto, desktop, console, none (got %q)", c.Notifications.Backend)
	}
}
