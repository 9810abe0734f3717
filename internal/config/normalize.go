package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeJournal(); err != nil {
		return err
	}
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StatsFile == "" {
		if value, ok := os.LookupEnv("TROPHYD_STATS_FILE"); ok {
			c.Paths.StatsFile = strings.TrimSpace(value)
		}
	}
	if c.Paths.AchievementsFile == "" {
		if value, ok := os.LookupEnv("TROPHYD_ACHIEVEMENTS_FILE"); ok {
			c.Paths.AchievementsFile = strings.TrimSpace(value)
		}
	}
	if c.Paths.StatsFile != "" {
		if c.Paths.StatsFile, err = expandPath(c.Paths.StatsFile); err != nil {
			return fmt.Errorf("paths.stats_file: %w", err)
		}
	}
	if c.Paths.AchievementsFile != "" {
		if c.Paths.AchievementsFile, err = expandPath(c.Paths.AchievementsFile); err != nil {
			return fmt.Errorf("paths.achievements_file: %w", err)
		}
	}
	if c.Paths.MetadataFile != "" {
		if c.Paths.MetadataFile, err = expandPath(c.Paths.MetadataFile); err != nil {
			return fmt.Errorf("paths.metadata_file: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeJournal() error {
	c.Journal.Path = strings.TrimSpace(c.Journal.Path)
	if c.Journal.Path != "" {
		var err error
		if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
			return fmt.Errorf("journal.path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeNotifications() {
	c.Notifications.Backend = strings.ToLower(strings.TrimSpace(c.Notifications.Backend))
	if c.Notifications.Backend == "" {
		c.Notifications.Backend = defaultNotifyBackend
	}
	if !c.Notifications.Enabled {
		c.Notifications.Backend = "none"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
