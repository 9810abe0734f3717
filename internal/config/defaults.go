package config

const (
	defaultDataDir          = "~/.local/share/trophyd"
	defaultLogDir           = "~/.local/share/trophyd/logs"
	defaultDebounceMS       = 500
	defaultNotifyBackend    = "auto"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 30
)

// Default returns a Config populated with repository defaults. The stats and
// achievements file paths have no sensible defaults and must be supplied by
// the user.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Sync: Sync{
			DebounceMS:      defaultDebounceMS,
			PreserveMissing: true,
		},
		Notifications: Notifications{
			Enabled: true,
			Backend: defaultNotifyBackend,
		},
		Journal: Journal{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
