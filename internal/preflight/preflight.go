package preflight

import (
	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes the filesystem and notification checks for the given
// config. A nil sink skips the notification check.
func RunAll(cfg *config.Config, sink notifications.Sink) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckFileReadable("Source file", cfg.Paths.StatsFile))
	results = append(results, CheckDirectoryAccess("Target directory", targetDir(cfg)))
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	if cfg.Paths.MetadataFile != "" {
		results = append(results, CheckFileReadable("Metadata descriptor", cfg.Paths.MetadataFile))
	}
	if sink != nil {
		results = append(results, CheckNotifier(sink))
	}

	return results
}

// AllPassed reports whether every check in results succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
