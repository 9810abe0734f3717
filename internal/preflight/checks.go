package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
)

// CheckFileReadable verifies that the path names a readable regular file.
// The source file legitimately appears only after the emulator's first
// write, so a missing file fails with an explanatory detail rather than an
// error state.
func CheckFileReadable(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (does not exist yet)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := accessRead(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read ok)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := accessWrite(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckNotifier reports whether the selected notification backend can
// actually deliver on this machine.
func CheckNotifier(sink notifications.Sink) Result {
	const name = "Notifications"

	if sink.Available() {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("backend %s ready", sink.Name())}
	}
	return Result{Name: name, Detail: fmt.Sprintf("backend %s unavailable", sink.Name())}
}

func targetDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.AchievementsFile)
}
