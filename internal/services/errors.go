package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrParse            = errors.New("parse error")
	ErrDecode           = errors.New("decode error")
	ErrSourceRead       = errors.New("source read error")
	ErrTargetRead       = errors.New("target read error")
	ErrTargetWrite      = errors.New("target write error")
	ErrNotification     = errors.New("notification error")
	ErrJournal          = errors.New("journal error")
	ErrWatchSetup       = errors.New("watch setup error")
	ErrConfiguration    = errors.New("configuration error")
	ErrDaemonNotRunning = errors.New("daemon not running")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrParse
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether an error must terminate the daemon rather than be
// contained within a sync pass. Only watch establishment failures qualify.
func IsFatal(err error) bool {
	return errors.Is(err, ErrWatchSetup)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
