package logging

import (
	"context"
	"log/slog"

	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for daemon run identifiers.
	FieldRunID = "run_id"
	// FieldPassID is the standardized structured logging key for sync pass identifiers.
	FieldPassID = "pass_id"
	// FieldTrophyID is the standardized structured logging key for trophy identifiers.
	FieldTrophyID = "trophy_id"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
	// FieldEventType is the standardized structured logging key for notable event names.
	FieldEventType = "event_type"
	// FieldErrorHint carries a short operator-facing remediation hint.
	FieldErrorHint = "error_hint"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := services.PassIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldPassID, id))
	}
	if name, ok := services.ComponentFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldComponent, name))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
