// Package logging assembles the structured slog loggers used across trophyd
// components.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can
// automatically tag log lines with run IDs, pass IDs, and component names. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail, plus retention pruning for per-run daemon log files.
//
// Prefer these constructors over hand-rolled slog setup so components emit
// data with the same shape and routing as the rest of the system.
package logging
