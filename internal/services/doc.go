// Package services defines shared utilities consumed by the sync pipeline
// components.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, pass IDs, and component names for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that keep failure
//     classification (contained vs fatal) uniform across components.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability) stays consistent.
package services
