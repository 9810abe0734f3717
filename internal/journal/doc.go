// Package journal persists unlock detections in a SQLite database so that
// history survives daemon restarts. Each row records the trophy identifier,
// the display title at detection time, the decoded unlock timestamp, and the
// sync pass that observed it. The journal is append-only; failures here are
// reported but never block a sync pass.
package journal
