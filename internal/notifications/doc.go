// Package notifications delivers unlock announcements to the user. A Sink is
// selected once at startup from configuration: desktop transports shell out
// to the platform notifier, the console sink writes to the daemon log, and
// the noop sink swallows everything. Publish failures never affect the
// achievements file; callers log and move on.
package notifications
