// Package daemon coordinates the long-running trophyd process: one instance
// lock, one watch loop, one serialized stream of sync passes, and the status
// snapshot the IPC surface reports from.
package daemon
