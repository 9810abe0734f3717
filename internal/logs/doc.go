// Package logs locates and tails the daemon's log files for the CLI.
//
// Daemon runs write timestamped files under log_dir with a trophyd.log
// pointer at the newest one. Resolve follows that pointer (falling back to
// the newest timestamped file), ReadLast and ReadFrom read with bounded
// memory, and Follow polls for appended lines until the context ends,
// restarting from the top when the file is swapped out by a daemon restart.
package logs
