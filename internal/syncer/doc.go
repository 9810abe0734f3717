// Package syncer orchestrates one pass of the trophy pipeline: parse the
// emulator's stats file, rewrite the launcher's achievements file, and
// announce trophies seen for the first time. The daemon triggers a pass at
// startup and on every accepted watch event; the one-shot sync command runs
// the same code path.
package syncer
