// Package achievements owns the launcher-compatible achievements file.
//
// The file layout is load-bearing: an index section whose positional entries
// precede the count line, then one section per trophy with Achieved,
// CurProgress, MaxProgress, and UnlockTime fields. The writer reproduces that
// layout byte for byte and replaces the file atomically; the reader recovers
// prior state so trophies missing from a later stats read can be preserved.
package achievements
