// Package tracker maintains the set of trophy identifiers already observed
// across sync passes and classifies each pass's trophies into previously
// known versus newly unlocked. The set grows monotonically for the lifetime
// of the process.
package tracker
