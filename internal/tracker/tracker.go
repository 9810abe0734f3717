package tracker

import "sort"

// Classify splits currentIDs into the identifiers not yet present in known
// and returns the monotonic union of both sets. newIDs keeps the order of
// currentIDs; the union never shrinks.
func Classify(currentIDs []string, known map[string]struct{}) (newIDs []string, updated map[string]struct{}) {
	updated = make(map[string]struct{}, len(known)+len(currentIDs))
	for id := range known {
		updated[id] = struct{}{}
	}
	for _, id := range currentIDs {
		if _, seen := updated[id]; seen {
			continue
		}
		updated[id] = struct{}{}
		newIDs = append(newIDs, id)
	}
	return newIDs, updated
}

// Tracker owns the known-trophy set across sync passes. It is not safe for
// concurrent use; the orchestrator serializes passes on one goroutine.
type Tracker struct {
	known map[string]struct{}
}

// New returns a tracker seeded with previously observed identifiers.
func New(seed []string) *Tracker {
	known := make(map[string]struct{}, len(seed))
	for _, id := range seed {
		known[id] = struct{}{}
	}
	return &Tracker{known: known}
}

// Observe classifies currentIDs against the known set and absorbs them,
// returning the newly seen identifiers in currentIDs order.
func (t *Tracker) Observe(currentIDs []string) []string {
	newIDs, updated := Classify(currentIDs, t.known)
	t.known = updated
	return newIDs
}

// Contains reports whether the identifier has been observed.
func (t *Tracker) Contains(id string) bool {
	_, ok := t.known[id]
	return ok
}

// Len returns the number of known identifiers.
func (t *Tracker) Len() int { return len(t.known) }

// Known returns a sorted snapshot of the known identifiers.
func (t *Tracker) Known() []string {
	ids := make([]string, 0, len(t.known))
	for id := range t.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
