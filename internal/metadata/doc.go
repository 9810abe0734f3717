// Package metadata loads the optional achievements descriptor used to enrich
// unlock notifications with display names, descriptions, and icons. Absence
// of the descriptor, or of an entry for a given trophy, is never an error;
// the trophy identifier serves as the fallback display name.
package metadata
