// Package trophies parses the emulator stats file into trophy unlock records.
//
// The stats file is INI-shaped with one Trophy_* section per trophy. Each
// section needs a State field (a two-character prefix of "01" means achieved)
// and a Time field whose first 8 hex characters encode the unlock timestamp
// as a little-endian unsigned 32-bit integer. Sections that fail validation
// are skipped, never fatal, so one corrupt entry cannot block a sync pass.
package trophies
