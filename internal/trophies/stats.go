package trophies

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/ini.v1"

	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

// SectionPrefix marks the stats sections that describe trophies.
const SectionPrefix = "Trophy_"

const (
	stateKey = "State"
	timeKey  = "Time"
)

// Trophy is one unlock record recovered from the stats file.
type Trophy struct {
	ID         string
	Achieved   bool
	UnlockTime uint32
}

// Stats holds the trophies parsed from one stats read, in file order.
type Stats struct {
	trophies []Trophy
	byID     map[string]int
}

// Len returns the number of parsed trophies.
func (s *Stats) Len() int {
	if s == nil {
		return 0
	}
	return len(s.trophies)
}

// Empty reports whether the parse produced no trophies.
func (s *Stats) Empty() bool { return s.Len() == 0 }

// IDs returns the trophy identifiers in file order.
func (s *Stats) IDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, len(s.trophies))
	for i, trophy := range s.trophies {
		ids[i] = trophy.ID
	}
	return ids
}

// Trophies returns the parsed records in file order.
func (s *Stats) Trophies() []Trophy {
	if s == nil {
		return nil
	}
	out := make([]Trophy, len(s.trophies))
	copy(out, s.trophies)
	return out
}

// Lookup returns the record for the given identifier.
func (s *Stats) Lookup(id string) (Trophy, bool) {
	if s == nil {
		return Trophy{}, false
	}
	idx, ok := s.byID[id]
	if !ok {
		return Trophy{}, false
	}
	return s.trophies[idx], true
}

func (s *Stats) add(trophy Trophy) {
	if _, exists := s.byID[trophy.ID]; exists {
		return
	}
	s.byID[trophy.ID] = len(s.trophies)
	s.trophies = append(s.trophies, trophy)
}

func newStats() *Stats {
	return &Stats{byID: make(map[string]int)}
}

// ParseStats reads the emulator stats file and returns the trophies whose
// sections carry both a state and a usable time field. Sections failing
// validation are skipped with a warning; a missing file yields an empty
// result because there is nothing to sync yet.
func ParseStats(path string, logger *slog.Logger) (*Stats, error) {
	log := logging.NewComponentLogger(logger, "trophies")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Debug("stats file not present yet", logging.String(logging.FieldPath, path))
			return newStats(), nil
		}
		return nil, services.Wrap(services.ErrSourceRead, "trophies", "read stats", path, err)
	}

	decoded, err := decodeStatsBytes(data)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "trophies", "decode stats text", path, err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		SkipUnrecognizableLines: true,
	}, decoded)
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "trophies", "parse stats", path, err)
	}

	stats := newStats()
	for _, section := range file.Sections() {
		name := section.Name()
		if name == ini.DefaultSection || !strings.HasPrefix(name, SectionPrefix) {
			continue
		}
		trophy, reason := parseSection(section)
		if reason != "" {
			log.Warn("trophy section skipped",
				logging.String(logging.FieldTrophyID, name),
				logging.String("reason", reason),
			)
			continue
		}
		stats.add(trophy)
	}
	return stats, nil
}

// parseSection validates one Trophy_* section. It returns a non-empty reason
// when the section must be skipped.
func parseSection(section *ini.Section) (Trophy, string) {
	name := section.Name()

	if !section.HasKey(stateKey) {
		return Trophy{}, "missing state field"
	}
	state := strings.TrimSpace(section.Key(stateKey).String())
	if state == "" {
		return Trophy{}, "empty state field"
	}

	if !section.HasKey(timeKey) {
		return Trophy{}, "missing time field"
	}
	timeField := strings.TrimSpace(section.Key(timeKey).String())
	if timeField == "" {
		return Trophy{}, "empty time field"
	}
	if len(timeField) < timeFieldHexChars {
		return Trophy{}, "time field shorter than 8 hex characters"
	}

	unlockTime, err := DecodeUnlockTime(timeField)
	if err != nil {
		return Trophy{}, "time field is not valid hex"
	}

	return Trophy{
		ID:         name,
		Achieved:   strings.HasPrefix(state, "01"),
		UnlockTime: unlockTime,
	}, ""
}

// decodeStatsBytes tolerates the encodings Windows emulators produce: plain
// UTF-8, UTF-8 with BOM, and UTF-16 with BOM all come back as UTF-8 bytes.
func decodeStatsBytes(data []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return io.ReadAll(transform.NewReader(bytes.NewReader(data), decoder))
}
