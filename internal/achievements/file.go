package achievements

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/pytatbro/metaltrophysolidv/internal/fileutil"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

// IndexSection is the achievements file section holding the trophy index.
const IndexSection = "SteamAchievements"

const (
	countKey       = "Count"
	achievedKey    = "Achieved"
	curProgressKey = "CurProgress"
	maxProgressKey = "MaxProgress"
	unlockTimeKey  = "UnlockTime"
)

// Entry is the launcher-facing record for one trophy. Progress fields are not
// modeled: the stats format carries no progress data, so they are written as
// zero on every rewrite.
type Entry struct {
	ID         string
	Achieved   bool
	UnlockTime uint32
}

// File is the full achievements file state, in write order.
type File struct {
	entries []Entry
	byID    map[string]int
}

// NewFile returns an empty achievements file state.
func NewFile() *File {
	return &File{byID: make(map[string]int)}
}

// Append adds an entry at the end of the write order. A duplicate identifier
// is ignored so callers can layer current and preserved entries without
// double bookkeeping.
func (f *File) Append(entry Entry) {
	if _, exists := f.byID[entry.ID]; exists {
		return
	}
	f.byID[entry.ID] = len(f.entries)
	f.entries = append(f.entries, entry)
}

// Len returns the number of entries.
func (f *File) Len() int {
	if f == nil {
		return 0
	}
	return len(f.entries)
}

// IDs returns the trophy identifiers in write order.
func (f *File) IDs() []string {
	if f == nil {
		return nil
	}
	ids := make([]string, len(f.entries))
	for i, entry := range f.entries {
		ids[i] = entry.ID
	}
	return ids
}

// Entries returns the records in write order.
func (f *File) Entries() []Entry {
	if f == nil {
		return nil
	}
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

// Lookup returns the entry for the given identifier.
func (f *File) Lookup(id string) (Entry, bool) {
	if f == nil {
		return Entry{}, false
	}
	idx, ok := f.byID[id]
	if !ok {
		return Entry{}, false
	}
	return f.entries[idx], true
}

// Render serializes the achievements file layout the launcher expects. The
// index lines precede the count line, every line ends with "\n", and each
// section is followed by a blank line. Consumers parse this byte for byte, so
// the layout must not drift.
func (f *File) Render() []byte {
	var b strings.Builder
	b.Grow(64 + f.Len()*96)

	b.WriteString("[")
	b.WriteString(IndexSection)
	b.WriteString("]\n")
	for i, entry := range f.entries {
		fmt.Fprintf(&b, "%05d=%s\n", i, entry.ID)
	}
	fmt.Fprintf(&b, "%s=%d\n\n", countKey, len(f.entries))

	for _, entry := range f.entries {
		achieved := 0
		if entry.Achieved {
			achieved = 1
		}
		fmt.Fprintf(&b, "[%s]\n", entry.ID)
		fmt.Fprintf(&b, "%s=%d\n", achievedKey, achieved)
		fmt.Fprintf(&b, "%s=0\n", curProgressKey)
		fmt.Fprintf(&b, "%s=0\n", maxProgressKey)
		fmt.Fprintf(&b, "%s=%d\n\n", unlockTimeKey, entry.UnlockTime)
	}

	return []byte(b.String())
}

// Write atomically replaces the achievements file with the rendered state.
func (f *File) Write(path string) error {
	if err := fileutil.WriteAtomic(path, f.Render(), 0o644); err != nil {
		return services.Wrap(services.ErrTargetWrite, "achievements", "write", path, err)
	}
	return nil
}

// LoadKnownIDs reads a prior achievements file and returns the ordered trophy
// identifiers recorded in its index section. A missing file means no prior
// state; a malformed index is logged and yields whatever was recovered.
func LoadKnownIDs(path string, logger *slog.Logger) ([]string, error) {
	prior, err := Load(path, logger)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, nil
	}
	return prior.IDs(), nil
}

// Load reads the full prior achievements file state, including per-trophy
// achieved flags and unlock times, so entries absent from a later stats read
// can be preserved. It returns nil with no error when the file does not
// exist.
func Load(path string, logger *slog.Logger) (*File, error) {
	log := logging.NewComponentLogger(logger, "achievements")

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, services.Wrap(services.ErrTargetRead, "achievements", "read", path, err)
	}

	parsed, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, data)
	if err != nil {
		log.Warn("achievements file unreadable; treating as no prior state",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
		)
		return nil, nil
	}

	index, err := parsed.GetSection(IndexSection)
	if err != nil {
		log.Warn("achievements file missing index section; treating as no prior state",
			logging.String(logging.FieldPath, path),
		)
		return nil, nil
	}

	count, err := strconv.Atoi(strings.TrimSpace(index.Key(countKey).String()))
	if err != nil || count < 0 {
		log.Warn("achievements index count malformed; treating as no prior state",
			logging.String(logging.FieldPath, path),
		)
		return nil, nil
	}

	file := NewFile()
	for i := 0; i < count; i++ {
		slot := fmt.Sprintf("%05d", i)
		if !index.HasKey(slot) {
			continue
		}
		id := strings.TrimSpace(index.Key(slot).String())
		if id == "" {
			continue
		}
		file.Append(loadEntry(parsed, id))
	}
	return file, nil
}

// loadEntry recovers one trophy's prior fields. A missing section leaves the
// zero values in place; the identifier itself still counts as known.
func loadEntry(parsed *ini.File, id string) Entry {
	entry := Entry{ID: id}
	section, err := parsed.GetSection(id)
	if err != nil {
		return entry
	}
	entry.Achieved = strings.TrimSpace(section.Key(achievedKey).String()) == "1"
	if raw := strings.TrimSpace(section.Key(unlockTimeKey).String()); raw != "" {
		if value, err := strconv.ParseUint(raw, 10, 32); err == nil {
			entry.UnlockTime = uint32(value)
		}
	}
	return entry
}
