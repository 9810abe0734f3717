package journal

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

const defaultRecentLimit = 20

// Entry is one recorded unlock detection.
type Entry struct {
	TrophyID   string
	Title      string
	Achieved   bool
	UnlockTime uint32
	DetectedAt time.Time
	PassID     string
}

// Store manages unlock history backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "ensure directories", "", err)
	}
	return OpenPath(cfg.JournalPath())
}

// OpenPath connects to a journal database at an explicit location.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "open database", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrJournal, "journal", "apply pragma", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one unlock detection. The detection timestamp defaults to
// the current time when unset.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	detected := entry.DetectedAt
	if detected.IsZero() {
		detected = time.Now()
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO unlock_events (
            trophy_id, title, achieved, unlock_time, detected_at, pass_id
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.TrophyID,
		entry.Title,
		boolToInt(entry.Achieved),
		int64(entry.UnlockTime),
		detected.UTC().Format(time.RFC3339Nano),
		entry.PassID,
	)
	if err != nil {
		return services.Wrap(services.ErrJournal, "journal", "record unlock", entry.TrophyID, err)
	}
	return nil
}

// Recent returns the most recently recorded unlocks, newest first. A
// non-positive limit falls back to a small default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT trophy_id, title, achieved, unlock_time, detected_at, pass_id
         FROM unlock_events ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "query recent", "", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, services.Wrap(services.ErrJournal, "journal", "scan row", "", scanErr)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "iterate rows", "", err)
	}
	return entries, nil
}

// KnownIDs returns the distinct trophy identifiers ever recorded, sorted.
func (s *Store) KnownIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT DISTINCT trophy_id FROM unlock_events ORDER BY trophy_id`,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "query known ids", "", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, services.Wrap(services.ErrJournal, "journal", "scan id", "", scanErr)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrJournal, "journal", "iterate ids", "", err)
	}
	return ids, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		achieved    int64
		unlockTime  int64
		detectedRaw string
	)

	if err := scanner.Scan(
		&entry.TrophyID,
		&entry.Title,
		&achieved,
		&unlockTime,
		&detectedRaw,
		&entry.PassID,
	); err != nil {
		return Entry{}, err
	}

	entry.Achieved = achieved != 0
	entry.UnlockTime = uint32(unlockTime)
	if detected, err := time.Parse(time.RFC3339Nano, detectedRaw); err == nil {
		entry.DetectedAt = detected
	}
	return entry, nil
}

func boolToInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}
