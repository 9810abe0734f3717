package syncer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pytatbro/metaltrophysolidv/internal/achievements"
	"github.com/pytatbro/metaltrophysolidv/internal/config"
	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/metadata"
	"github.com/pytatbro/metaltrophysolidv/internal/notifications"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
	"github.com/pytatbro/metaltrophysolidv/internal/tracker"
	"github.com/pytatbro/metaltrophysolidv/internal/trophies"
)

// PassResult summarizes one sync pass for status reporting.
type PassResult struct {
	PassID   string   `json:"pass_id"`
	Parsed   int      `json:"parsed"`
	Written  int      `json:"written"`
	NewIDs   []string `json:"new_ids,omitempty"`
	Notified int      `json:"notified"`
}

// Syncer executes sync passes: parse the source, rewrite the target, and
// announce newly seen trophies. Passes are serialized by the caller; the
// struct is not safe for concurrent use.
type Syncer struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracker *tracker.Tracker
	catalog *metadata.Catalog
	store   *journal.Store
	sink    notifications.Sink
}

// New wires a syncer from its collaborators. store may be nil when the
// journal is disabled and sink may be nil when notifications are off.
func New(cfg *config.Config, logger *slog.Logger, tr *tracker.Tracker, catalog *metadata.Catalog, store *journal.Store, sink notifications.Sink) *Syncer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if tr == nil {
		tr = tracker.New(nil)
	}
	if catalog == nil {
		catalog = metadata.LoadCatalog("", logger)
	}
	return &Syncer{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "syncer"),
		tracker: tr,
		catalog: catalog,
		store:   store,
		sink:    sink,
	}
}

// Known returns the sorted known-trophy identifiers.
func (s *Syncer) Known() []string { return s.tracker.Known() }

// KnownCount returns the size of the known-trophy set.
func (s *Syncer) KnownCount() int { return s.tracker.Len() }

// SeedKnownIDs gathers identifiers already present in the target file and,
// when a journal store is provided, identifiers recorded there. Failures are
// logged and reduce the seed rather than blocking startup.
func SeedKnownIDs(ctx context.Context, cfg *config.Config, store *journal.Store, logger *slog.Logger) []string {
	if logger == nil {
		logger = logging.NewNop()
	}

	seed, err := achievements.LoadKnownIDs(cfg.Paths.AchievementsFile, logger)
	if err != nil {
		logger.Warn("prior target unreadable; seeding without it", logging.Error(err))
		seed = nil
	}
	if store != nil {
		recorded, err := store.KnownIDs(ctx)
		if err != nil {
			logger.Warn("journal unreadable; seeding without it", logging.Error(err))
		} else {
			seed = append(seed, recorded...)
		}
	}
	return seed
}

// RunPass executes one sync pass. An empty source parse leaves the target
// file untouched so a transient empty read never wipes existing data.
func (s *Syncer) RunPass(ctx context.Context) (*PassResult, error) {
	passID := shortPassID()
	ctx = services.WithPassID(ctx, passID)
	log := logging.WithContext(ctx, s.logger)

	result := &PassResult{PassID: passID}

	stats, err := trophies.ParseStats(s.cfg.Paths.StatsFile, log)
	if err != nil {
		return nil, err
	}
	result.Parsed = stats.Len()
	if stats.Empty() {
		log.Info("source parse produced no trophies; target left untouched",
			logging.String(logging.FieldPath, s.cfg.Paths.StatsFile),
		)
		return result, nil
	}

	var prior *achievements.File
	if s.cfg.Sync.PreserveMissing {
		prior, err = achievements.Load(s.cfg.Paths.AchievementsFile, log)
		if err != nil {
			log.Warn("prior target unreadable; rewriting without preserved entries", logging.Error(err))
			prior = nil
		}
	}

	newIDs := s.tracker.Observe(stats.IDs())
	result.NewIDs = newIDs

	file := achievements.NewFile()
	for _, trophy := range stats.Trophies() {
		file.Append(achievements.Entry{
			ID:         trophy.ID,
			Achieved:   trophy.Achieved,
			UnlockTime: trophy.UnlockTime,
		})
	}
	if prior != nil {
		// Append ignores identifiers already present, so source entries win
		// and only trophies missing from this read carry over.
		for _, entry := range prior.Entries() {
			file.Append(entry)
		}
	}

	if err := file.Write(s.cfg.Paths.AchievementsFile); err != nil {
		return result, err
	}
	result.Written = file.Len()

	for _, id := range newIDs {
		trophy, _ := stats.Lookup(id)
		display := s.catalog.Describe(id)
		s.recordUnlock(ctx, log, passID, trophy, display)
		if s.announce(ctx, log, trophy, display) {
			result.Notified++
		}
	}

	log.Info("sync pass complete",
		logging.Int("parsed", result.Parsed),
		logging.Int("written", result.Written),
		logging.Int("new", len(result.NewIDs)),
		logging.Int("notified", result.Notified),
	)
	return result, nil
}

func (s *Syncer) recordUnlock(ctx context.Context, log *slog.Logger, passID string, trophy trophies.Trophy, display metadata.Display) {
	if s.store == nil {
		return
	}
	err := s.store.Record(ctx, journal.Entry{
		TrophyID:   trophy.ID,
		Title:      display.Title,
		Achieved:   trophy.Achieved,
		UnlockTime: trophy.UnlockTime,
		DetectedAt: time.Now(),
		PassID:     passID,
	})
	if err != nil {
		log.Warn("journal write failed",
			logging.String(logging.FieldTrophyID, trophy.ID),
			logging.Error(err),
		)
	}
}

func (s *Syncer) announce(ctx context.Context, log *slog.Logger, trophy trophies.Trophy, display metadata.Display) bool {
	if s.sink == nil {
		return false
	}
	if s.cfg.Notifications.OnlyAchieved && !trophy.Achieved {
		return false
	}

	err := s.sink.Publish(ctx, notifications.Notification{
		Title:    display.Title,
		Body:     display.Body,
		IconPath: display.IconPath,
	})
	if err != nil {
		log.Warn("notification failed",
			logging.String(logging.FieldTrophyID, trophy.ID),
			logging.Error(err),
		)
		return false
	}
	return true
}

func shortPassID() string {
	return uuid.NewString()[:8]
}
