package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/pytatbro/metaltrophysolidv/internal/journal"
	"github.com/pytatbro/metaltrophysolidv/internal/testsupport"
)

func TestOpenAppliesMigrations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	detected := time.Date(2026, 2, 7, 4, 8, 16, 0, time.UTC)
	entry := journal.Entry{
		TrophyID:   "Trophy_Bronze_01",
		Title:      "First Steps",
		Achieved:   true,
		UnlockTime: 1770437296,
		DetectedAt: detected,
		PassID:     "a1b2c3d4",
	}
	if err := store.Record(ctx, entry); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	got := entries[0]
	if got.TrophyID != entry.TrophyID {
		t.Errorf("TrophyID = %q, want %q", got.TrophyID, entry.TrophyID)
	}
	if got.Title != entry.Title {
		t.Errorf("Title = %q, want %q", got.Title, entry.Title)
	}
	if !got.Achieved {
		t.Error("expected Achieved to survive the round trip")
	}
	if got.UnlockTime != entry.UnlockTime {
		t.Errorf("UnlockTime = %d, want %d", got.UnlockTime, entry.UnlockTime)
	}
	if !got.DetectedAt.Equal(detected) {
		t.Errorf("DetectedAt = %v, want %v", got.DetectedAt, detected)
	}
	if got.PassID != entry.PassID {
		t.Errorf("PassID = %q, want %q", got.PassID, entry.PassID)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	base := time.Date(2026, 2, 7, 4, 0, 0, 0, time.UTC)
	for i, id := range []string{"Trophy_A", "Trophy_B", "Trophy_C"} {
		err := store.Record(ctx, journal.Entry{
			TrophyID:   id,
			Title:      id,
			DetectedAt: base.Add(time.Duration(i) * time.Minute),
			PassID:     "pass-1",
		})
		if err != nil {
			t.Fatalf("Record %s failed: %v", id, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TrophyID != "Trophy_C" || entries[1].TrophyID != "Trophy_B" {
		t.Fatalf("unexpected order: %q, %q", entries[0].TrophyID, entries[1].TrophyID)
	}
}

func TestRecordDefaultsDetectedAt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	if err := store.Record(ctx, journal.Entry{TrophyID: "Trophy_A", Title: "A", PassID: "p"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].DetectedAt.IsZero() {
		t.Error("expected Record to stamp a detection time")
	}
}

func TestKnownIDsDistinctSorted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	ctx := context.Background()
	for _, id := range []string{"Trophy_C", "Trophy_A", "Trophy_C", "Trophy_B"} {
		if err := store.Record(ctx, journal.Entry{TrophyID: id, Title: id, PassID: "p"}); err != nil {
			t.Fatalf("Record %s failed: %v", id, err)
		}
	}

	ids, err := store.KnownIDs(ctx)
	if err != nil {
		t.Fatalf("KnownIDs failed: %v", err)
	}
	want := []string{"Trophy_A", "Trophy_B", "Trophy_C"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d (%v)", len(want), len(ids), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	ctx := context.Background()
	if err := first.Record(ctx, journal.Entry{TrophyID: "Trophy_A", Title: "A", PassID: "p"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	second := testsupport.MustOpenJournal(t, cfg)
	entries, err := second.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent after reopen failed: %v", err)
	}
	if len(entries) != 1 || entries[0].TrophyID != "Trophy_A" {
		t.Fatalf("expected persisted entry after reopen, got %#v", entries)
	}
}
