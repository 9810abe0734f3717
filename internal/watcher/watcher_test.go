package watcher_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pytatbro/metaltrophysolidv/internal/logging"
	"github.com/pytatbro/metaltrophysolidv/internal/services"
	"github.com/pytatbro/metaltrophysolidv/internal/testsupport"
	"github.com/pytatbro/metaltrophysolidv/internal/watcher"
)

func startWatcher(t *testing.T, w *watcher.Watcher) (<-chan watcher.Event, context.CancelFunc, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan watcher.Event, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, ev watcher.Event) {
			select {
			case events <- ev:
			default:
			}
		})
	}()
	t.Cleanup(func() {
		cancel()
		_ = w.Close()
	})
	return events, cancel, done
}

func waitForEvent(t *testing.T, events <-chan watcher.Event) watcher.Event {
	t.Helper()

	select {
	case ev := <-events:
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return watcher.Event{}
	}
}

func TestRunDeliversSourceEvents(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(0))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "[Trophy_A]\nState=0101\nTime=B0BA866959290000\n")

	w, err := watcher.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if w.Source() != cfg.Paths.StatsFile {
		t.Fatalf("Source() = %q, want %q", w.Source(), cfg.Paths.StatsFile)
	}

	events, _, _ := startWatcher(t, w)

	// Give the watch registration a moment before generating events.
	time.Sleep(50 * time.Millisecond)
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "[Trophy_A]\nState=0101\nTime=B0BA866959290000\n\n")

	ev := waitForEvent(t, events)
	if ev.Path != cfg.Paths.StatsFile {
		t.Errorf("event path = %q, want %q", ev.Path, cfg.Paths.StatsFile)
	}
	if ev.Kind != watcher.KindWrite && ev.Kind != watcher.KindCreate {
		t.Errorf("event kind = %q, want write or create", ev.Kind)
	}
}

func TestRunIgnoresSiblingFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(0))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "seed")

	w, err := watcher.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	events, _, _ := startWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	sibling := filepath.Join(filepath.Dir(cfg.Paths.StatsFile), "other.ini")
	testsupport.WriteFile(t, sibling, "noise")

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %q", ev.Path)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestRunDebouncesBursts(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(500))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "seed")

	w, err := watcher.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	events, _, _ := startWatcher(t, w)

	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 4; i++ {
		testsupport.WriteFile(t, cfg.Paths.StatsFile, "burst")
		time.Sleep(20 * time.Millisecond)
	}

	waitForEvent(t, events)
	select {
	case ev := <-events:
		t.Fatalf("burst should collapse to one event, got extra %q at %v", ev.Kind, ev.At)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDebounce(0))
	testsupport.WriteFile(t, cfg.Paths.StatsFile, "seed")

	w, err := watcher.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, cancel, done := startWatcher(t, w)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewFailsWhenDirectoryMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	// The parent directory of the stats file was never created.
	if _, err := os.Stat(filepath.Dir(cfg.Paths.StatsFile)); !os.IsNotExist(err) {
		t.Fatalf("expected missing directory, stat returned %v", err)
	}

	_, err := watcher.New(cfg, logging.NewNop())
	if err == nil {
		t.Fatal("expected error for missing watch directory")
	}
	if !errors.Is(err, services.ErrWatchSetup) {
		t.Errorf("expected ErrWatchSetup, got %v", err)
	}
	if !services.IsFatal(err) {
		t.Error("watch setup failures should be fatal")
	}
}
