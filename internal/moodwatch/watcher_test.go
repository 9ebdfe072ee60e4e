package moodwatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-adoption-api/internal/domain/pets"

	"github.com/rs/zerolog"
)

type fakeSource struct {
	sad      []pets.Pet
	listErr  error
	marked   int
	cutoffs  []time.Time
	markErr  error
	listHits int
}

func (s *fakeSource) ListSadUnadopted(_ context.Context) ([]pets.Pet, error) {
	s.listHits++
	return s.sad, s.listErr
}

func (s *fakeSource) MarkStaleSad(_ context.Context, cutoff time.Time) (int, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.marked, s.markErr
}

type fakeNotifier struct {
	calls [][]pets.Pet
	err   error
}

func (n *fakeNotifier) NotifySadPets(_ context.Context, sad []pets.Pet) error {
	n.calls = append(n.calls, sad)
	return n.err
}

func TestSweepUpdatesSnapshotAndNotifies(t *testing.T) {
	src := &fakeSource{
		sad:    []pets.Pet{{ID: "p1", Name: "Michi", Mood: pets.MoodSad}},
		marked: 1,
	}
	notifier := &fakeNotifier{}

	w := New(src, Options{
		SadAfter: 72 * time.Hour,
		Notifier: notifier,
		Logger:   zerolog.Nop(),
	})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	w.sweep(context.Background())

	snap := w.Snapshot()
	if len(snap) != 1 || snap[0].ID != "p1" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(notifier.calls))
	}
	if len(src.cutoffs) != 1 {
		t.Fatalf("mark calls = %d, want 1", len(src.cutoffs))
	}
	if want := now.Add(-72 * time.Hour); !src.cutoffs[0].Equal(want) {
		t.Fatalf("cutoff = %v, want %v", src.cutoffs[0], want)
	}
}

func TestSweepNoSadPetsSkipsNotify(t *testing.T) {
	src := &fakeSource{}
	notifier := &fakeNotifier{}

	w := New(src, Options{Notifier: notifier, Logger: zerolog.Nop()})
	w.sweep(context.Background())

	if len(notifier.calls) != 0 {
		t.Fatalf("notifier calls = %d, want 0", len(notifier.calls))
	}
	if snap := w.Snapshot(); len(snap) != 0 {
		t.Fatalf("snapshot = %+v, want empty", snap)
	}
}

func TestSweepMarkFailureStillRefreshesSnapshot(t *testing.T) {
	src := &fakeSource{
		sad:     []pets.Pet{{ID: "p1"}},
		markErr: errors.New("db down"),
	}

	w := New(src, Options{Logger: zerolog.Nop()})
	w.sweep(context.Background())

	if snap := w.Snapshot(); len(snap) != 1 {
		t.Fatalf("snapshot = %+v, want 1 pet", snap)
	}
}

func TestSweepListFailureKeepsPreviousSnapshot(t *testing.T) {
	src := &fakeSource{sad: []pets.Pet{{ID: "p1"}}}

	w := New(src, Options{Logger: zerolog.Nop()})
	w.sweep(context.Background())

	src.listErr = errors.New("db down")
	w.sweep(context.Background())

	if snap := w.Snapshot(); len(snap) != 1 || snap[0].ID != "p1" {
		t.Fatalf("snapshot = %+v, want previous state", snap)
	}
}

func TestNotifierFailureDoesNotPanic(t *testing.T) {
	src := &fakeSource{sad: []pets.Pet{{ID: "p1"}}}
	notifier := &fakeNotifier{err: errors.New("webhook down")}

	w := New(src, Options{Notifier: notifier, Logger: zerolog.Nop()})
	w.sweep(context.Background())

	if len(notifier.calls) != 1 {
		t.Fatalf("notifier calls = %d, want 1", len(notifier.calls))
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := &fakeSource{}
	w := New(src, Options{Interval: 5 * time.Millisecond, Logger: zerolog.Nop()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// Deja correr un par de ticks antes de cancelar.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	if src.listHits == 0 {
		t.Fatal("expected at least the immediate first sweep")
	}
}

func TestSnapshotReturnsCopy(t *testing.T) {
	src := &fakeSource{sad: []pets.Pet{{ID: "p1", Name: "Michi"}}}

	w := New(src, Options{Logger: zerolog.Nop()})
	w.sweep(context.Background())

	snap := w.Snapshot()
	snap[0].Name = "mutado"

	if again := w.Snapshot(); again[0].Name != "Michi" {
		t.Fatalf("snapshot mutation leaked: %q", again[0].Name)
	}
}
