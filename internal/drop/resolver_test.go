package drop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
)

// fakeStore records saves and serves a fixed activity list.
type fakeStore struct {
	saved      []*activity.Activity
	activities []*activity.Activity
	saveErr    error
	calls      []string
}

func (f *fakeStore) SaveActivity(_ context.Context, a *activity.Activity) error {
	f.calls = append(f.calls, "save")
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeStore) ListActivitiesForTrip(context.Context, string) ([]*activity.Activity, error) {
	f.calls = append(f.calls, "list")
	return f.activities, nil
}

type recordedNote struct {
	msg  string
	kind activity.NotifyKind
}

type fakeNotifier struct {
	notes []recordedNote
}

func (f *fakeNotifier) Notify(msg string, kind activity.NotifyKind) {
	f.notes = append(f.notes, recordedNote{msg, kind})
}

func newBank(t *testing.T, title string) *activity.Activity {
	t.Helper()
	a, err := activity.New("trip-1", title)
	if err != nil {
		t.Fatalf("new activity: %v", err)
	}
	return a
}

func newScheduled(t *testing.T, title string, start time.Time, d time.Duration) *activity.Activity {
	t.Helper()
	a := newBank(t, title)
	if err := a.Schedule(start, start.Add(d)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return a
}

func fixedClock(h int) func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 1, h, 30, 0, 0, time.Local)
	}
}

func TestDrop_Bank(t *testing.T) {
	store := &fakeStore{}
	a := newScheduled(t, "museum", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Hour)

	r := New(store, nil)
	if err := r.Drop(context.Background(), a, BankTarget{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.saved) != 1 {
		t.Fatalf("got %d saves, want 1", len(store.saved))
	}
	saved := store.saved[0]
	if saved.Start != nil || saved.End != nil {
		t.Error("bank drop must clear start and end together")
	}
	if saved.Source != activity.SourceBank {
		t.Errorf("got source %q, want bank", saved.Source)
	}
}

func TestDrop_TimeSlot(t *testing.T) {
	store := &fakeStore{}
	a := newBank(t, "museum")

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	r := New(store, nil)
	if err := r.Drop(context.Background(), a, TimeSlotTarget{Date: date, Time: "14:00"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	saved := store.saved[0]
	wantStart := time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local)
	if !saved.Start.Equal(wantStart) {
		t.Errorf("got start %v, want %v", saved.Start, wantStart)
	}
	if !saved.End.Equal(wantStart.Add(time.Hour)) {
		t.Errorf("got end %v, want start+1h", saved.End)
	}
	if saved.Source != activity.SourceCalendar {
		t.Errorf("got source %q, want calendar", saved.Source)
	}
}

func TestDrop_DayCellDefaultHour(t *testing.T) {
	tests := []struct {
		name     string
		nowHour  int
		wantHour int
	}{
		{"afternoon uses current hour", 15, 15},
		{"window upper bound inclusive", 20, 20},
		{"late evening falls back to nine", 22, 9},
		{"early morning falls back to nine", 7, 9},
		{"window lower bound inclusive", 9, 9},
	}

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			r := New(store, nil, WithClock(fixedClock(tt.nowHour)))

			if err := r.Drop(context.Background(), newBank(t, "museum"), DayCellTarget{Date: date}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			saved := store.saved[0]
			if saved.Start.Hour() != tt.wantHour {
				t.Errorf("got hour %d, want %d", saved.Start.Hour(), tt.wantHour)
			}
			if saved.End.Sub(*saved.Start) != time.Hour {
				t.Errorf("got duration %v, want 1h", saved.End.Sub(*saved.Start))
			}
		})
	}
}

func TestDrop_DayCellConfiguredWindow(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		nowHour  int
		wantHour int
	}{
		{"inside custom window uses current hour", 7, 22, 7, 7},
		{"late hour inside widened window", 7, 22, 22, 22},
		{"outside custom window falls back to min", 10, 12, 8, 10},
		{"invalid window keeps defaults", 15, 3, 7, 9},
	}

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			r := New(store, nil,
				WithClock(fixedClock(tt.nowHour)),
				WithDayHourWindow(tt.min, tt.max),
			)

			if err := r.Drop(context.Background(), newBank(t, "museum"), DayCellTarget{Date: date}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := store.saved[0].Start.Hour(); got != tt.wantHour {
				t.Errorf("got hour %d, want %d", got, tt.wantHour)
			}
		})
	}
}

func TestDrop_PersistenceFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	notifier := &fakeNotifier{}
	recomputed := false

	a := newScheduled(t, "museum", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Hour)
	origStart := *a.Start

	r := New(store, notifier, WithRecompute(func() { recomputed = true }))
	err := r.Drop(context.Background(), a, BankTarget{})
	if err == nil {
		t.Fatal("expected error")
	}

	// The caller's activity is untouched: no dangling optimistic update.
	if a.Start == nil || !a.Start.Equal(origStart) {
		t.Error("failed drop mutated the in-memory activity")
	}
	if recomputed {
		t.Error("recompute must not run after a failed save")
	}
	if len(notifier.notes) != 1 || notifier.notes[0].kind != activity.NotifyError {
		t.Errorf("expected one error notification, got %v", notifier.notes)
	}
}

func TestDrop_RecomputeAfterSave(t *testing.T) {
	store := &fakeStore{}
	r := New(store, nil, WithRecompute(func() {
		store.calls = append(store.calls, "recompute")
	}))

	if err := r.Drop(context.Background(), newBank(t, "museum"), BankTarget{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.calls) != 2 || store.calls[0] != "save" || store.calls[1] != "recompute" {
		t.Errorf("got call order %v, want save then recompute", store.calls)
	}
}

func TestDrop_ConflictWarning(t *testing.T) {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local)
	store := &fakeStore{
		activities: []*activity.Activity{newScheduled(t, "tour", start, time.Hour)},
	}
	notifier := &fakeNotifier{}

	r := New(store, notifier)
	err := r.Drop(context.Background(), newBank(t, "museum"), TimeSlotTarget{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local),
		Time: "14:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Without auto-resolve the placement is kept and the user is warned.
	if !store.saved[0].Start.Equal(start) {
		t.Errorf("got start %v, want requested 14:00", store.saved[0].Start)
	}
	if len(notifier.notes) != 1 || notifier.notes[0].kind != activity.NotifyWarning {
		t.Errorf("expected one warning, got %v", notifier.notes)
	}
	if want := `"museum" overlaps 1 other activity`; notifier.notes[0].msg != want {
		t.Errorf("got warning %q, want %q", notifier.notes[0].msg, want)
	}
}

func TestDrop_ConflictAutoResolve(t *testing.T) {
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local)
	store := &fakeStore{
		activities: []*activity.Activity{newScheduled(t, "tour", start, 15*time.Minute)},
	}

	r := New(store, nil, WithAutoResolve(true))
	err := r.Drop(context.Background(), newBank(t, "museum"), TimeSlotTarget{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local),
		Time: "14:00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := start.Add(15 * time.Minute); !store.saved[0].Start.Equal(want) {
		t.Errorf("got start %v, want shifted %v", store.saved[0].Start, want)
	}
}

func TestDrop_RoundTrip(t *testing.T) {
	// The end-to-end scenario: scheduled -> bank -> back onto a slot.
	store := &fakeStore{}
	r := New(store, nil)
	ctx := context.Background()

	a := newScheduled(t, "museum", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), time.Hour)

	if err := r.Drop(ctx, a, BankTarget{}); err != nil {
		t.Fatalf("bank drop: %v", err)
	}
	banked := store.saved[0]
	if banked.Scheduled() || banked.Source != activity.SourceBank {
		t.Fatalf("expected bank state, got %+v", banked)
	}

	if err := r.Drop(ctx, banked, TimeSlotTarget{
		Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local),
		Time: "14:00",
	}); err != nil {
		t.Fatalf("slot drop: %v", err)
	}
	rescheduled := store.saved[1]
	if rescheduled.Start.Hour() != 14 || rescheduled.Source != activity.SourceCalendar {
		t.Errorf("expected 14:00 calendar placement, got %+v", rescheduled)
	}
	if err := rescheduled.Validate(); err != nil {
		t.Errorf("round trip broke the invariant: %v", err)
	}
}
