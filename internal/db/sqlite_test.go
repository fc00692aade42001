package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()
	repo, err := New(filepath.Join(t.TempDir(), "wayfarer.db"))
	if err != nil {
		t.Fatalf("creating test repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func newTestTrip(t *testing.T, repo *SQLite) *activity.Trip {
	t.Helper()
	trip, err := activity.NewTrip("Madrid",
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local),
		time.Date(2025, 6, 7, 0, 0, 0, 0, time.Local),
	)
	if err != nil {
		t.Fatalf("new trip: %v", err)
	}
	if err := repo.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return trip
}

func TestTripRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)

	got, err := repo.GetTrip(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("GetTrip failed: %v", err)
	}
	if got.Name != "Madrid" {
		t.Errorf("got name %q, want Madrid", got.Name)
	}
	if got.Days() != 7 {
		t.Errorf("got %d days, want 7", got.Days())
	}

	trips, err := repo.ListTrips(context.Background())
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(trips) != 1 {
		t.Errorf("got %d trips, want 1", len(trips))
	}
}

func TestGetTrip_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetTrip(context.Background(), "missing"); !errors.Is(err, activity.ErrTripNotFound) {
		t.Errorf("got %v, want ErrTripNotFound", err)
	}
}

func TestActivityRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)
	ctx := context.Background()

	a, err := activity.New(trip.ID, "Visit the Prado")
	if err != nil {
		t.Fatalf("new activity: %v", err)
	}
	a.Description = "Goya and Velázquez"
	a.Tags = []string{"art", "indoor", "afternoon"}

	if err := repo.CreateActivity(ctx, a); err != nil {
		t.Fatalf("CreateActivity failed: %v", err)
	}

	got, err := repo.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if got.Title != a.Title || got.Description != a.Description {
		t.Errorf("got %+v, want fields of %+v", got, a)
	}
	if len(got.Tags) != 3 || got.Tags[0] != "art" || got.Tags[2] != "afternoon" {
		t.Errorf("tags lost order: %v", got.Tags)
	}
	if got.Scheduled() {
		t.Error("bank activity came back scheduled")
	}
	if err := got.Validate(); err != nil {
		t.Errorf("loaded activity failed validation: %v", err)
	}
}

func TestSaveActivity_UpsertPreservesInvariant(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)
	ctx := context.Background()

	a, _ := activity.New(trip.ID, "Visit the Prado")
	if err := repo.CreateActivity(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Schedule and upsert.
	start := time.Date(2025, 6, 2, 14, 0, 0, 0, time.Local)
	if err := a.Schedule(start, start.Add(time.Hour)); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := repo.SaveActivity(ctx, a); err != nil {
		t.Fatalf("SaveActivity failed: %v", err)
	}

	got, err := repo.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if !got.Scheduled() || got.Source != activity.SourceCalendar {
		t.Fatalf("expected scheduled calendar activity, got %+v", got)
	}
	if !got.Start.Equal(start) {
		t.Errorf("got start %v, want %v", got.Start, start)
	}

	// Back to the bank and upsert again: the pair must clear together.
	got.Unschedule()
	if err := repo.SaveActivity(ctx, got); err != nil {
		t.Fatalf("SaveActivity failed: %v", err)
	}
	final, err := repo.GetActivity(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetActivity failed: %v", err)
	}
	if final.Start != nil || final.End != nil || final.Source != activity.SourceBank {
		t.Errorf("round trip broke the invariant: %+v", final)
	}
}

func TestSaveActivity_RejectsHalfScheduled(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)

	a, _ := activity.New(trip.ID, "broken")
	start := time.Now()
	a.Start = &start // End deliberately left nil

	if err := repo.SaveActivity(context.Background(), a); !errors.Is(err, activity.ErrHalfScheduled) {
		t.Errorf("got %v, want ErrHalfScheduled", err)
	}
}

func TestListActivitiesForTrip_Order(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)
	ctx := context.Background()

	bank, _ := activity.New(trip.ID, "laundry")
	late, _ := activity.New(trip.ID, "dinner")
	early, _ := activity.New(trip.ID, "breakfast")

	day := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	_ = late.Schedule(day.Add(20*time.Hour), day.Add(21*time.Hour))
	_ = early.Schedule(day.Add(8*time.Hour), day.Add(9*time.Hour))

	for _, a := range []*activity.Activity{bank, late, early} {
		if err := repo.CreateActivity(ctx, a); err != nil {
			t.Fatalf("create %q: %v", a.Title, err)
		}
	}

	got, err := repo.ListActivitiesForTrip(ctx, trip.ID)
	if err != nil {
		t.Fatalf("ListActivitiesForTrip failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d activities, want 3", len(got))
	}
	if got[0].Title != "breakfast" || got[1].Title != "dinner" || got[2].Title != "laundry" {
		t.Errorf("unexpected order: %q, %q, %q", got[0].Title, got[1].Title, got[2].Title)
	}
}

func TestDeleteTrip_Cascades(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)
	ctx := context.Background()

	a, _ := activity.New(trip.ID, "Visit the Prado")
	if err := repo.CreateActivity(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteTrip(ctx, trip.ID); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}

	if _, err := repo.GetTrip(ctx, trip.ID); !errors.Is(err, activity.ErrTripNotFound) {
		t.Errorf("got %v, want ErrTripNotFound", err)
	}
	if _, err := repo.GetActivity(ctx, a.ID); !errors.Is(err, activity.ErrActivityNotFound) {
		t.Errorf("activity survived the cascade: %v", err)
	}
}

func TestDeleteActivity(t *testing.T) {
	repo := newTestRepo(t)
	trip := newTestTrip(t, repo)
	ctx := context.Background()

	a, _ := activity.New(trip.ID, "Visit the Prado")
	if err := repo.CreateActivity(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.DeleteActivity(ctx, a.ID); err != nil {
		t.Fatalf("DeleteActivity failed: %v", err)
	}
	if err := repo.DeleteActivity(ctx, a.ID); !errors.Is(err, activity.ErrActivityNotFound) {
		t.Errorf("got %v, want ErrActivityNotFound", err)
	}
}
