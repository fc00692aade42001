package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

func TestViewRendersBankAndCalendar(t *testing.T) {
	m, _, _ := newTestModel(t)

	plain := ansi.Strip(m.View())
	if !strings.Contains(plain, "Lisbon") {
		t.Error("expected trip name in the title")
	}
	if !strings.Contains(plain, "Bank (1)") {
		t.Error("expected bank header with item count")
	}
	if !strings.Contains(plain, "Museum") {
		t.Error("expected bank activity title")
	}
	if !strings.Contains(plain, "6 AM") {
		t.Error("expected first grid slot label")
	}

	for i, line := range strings.Split(plain, "\n") {
		if w := runewidth.StringWidth(line); w > m.width {
			t.Errorf("line %d overflows terminal: width %d > %d", i, w, m.width)
		}
	}
}

func TestEarlyStartRendersInFirstGridRow(t *testing.T) {
	m, repo, museum := newTestModel(t)

	// Scheduled before the grid's 6:00 start, e.g. via `move --to=DATE@05:00`.
	start := time.Date(2025, time.June, 1, 5, 0, 0, 0, time.Local)
	if err := museum.Schedule(start, start.Add(time.Hour)); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := repo.SaveActivity(context.Background(), museum); err != nil {
		t.Fatalf("SaveActivity: %v", err)
	}

	msg := ReloadActivities(repo, m.trip.ID)()
	next, _ := m.Update(msg)
	m = next.(Model)

	m = press(m, t, "v", "v") // week -> month -> day
	if !strings.Contains(ansi.Strip(m.View()), "Museum") {
		t.Fatal("expected pre-grid-start activity in the day view")
	}

	// It must also stay reachable by the pointer.
	found := false
	for _, r := range m.hitMap.regions {
		if r.ActivityID == museum.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected a clickable region for the early activity")
	}

	m = press(m, t, "v") // day -> week
	if !strings.Contains(ansi.Strip(m.View()), "Museum") {
		t.Error("expected pre-grid-start activity in the week view")
	}
}

func TestViewRebuildsHitMap(t *testing.T) {
	m, _, _ := newTestModel(t)

	_ = m.View()
	if _, ok := m.hitMap.ActivityAt(1, 3); !ok {
		t.Error("expected bank item region after render")
	}

	// A narrower terminal shrinks the sidebar; regions must track it.
	m.width = 80
	_ = m.View()
	if _, ok := m.hitMap.ActivityAt(bankWidthNarrow-1, 3); !ok {
		t.Error("expected bank region inside narrow sidebar")
	}
}

func TestQuickAddCreatesBankActivity(t *testing.T) {
	m, repo, _ := newTestModel(t)

	m = press(m, t, "a")
	if m.mode != ModeAdd {
		t.Fatalf("expected ModeAdd, got %v", m.mode)
	}
	if !strings.Contains(ansi.Strip(m.View()), "enter save") {
		t.Error("expected add-mode footer hint")
	}

	m = press(m, t, "Dinner at Ramiro")
	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	if m.mode != ModeNormal {
		t.Fatalf("expected ModeNormal after save, got %v", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected create command")
	}

	msg := cmd()
	if err, ok := msg.(ErrMsg); ok {
		t.Fatalf("create failed: %v", err.Err)
	}
	next, _ = m.Update(msg)
	m = next.(Model)

	acts, err := repo.ListActivitiesForTrip(context.Background(), m.trip.ID)
	if err != nil {
		t.Fatalf("ListActivitiesForTrip: %v", err)
	}
	found := false
	for _, a := range acts {
		if a.Title == "Dinner at Ramiro" && !a.Scheduled() {
			found = true
		}
	}
	if !found {
		t.Error("expected new bank activity after quick add")
	}
}

func TestQuickAddEscCancels(t *testing.T) {
	m, repo, _ := newTestModel(t)

	m = press(m, t, "a", "Abandoned", "esc")
	if m.mode != ModeNormal {
		t.Fatalf("expected ModeNormal after esc, got %v", m.mode)
	}

	acts, err := repo.ListActivitiesForTrip(context.Background(), m.trip.ID)
	if err != nil {
		t.Fatalf("ListActivitiesForTrip: %v", err)
	}
	if len(acts) != 1 {
		t.Errorf("expected no new activity after cancel, have %d", len(acts))
	}
}
