package tui

import (
	"testing"
	"time"

	"github.com/mjimenar/wayfarer/internal/drag"
	"github.com/mjimenar/wayfarer/internal/drop"
)

func TestHitMapTargetAt(t *testing.T) {
	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.Local)
	h := &HitMap{}
	h.Add(Region{X: 0, Y: 0, W: 20, H: 10, Target: drop.BankTarget{}})
	h.Add(Region{X: 21, Y: 3, W: 10, H: 1, Target: drop.TimeSlotTarget{Date: day, Time: "09:00"}})

	if _, ok := h.TargetAt(drag.Point{X: 50, Y: 50}); ok {
		t.Error("expected no target outside all regions")
	}

	target, ok := h.TargetAt(drag.Point{X: 5, Y: 5})
	if !ok {
		t.Fatal("expected bank target")
	}
	if _, isBank := target.(drop.BankTarget); !isBank {
		t.Errorf("expected BankTarget, got %T", target)
	}

	target, ok = h.TargetAt(drag.Point{X: 25, Y: 3})
	if !ok {
		t.Fatal("expected slot target")
	}
	slot, isSlot := target.(drop.TimeSlotTarget)
	if !isSlot {
		t.Fatalf("expected TimeSlotTarget, got %T", target)
	}
	if slot.Time != "09:00" {
		t.Errorf("time = %q, want 09:00", slot.Time)
	}
}

func TestHitMapLaterRegionsWin(t *testing.T) {
	day := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.Local)
	h := &HitMap{}
	h.Add(Region{X: 0, Y: 0, W: 10, H: 1, Target: drop.TimeSlotTarget{Date: day, Time: "09:00"}})
	h.Add(Region{X: 0, Y: 0, W: 10, H: 1, Target: drop.TimeSlotTarget{Date: day, Time: "09:00"}, ActivityID: "a1"})

	id, ok := h.ActivityAt(3, 0)
	if !ok || id != "a1" {
		t.Errorf("ActivityAt = %q, %v; want a1, true", id, ok)
	}
}

func TestHitMapReset(t *testing.T) {
	h := &HitMap{}
	h.Add(Region{X: 0, Y: 0, W: 10, H: 1, ActivityID: "a1"})
	h.Reset()

	if _, ok := h.ActivityAt(0, 0); ok {
		t.Error("expected empty map after reset")
	}
}

func TestHitMapIgnoresDegenerate(t *testing.T) {
	h := &HitMap{}
	h.Add(Region{X: 0, Y: 0, W: 0, H: 5, Target: drop.BankTarget{}})
	h.Add(Region{X: 0, Y: 0, W: 5, H: -1, Target: drop.BankTarget{}})

	if len(h.regions) != 0 {
		t.Errorf("expected degenerate regions dropped, got %d", len(h.regions))
	}
}
