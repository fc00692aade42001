// Package conflict detects overlapping scheduled activities and proposes
// non-overlapping placements by fixed-increment displacement.
package conflict

import (
	"errors"
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
)

// ErrNoSlotFound is returned when the bounded search exhausts its attempts
// without finding a free slot. Callers decide whether to surface or ignore it.
var ErrNoSlotFound = errors.New("no free slot found")

const (
	// shiftIncrement is how far each attempt pushes the candidate later.
	shiftIncrement = 15 * time.Minute
	// maxAttempts bounds the search so a fully booked day terminates.
	maxAttempts = 20
)

// FindOverlaps returns the scheduled activities in existing whose [start, end)
// interval intersects the candidate's. The candidate itself (matched by id)
// and unscheduled activities never participate.
func FindOverlaps(candidate *activity.Activity, existing []*activity.Activity) []*activity.Activity {
	if candidate == nil || !candidate.Scheduled() {
		return nil
	}
	var overlaps []*activity.Activity
	for _, other := range existing {
		if other.ID == candidate.ID {
			continue
		}
		if candidate.OverlapsWith(other) {
			overlaps = append(overlaps, other)
		}
	}
	return overlaps
}

// Resolve returns a copy of the candidate shifted later in 15-minute steps,
// preserving its duration, until it overlaps nothing in existing. The input
// is never mutated. A candidate that already fits is returned after zero
// shifts; after 20 fruitless attempts Resolve fails with ErrNoSlotFound.
func Resolve(candidate *activity.Activity, existing []*activity.Activity) (*activity.Activity, error) {
	if candidate == nil || !candidate.Scheduled() {
		return nil, ErrNoSlotFound
	}

	shifted := candidate.Clone()
	if len(FindOverlaps(shifted, existing)) == 0 {
		return shifted, nil
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		start := shifted.Start.Add(shiftIncrement)
		end := shifted.End.Add(shiftIncrement)
		shifted.Start = &start
		shifted.End = &end
		if len(FindOverlaps(shifted, existing)) == 0 {
			return shifted, nil
		}
	}
	return nil, ErrNoSlotFound
}
