package tui

import (
	"github.com/mjimenar/wayfarer/internal/drag"
	"github.com/mjimenar/wayfarer/internal/drop"
)

// Region is a rectangular area of the screen mapped to a drop target,
// an activity, or both.
type Region struct {
	X, Y, W, H int
	Target     drop.Target
	ActivityID string
}

func (r Region) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// HitMap translates screen coordinates into drop targets and activities.
// It is rebuilt on every render pass, so regions always match what is on
// screen. Later regions win, matching paint order (activities are added
// after the cells they cover).
type HitMap struct {
	regions []Region
}

// Reset discards all regions, keeping the backing array.
func (h *HitMap) Reset() {
	h.regions = h.regions[:0]
}

// Add registers a region.
func (h *HitMap) Add(r Region) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	h.regions = append(h.regions, r)
}

// TargetAt returns the drop target under the given point, if any.
// It implements drag.TargetResolver.
func (h *HitMap) TargetAt(p drag.Point) (drop.Target, bool) {
	for i := len(h.regions) - 1; i >= 0; i-- {
		r := h.regions[i]
		if r.Target != nil && r.contains(int(p.X), int(p.Y)) {
			return r.Target, true
		}
	}
	return nil, false
}

// ActivityAt returns the id of the activity rendered under (x, y), if any.
func (h *HitMap) ActivityAt(x, y int) (string, bool) {
	for i := len(h.regions) - 1; i >= 0; i-- {
		r := h.regions[i]
		if r.ActivityID != "" && r.contains(x, y) {
			return r.ActivityID, true
		}
	}
	return "", false
}
