package calendar

import (
	"math"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// Position is the vertical placement of an activity within a day column,
// measured in presentation units from the 6:00 grid start.
type Position struct {
	Top    float64
	Height float64
}

// PositionIn computes where an activity renders in a day or week column.
// slotHeight is the height of one hour row; minHeight floors very short
// activities so they stay visible.
func PositionIn(a *activity.Activity, slotHeight, minHeight float64) Position {
	if !a.Scheduled() {
		return Position{}
	}
	top := float64(timegrid.MinutesSinceGridStart(*a.Start)) / 60 * slotHeight
	height := a.Duration().Minutes() / 60 * slotHeight
	return Position{
		Top:    top,
		Height: math.Max(minHeight, height),
	}
}

// Positioned pairs an activity with its overlap-column assignment so
// concurrent entries render side by side.
type Positioned struct {
	Activity     *activity.Activity
	Column       int
	TotalColumns int
}

// AssignOverlapColumns lays out activities left to right with a greedy scan:
// each activity takes the smallest column not used by any previously placed
// activity whose [start, end) interval intersects it. TotalColumns is shared
// across each transitively-overlapping group. Identical start times keep
// input order; callers pre-sort for determinism.
func AssignOverlapColumns(activities []*activity.Activity) []Positioned {
	var placed []Positioned
	for _, a := range activities {
		if !a.Scheduled() {
			continue
		}
		used := make(map[int]bool)
		for _, p := range placed {
			if a.OverlapsWith(p.Activity) {
				used[p.Column] = true
			}
		}
		column := 0
		for used[column] {
			column++
		}
		placed = append(placed, Positioned{Activity: a, Column: column})
	}

	assignGroupWidths(placed)
	return placed
}

// assignGroupWidths walks the transitive overlap groups and stamps each
// member with the group's column count.
func assignGroupWidths(placed []Positioned) {
	n := len(placed)
	if n == 0 {
		return
	}

	group := make([]int, n)
	for i := range group {
		group[i] = -1
	}

	next := 0
	for i := 0; i < n; i++ {
		if group[i] != -1 {
			continue
		}
		// Flood the overlap component starting at i.
		queue := []int{i}
		group[i] = next
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for j := 0; j < n; j++ {
				if group[j] == -1 && placed[cur].Activity.OverlapsWith(placed[j].Activity) {
					group[j] = next
					queue = append(queue, j)
				}
			}
		}
		next++
	}

	maxCol := make([]int, next)
	for i := range placed {
		if placed[i].Column > maxCol[group[i]] {
			maxCol[group[i]] = placed[i].Column
		}
	}
	for i := range placed {
		placed[i].TotalColumns = maxCol[group[i]] + 1
	}
}
