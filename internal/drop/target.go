// Package drop resolves drag gestures into schedule decisions: a drop target
// plus the dragged activity become a new (date, time) placement, persisted
// and pushed back through the calendar projections.
package drop

import "time"

// Target is the resolved destination of a drag gesture. It is a closed union:
// a time slot, a whole day cell, or the unscheduled bank. Targets are built
// once at the presentation boundary, never re-parsed from strings.
type Target interface {
	target()
}

// TimeSlotTarget schedules the activity at a specific hour of a day.
type TimeSlotTarget struct {
	Date time.Time // the day, local midnight
	Time string    // "HH:MM"
}

// DayCellTarget schedules the activity somewhere on a day, with the hour
// chosen by the resolver's default-hour heuristic.
type DayCellTarget struct {
	Date time.Time
}

// BankTarget returns the activity to the unscheduled bank. This is the only
// path that removes an activity from the schedule.
type BankTarget struct{}

func (TimeSlotTarget) target() {}
func (DayCellTarget) target()  {}
func (BankTarget) target()     {}
