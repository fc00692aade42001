// Package calendar computes what to render for the day, week and month views
// from a flat activity list. All projections are recomputed wholesale from the
// store's activities; nothing here is persisted.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// View identifies one of the three calendar projections.
type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

// Minimum rendered heights keep zero-duration activities visible and
// clickable.
const (
	MinHeightDay  = 30.0
	MinHeightWeek = 20.0
)

// Month view caps: at most this many activities render per day cell, the
// rest collapse into an overflow count.
const (
	DefaultMonthCap = 3
	NarrowMonthCap  = 2
)

// ViewModel holds the current calendar focus: a date and a view mode.
type ViewModel struct {
	current time.Time
	view    View
}

// NewViewModel creates a view model focused on the given date in week view.
func NewViewModel(date time.Time) *ViewModel {
	return &ViewModel{current: timegrid.TruncateToDay(date), view: ViewWeek}
}

// CurrentDate returns the focused date.
func (vm *ViewModel) CurrentDate() time.Time {
	return vm.current
}

// CurrentView returns the active view mode.
func (vm *ViewModel) CurrentView() View {
	return vm.view
}

// SetView switches the active projection. Unknown values are ignored.
func (vm *ViewModel) SetView(v View) {
	switch v {
	case ViewDay, ViewWeek, ViewMonth:
		vm.view = v
	}
}

// SetDate moves the focus to the given date.
func (vm *ViewModel) SetDate(date time.Time) {
	vm.current = timegrid.TruncateToDay(date)
}

// Previous steps the focus back by one day, week or calendar month depending
// on the active view. Month steps keep the day-of-month where possible and
// accept Go's native overflow normalization otherwise.
func (vm *ViewModel) Previous() {
	vm.step(-1)
}

// Next steps the focus forward by one day, week or calendar month.
func (vm *ViewModel) Next() {
	vm.step(1)
}

func (vm *ViewModel) step(direction int) {
	switch vm.view {
	case ViewDay:
		vm.current = vm.current.AddDate(0, 0, direction)
	case ViewWeek:
		vm.current = vm.current.AddDate(0, 0, 7*direction)
	case ViewMonth:
		vm.current = vm.current.AddDate(0, direction, 0)
	}
}

// Title returns the heading for the active view: full weekday and date for
// the day view, the month (or month range when the week straddles two) for
// the week view, and month plus year for the month view.
func (vm *ViewModel) Title() string {
	switch vm.view {
	case ViewDay:
		return vm.current.Format("Monday, January 2, 2006")
	case ViewWeek:
		start := timegrid.WeekStart(vm.current)
		end := timegrid.WeekEnd(vm.current)
		switch {
		case start.Month() == end.Month():
			return start.Format("January 2006")
		case start.Year() == end.Year():
			return fmt.Sprintf("%s – %s %d", start.Format("Jan"), end.Format("Jan"), start.Year())
		default:
			return fmt.Sprintf("%s – %s", start.Format("Jan 2006"), end.Format("Jan 2006"))
		}
	default:
		return vm.current.Format("January 2006")
	}
}

// ActivitiesOnDate filters to activities whose start falls on the same
// calendar day as date (matched by components, not a 24-hour window), sorted
// ascending by start. Ties keep input order.
func ActivitiesOnDate(activities []*activity.Activity, date time.Time) []*activity.Activity {
	var out []*activity.Activity
	for _, a := range activities {
		if a.Scheduled() && timegrid.SameDay(*a.Start, date) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(*out[j].Start)
	})
	return out
}

// Bank returns the trip's unscheduled activities in input order.
func Bank(activities []*activity.Activity) []*activity.Activity {
	var out []*activity.Activity
	for _, a := range activities {
		if !a.Scheduled() {
			out = append(out, a)
		}
	}
	return out
}
