package calendar

import (
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// DayProjection describes everything a presenter needs to render the day
// view: the slot geometry plus the day's positioned activities.
type DayProjection struct {
	Date       time.Time
	Slots      []timegrid.Slot
	Activities []Positioned
}

// DayColumn is one day of the week view.
type DayColumn struct {
	Date       time.Time
	Activities []Positioned
}

// WeekProjection describes the week view: seven day columns sharing the slot
// geometry.
type WeekProjection struct {
	Start time.Time
	End   time.Time
	Slots []timegrid.Slot
	Days  []DayColumn
}

// MonthCell is one day cell of the month grid. Overflowing activities are
// dropped from Visible only, never from the underlying data.
type MonthCell struct {
	Date     time.Time
	InMonth  bool
	Visible  []*activity.Activity
	Overflow int
}

// MonthProjection describes the month view as whole-week rows of cells.
type MonthProjection struct {
	Start time.Time
	End   time.Time
	Weeks [][]MonthCell
}

// Day computes the day projection for the focused date.
func (vm *ViewModel) Day(activities []*activity.Activity) DayProjection {
	return DayProjection{
		Date:       vm.current,
		Slots:      timegrid.Slots(),
		Activities: AssignOverlapColumns(ActivitiesOnDate(activities, vm.current)),
	}
}

// Week computes the week projection for the week containing the focused date.
func (vm *ViewModel) Week(activities []*activity.Activity) WeekProjection {
	start := timegrid.WeekStart(vm.current)
	proj := WeekProjection{
		Start: start,
		End:   timegrid.WeekEnd(vm.current),
		Slots: timegrid.Slots(),
	}
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		proj.Days = append(proj.Days, DayColumn{
			Date:       day,
			Activities: AssignOverlapColumns(ActivitiesOnDate(activities, day)),
		})
	}
	return proj
}

// Month computes the month projection for the focused month. cap limits the
// visible activities per cell; values below one fall back to the default.
func (vm *ViewModel) Month(activities []*activity.Activity, cap int) MonthProjection {
	if cap < 1 {
		cap = DefaultMonthCap
	}
	start := timegrid.MonthGridStart(vm.current)
	end := timegrid.MonthGridEnd(vm.current)

	proj := MonthProjection{Start: start, End: end}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 7) {
		var week []MonthCell
		for i := 0; i < 7; i++ {
			date := day.AddDate(0, 0, i)
			onDay := ActivitiesOnDate(activities, date)
			visible := onDay
			overflow := 0
			if len(onDay) > cap {
				visible = onDay[:cap]
				overflow = len(onDay) - cap
			}
			week = append(week, MonthCell{
				Date:     date,
				InMonth:  date.Month() == vm.current.Month(),
				Visible:  visible,
				Overflow: overflow,
			})
		}
		proj.Weeks = append(proj.Weeks, week)
	}
	return proj
}
