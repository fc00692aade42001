// Package activity defines the core domain types for wayfarer.
package activity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Validation errors.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrMissingTrip      = errors.New("activity must belong to a trip")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
	ErrHalfScheduled    = errors.New("start and end must both be set or both be empty")
	ErrSourceMismatch   = errors.New("source disagrees with scheduled times")
	ErrEmptyTripName    = errors.New("trip name cannot be empty")
	ErrTripEndBeforeLow = errors.New("trip end date must be on or after start date")
)

// Domain errors.
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrTripNotFound     = errors.New("trip not found")
)

// Source indicates where an activity lives: the unscheduled bank or the calendar.
type Source string

const (
	SourceBank     Source = "bank"
	SourceCalendar Source = "calendar"
)

// Activity is a single plannable item within a trip. It is either in the
// bank (Start and End nil) or on the calendar (both set); the Source field
// is derived from that pair and must never disagree with it.
type Activity struct {
	ID           string
	TripID       string
	Title        string
	Description  string
	LocationURL  string
	OpeningHours string
	Notes        string
	Tags         []string // insertion order preserved
	Start        *time.Time
	End          *time.Time
	Source       Source
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates an unscheduled Activity in the bank with a generated id.
func New(tripID, title string) (*Activity, error) {
	if tripID == "" {
		return nil, ErrMissingTrip
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	now := time.Now()
	return &Activity{
		ID:        uuid.NewString(),
		TripID:    tripID,
		Title:     title,
		Source:    SourceBank,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Scheduled returns true if the activity is placed on the calendar.
func (a *Activity) Scheduled() bool {
	return a.Start != nil && a.End != nil
}

// Schedule places the activity on the calendar. Start, End and Source are
// updated together so the activity never holds a partially-set pair.
func (a *Activity) Schedule(start, end time.Time) error {
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	s, e := start, end
	a.Start = &s
	a.End = &e
	a.Source = SourceCalendar
	a.UpdatedAt = time.Now()
	return nil
}

// Unschedule moves the activity back to the bank.
func (a *Activity) Unschedule() {
	a.Start = nil
	a.End = nil
	a.Source = SourceBank
	a.UpdatedAt = time.Now()
}

// Validate checks the bank/calendar invariant.
func (a *Activity) Validate() error {
	if a.TripID == "" {
		return ErrMissingTrip
	}
	if a.Title == "" {
		return ErrEmptyTitle
	}
	if (a.Start == nil) != (a.End == nil) {
		return ErrHalfScheduled
	}
	if a.Scheduled() {
		if !a.End.After(*a.Start) {
			return ErrEndBeforeStart
		}
		if a.Source != SourceCalendar {
			return ErrSourceMismatch
		}
		return nil
	}
	if a.Source != SourceBank {
		return ErrSourceMismatch
	}
	return nil
}

// Duration returns the scheduled duration, or zero for bank activities.
func (a *Activity) Duration() time.Duration {
	if !a.Scheduled() {
		return 0
	}
	return a.End.Sub(*a.Start)
}

// OverlapsWith reports whether the two activities' [start, end) intervals
// intersect. Unscheduled activities never overlap anything.
func (a *Activity) OverlapsWith(other *Activity) bool {
	if other == nil || !a.Scheduled() || !other.Scheduled() {
		return false
	}
	return a.Start.Before(*other.End) && a.End.After(*other.Start)
}

// Clone returns a deep copy. Mutating the copy never touches the original.
func (a *Activity) Clone() *Activity {
	dup := *a
	if a.Start != nil {
		s := *a.Start
		dup.Start = &s
	}
	if a.End != nil {
		e := *a.End
		dup.End = &e
	}
	if a.Tags != nil {
		dup.Tags = append([]string(nil), a.Tags...)
	}
	return &dup
}

// Trip owns zero or more activities over an inclusive date range.
type Trip struct {
	ID        string
	Name      string
	StartDate time.Time // date only, local midnight
	EndDate   time.Time // date only, local midnight
	CreatedAt time.Time
}

// NewTrip creates a Trip with a generated id, validating the date range.
func NewTrip(name string, startDate, endDate time.Time) (*Trip, error) {
	if name == "" {
		return nil, ErrEmptyTripName
	}
	if endDate.Before(startDate) {
		return nil, ErrTripEndBeforeLow
	}
	return &Trip{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: time.Now(),
	}, nil
}

// Days returns the number of calendar days the trip spans, inclusive.
func (t *Trip) Days() int {
	return int(t.EndDate.Sub(t.StartDate).Hours()/24) + 1
}
