package drop

import (
	"context"
	"fmt"
	"time"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/conflict"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// DefaultDuration is the fixed duration given to every drop. The system never
// preserves a previous duration when moving between bank and calendar.
const DefaultDuration = time.Hour

// Default-hour window for whole-day drops: the current wall-clock hour is
// used when it falls inside [DayHourMin, DayHourMax], otherwise DayHourMin.
const (
	DayHourMin = 9
	DayHourMax = 20
)

// Store is the slice of the repository the resolver needs.
type Store interface {
	SaveActivity(ctx context.Context, a *activity.Activity) error
	ListActivitiesForTrip(ctx context.Context, tripID string) ([]*activity.Activity, error)
}

// Resolver turns drop targets into persisted schedule changes.
type Resolver struct {
	store       Store
	notifier    activity.Notifier
	now         func() time.Time
	autoResolve bool
	recompute   func()
	dayHourMin  int
	dayHourMax  int
}

// Option configures optional resolver behavior.
type Option func(*Resolver)

// WithClock injects the wall clock used by the day-cell default-hour
// heuristic.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithAutoResolve shifts conflicting drops to the next free slot instead of
// only warning about the overlap.
func WithAutoResolve(enabled bool) Option {
	return func(r *Resolver) { r.autoResolve = enabled }
}

// WithRecompute registers the callback that requests a full recompute of the
// calendar projections after a successful drop.
func WithRecompute(fn func()) Option {
	return func(r *Resolver) { r.recompute = fn }
}

// WithDayHourWindow overrides the [min, max] hour window for whole-day drops.
// Out-of-range values keep the defaults.
func WithDayHourWindow(min, max int) Option {
	return func(r *Resolver) {
		if min >= 0 && max <= 23 && min <= max {
			r.dayHourMin = min
			r.dayHourMax = max
		}
	}
}

// New creates a Resolver. A nil notifier discards notifications.
func New(store Store, notifier activity.Notifier, opts ...Option) *Resolver {
	if notifier == nil {
		notifier = activity.NopNotifier{}
	}
	r := &Resolver{
		store:      store,
		notifier:   notifier,
		now:        time.Now,
		dayHourMin: DayHourMin,
		dayHourMax: DayHourMax,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Drop applies the target to the activity and persists the result. The input
// activity is never mutated: a failed save leaves both the in-memory record
// and the stored one exactly as they were, and the failure is surfaced
// through the notifier. On success the registered recompute callback runs
// strictly after the save returns.
func (r *Resolver) Drop(ctx context.Context, a *activity.Activity, target Target) error {
	if a == nil {
		return activity.ErrActivityNotFound
	}

	updated := a.Clone()
	switch tgt := target.(type) {
	case BankTarget:
		updated.Unschedule()
	case TimeSlotTarget:
		start, err := timegrid.At(tgt.Date, tgt.Time)
		if err != nil {
			return fmt.Errorf("resolving time slot: %w", err)
		}
		if err := updated.Schedule(start, start.Add(DefaultDuration)); err != nil {
			return err
		}
	case DayCellTarget:
		start, err := timegrid.At(tgt.Date, fmt.Sprintf("%02d:00", r.defaultHour()))
		if err != nil {
			return fmt.Errorf("resolving day cell: %w", err)
		}
		if err := updated.Schedule(start, start.Add(DefaultDuration)); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown drop target %T", target)
	}

	if updated.Scheduled() {
		if err := r.applyConflictPolicy(ctx, updated); err != nil {
			return err
		}
	}

	if err := r.store.SaveActivity(ctx, updated); err != nil {
		r.notifier.Notify(fmt.Sprintf("Could not save %q: %v", updated.Title, err), activity.NotifyError)
		return fmt.Errorf("saving activity: %w", err)
	}

	// The projections recompute only after persistence resolved, so a view
	// is never rendered inconsistent with the store.
	if r.recompute != nil {
		r.recompute()
	}
	return nil
}

// applyConflictPolicy checks the updated placement against the trip's other
// activities. With auto-resolve on, the placement shifts to the next free
// slot; an exhausted search keeps the requested time and warns. With it off,
// overlaps only produce a warning.
func (r *Resolver) applyConflictPolicy(ctx context.Context, updated *activity.Activity) error {
	existing, err := r.store.ListActivitiesForTrip(ctx, updated.TripID)
	if err != nil {
		return fmt.Errorf("listing trip activities: %w", err)
	}

	overlaps := conflict.FindOverlaps(updated, existing)
	if len(overlaps) == 0 {
		return nil
	}

	if !r.autoResolve {
		noun := "activities"
		if len(overlaps) == 1 {
			noun = "activity"
		}
		r.notifier.Notify(fmt.Sprintf("%q overlaps %d other %s", updated.Title, len(overlaps), noun), activity.NotifyWarning)
		return nil
	}

	resolved, err := conflict.Resolve(updated, existing)
	if err != nil {
		r.notifier.Notify(fmt.Sprintf("No free slot near %s for %q", updated.Start.Format("15:04"), updated.Title), activity.NotifyWarning)
		return nil
	}
	updated.Start = resolved.Start
	updated.End = resolved.End
	return nil
}

func (r *Resolver) defaultHour() int {
	if h := r.now().Hour(); h >= r.dayHourMin && h <= r.dayHourMax {
		return h
	}
	return r.dayHourMin
}
