package assist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/drop"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

// ErrNoPlacements is returned when the model produces no usable placements.
var ErrNoPlacements = errors.New("no placements suggested")

// Dropper applies a placement the same way an interactive drop would.
type Dropper interface {
	Drop(ctx context.Context, a *activity.Activity, target drop.Target) error
}

// Placement is one suggested calendar slot for a bank activity.
type Placement struct {
	ActivityID string `json:"activity_id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Time       string `json:"time"` // HH:MM
}

// Suggestion is the validated outcome of a planning request.
type Suggestion struct {
	Placements []Placement
	Notes      []string
	Skipped    []string // human-readable reasons for rejected placements
}

// planResponse is the raw JSON shape the model is asked to produce.
type planResponse struct {
	Placements []Placement `json:"placements"`
	Notes      []string    `json:"notes"`
}

// Planner asks an LLM to place bank activities onto the trip calendar.
type Planner struct {
	client Client
}

// NewPlanner creates a Planner backed by the given client.
func NewPlanner(client Client) *Planner {
	return &Planner{client: client}
}

const systemPrompt = `You are a trip planning assistant. You receive a trip's date range,
its already scheduled activities, and a list of unscheduled activities.
Propose a date and start time for each unscheduled activity.

Rules:
- Dates must fall inside the trip range.
- Times use 24-hour HH:MM format between 06:00 and 23:00.
- Avoid overlapping the already scheduled activities.
- Respect opening hours when given.

Respond with JSON only, in exactly this shape:
{"placements": [{"activity_id": "...", "date": "YYYY-MM-DD", "time": "HH:MM"}], "notes": ["..."]}`

// Suggest asks the model for placements and validates them against the trip.
// Invalid placements are dropped, with the reason recorded in Skipped.
func (p *Planner) Suggest(ctx context.Context, trip *activity.Trip, activities []*activity.Activity) (*Suggestion, error) {
	bank := make([]*activity.Activity, 0, len(activities))
	scheduled := make([]*activity.Activity, 0, len(activities))
	for _, a := range activities {
		if a.Scheduled() {
			scheduled = append(scheduled, a)
		} else {
			bank = append(bank, a)
		}
	}
	if len(bank) == 0 {
		return nil, ErrNoPlacements
	}

	var resp planResponse
	messages := []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(trip, bank, scheduled)},
	}
	if err := p.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("requesting placements: %w", err)
	}

	sugg := &Suggestion{Notes: resp.Notes}
	byID := make(map[string]*activity.Activity, len(bank))
	for _, a := range bank {
		byID[a.ID] = a
	}

	for _, pl := range resp.Placements {
		if reason := validatePlacement(pl, trip, byID); reason != "" {
			sugg.Skipped = append(sugg.Skipped, reason)
			continue
		}
		delete(byID, pl.ActivityID) // one placement per activity
		sugg.Placements = append(sugg.Placements, pl)
	}

	if len(sugg.Placements) == 0 {
		return sugg, ErrNoPlacements
	}

	sort.Slice(sugg.Placements, func(i, j int) bool {
		if sugg.Placements[i].Date != sugg.Placements[j].Date {
			return sugg.Placements[i].Date < sugg.Placements[j].Date
		}
		return sugg.Placements[i].Time < sugg.Placements[j].Time
	})
	return sugg, nil
}

// Apply drops each placement onto the calendar through the given dropper.
// It stops at the first failure.
func (p *Planner) Apply(ctx context.Context, sugg *Suggestion, lookup func(id string) (*activity.Activity, error), dropper Dropper) error {
	for _, pl := range sugg.Placements {
		a, err := lookup(pl.ActivityID)
		if err != nil {
			return fmt.Errorf("looking up activity %s: %w", pl.ActivityID, err)
		}
		day, err := timegrid.ParseDateKey(pl.Date)
		if err != nil {
			return fmt.Errorf("parsing placement date %q: %w", pl.Date, err)
		}
		target := drop.TimeSlotTarget{Date: day, Time: pl.Time}
		if err := dropper.Drop(ctx, a, target); err != nil {
			return fmt.Errorf("placing %q: %w", a.Title, err)
		}
	}
	return nil
}

func validatePlacement(pl Placement, trip *activity.Trip, bank map[string]*activity.Activity) string {
	a, ok := bank[pl.ActivityID]
	if !ok {
		return fmt.Sprintf("unknown or already placed activity id %q", pl.ActivityID)
	}

	day, err := timegrid.ParseDateKey(pl.Date)
	if err != nil {
		return fmt.Sprintf("%s: bad date %q", a.Title, pl.Date)
	}
	if day.Before(timegrid.TruncateToDay(trip.StartDate)) || day.After(timegrid.TruncateToDay(trip.EndDate)) {
		return fmt.Sprintf("%s: %s is outside the trip range", a.Title, pl.Date)
	}

	start, err := timegrid.At(day, pl.Time)
	if err != nil {
		return fmt.Sprintf("%s: bad time %q", a.Title, pl.Time)
	}
	if h := start.Hour(); !timegrid.SameDay(start, day) || h < timegrid.GridStartHour {
		return fmt.Sprintf("%s: %s is outside the visible grid", a.Title, pl.Time)
	}
	return ""
}

func buildPrompt(trip *activity.Trip, bank, scheduled []*activity.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip: %s, from %s to %s (%d days).\n\n",
		trip.Name, timegrid.FormatDateKey(trip.StartDate), timegrid.FormatDateKey(trip.EndDate), trip.Days())

	b.WriteString("Unscheduled activities:\n")
	for _, a := range bank {
		fmt.Fprintf(&b, "- id=%s title=%q", a.ID, a.Title)
		if a.OpeningHours != "" {
			fmt.Fprintf(&b, " opening_hours=%q", a.OpeningHours)
		}
		if a.Notes != "" {
			fmt.Fprintf(&b, " notes=%q", a.Notes)
		}
		b.WriteString("\n")
	}

	if len(scheduled) > 0 {
		b.WriteString("\nAlready scheduled:\n")
		for _, a := range scheduled {
			fmt.Fprintf(&b, "- %q on %s from %s to %s\n",
				a.Title,
				timegrid.FormatDateKey(*a.Start),
				a.Start.Format("15:04"),
				a.End.Format("15:04"))
		}
	}

	return b.String()
}
