package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mjimenar/wayfarer/internal/activity"
)

// statusVisibleFor is how long a footer message stays on screen.
const statusVisibleFor = 4 * time.Second

// TripLoadedMsg is sent when the trip and its activities are loaded.
type TripLoadedMsg struct {
	Trip       *activity.Trip
	Activities []*activity.Activity
}

// ActivitiesReloadedMsg is sent when the activity list is refreshed after a
// mutation.
type ActivitiesReloadedMsg struct {
	Activities []*activity.Activity
}

// ErrMsg is sent when a command fails.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadTrip loads the trip and its activities. An empty id selects the most
// recently created trip.
func LoadTrip(repo activity.Repository, tripID string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		var trip *activity.Trip
		if tripID == "" {
			trips, err := repo.ListTrips(ctx)
			if err != nil {
				return ErrMsg{Err: err}
			}
			if len(trips) == 0 {
				return ErrMsg{Err: errors.New("no trips yet: create one with `wayfarer trip new`")}
			}
			trip = trips[len(trips)-1]
		} else {
			t, err := repo.GetTrip(ctx, tripID)
			if err != nil {
				return ErrMsg{Err: err}
			}
			trip = t
		}

		activities, err := repo.ListActivitiesForTrip(ctx, trip.ID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TripLoadedMsg{Trip: trip, Activities: activities}
	}
}

// ReloadActivities refreshes the trip's activity list.
func ReloadActivities(repo activity.Repository, tripID string) tea.Cmd {
	return func() tea.Msg {
		activities, err := repo.ListActivitiesForTrip(context.Background(), tripID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ActivitiesReloadedMsg{Activities: activities}
	}
}

// CreateBankActivity adds a new unscheduled activity and refreshes the list.
func CreateBankActivity(repo activity.Repository, tripID, title string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		a, err := activity.New(tripID, title)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := repo.CreateActivity(ctx, a); err != nil {
			return ErrMsg{Err: err}
		}
		activities, err := repo.ListActivitiesForTrip(ctx, tripID)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ActivitiesReloadedMsg{Activities: activities}
	}
}

// ClearStatusAfter schedules the footer message to disappear.
func ClearStatusAfter() tea.Cmd {
	return tea.Tick(statusVisibleFor, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
