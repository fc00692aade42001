package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

func (a *App) copyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "copy",
		Short: "Copy the itinerary to the clipboard as plain text",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			trip, err := a.resolveTrip(ctx)
			if err != nil {
				return err
			}
			activities, err := a.repo.ListActivitiesForTrip(ctx, trip.ID)
			if err != nil {
				return fmt.Errorf("listing activities: %w", err)
			}

			text := itineraryText(trip, activities)
			if err := clipboard.WriteAll(text); err != nil {
				return fmt.Errorf("copying to clipboard: %w", err)
			}
			fmt.Println(formatSuccess("Itinerary copied to clipboard"))
			return nil
		},
	}
}

// itineraryText renders the trip as shareable plain text, scheduled days
// first and the bank at the end.
func itineraryText(trip *activity.Trip, activities []*activity.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s to %s)\n", trip.Name,
		timegrid.FormatDateKey(trip.StartDate), timegrid.FormatDateKey(trip.EndDate))

	lastDay := ""
	for _, act := range activities {
		if !act.Scheduled() {
			continue
		}
		day := timegrid.FormatDateKey(*act.Start)
		if day != lastDay {
			fmt.Fprintf(&b, "\n%s\n", act.Start.Format("Monday, January 2"))
			lastDay = day
		}
		fmt.Fprintf(&b, "  %s–%s %s\n", act.Start.Format("15:04"), act.End.Format("15:04"), act.Title)
		if act.LocationURL != "" {
			fmt.Fprintf(&b, "    %s\n", act.LocationURL)
		}
	}

	var bank []string
	for _, act := range activities {
		if !act.Scheduled() {
			bank = append(bank, act.Title)
		}
	}
	if len(bank) > 0 {
		fmt.Fprintf(&b, "\nStill unscheduled: %s\n", strings.Join(bank, ", "))
	}
	return b.String()
}
