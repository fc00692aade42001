package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	ical "github.com/arran4/golang-ical"
	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
)

func (a *App) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the trip's scheduled activities as an iCalendar file",
		Long: `Export the trip's scheduled activities as an iCalendar (.ics) file.

Bank activities have no time and are skipped.

Example:
  wayfarer export --output=lisbon.ics`,
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

			payload, count := buildICS(trip, activities)
			if count == 0 {
				return fmt.Errorf("nothing to export: %q has no scheduled activities", trip.Name)
			}

			if output == "" || output == "-" {
				fmt.Print(payload)
				return nil
			}
			if err := os.WriteFile(output, []byte(payload), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Printf("Exported %d activities to %s\n", count, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// buildICS serializes the trip's scheduled activities into an iCalendar
// document and reports how many events it contains.
func buildICS(trip *activity.Trip, activities []*activity.Activity) (string, int) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetXWRCalName(trip.Name)

	count := 0
	for _, act := range activities {
		if !act.Scheduled() {
			continue
		}
		event := cal.AddEvent(act.ID)
		event.SetCreatedTime(act.CreatedAt)
		event.SetDtStampTime(act.UpdatedAt)
		event.SetStartAt(*act.Start)
		event.SetEndAt(*act.End)
		event.SetSummary(act.Title)
		if act.Description != "" {
			event.SetDescription(act.Description)
		}
		if act.Notes != "" {
			event.SetDescription(strings.TrimSpace(act.Description + "\n" + act.Notes))
		}
		if act.LocationURL != "" {
			event.SetURL(act.LocationURL)
		}
		count++
	}
	return cal.Serialize(), count
}
