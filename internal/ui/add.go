package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/drop"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

func (a *App) addCmd() *cobra.Command {
	var (
		date     string
		at       string
		location string
		hours    string
		notes    string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add an activity to the trip",
		Long: `Add an activity to the current trip.

Without --date the activity lands in the unscheduled bank. With --date
(and optionally --at) it is scheduled directly.

Example:
  wayfarer add "Gulbenkian museum" --date=2025-06-02 --at=14:00 --tags=art,indoor`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			trip, err := a.resolveTrip(ctx)
			if err != nil {
				return err
			}

			act, err := activity.New(trip.ID, args[0])
			if err != nil {
				return err
			}
			act.LocationURL = location
			act.OpeningHours = hours
			act.Notes = notes
			act.Tags = tags

			if date != "" {
				day, err := timegrid.ParseDateKey(date)
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", date, err)
				}
				clock := at
				if clock == "" {
					clock = fmt.Sprintf("%02d:00", a.config.Schedule.DayHourMin)
				}
				start, err := timegrid.At(day, clock)
				if err != nil {
					return fmt.Errorf("invalid time %q: %w", clock, err)
				}
				if err := act.Schedule(start, start.Add(drop.DefaultDuration)); err != nil {
					return err
				}
			}

			if err := a.repo.CreateActivity(ctx, act); err != nil {
				return fmt.Errorf("creating activity: %w", err)
			}

			if act.Scheduled() {
				fmt.Printf("Added %q on %s at %s\n", act.Title,
					timegrid.FormatDateKey(*act.Start), act.Start.Format("15:04"))
			} else {
				fmt.Printf("Added %q to the bank\n", act.Title)
			}
			if len(act.Tags) > 0 {
				fmt.Println(formatMuted("  tags: " + strings.Join(act.Tags, ", ")))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Scheduled date (YYYY-MM-DD, default: unscheduled)")
	cmd.Flags().StringVar(&at, "at", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&location, "location", "", "Location URL")
	cmd.Flags().StringVar(&hours, "hours", "", "Opening hours, free text")
	cmd.Flags().StringVar(&notes, "notes", "", "Notes")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Comma-separated tags")

	return cmd
}
