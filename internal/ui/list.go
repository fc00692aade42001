package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/calendar"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

func (a *App) listCmd() *cobra.Command {
	var bankOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the trip's activities",
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

			width := termWidth()
			fmt.Println(formatHeader(fmt.Sprintf("%s (%s to %s)", trip.Name,
				timegrid.FormatDateKey(trip.StartDate), timegrid.FormatDateKey(trip.EndDate))))
			fmt.Println(formatMuted(strings.Repeat("─", min(width, 60))))

			bank := calendar.Bank(activities)
			fmt.Println(formatHeader(fmt.Sprintf("Bank (%d)", len(bank))))
			for _, act := range bank {
				line := fmt.Sprintf("  %s  %s", formatMuted(act.ID[:8]), formatBank(act.Title))
				if len(act.Tags) > 0 {
					line += formatMuted(" [" + strings.Join(act.Tags, ",") + "]")
				}
				fmt.Println(line)
			}

			if bankOnly {
				return nil
			}

			lastDay := ""
			for _, act := range activities {
				if !act.Scheduled() {
					continue
				}
				day := timegrid.FormatDateKey(*act.Start)
				if day != lastDay {
					fmt.Println(formatHeader(act.Start.Format("Monday, January 2")))
					lastDay = day
				}
				fmt.Printf("  %s  %s %s\n",
					formatMuted(act.ID[:8]),
					formatMuted(act.Start.Format("15:04")+"–"+act.End.Format("15:04")),
					formatScheduled(act.Title),
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bankOnly, "bank", false, "Only show unscheduled activities")

	return cmd
}
