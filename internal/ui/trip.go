package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/timegrid"
)

func (a *App) tripCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trip",
		Short: "Manage trips",
	}
	cmd.AddCommand(a.tripNewCmd())
	cmd.AddCommand(a.tripListCmd())
	cmd.AddCommand(a.tripDeleteCmd())
	return cmd
}

func (a *App) tripNewCmd() *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new trip",
		Long: `Create a new trip with a date range.

Example:
  wayfarer trip new "Lisbon" --start=2025-06-01 --end=2025-06-07`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			startDate, err := timegrid.ParseDateKey(start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}
			endDate, err := timegrid.ParseDateKey(end)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", end, err)
			}

			trip, err := activity.NewTrip(args[0], startDate, endDate)
			if err != nil {
				return err
			}
			if err := a.repo.CreateTrip(context.Background(), trip); err != nil {
				return fmt.Errorf("creating trip: %w", err)
			}

			fmt.Printf("Created trip %s: %s (%s to %s, %d days)\n",
				trip.ID, trip.Name,
				timegrid.FormatDateKey(trip.StartDate),
				timegrid.FormatDateKey(trip.EndDate),
				trip.Days(),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&end, "end", "", "Last day (YYYY-MM-DD, required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func (a *App) tripListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all trips",
		RunE: func(_ *cobra.Command, _ []string) error {
			trips, err := a.repo.ListTrips(context.Background())
			if err != nil {
				return fmt.Errorf("listing trips: %w", err)
			}
			if len(trips) == 0 {
				fmt.Println(formatMuted("No trips yet."))
				return nil
			}

			fmt.Println(formatHeader("Trips"))
			for _, t := range trips {
				fmt.Printf("  %s  %s (%s to %s)\n",
					formatMuted(t.ID),
					t.Name,
					timegrid.FormatDateKey(t.StartDate),
					timegrid.FormatDateKey(t.EndDate),
				)
			}
			return nil
		},
	}
}

func (a *App) tripDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a trip and all of its activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			trip, err := a.repo.GetTrip(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteTrip(ctx, trip.ID); err != nil {
				return fmt.Errorf("deleting trip: %w", err)
			}
			fmt.Printf("Deleted trip %s: %s\n", trip.ID, trip.Name)
			return nil
		},
	}
}
