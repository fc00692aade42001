package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/assist"
	"github.com/mjimenar/wayfarer/internal/drop"
)

func (a *App) suggestCmd() *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask the configured LLM to place bank activities on the calendar",
		Long: `Ask the configured LLM to place bank activities on the calendar.

By default the suggestions are only printed. With --apply each one is
dropped onto its slot, going through the usual conflict checks.

Example:
  wayfarer suggest --apply`,
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

			client, err := assist.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return err
			}
			planner := assist.NewPlanner(client)

			fmt.Println(formatMuted("Asking " + a.config.LLM.Provider + "…"))
			sugg, err := planner.Suggest(ctx, trip, activities)
			if err != nil {
				return err
			}

			fmt.Println(formatHeader("Suggested placements"))
			for _, pl := range sugg.Placements {
				title := pl.ActivityID
				for _, act := range activities {
					if act.ID == pl.ActivityID {
						title = act.Title
						break
					}
				}
				fmt.Printf("  %s %s  %s\n", pl.Date, formatMuted(pl.Time), formatScheduled(title))
			}
			for _, note := range sugg.Notes {
				fmt.Println(formatMuted("  note: " + note))
			}
			for _, reason := range sugg.Skipped {
				fmt.Println(formatWarning("  skipped: " + reason))
			}

			if !apply {
				fmt.Println(formatMuted("Run again with --apply to schedule these."))
				return nil
			}

			resolver := drop.New(a.repo, termNotifier{},
				drop.WithAutoResolve(true),
				drop.WithDayHourWindow(a.config.Schedule.DayHourMin, a.config.Schedule.DayHourMax))
			lookup := func(id string) (*activity.Activity, error) {
				return a.repo.GetActivity(ctx, id)
			}
			if err := planner.Apply(ctx, sugg, lookup, resolver); err != nil {
				return err
			}
			fmt.Println(formatSuccess(fmt.Sprintf("Scheduled %d activities", len(sugg.Placements))))
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Apply the suggested placements")

	return cmd
}
