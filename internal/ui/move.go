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

// termNotifier prints drop notifications to the terminal.
type termNotifier struct{}

func (termNotifier) Notify(message string, kind activity.NotifyKind) {
	switch kind {
	case activity.NotifySuccess:
		fmt.Println(formatSuccess(message))
	case activity.NotifyWarning:
		fmt.Println(formatWarning(message))
	case activity.NotifyError:
		fmt.Println(formatWarning(message))
	default:
		fmt.Println(message)
	}
}

func (a *App) moveCmd() *cobra.Command {
	var (
		to          string
		autoResolve bool
	)

	cmd := &cobra.Command{
		Use:   "move [id]",
		Short: "Move an activity to a slot, a day, or back to the bank",
		Long: `Move an activity the same way a drag gesture would.

The destination is "bank", a date, or a date@time:

  wayfarer move 3f2a --to=bank
  wayfarer move 3f2a --to=2025-06-02
  wayfarer move 3f2a --to=2025-06-02@14:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			trip, err := a.resolveTrip(ctx)
			if err != nil {
				return err
			}
			act, err := a.findActivity(ctx, trip.ID, args[0])
			if err != nil {
				return err
			}

			target, err := parseTarget(to)
			if err != nil {
				return err
			}

			resolver := drop.New(a.repo, termNotifier{},
				drop.WithAutoResolve(autoResolve),
				drop.WithDayHourWindow(a.config.Schedule.DayHourMin, a.config.Schedule.DayHourMax))
			if err := resolver.Drop(ctx, act, target); err != nil {
				return err
			}

			moved, err := a.repo.GetActivity(ctx, act.ID)
			if err != nil {
				return err
			}
			if moved.Scheduled() {
				fmt.Printf("Moved %q to %s at %s\n", moved.Title,
					timegrid.FormatDateKey(*moved.Start), moved.Start.Format("15:04"))
			} else {
				fmt.Printf("Moved %q to the bank\n", moved.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", `Destination: "bank", YYYY-MM-DD, or YYYY-MM-DD@HH:MM (required)`)
	cmd.Flags().BoolVar(&autoResolve, "auto-resolve", false, "Shift conflicting drops to the next free slot")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// parseTarget turns the --to argument into a drop target.
func parseTarget(to string) (drop.Target, error) {
	if strings.EqualFold(to, "bank") {
		return drop.BankTarget{}, nil
	}

	dateKey, clock, hasClock := strings.Cut(to, "@")
	day, err := timegrid.ParseDateKey(dateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid destination %q: %w", to, err)
	}
	if !hasClock {
		return drop.DayCellTarget{Date: day}, nil
	}
	if _, err := timegrid.At(day, clock); err != nil {
		return nil, fmt.Errorf("invalid destination time %q: %w", clock, err)
	}
	return drop.TimeSlotTarget{Date: day, Time: clock}, nil
}

// findActivity resolves an activity by full id or unambiguous prefix.
func (a *App) findActivity(ctx context.Context, tripID, id string) (*activity.Activity, error) {
	if act, err := a.repo.GetActivity(ctx, id); err == nil {
		return act, nil
	}

	activities, err := a.repo.ListActivitiesForTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	var match *activity.Activity
	for _, act := range activities {
		if strings.HasPrefix(act.ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous id prefix %q", id)
			}
			match = act
		}
	}
	if match == nil {
		return nil, activity.ErrActivityNotFound
	}
	return match, nil
}
