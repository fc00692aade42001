// Package ui provides the command line interface for wayfarer.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjimenar/wayfarer/internal/activity"
	"github.com/mjimenar/wayfarer/internal/config"
	"github.com/mjimenar/wayfarer/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   activity.Repository
	config *config.Config
	root   *cobra.Command
	tripID string
	debug  bool
}

// NewApp creates a new CLI application with the given repository and config.
func NewApp(repo activity.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "wayfarer",
		Short: "A terminal trip planner",
		Long: `Wayfarer is a terminal trip planner built around a drag-and-drop calendar.

Collect ideas in an unscheduled bank, then drag them onto day, week, or
month views to build an itinerary. Overlaps are detected as you go.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return tui.RunWithDebug(a.repo, a.config, a.tripID, a.debug)
		},
	}

	a.root.PersistentFlags().StringVar(&a.tripID, "trip", "", "Trip id (default: most recent trip)")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Trace TUI events to "+tui.DebugLogPath)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.tripCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.moveCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.copyCmd())
	a.root.AddCommand(a.suggestCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("wayfarer %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// resolveTrip finds the trip addressed by --trip, defaulting to the most
// recently created one.
func (a *App) resolveTrip(ctx context.Context) (*activity.Trip, error) {
	if a.tripID != "" {
		return a.repo.GetTrip(ctx, a.tripID)
	}
	trips, err := a.repo.ListTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	if len(trips) == 0 {
		return nil, errors.New("no trips yet: create one with `wayfarer trip new`")
	}
	return trips[len(trips)-1], nil
}
