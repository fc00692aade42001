package activity

import "context"

// Repository defines the storage interface for trips and activities.
type Repository interface {
	// CreateTrip adds a new trip.
	CreateTrip(ctx context.Context, trip *Trip) error

	// GetTrip retrieves a trip by ID. Returns ErrTripNotFound if missing.
	GetTrip(ctx context.Context, id string) (*Trip, error)

	// ListTrips returns all trips ordered by creation time.
	ListTrips(ctx context.Context) ([]*Trip, error)

	// DeleteTrip removes a trip and all of its activities atomically.
	DeleteTrip(ctx context.Context, id string) error

	// CreateActivity adds a new activity to its trip.
	CreateActivity(ctx context.Context, a *Activity) error

	// GetActivity retrieves an activity by ID. Returns ErrActivityNotFound if missing.
	GetActivity(ctx context.Context, id string) (*Activity, error)

	// SaveActivity upserts an activity by ID. The write is atomic: a failed
	// save leaves the stored record untouched.
	SaveActivity(ctx context.Context, a *Activity) error

	// DeleteActivity removes a single activity.
	DeleteActivity(ctx context.Context, id string) error

	// ListActivitiesForTrip returns the trip's activities, scheduled ones
	// ordered by start time and bank ones by creation time.
	ListActivitiesForTrip(ctx context.Context, tripID string) ([]*Activity, error)

	// Close releases any resources held by the repository.
	Close() error
}
