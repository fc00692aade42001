// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mjimenar/wayfarer/internal/activity"
)

// SQLite implements activity.Repository using SQLite.
type SQLite struct {
	db *sql.DB
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// CreateTrip adds a new trip.
func (s *SQLite) CreateTrip(ctx context.Context, trip *activity.Trip) error {
	query := `
		INSERT INTO trips (id, name, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		trip.ID,
		trip.Name,
		trip.StartDate.Format("2006-01-02"),
		trip.EndDate.Format("2006-01-02"),
		trip.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting trip: %w", err)
	}
	return nil
}

// GetTrip retrieves a trip by ID.
func (s *SQLite) GetTrip(ctx context.Context, id string) (*activity.Trip, error) {
	query := `SELECT id, name, start_date, end_date, created_at FROM trips WHERE id = ?`

	var (
		trip       activity.Trip
		startDate  string
		endDate    string
		createdAt  string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&trip.ID, &trip.Name, &startDate, &endDate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, activity.ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying trip: %w", err)
	}

	if trip.StartDate, err = parseDate(startDate); err != nil {
		return nil, fmt.Errorf("parsing start date: %w", err)
	}
	if trip.EndDate, err = parseDate(endDate); err != nil {
		return nil, fmt.Errorf("parsing end date: %w", err)
	}
	if trip.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	return &trip, nil
}

// ListTrips returns all trips ordered by creation time.
func (s *SQLite) ListTrips(ctx context.Context) ([]*activity.Trip, error) {
	query := `SELECT id, name, start_date, end_date, created_at FROM trips ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trips []*activity.Trip
	for rows.Next() {
		var (
			trip      activity.Trip
			startDate string
			endDate   string
			createdAt string
		)
		if err := rows.Scan(&trip.ID, &trip.Name, &startDate, &endDate, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning trip: %w", err)
		}
		if trip.StartDate, err = parseDate(startDate); err != nil {
			return nil, fmt.Errorf("parsing start date: %w", err)
		}
		if trip.EndDate, err = parseDate(endDate); err != nil {
			return nil, fmt.Errorf("parsing end date: %w", err)
		}
		if trip.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created at: %w", err)
		}
		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trips: %w", err)
	}
	return trips, nil
}

// DeleteTrip removes a trip and all of its activities in one transaction.
func (s *SQLite) DeleteTrip(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE trip_id = ?`, id); err != nil {
		return fmt.Errorf("deleting trip activities: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting trip: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return activity.ErrTripNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// CreateActivity adds a new activity to its trip.
func (s *SQLite) CreateActivity(ctx context.Context, a *activity.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}

	tags, err := encodeTags(a.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activities (
			id, trip_id, title, description, location_url, opening_hours,
			notes, tags, start_at, end_at, source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		a.ID,
		a.TripID,
		a.Title,
		a.Description,
		a.LocationURL,
		a.OpeningHours,
		a.Notes,
		tags,
		encodeTime(a.Start),
		encodeTime(a.End),
		a.Source,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}
	return nil
}

// GetActivity retrieves an activity by ID.
func (s *SQLite) GetActivity(ctx context.Context, id string) (*activity.Activity, error) {
	query := selectActivities + ` WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, activity.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// SaveActivity upserts an activity by ID. The statement is a single atomic
// write; a failed save leaves the stored row untouched.
func (s *SQLite) SaveActivity(ctx context.Context, a *activity.Activity) error {
	if err := a.Validate(); err != nil {
		return err
	}

	tags, err := encodeTags(a.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO activities (
			id, trip_id, title, description, location_url, opening_hours,
			notes, tags, start_at, end_at, source, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			location_url = excluded.location_url,
			opening_hours = excluded.opening_hours,
			notes = excluded.notes,
			tags = excluded.tags,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			source = excluded.source,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		a.ID,
		a.TripID,
		a.Title,
		a.Description,
		a.LocationURL,
		a.OpeningHours,
		a.Notes,
		tags,
		encodeTime(a.Start),
		encodeTime(a.End),
		a.Source,
		a.CreatedAt.Format(time.RFC3339),
		a.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving activity: %w", err)
	}
	return nil
}

// DeleteActivity removes a single activity.
func (s *SQLite) DeleteActivity(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting activity: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return activity.ErrActivityNotFound
	}
	return nil
}

// ListActivitiesForTrip returns the trip's activities, scheduled ones first
// ordered by start time, then bank ones by creation time.
func (s *SQLite) ListActivitiesForTrip(ctx context.Context, tripID string) ([]*activity.Activity, error) {
	query := selectActivities + `
		WHERE trip_id = ?
		ORDER BY start_at IS NULL, start_at, created_at
	`

	rows, err := s.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []*activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}
	return activities, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

const selectActivities = `
	SELECT id, trip_id, title, description, location_url, opening_hours,
	       notes, tags, start_at, end_at, source, created_at, updated_at
	FROM activities
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*activity.Activity, error) {
	var (
		a         activity.Activity
		tags      string
		startAt   sql.NullString
		endAt     sql.NullString
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&a.ID,
		&a.TripID,
		&a.Title,
		&a.Description,
		&a.LocationURL,
		&a.OpeningHours,
		&a.Notes,
		&tags,
		&startAt,
		&endAt,
		&a.Source,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning activity: %w", err)
	}

	if a.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if a.Start, err = decodeTime(startAt); err != nil {
		return nil, fmt.Errorf("parsing start: %w", err)
	}
	if a.End, err = decodeTime(endAt); err != nil {
		return nil, fmt.Errorf("parsing end: %w", err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}
	if a.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated at: %w", err)
	}
	return &a, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}

// encodeTags stores the tag list as a JSON array so insertion order survives
// the round trip.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(data), nil
}

func decodeTags(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

func encodeTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func decodeTime(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
