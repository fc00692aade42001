package db

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS trips (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			start_date DATE NOT NULL,
			end_date   DATE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS activities (
			id            TEXT PRIMARY KEY,
			trip_id       TEXT NOT NULL REFERENCES trips(id),
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			location_url  TEXT NOT NULL DEFAULT '',
			opening_hours TEXT NOT NULL DEFAULT '',
			notes         TEXT NOT NULL DEFAULT '',
			tags          TEXT NOT NULL DEFAULT '[]',
			start_at      TEXT,
			end_at        TEXT,
			source        TEXT NOT NULL CHECK(source IN ('bank', 'calendar')),
			created_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK ((start_at IS NULL) = (end_at IS NULL)),
			CHECK ((source = 'calendar') = (start_at IS NOT NULL))
		);

		CREATE INDEX IF NOT EXISTS idx_activities_trip ON activities(trip_id);
		CREATE INDEX IF NOT EXISTS idx_activities_start ON activities(start_at);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}
