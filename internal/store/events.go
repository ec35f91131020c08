package store

import (
	"context"
	"database/sql"
	"fmt"

	"branchout/internal/models"
)

// ListEvents returns every event record. Vibes normalize to a list; an absent
// start or end time scans as the zero time.
func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, description, vibes, lat, lng, address,
		       start_time, end_time, image_url, org_id, created_at
		FROM events
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var (
			e          models.Event
			vibes      []byte
			start, end sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Category, &e.Description, &vibes,
			&e.Lat, &e.Lng, &e.Address, &start, &end, &e.ImageURL, &e.OrgID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.Vibes = normalizeVibes(vibes)
		if start.Valid {
			e.StartTime = start.Time
		}
		if end.Valid {
			e.EndTime = end.Time
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// CreateEvent inserts an event and fills in the store-assigned fields.
func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	vibes, err := encodeVibes(e.Vibes)
	if err != nil {
		return fmt.Errorf("encode vibes: %w", err)
	}

	var start, end sql.NullTime
	if !e.StartTime.IsZero() {
		start = sql.NullTime{Time: e.StartTime, Valid: true}
	}
	if !e.EndTime.IsZero() {
		end = sql.NullTime{Time: e.EndTime, Valid: true}
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO events (title, category, description, vibes, lat, lng, address,
		                    start_time, end_time, image_url, org_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`, e.Title, e.Category, e.Description, vibes, e.Lat, e.Lng, e.Address,
		start, end, e.ImageURL, e.OrgID).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}
