package store

import (
	"context"
	"fmt"

	"branchout/internal/models"
)

// ListPlaces returns every place record with vibes normalized to a list.
func (s *Store) ListPlaces(ctx context.Context) ([]models.Place, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, category, description, vibes, lat, lng, address, image_url, created_at
		FROM places
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("select places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var (
			p     models.Place
			vibes []byte
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Category, &p.Description, &vibes,
			&p.Lat, &p.Lng, &p.Address, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan place: %w", err)
		}
		p.Vibes = normalizeVibes(vibes)
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate places: %w", err)
	}

	return places, nil
}

// CreatePlace inserts a place and fills in the store-assigned fields.
func (s *Store) CreatePlace(ctx context.Context, p *models.Place) error {
	vibes, err := encodeVibes(p.Vibes)
	if err != nil {
		return fmt.Errorf("encode vibes: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO places (title, category, description, vibes, lat, lng, address, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, p.Title, p.Category, p.Description, vibes, p.Lat, p.Lng, p.Address, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert place: %w", err)
	}

	return nil
}
