package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"branchout/internal/models"
)

// CreateProfile registers a new profile with the given starting role.
func (s *Store) CreateProfile(ctx context.Context, email, passwordHash string, role models.Role) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO profiles (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING id, email, role, created_at
	`, email, passwordHash, role).
		Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Profile{}, ErrEmailTaken
		}
		return models.Profile{}, fmt.Errorf("insert profile: %w", err)
	}
	return p, nil
}

// ProfileByID looks up a profile by identifier.
func (s *Store) ProfileByID(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role, created_at
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, ErrProfileNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("select profile: %w", err)
	}
	return p, nil
}

// ProfileByEmail looks up a profile and its password hash for authentication.
func (s *Store) ProfileByEmail(ctx context.Context, email string) (models.Profile, string, error) {
	var (
		p    models.Profile
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, role, password_hash, created_at
		FROM profiles
		WHERE email = $1
	`, email).Scan(&p.ID, &p.Email, &p.Role, &hash, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, "", ErrProfileNotFound
	}
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("select profile by email: %w", err)
	}
	return p, hash, nil
}

// ListPendingOrgs returns the profiles still awaiting an admin decision.
// A profile whose role has already been decided never appears here.
func (s *Store) ListPendingOrgs(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, role, created_at
		FROM profiles
		WHERE role = $1
		ORDER BY created_at ASC
	`, models.RolePendingOrg)
	if err != nil {
		return nil, fmt.Errorf("select pending orgs: %w", err)
	}
	defer rows.Close()

	var pending []models.Profile
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.Role, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending org: %w", err)
		}
		pending = append(pending, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending orgs: %w", err)
	}

	return pending, nil
}

// SetRoleFromPending flips a pending_org profile to the decided role. The
// update is conditional on the current role, so a second decision on the same
// profile reports ErrProfileNotPending instead of overwriting the first.
func (s *Store) SetRoleFromPending(ctx context.Context, id string, to models.Role) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET role = $1
		WHERE id = $2 AND role = $3
	`, to, id, models.RolePendingOrg)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return ErrProfileNotPending
	}

	return nil
}
