package store

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrProfileNotFound indicates a lookup of an unknown profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileNotPending indicates a role decision on a profile that is no
	// longer awaiting review.
	ErrProfileNotPending = errors.New("profile is not pending review")
)

// Store provides persistence backed by Postgres.
type Store struct {
	db *sql.DB
}

// New sets up a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// normalizeVibes converts whatever shape the vibes column holds into a list.
// Accepted encodings are a JSON array and a JSON string containing an encoded
// array; anything else (including NULL and malformed payloads) yields an empty
// list rather than an error.
func normalizeVibes(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var vibes []string
	if err := json.Unmarshal(raw, &vibes); err == nil {
		if vibes == nil {
			return []string{}
		}
		return vibes
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &vibes); err == nil && vibes != nil {
			return vibes
		}
	}

	return []string{}
}

func encodeVibes(vibes []string) ([]byte, error) {
	if vibes == nil {
		vibes = []string{}
	}
	return json.Marshal(vibes)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
