package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"branchout/internal/models"
	"branchout/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// dummyHash keeps login timing uniform when the email is unknown.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("branchout-dummy"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return h
}()

// Store describes the persistence operations required by the user service.
type Store interface {
	CreateProfile(ctx context.Context, email, passwordHash string, role models.Role) (models.Profile, error)
	ProfileByEmail(ctx context.Context, email string) (models.Profile, string, error)
	ProfileByID(ctx context.Context, id string) (models.Profile, error)
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(profileID string) (string, error)
	Parse(raw string) (string, error)
}

// Service exposes signup, login, and token resolution.
type Service interface {
	Signup(ctx context.Context, email, password string, organization bool) (models.Profile, string, error)
	Login(ctx context.Context, email, password string) (models.Profile, string, error)
	ProfileFromToken(ctx context.Context, token string) (models.Profile, error)
}

type service struct {
	store  Store
	tokens TokenIssuer
}

// New wires a user Service backed by the provided Store and token issuer.
func New(store Store, tokens TokenIssuer) Service {
	return &service{store: store, tokens: tokens}
}

// Signup registers a profile. Organization signups start as pending_org and
// cannot author anything until an admin decides; everyone else starts as user.
func (s *service) Signup(ctx context.Context, email, password string, organization bool) (models.Profile, string, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return models.Profile{}, "", ErrEmailRequired
	}
	if len(password) < 8 {
		return models.Profile{}, "", ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if organization {
		role = models.RolePendingOrg
	}

	profile, err := s.store.CreateProfile(ctx, email, string(hash), role)
	if err != nil {
		return models.Profile{}, "", err
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("issue token: %w", err)
	}
	return profile, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (models.Profile, string, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, "", err
	}
	email = strings.ToLower(strings.TrimSpace(email))

	profile, hash, err := s.store.ProfileByEmail(ctx, email)
	if errors.Is(err, store.ErrProfileNotFound) {
		// Compare against a dummy hash so unknown emails take as long
		// as wrong passwords.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return models.Profile{}, "", ErrInvalidCredentials
	}
	if err != nil {
		return models.Profile{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return models.Profile{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return models.Profile{}, "", fmt.Errorf("issue token: %w", err)
	}
	return profile, token, nil
}

// ProfileFromToken resolves a bearer token to the current profile. Role is
// read from the store on every call, so admin decisions apply immediately.
func (s *service) ProfileFromToken(ctx context.Context, token string) (models.Profile, error) {
	if err := ctx.Err(); err != nil {
		return models.Profile{}, err
	}
	id, err := s.tokens.Parse(token)
	if err != nil {
		return models.Profile{}, ErrUnauthenticated
	}
	profile, err := s.store.ProfileByID(ctx, id)
	if errors.Is(err, store.ErrProfileNotFound) {
		return models.Profile{}, ErrUnauthenticated
	}
	if err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}
