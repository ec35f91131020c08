package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"branchout/internal/geocode"
	"branchout/internal/models"
	"branchout/internal/rolegate"
)

// ErrForbidden reports an authoring attempt the caller's role does not permit.
// The wrapping error carries the user-facing reason.
var ErrForbidden = errors.New("forbidden")

// ErrTitleRequired reports a submission with a blank title.
var ErrTitleRequired = errors.New("title is required")

// Store defines persistence operations for map content.
type Store interface {
	ListPlaces(ctx context.Context) ([]models.Place, error)
	CreatePlace(ctx context.Context, p *models.Place) error
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
}

// Geocoder resolves a street address to coordinates.
type Geocoder interface {
	Forward(ctx context.Context, address string) (geocode.Resolved, error)
}

// PlaceInput is a place submission. Lat/Lng may be nil, in which case the
// address is forward-geocoded.
type PlaceInput struct {
	Title       string
	Category    string
	Description string
	Vibes       []string
	Lat         *float64
	Lng         *float64
	Address     string
	ImageURL    string
}

// EventInput is an event submission.
type EventInput struct {
	Title       string
	Category    string
	Description string
	Vibes       []string
	Lat         *float64
	Lng         *float64
	Address     string
	StartTime   time.Time
	EndTime     time.Time
	ImageURL    string
}

// Service coordinates content loading and role-gated authoring.
type Service interface {
	LoadPlaces(ctx context.Context) []models.Place
	LoadEvents(ctx context.Context) []models.Event
	CreatePlace(ctx context.Context, author models.Profile, in PlaceInput) (*models.Place, error)
	CreateEvent(ctx context.Context, author models.Profile, in EventInput) (*models.Event, error)
}

type service struct {
	store    Store
	geocoder Geocoder
	logger   zerolog.Logger
}

// New wires a content Service backed by the provided Store and Geocoder.
func New(store Store, geocoder Geocoder, logger zerolog.Logger) Service {
	return &service{store: store, geocoder: geocoder, logger: logger}
}

// LoadPlaces returns all places. Load failures degrade to an empty list so
// the map still renders; the error is logged, not surfaced.
func (s *service) LoadPlaces(ctx context.Context) []models.Place {
	places, err := s.store.ListPlaces(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load places")
		return []models.Place{}
	}
	if places == nil {
		places = []models.Place{}
	}
	return places
}

// LoadEvents returns all events, degrading to an empty list on failure.
func (s *service) LoadEvents(ctx context.Context) []models.Event {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("load events")
		return []models.Event{}
	}
	if events == nil {
		events = []models.Event{}
	}
	return events
}

func (s *service) CreatePlace(ctx context.Context, author models.Profile, in PlaceInput) (*models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d := rolegate.Decide(author.Role, rolegate.ActionAuthorPlace); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	lat, lng, address, err := s.resolveCoordinates(ctx, in.Lat, in.Lng, in.Address)
	if err != nil {
		return nil, err
	}

	p := &models.Place{
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Description: in.Description,
		Vibes:       in.Vibes,
		Lat:         lat,
		Lng:         lng,
		Address:     address,
		ImageURL:    in.ImageURL,
	}
	if err := s.store.CreatePlace(ctx, p); err != nil {
		return nil, fmt.Errorf("create place: %w", err)
	}
	s.logger.Info().Str("place_id", p.ID).Str("author_id", author.ID).Msg("place created")
	return p, nil
}

func (s *service) CreateEvent(ctx context.Context, author models.Profile, in EventInput) (*models.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d := rolegate.Decide(author.Role, rolegate.ActionAuthorEvent); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, d.Reason)
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	lat, lng, address, err := s.resolveCoordinates(ctx, in.Lat, in.Lng, in.Address)
	if err != nil {
		return nil, err
	}

	e := &models.Event{
		Title:       strings.TrimSpace(in.Title),
		Category:    in.Category,
		Description: in.Description,
		Vibes:       in.Vibes,
		Lat:         lat,
		Lng:         lng,
		Address:     address,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		ImageURL:    in.ImageURL,
		OrgID:       author.ID,
	}
	if err := s.store.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info().Str("event_id", e.ID).Str("org_id", e.OrgID).Msg("event created")
	return e, nil
}

// resolveCoordinates uses submitted coordinates when present, otherwise
// forward-geocodes the address. geocode.ErrNoMatch passes through so callers
// can report an unresolvable address.
func (s *service) resolveCoordinates(ctx context.Context, lat, lng *float64, address string) (float64, float64, string, error) {
	if lat != nil && lng != nil {
		return *lat, *lng, address, nil
	}
	resolved, err := s.geocoder.Forward(ctx, address)
	if err != nil {
		return 0, 0, "", err
	}
	if address == "" {
		address = resolved.DisplayAddress
	}
	return resolved.Lat, resolved.Lng, address, nil
}
