package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"branchout/internal/app/content"
	"branchout/internal/app/users"
	"branchout/internal/geocode"
	"branchout/internal/images"
	"branchout/internal/models"
	"branchout/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Signup(ctx context.Context, email, password string, organization bool) (models.Profile, string, error)
	Login(ctx context.Context, email, password string) (models.Profile, string, error)
	ProfileFromToken(ctx context.Context, token string) (models.Profile, error)
}

// ContentService coordinates map content loading and authoring.
type ContentService interface {
	LoadPlaces(ctx context.Context) []models.Place
	LoadEvents(ctx context.Context) []models.Event
	CreatePlace(ctx context.Context, author models.Profile, in content.PlaceInput) (*models.Place, error)
	CreateEvent(ctx context.Context, author models.Profile, in content.EventInput) (*models.Event, error)
}

// AdminService exposes the organization review workflow.
type AdminService interface {
	PendingOrgs(ctx context.Context, reviewer models.Profile) ([]models.Profile, error)
	ApproveOrg(ctx context.Context, reviewer models.Profile, orgID string) error
	DenyOrg(ctx context.Context, reviewer models.Profile, orgID string) error
}

// Geocoder resolves addresses in both directions.
type Geocoder interface {
	Forward(ctx context.Context, address string) (geocode.Resolved, error)
	Reverse(ctx context.Context, lat, lng float64) string
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users    UserService
	content  ContentService
	admin    AdminService
	geocoder Geocoder
	uploader images.Uploader // nil disables image uploads
}

// New configures a Server with the given services. uploader may be nil when
// object storage is not configured.
func New(users UserService, content ContentService, admin AdminService, geocoder Geocoder, uploader images.Uploader) *Server {
	return &Server{
		users:    users,
		content:  content,
		admin:    admin,
		geocoder: geocoder,
		uploader: uploader,
	}
}

// Routes exposes the HTTP handlers for accounts, map content, geocoding, and
// organization review.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("GET /api/v1/auth/me", s.handleMe)

	mux.HandleFunc("GET /api/v1/places", s.handleListPlaces)
	mux.HandleFunc("POST /api/v1/places", s.handleCreatePlace)
	mux.HandleFunc("GET /api/v1/events", s.handleListEvents)
	mux.HandleFunc("POST /api/v1/events", s.handleCreateEvent)
	mux.HandleFunc("GET /api/v1/map/records", s.handleMapRecords)

	mux.HandleFunc("GET /api/v1/geocode", s.handleGeocode)
	mux.HandleFunc("GET /api/v1/geocode/reverse", s.handleReverseGeocode)
	mux.HandleFunc("GET /api/v1/directions", s.handleDirections)

	mux.HandleFunc("GET /api/v1/admin/orgs/pending", s.handlePendingOrgs)
	mux.HandleFunc("POST /api/v1/admin/orgs/{id}/approve", s.handleApproveOrg)
	mux.HandleFunc("POST /api/v1/admin/orgs/{id}/deny", s.handleDenyOrg)

	mux.HandleFunc("POST /api/v1/images", s.handleUploadImage)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

// requireProfile resolves the bearer token to a profile, writing the error
// response itself when the request is unauthenticated.
func (s *Server) requireProfile(w http.ResponseWriter, r *http.Request) (models.Profile, bool) {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
		return models.Profile{}, false
	}
	profile, err := s.users.ProfileFromToken(r.Context(), token)
	if err != nil {
		status := http.StatusUnauthorized
		if !errors.Is(err, users.ErrUnauthenticated) {
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return models.Profile{}, false
	}
	return profile, true
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, content.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, geocode.ErrNoMatch):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "address could not be resolved"})
	case errors.Is(err, content.ErrTitleRequired),
		errors.Is(err, users.ErrEmailRequired),
		errors.Is(err, users.ErrPasswordTooShort):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrProfileNotPending):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrProfileNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func parseBearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
