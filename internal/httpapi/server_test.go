package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"branchout/internal/app/content"
	"branchout/internal/app/users"
	"branchout/internal/geocode"
	"branchout/internal/models"
	"branchout/internal/rolegate"
	"branchout/internal/store"
)

type stubUserService struct {
	profiles  map[string]models.Profile // token -> profile
	signupErr error
}

func (s *stubUserService) Signup(_ context.Context, email, _ string, organization bool) (models.Profile, string, error) {
	if s.signupErr != nil {
		return models.Profile{}, "", s.signupErr
	}
	role := models.RoleUser
	if organization {
		role = models.RolePendingOrg
	}
	return models.Profile{ID: "new", Email: email, Role: role}, "token-new", nil
}

func (s *stubUserService) Login(_ context.Context, email, password string) (models.Profile, string, error) {
	if password != "password123" {
		return models.Profile{}, "", users.ErrInvalidCredentials
	}
	return models.Profile{ID: "u1", Email: email, Role: models.RoleUser}, "token-u1", nil
}

func (s *stubUserService) ProfileFromToken(_ context.Context, token string) (models.Profile, error) {
	p, ok := s.profiles[token]
	if !ok {
		return models.Profile{}, users.ErrUnauthenticated
	}
	return p, nil
}

type stubContentService struct {
	places []models.Place
	events []models.Event

	createdPlaces []content.PlaceInput
	createdEvents []content.EventInput
}

func (s *stubContentService) LoadPlaces(context.Context) []models.Place {
	if s.places == nil {
		return []models.Place{}
	}
	return s.places
}

func (s *stubContentService) LoadEvents(context.Context) []models.Event {
	if s.events == nil {
		return []models.Event{}
	}
	return s.events
}

func (s *stubContentService) CreatePlace(_ context.Context, author models.Profile, in content.PlaceInput) (*models.Place, error) {
	if d := rolegate.Decide(author.Role, rolegate.ActionAuthorPlace); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	s.createdPlaces = append(s.createdPlaces, in)
	return &models.Place{ID: "place-new", Title: in.Title}, nil
}

func (s *stubContentService) CreateEvent(_ context.Context, author models.Profile, in content.EventInput) (*models.Event, error) {
	if d := rolegate.Decide(author.Role, rolegate.ActionAuthorEvent); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	s.createdEvents = append(s.createdEvents, in)
	return &models.Event{ID: "event-new", Title: in.Title}, nil
}

type stubAdminService struct {
	pending  []models.Profile
	approved []string
	denied   []string
}

func (s *stubAdminService) PendingOrgs(_ context.Context, reviewer models.Profile) ([]models.Profile, error) {
	if d := rolegate.Decide(reviewer.Role, rolegate.ActionReviewOrgs); !d.Allowed {
		return nil, fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	return s.pending, nil
}

func (s *stubAdminService) ApproveOrg(_ context.Context, reviewer models.Profile, orgID string) error {
	if d := rolegate.Decide(reviewer.Role, rolegate.ActionReviewOrgs); !d.Allowed {
		return fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	for _, id := range s.approved {
		if id == orgID {
			return store.ErrProfileNotPending
		}
	}
	s.approved = append(s.approved, orgID)
	return nil
}

func (s *stubAdminService) DenyOrg(_ context.Context, reviewer models.Profile, orgID string) error {
	if d := rolegate.Decide(reviewer.Role, rolegate.ActionReviewOrgs); !d.Allowed {
		return fmt.Errorf("%w: %s", content.ErrForbidden, d.Reason)
	}
	s.denied = append(s.denied, orgID)
	return nil
}

type stubGeocoder struct {
	resolved geocode.Resolved
	err      error
	address  string
}

func (g *stubGeocoder) Forward(context.Context, string) (geocode.Resolved, error) {
	return g.resolved, g.err
}

func (g *stubGeocoder) Reverse(context.Context, float64, float64) string {
	return g.address
}

func tokens() map[string]models.Profile {
	return map[string]models.Profile{
		"token-user":     {ID: "u1", Email: "user@example.com", Role: models.RoleUser},
		"token-pending":  {ID: "o1", Email: "pending@example.com", Role: models.RolePendingOrg},
		"token-approved": {ID: "o2", Email: "org@example.com", Role: models.RoleApprovedOrg},
		"token-admin":    {ID: "a1", Email: "admin@example.com", Role: models.RoleAdmin},
	}
}

func newTestServer(contentSvc *stubContentService, adminSvc *stubAdminService, geocoder *stubGeocoder) *Server {
	if contentSvc == nil {
		contentSvc = &stubContentService{}
	}
	if adminSvc == nil {
		adminSvc = &stubAdminService{}
	}
	if geocoder == nil {
		geocoder = &stubGeocoder{}
	}
	return New(&stubUserService{profiles: tokens()}, contentSvc, adminSvc, geocoder, nil)
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestSignupReturnsSession(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/auth/signup", "", signupRequest{
		Email:        "org@example.com",
		Password:     "password123",
		Organization: true,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}

	var resp sessionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a session token")
	}
	if resp.Profile.Role != models.RolePendingOrg {
		t.Fatalf("role = %q, want %q", resp.Profile.Role, models.RolePendingOrg)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/auth/login", "", loginRequest{
		Email:    "user@example.com",
		Password: "wrong",
	})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestCreatePlaceRequiresToken(t *testing.T) {
	contentSvc := &stubContentService{}
	srv := newTestServer(contentSvc, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/places", "", placeRequest{Title: "Crescent Park"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	if len(contentSvc.createdPlaces) != 0 {
		t.Fatal("unauthenticated request must not create anything")
	}
}

func TestCreatePlacePendingOrgForbidden(t *testing.T) {
	contentSvc := &stubContentService{}
	srv := newTestServer(contentSvc, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/places", "token-pending", placeRequest{Title: "Crescent Park"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(resp.Error, "awaiting admin approval") {
		t.Fatalf("denial should explain the pending state, got %q", resp.Error)
	}
	if len(contentSvc.createdPlaces) != 0 {
		t.Fatal("forbidden request must not create anything")
	}
}

func TestCreateEventRoleGate(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"regular user forbidden", "token-user", http.StatusForbidden},
		{"admin forbidden", "token-admin", http.StatusForbidden},
		{"approved org allowed", "token-approved", http.StatusCreated},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(nil, nil, nil)
			rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/events", tc.token, eventRequest{
				placeRequest: placeRequest{Title: "Jazz Night"},
				StartTime:    time.Now().Add(time.Hour).Format(time.RFC3339),
			})
			if rr.Code != tc.status {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tc.status, rr.Body.String())
			}
		})
	}
}

func TestMapRecordsFiltersLayers(t *testing.T) {
	now := time.Now()
	contentSvc := &stubContentService{
		places: []models.Place{{ID: "p1"}, {ID: "p2"}},
		events: []models.Event{
			{ID: "soon", StartTime: now.Add(time.Minute)},
			{ID: "next-month", StartTime: now.Add(40 * 24 * time.Hour)},
			{ID: "undated"},
		},
	}
	srv := newTestServer(contentSvc, nil, nil)

	tests := []struct {
		name       string
		query      string
		wantPlaces int
		wantEvents int
	}{
		{"defaults show everything", "", 2, 3},
		{"places layer off", "?places=false", 0, 3},
		{"events layer off", "?events=false", 2, 0},
		{"week window", "?window=week", 2, 1},
		{"today window excludes undated", "?window=today", 2, 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			rr := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/map/records"+tc.query, "", nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}
			var resp mapRecordsResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp.Places) != tc.wantPlaces || len(resp.Events) != tc.wantEvents {
				t.Fatalf("got %d places and %d events, want %d and %d",
					len(resp.Places), len(resp.Events), tc.wantPlaces, tc.wantEvents)
			}
		})
	}
}

func TestGeocodeUnresolvable(t *testing.T) {
	srv := newTestServer(nil, nil, &stubGeocoder{err: geocode.ErrNoMatch})

	rr := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/geocode?q=nowhere", "", nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestDirectionsPicksPlatform(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/directions?lat=29.95&lng=-90.07", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)")
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, req)

	var resp directionsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "http://maps.apple.com/?daddr=29.95,-90.07" {
		t.Fatalf("unexpected url %q", resp.URL)
	}

	rr = doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/directions?lat=29.95&lng=-90.07", "", nil)
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "https://www.google.com/maps/dir/?api=1&destination=29.95,-90.07" {
		t.Fatalf("unexpected url %q", resp.URL)
	}
}

func TestDirectionsMissingCoordinates(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/directions?lat=29.95", "", nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestAdminEndpointsRequireAdmin(t *testing.T) {
	adminSvc := &stubAdminService{pending: []models.Profile{{ID: "o1", Role: models.RolePendingOrg}}}
	srv := newTestServer(nil, adminSvc, nil)

	rr := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/admin/orgs/pending", "token-user", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}

	rr = doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/admin/orgs/pending", "token-admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp pendingOrgsResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Pending) != 1 {
		t.Fatalf("got %d pending orgs, want 1", len(resp.Pending))
	}
}

func TestApproveThenDenyConflicts(t *testing.T) {
	adminSvc := &stubAdminService{}
	srv := newTestServer(nil, adminSvc, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/admin/orgs/o1/approve", "token-admin", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("approve status = %d, want %d", rr.Code, http.StatusNoContent)
	}

	rr = doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/admin/orgs/o1/approve", "token-admin", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("second decision status = %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestMeReturnsCurrentProfile(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodGet, "/api/v1/auth/me", "token-pending", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var profile models.Profile
	if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if profile.Role != models.RolePendingOrg {
		t.Fatalf("role = %q, want %q", profile.Role, models.RolePendingOrg)
	}
}

func TestUploadImageWithoutStorage(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodPost, "/api/v1/images", "token-user", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(nil, nil, nil)

	rr := doJSON(t, srv.Routes(), http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}
