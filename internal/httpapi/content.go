package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"branchout/internal/app/content"
	"branchout/internal/mapview"
	"branchout/internal/models"
)

type placeRequest struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Vibes       []string `json:"vibes"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Address     string   `json:"address"`
	ImageURL    string   `json:"image_url"`
}

type eventRequest struct {
	placeRequest
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type mapRecordsResponse struct {
	Places []models.Place `json:"places"`
	Events []models.Event `json:"events"`
}

func (s *Server) handleListPlaces(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.content.LoadPlaces(r.Context()))
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.content.LoadEvents(r.Context()))
}

func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}

	var req placeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	place, err := s.content.CreatePlace(r.Context(), profile, content.PlaceInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Vibes:       req.Vibes,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Address:     req.Address,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, place)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	event, err := s.content.CreateEvent(r.Context(), profile, content.EventInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
		Vibes:       req.Vibes,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Address:     req.Address,
		StartTime:   parseEventTime(req.StartTime),
		EndTime:     parseEventTime(req.EndTime),
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// handleMapRecords returns the places and events visible under the requested
// filters. Layers default to on; the window defaults to all. Events without
// a usable start time appear only under the all window.
func (s *Server) handleMapRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	showPlaces := q.Get("places") != "false"
	showEvents := q.Get("events") != "false"
	window := mapview.ParseWindow(q.Get("window"))

	resp := mapRecordsResponse{
		Places: mapview.VisiblePlaces(s.content.LoadPlaces(r.Context()), showPlaces),
		Events: []models.Event{},
	}
	if showEvents {
		resp.Events = mapview.VisibleEvents(s.content.LoadEvents(r.Context()), window, time.Now())
	}

	writeJSON(w, http.StatusOK, resp)
}

// parseEventTime accepts RFC 3339 timestamps. Anything else, including an
// empty string, yields the zero time, which downstream filtering treats as
// an absent start.
func parseEventTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
