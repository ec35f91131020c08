package httpapi

import (
	"net/http"
	"strconv"

	"branchout/internal/mapview"
)

type geocodeResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type directionsResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleGeocode(w http.ResponseWriter, r *http.Request) {
	resolved, err := s.geocoder.Forward(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, geocodeResponse{
		Lat:     resolved.Lat,
		Lng:     resolved.Lng,
		Address: resolved.DisplayAddress,
	})
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "lat and lng are required"})
		return
	}

	// Reverse lookups degrade to an empty address rather than failing.
	writeJSON(w, http.StatusOK, geocodeResponse{
		Lat:     lat,
		Lng:     lng,
		Address: s.geocoder.Reverse(r.Context(), lat, lng),
	})
}

// handleDirections builds a platform-appropriate navigation URL for the
// destination, picking Apple or Google Maps from the caller's User-Agent.
func (s *Server) handleDirections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var lat, lng *float64
	if v, err := strconv.ParseFloat(q.Get("lat"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(q.Get("lng"), 64); err == nil {
		lng = &v
	}

	url, ok := mapview.DirectionsURL(lat, lng, r.Header.Get("User-Agent"))
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "destination coordinates are missing"})
		return
	}

	writeJSON(w, http.StatusOK, directionsResponse{URL: url})
}
