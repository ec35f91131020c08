package httpapi

import (
	"net/http"

	"branchout/internal/models"
)

type pendingOrgsResponse struct {
	Pending []models.Profile `json:"pending"`
}

func (s *Server) handlePendingOrgs(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}

	pending, err := s.admin.PendingOrgs(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if pending == nil {
		pending = []models.Profile{}
	}

	writeJSON(w, http.StatusOK, pendingOrgsResponse{Pending: pending})
}

func (s *Server) handleApproveOrg(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}

	if err := s.admin.ApproveOrg(r.Context(), profile, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDenyOrg(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}

	if err := s.admin.DenyOrg(r.Context(), profile, r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
