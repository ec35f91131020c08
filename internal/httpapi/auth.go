package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"branchout/internal/app/users"
	"branchout/internal/models"
)

type signupRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Organization bool   `json:"organization"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token   string         `json:"token"`
	Profile models.Profile `json:"profile"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	profile, token, err := s.users.Signup(r.Context(), req.Email, req.Password, req.Organization)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, Profile: profile})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	profile, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
			return
		}
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{Token: token, Profile: profile})
}

// handleMe returns the caller's current profile. Clients poll this to pick
// up role changes, such as an organization approval, without re-logging-in.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, ok := s.requireProfile(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
