package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ekaraca/jobtrack/internal/server/middleware"
)

// settingsPayload is the wire shape for reading and writing user settings.
type settingsPayload struct {
	HideRejected     bool     `json:"hide_rejected"`
	CustomSources    []string `json:"custom_sources"`
	CustomIndustries []string `json:"custom_industries"`
}

// handleGetSettings returns the persisted settings for the authenticated
// user. A user that never saved settings gets the zero values.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	row, err := s.records.GetUserSettings(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to load settings")
		s.errorResponse(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	payload := settingsPayload{CustomSources: []string{}, CustomIndustries: []string{}}
	if row != nil {
		payload.HideRejected = row.HideRejected
		payload.CustomSources = row.CustomSources
		payload.CustomIndustries = row.CustomIndustries
	}

	s.jsonResponse(w, http.StatusOK, payload)
}

// handleUpdateSettings replaces the persisted settings for the user.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := s.records.UpsertUserSettings(r.Context(), userID,
		payload.HideRejected, payload.CustomSources, payload.CustomIndustries)
	if err != nil {
		s.logger.WithError(err).Error("failed to save settings")
		s.errorResponse(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	s.jsonResponse(w, http.StatusOK, settingsPayload{
		HideRejected:     row.HideRejected,
		CustomSources:    row.CustomSources,
		CustomIndustries: row.CustomIndustries,
	})
}

// handleSuggestSkills returns skill names matching a prefix, drawn from the
// user's own applications.
func (s *Server) handleSuggestSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prefix := r.URL.Query().Get("q")
	if prefix == "" {
		s.jsonResponse(w, http.StatusOK, map[string][]string{"skills": {}})
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	skills, err := s.records.SuggestSkills(r.Context(), userID, prefix, limit)
	if err != nil {
		s.logger.WithError(err).Error("failed to suggest skills")
		s.errorResponse(w, http.StatusInternalServerError, "failed to suggest skills")
		return
	}
	if skills == nil {
		skills = []string{}
	}

	s.jsonResponse(w, http.StatusOK, map[string][]string{"skills": skills})
}
