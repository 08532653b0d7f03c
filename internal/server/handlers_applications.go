package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/server/middleware"
	"github.com/ekaraca/jobtrack/internal/tracker"
	"github.com/ekaraca/jobtrack/internal/types"
)

// ownedApplication loads an application and checks it belongs to the
// authenticated user. Foreign and missing records are indistinguishable.
func (s *Server) ownedApplication(w http.ResponseWriter, r *http.Request) (*types.Application, uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid application id")
		return nil, uuid.Nil, false
	}

	app, err := s.records.GetApplication(r.Context(), id)
	if err != nil {
		s.logger.WithError(err).Error("failed to load application")
		s.errorResponse(w, http.StatusInternalServerError, "failed to load application")
		return nil, uuid.Nil, false
	}
	if app == nil || app.UserID != userID {
		notFound := &ErrApplicationNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return nil, uuid.Nil, false
	}

	return app, userID, true
}

// handleListApplications returns the derived view of the user's
// applications: search, filters and sort applied server-side with the same
// semantics the session store uses.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query, filters, sortOpts, err := parseViewQuery(r.URL.Query())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	apps, err := s.records.ListApplications(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list applications")
		s.errorResponse(w, http.StatusInternalServerError, "failed to list applications")
		return
	}

	view := tracker.DeriveView(apps, query, filters, sortOpts)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"applications": view,
		"total":        len(view),
	})
}

// handleBoard returns the kanban grouping of the derived view.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	query, filters, sortOpts, err := parseViewQuery(r.URL.Query())
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	apps, err := s.records.ListApplications(r.Context(), userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to list applications")
		s.errorResponse(w, http.StatusInternalServerError, "failed to list applications")
		return
	}

	view := tracker.DeriveView(apps, query, filters, sortOpts)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"columns": tracker.GroupByStatus(view),
	})
}

// handleCreateApplication validates and stores a new application.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var form types.ApplicationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	created, err := s.records.CreateApplication(r.Context(), &form, userID)
	if err != nil {
		s.logger.WithError(err).Error("failed to create application")
		s.errorResponse(w, http.StatusInternalServerError, "failed to create application")
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleGetApplication returns a single application.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateApplication applies a full edit form to an application.
// Optional fields left empty clear the stored value.
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var form types.ApplicationForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	form.Normalize()
	if err := form.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.records.UpdateApplication(r.Context(), app.ID, types.PatchFromForm(&form))
	if err != nil {
		s.logger.WithError(err).Error("failed to update application")
		s.errorResponse(w, http.StatusInternalServerError, "failed to update application")
		return
	}
	if updated == nil {
		notFound := &ErrApplicationNotFound{ID: app.ID}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteApplication removes an application. The resume object is
// removed first; if that fails the record survives.
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	if app.ResumePath != "" {
		if err := s.objects.Remove(r.Context(), app.ResumePath); err != nil {
			s.logger.WithError(err).Error("failed to remove resume object")
			s.errorResponse(w, http.StatusInternalServerError, "failed to remove resume")
			return
		}
	}

	if err := s.records.DeleteApplication(r.Context(), app.ID); err != nil {
		s.logger.WithError(err).Error("failed to delete application")
		s.errorResponse(w, http.StatusInternalServerError, "failed to delete application")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSetStatus moves an application to a new pipeline stage. An
// unchanged status is a no-op and skips the store write.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req struct {
		Status types.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		s.errorResponse(w, http.StatusBadRequest, "unknown status")
		return
	}

	if req.Status == app.Status {
		s.jsonResponse(w, http.StatusOK, app)
		return
	}

	updated, err := s.records.UpdateApplication(r.Context(), app.ID, types.ApplicationPatch{
		Status: types.Set(req.Status),
	})
	if err != nil || updated == nil {
		s.logger.WithError(err).Error("failed to update status")
		s.errorResponse(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleSetNotes replaces the notes on an application. Whitespace is
// trimmed; empty notes clear the stored value.
func (s *Server) handleSetNotes(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notes := strings.TrimSpace(req.Notes)
	patch := types.ApplicationPatch{Notes: types.Set(notes)}
	if notes == "" {
		patch.Notes = types.Clear[string]()
	}

	updated, err := s.records.UpdateApplication(r.Context(), app.ID, patch)
	if err != nil || updated == nil {
		s.logger.WithError(err).Error("failed to update notes")
		s.errorResponse(w, http.StatusInternalServerError, "failed to update notes")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleTogglePin flips the pinned flag on an application.
func (s *Server) handleTogglePin(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	updated, err := s.records.TogglePin(r.Context(), app.ID, app.IsPinned)
	if err != nil || updated == nil {
		s.logger.WithError(err).Error("failed to toggle pin")
		s.errorResponse(w, http.StatusInternalServerError, "failed to toggle pin")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleUploadResume stores a PDF resume for an application and records its
// object path. Validation happens before any byte is written.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	app, userID, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, tracker.MaxResumeSize+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	if err := tracker.ValidateResume(data); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	path := tracker.ResumeObjectPath(userID, app.ID)
	if err := s.objects.Put(r.Context(), path, data); err != nil {
		s.logger.WithError(err).Error("failed to store resume")
		s.errorResponse(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	updated, err := s.records.UpdateApplication(r.Context(), app.ID, types.ApplicationPatch{
		ResumePath: types.Set(path),
	})
	if err != nil || updated == nil {
		s.logger.WithError(err).Error("failed to record resume path")
		s.errorResponse(w, http.StatusInternalServerError, "failed to record resume path")
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDownloadResume serves the stored resume PDF.
func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	app, _, ok := s.ownedApplication(w, r)
	if !ok {
		return
	}

	if app.ResumePath == "" {
		s.errorResponse(w, http.StatusNotFound, "no resume uploaded")
		return
	}

	data, err := s.objects.Get(r.Context(), app.ResumePath)
	if err != nil {
		s.logger.WithError(err).Error("failed to read resume object")
		s.errorResponse(w, http.StatusInternalServerError, "failed to read resume")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseViewQuery maps URL query parameters onto the derived-view inputs.
func parseViewQuery(q url.Values) (string, types.FilterOptions, types.SortOptions, error) {
	var filters types.FilterOptions

	for _, v := range q["status"] {
		status := types.Status(v)
		if !status.Valid() {
			return "", filters, types.SortOptions{}, &ErrBadQueryParam{Param: "status", Value: v}
		}
		filters.Status = append(filters.Status, status)
	}
	for _, v := range q["work_type"] {
		workType := types.WorkType(v)
		if !workType.Valid() {
			return "", filters, types.SortOptions{}, &ErrBadQueryParam{Param: "work_type", Value: v}
		}
		filters.WorkType = append(filters.WorkType, workType)
	}
	filters.Source = q["source"]
	filters.Industry = q["industry"]

	if v := q.Get("pinned"); v != "" {
		pinned := v == "true"
		filters.IsPinned = &pinned
	}
	filters.HideRejected = q.Get("hide_rejected") == "true"

	if v := q.Get("from"); v != "" {
		from, err := types.ParseDate(v)
		if err != nil {
			return "", filters, types.SortOptions{}, &ErrBadQueryParam{Param: "from", Value: v}
		}
		filters.DateRange.From = from
	}
	if v := q.Get("to"); v != "" {
		to, err := types.ParseDate(v)
		if err != nil {
			return "", filters, types.SortOptions{}, &ErrBadQueryParam{Param: "to", Value: v}
		}
		filters.DateRange.To = to
	}

	sortOpts := types.DefaultSort()
	if v := q.Get("sort_by"); v != "" {
		sortOpts.Field = types.SortField(v)
	}
	if v := q.Get("sort_order"); v != "" {
		sortOpts.Order = types.SortOrder(v)
	}

	return q.Get("search"), filters, sortOpts, nil
}

// ErrBadQueryParam indicates an unparseable view query parameter.
type ErrBadQueryParam struct {
	Param string
	Value string
}

func (e *ErrBadQueryParam) Error() string {
	return "invalid " + e.Param + " value: " + e.Value
}
