package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaraca/jobtrack/internal/server/middleware"
	"github.com/ekaraca/jobtrack/internal/tracker"
	"github.com/ekaraca/jobtrack/internal/types"
)

func sampleApp(userID uuid.UUID, company string, status types.Status) types.Application {
	now := time.Now()
	return types.Application{
		ID:              uuid.New(),
		UserID:          userID,
		CompanyName:     company,
		CompanyLocation: "Berlin",
		CompanyIndustry: "Technology",
		Position:        "Backend Engineer",
		ApplicationDate: types.DateOf(now),
		Source:          "LinkedIn",
		WorkType:        types.WorkTypeRemote,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func authedRequest(t *testing.T, userID uuid.UUID, method, target string, body []byte) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
}

func TestHandleListApplications(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	records.insert(sampleApp(userID, "Globex", types.StatusApplied))
	records.insert(sampleApp(userID, "Initech", types.StatusRejected))
	records.insert(sampleApp(uuid.New(), "NotMine", types.StatusApplied))
	s := newTestServer(records, newFakeObjects())

	t.Run("scopes to the authenticated user", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, authedRequest(t, userID, http.MethodGet, "/applications", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Applications []types.Application `json:"applications"`
			Total        int                 `json:"total"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		for _, app := range resp.Applications {
			assert.NotEqual(t, "NotMine", app.CompanyName)
		}
	})

	t.Run("applies filters from the query string", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, authedRequest(t, userID,
			http.MethodGet, "/applications?hide_rejected=true", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Applications []types.Application `json:"applications"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Applications, 1)
		assert.Equal(t, "Globex", resp.Applications[0].CompanyName)
	})

	t.Run("applies search", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, authedRequest(t, userID,
			http.MethodGet, "/applications?search=glob", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Applications []types.Application `json:"applications"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Applications, 1)
		assert.Equal(t, "Globex", resp.Applications[0].CompanyName)
	})

	t.Run("rejects unknown status filter", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleListApplications(rec, authedRequest(t, userID,
			http.MethodGet, "/applications?status=ghosted", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleBoard(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	records.insert(sampleApp(userID, "Globex", types.StatusApplied))
	records.insert(sampleApp(userID, "Initech", types.StatusOffer))
	s := newTestServer(records, newFakeObjects())

	rec := httptest.NewRecorder()
	s.handleBoard(rec, authedRequest(t, userID, http.MethodGet, "/applications/board", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Columns []tracker.StatusGroup `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, len(types.StatusOrder))
	assert.Equal(t, types.StatusApplied, resp.Columns[0].Status)
}

func TestHandleCreateApplication(t *testing.T) {
	userID := uuid.New()

	t.Run("creates a valid application", func(t *testing.T) {
		records := newFakeRecords()
		s := newTestServer(records, newFakeObjects())

		body, _ := json.Marshal(map[string]any{
			"company_name":     "Globex",
			"company_location": "Berlin",
			"company_industry": "Technology",
			"position":         "Backend Engineer",
			"application_date": "2026-08-01",
			"source":           "LinkedIn",
			"work_type":        "remote",
			"status":           "applied",
		})
		rec := httptest.NewRecorder()
		s.handleCreateApplication(rec, authedRequest(t, userID, http.MethodPost, "/applications", body))

		require.Equal(t, http.StatusCreated, rec.Code)
		var created types.Application
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "Globex", created.CompanyName)
		assert.Equal(t, userID, created.UserID)
		assert.NotEqual(t, uuid.Nil, created.ID)
	})

	t.Run("rejects an invalid form", func(t *testing.T) {
		records := newFakeRecords()
		s := newTestServer(records, newFakeObjects())

		body, _ := json.Marshal(map[string]any{
			"company_name": "Globex",
			"status":       "ghosted",
		})
		rec := httptest.NewRecorder()
		s.handleCreateApplication(rec, authedRequest(t, userID, http.MethodPost, "/applications", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, records.rows)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		s := newTestServer(newFakeRecords(), newFakeObjects())

		rec := httptest.NewRecorder()
		s.handleCreateApplication(rec, authedRequest(t, userID, http.MethodPost, "/applications", []byte("{")))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleGetApplication_Ownership(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	mine := sampleApp(userID, "Globex", types.StatusApplied)
	foreign := sampleApp(uuid.New(), "NotMine", types.StatusApplied)
	records.insert(mine)
	records.insert(foreign)
	s := newTestServer(records, newFakeObjects())

	t.Run("returns own application", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodGet, "/applications/"+mine.ID.String(), nil)
		req.SetPathValue("id", mine.ID.String())
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign application looks missing", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodGet, "/applications/"+foreign.ID.String(), nil)
		req.SetPathValue("id", foreign.ID.String())
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejects malformed id", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodGet, "/applications/abc", nil)
		req.SetPathValue("id", "abc")
		rec := httptest.NewRecorder()
		s.handleGetApplication(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleSetStatus(t *testing.T) {
	userID := uuid.New()

	t.Run("moves to a new status", func(t *testing.T) {
		records := newFakeRecords()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, newFakeObjects())

		req := authedRequest(t, userID, http.MethodPut, "/applications/"+app.ID.String()+"/status",
			[]byte(`{"status":"offer"}`))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleSetStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, types.StatusOffer, records.rows[app.ID].Status)
	})

	t.Run("unchanged status skips the store write", func(t *testing.T) {
		records := newFakeRecords()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, newFakeObjects())

		req := authedRequest(t, userID, http.MethodPut, "/applications/"+app.ID.String()+"/status",
			[]byte(`{"status":"applied"}`))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleSetStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, records.updateCalls)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		records := newFakeRecords()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, newFakeObjects())

		req := authedRequest(t, userID, http.MethodPut, "/applications/"+app.ID.String()+"/status",
			[]byte(`{"status":"ghosted"}`))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleSetStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, records.updateCalls)
	})
}

func TestHandleSetNotes(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	app := sampleApp(userID, "Globex", types.StatusApplied)
	app.Notes = "old notes"
	records.insert(app)
	s := newTestServer(records, newFakeObjects())

	t.Run("trims and stores", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodPut, "/applications/"+app.ID.String()+"/notes",
			[]byte(`{"notes":"  follow up friday  "}`))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleSetNotes(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "follow up friday", records.rows[app.ID].Notes)
	})

	t.Run("whitespace-only clears", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodPut, "/applications/"+app.ID.String()+"/notes",
			[]byte(`{"notes":"   "}`))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleSetNotes(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, records.rows[app.ID].Notes)
	})
}

func TestHandleTogglePin(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	app := sampleApp(userID, "Globex", types.StatusApplied)
	records.insert(app)
	s := newTestServer(records, newFakeObjects())

	req := authedRequest(t, userID, http.MethodPost, "/applications/"+app.ID.String()+"/pin", nil)
	req.SetPathValue("id", app.ID.String())
	rec := httptest.NewRecorder()
	s.handleTogglePin(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, records.rows[app.ID].IsPinned)
}

func TestHandleDeleteApplication(t *testing.T) {
	userID := uuid.New()

	t.Run("removes resume object before the record", func(t *testing.T) {
		records := newFakeRecords()
		objects := newFakeObjects()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		app.ResumePath = "path/resume.pdf"
		records.insert(app)
		objects.blobs["path/resume.pdf"] = pdfBytes()
		s := newTestServer(records, objects)

		req := authedRequest(t, userID, http.MethodDelete, "/applications/"+app.ID.String(), nil)
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleDeleteApplication(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.NotContains(t, records.rows, app.ID)
		assert.NotContains(t, objects.blobs, "path/resume.pdf")
	})

	t.Run("record survives when resume cleanup fails", func(t *testing.T) {
		records := newFakeRecords()
		objects := newFakeObjects()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		app.ResumePath = "path/resume.pdf"
		records.insert(app)
		s := newTestServer(records, objects)

		// Remove works on the fake, so force failure through a nil blob map
		// stand-in: use a custom objects fake with an error.
		s.objects = &failingObjects{}

		req := authedRequest(t, userID, http.MethodDelete, "/applications/"+app.ID.String(), nil)
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleDeleteApplication(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, records.rows, app.ID)
	})
}

func TestHandleUploadResume(t *testing.T) {
	userID := uuid.New()

	t.Run("stores the PDF and records the path", func(t *testing.T) {
		records := newFakeRecords()
		objects := newFakeObjects()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, objects)

		req := authedRequest(t, userID, http.MethodPost, "/applications/"+app.ID.String()+"/resume", pdfBytes())
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleUploadResume(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		wantPath := tracker.ResumeObjectPath(userID, app.ID)
		assert.Contains(t, objects.blobs, wantPath)
		assert.Equal(t, wantPath, records.rows[app.ID].ResumePath)
	})

	t.Run("rejects non-PDF content before any write", func(t *testing.T) {
		records := newFakeRecords()
		objects := newFakeObjects()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, objects)

		req := authedRequest(t, userID, http.MethodPost, "/applications/"+app.ID.String()+"/resume",
			[]byte("plain text resume"))
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleUploadResume(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, objects.blobs)
		assert.Zero(t, records.updateCalls)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		records := newFakeRecords()
		app := sampleApp(userID, "Globex", types.StatusApplied)
		records.insert(app)
		s := newTestServer(records, newFakeObjects())

		big := append(pdfBytes(), bytes.Repeat([]byte(" "), tracker.MaxResumeSize)...)
		req := authedRequest(t, userID, http.MethodPost, "/applications/"+app.ID.String()+"/resume", big)
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleUploadResume(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "size limit"))
	})
}

func TestHandleDownloadResume(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	objects := newFakeObjects()
	app := sampleApp(userID, "Globex", types.StatusApplied)
	app.ResumePath = "path/resume.pdf"
	records.insert(app)
	objects.blobs["path/resume.pdf"] = pdfBytes()
	s := newTestServer(records, objects)

	t.Run("serves the stored PDF", func(t *testing.T) {
		req := authedRequest(t, userID, http.MethodGet, "/applications/"+app.ID.String()+"/resume", nil)
		req.SetPathValue("id", app.ID.String())
		rec := httptest.NewRecorder()
		s.handleDownloadResume(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, pdfBytes(), rec.Body.Bytes())
	})

	t.Run("404 when no resume is uploaded", func(t *testing.T) {
		bare := sampleApp(userID, "Initech", types.StatusApplied)
		records.insert(bare)

		req := authedRequest(t, userID, http.MethodGet, "/applications/"+bare.ID.String()+"/resume", nil)
		req.SetPathValue("id", bare.ID.String())
		rec := httptest.NewRecorder()
		s.handleDownloadResume(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

// failingObjects always errors, for cleanup-failure paths.
type failingObjects struct{}

var errFailStore = errors.New("object store unavailable")

func (f *failingObjects) Put(_ context.Context, _ string, _ []byte) error { return errFailStore }
func (f *failingObjects) Get(_ context.Context, _ string) ([]byte, error) {
	return nil, errFailStore
}
func (f *failingObjects) Remove(_ context.Context, _ string) error { return errFailStore }
