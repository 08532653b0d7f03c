package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaraca/jobtrack/internal/taxonomy"
)

func TestHandleGetSettings_DefaultsWhenUnsaved(t *testing.T) {
	s := newTestServer(newFakeRecords(), newFakeObjects())

	rec := httptest.NewRecorder()
	s.handleGetSettings(rec, authedRequest(t, uuid.New(), http.MethodGet, "/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var payload settingsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.False(t, payload.HideRejected)
	assert.Empty(t, payload.CustomSources)
	assert.Empty(t, payload.CustomIndustries)
}

func TestHandleUpdateSettings_RoundTrip(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	s := newTestServer(records, newFakeObjects())

	body := []byte(`{
		"hide_rejected": true,
		"custom_sources": ["Otta"],
		"custom_industries": ["Biotech"]
	}`)
	rec := httptest.NewRecorder()
	s.handleUpdateSettings(rec, authedRequest(t, userID, http.MethodPut, "/settings", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetSettings(rec, authedRequest(t, userID, http.MethodGet, "/settings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload settingsPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.True(t, payload.HideRejected)
	assert.Equal(t, []string{"Otta"}, payload.CustomSources)
	assert.Equal(t, []string{"Biotech"}, payload.CustomIndustries)
}

func TestHandleGetTaxonomy_LayersCustomOverDefaults(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	s := newTestServer(records, newFakeObjects())

	body := []byte(`{"custom_sources": ["Otta"], "custom_industries": []}`)
	rec := httptest.NewRecorder()
	s.handleUpdateSettings(rec, authedRequest(t, userID, http.MethodPut, "/settings", body))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	s.handleGetTaxonomy(rec, authedRequest(t, userID, http.MethodGet, "/taxonomy", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Sources    []string `json:"sources"`
		Industries []string `json:"industries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Sources, len(taxonomy.DefaultSources)+1)
	assert.Equal(t, taxonomy.DefaultSources, payload.Sources[:len(taxonomy.DefaultSources)])
	assert.Equal(t, "Otta", payload.Sources[len(payload.Sources)-1])
	assert.Equal(t, taxonomy.DefaultIndustries, payload.Industries)
}

func TestHandleSuggestSkills(t *testing.T) {
	userID := uuid.New()
	records := newFakeRecords()
	records.skills = []string{"Go", "GraphQL", "gRPC", "Rust"}
	s := newTestServer(records, newFakeObjects())

	t.Run("returns prefix matches", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleSuggestSkills(rec, authedRequest(t, userID, http.MethodGet, "/skills/suggest?q=G", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var payload struct {
			Skills []string `json:"skills"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, []string{"Go", "GraphQL"}, payload.Skills)
	})

	t.Run("empty query short-circuits", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleSuggestSkills(rec, authedRequest(t, userID, http.MethodGet, "/skills/suggest", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var payload struct {
			Skills []string `json:"skills"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Empty(t, payload.Skills)
	})

	t.Run("rejects a bad limit", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.handleSuggestSkills(rec, authedRequest(t, userID, http.MethodGet, "/skills/suggest?q=G&limit=zero", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
