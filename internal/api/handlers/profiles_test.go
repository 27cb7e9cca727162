package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/api/handlers"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

func newProfilesHandler(repo *storage.MockRepository) *handlers.ProfilesHandler {
	return handlers.NewProfilesHandler(repo, newTestService(repo))
}

func TestProfilesHandler_Create(t *testing.T) {
	t.Run("creates profile with default strategy", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := newProfilesHandler(repo)

		body := `{"name":"weekend","towns":["town1","evergarden"],"quantities":{"Park":3},"valhalla_only":true}`
		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var response dto.ProfileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.NotEmpty(t, response.ID)
		assert.Equal(t, "weekend", response.Name)
		assert.Equal(t, "maximum", response.Strategy)
		assert.True(t, response.ValhallaOnly)
		assert.NotEmpty(t, response.CreatedAt)
		assert.True(t, repo.SaveProfileCalled)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := newProfilesHandler(repo)

		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(`{"towns":["town1"]}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeValidation, response.Code)
		assert.False(t, repo.SaveProfileCalled)
	})

	t.Run("rejects negative quantities", func(t *testing.T) {
		handler := newProfilesHandler(storage.NewMockRepository())

		rec := httptest.NewRecorder()
		handler.Create(rec, httptest.NewRequest(http.MethodPost, "/api/profiles", strings.NewReader(`{"name":"x","quantities":{"Park":-2}}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestProfilesHandler_ListAndGet(t *testing.T) {
	repo := storage.NewMockRepository()
	for _, name := range []string{"b", "a"} {
		require.NoError(t, repo.SaveProfile(&storage.Profile{Name: name, Strategy: "maximum"}))
	}
	handler := newProfilesHandler(repo)

	t.Run("lists profiles by name", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.List(rec, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.ProfileListResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "a", response.Profiles[0].Name)
		assert.Equal(t, []string{}, response.Profiles[0].Towns)
	})

	t.Run("returns profile by ID", func(t *testing.T) {
		profiles, err := repo.ListProfiles()
		require.NoError(t, err)
		id := profiles[1].ID

		req := httptest.NewRequest(http.MethodGet, "/api/profiles/"+id, nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", id))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var response dto.ProfileResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, "b", response.Name)
	})

	t.Run("returns 404 for non-existent profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles/missing", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "missing"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		var response dto.APIError
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("list failure is an internal error", func(t *testing.T) {
		failing := storage.NewMockRepository()
		failing.ListErr = assert.AnError

		rec := httptest.NewRecorder()
		newProfilesHandler(failing).List(rec, httptest.NewRequest(http.MethodGet, "/api/profiles", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestProfilesHandler_Update(t *testing.T) {
	repo := storage.NewMockRepository()
	profile := &storage.Profile{Name: "before", Strategy: "maximum"}
	require.NoError(t, repo.SaveProfile(profile))
	handler := newProfilesHandler(repo)

	t.Run("replaces inputs", func(t *testing.T) {
		body := `{"name":"after","towns":["town2"],"quantities":{"Forest":4},"strategy":"balanced"}`
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/"+profile.ID, strings.NewReader(body))
		req = req.WithContext(setChiURLParam(req.Context(), "id", profile.ID))
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		stored, err := repo.GetProfile(profile.ID)
		require.NoError(t, err)
		assert.Equal(t, "after", stored.Name)
		assert.Equal(t, "balanced", stored.Strategy)
		assert.Equal(t, map[string]int{"Forest": 4}, stored.Quantities)
		assert.True(t, stored.CreatedAt.Equal(profile.CreatedAt))
	})

	t.Run("returns 404 for non-existent profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/profiles/missing", strings.NewReader(`{"name":"x"}`))
		req = req.WithContext(setChiURLParam(req.Context(), "id", "missing"))
		rec := httptest.NewRecorder()

		handler.Update(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestProfilesHandler_Delete(t *testing.T) {
	repo := storage.NewMockRepository()
	profile := &storage.Profile{Name: "gone"}
	require.NoError(t, repo.SaveProfile(profile))
	handler := newProfilesHandler(repo)

	req := httptest.NewRequest(http.MethodDelete, "/api/profiles/"+profile.ID, nil)
	req = req.WithContext(setChiURLParam(req.Context(), "id", profile.ID))
	rec := httptest.NewRecorder()
	handler.Delete(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/profiles/"+profile.ID, nil)
	req = req.WithContext(setChiURLParam(req.Context(), "id", profile.ID))
	rec = httptest.NewRecorder()
	handler.Delete(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
