package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/shelfspace/internal/models"
)

func testDB(t *testing.T) *models.Database {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureDefaultShelves())

	return db
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestHealthHandler(t *testing.T) {
	handler := NewHealthHandler(testDB(t), testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHealthHandlerClosedStore(t *testing.T) {
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	handler := NewHealthHandler(db, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}

func TestStatusHandler(t *testing.T) {
	db := testDB(t)
	logger := testLogger()

	entry := &models.Entry{SourceName: models.SourceTrakt, ExternalID: "movie-1", Name: "Heat", MediaType: models.MediaTypeMovie}
	require.NoError(t, db.CreateEntry(entry))

	backlog, err := db.GetShelfByName(models.ShelfBacklog)
	require.NoError(t, err)
	require.NoError(t, db.CreateSubEntry(&models.SubEntry{EntryID: entry.ID, Position: 1, ShelfID: backlog.ID}))

	handler := NewStatusHandler(db, logger)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 1, status.TotalEntries)
	assert.Equal(t, 1, status.EntriesByType["movie"])
	assert.Equal(t, 1, status.EntriesBySource["trakt"])
	assert.Equal(t, 1, status.SubEntriesByShelf[models.ShelfBacklog])
	assert.Equal(t, 0, status.SubEntriesByShelf[models.ShelfIcebox])
}

func TestEntriesHandlerFiltersByType(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.CreateEntry(&models.Entry{SourceName: models.SourceHLTB, ExternalID: "1", Name: "Hades", MediaType: models.MediaTypeGame}))
	require.NoError(t, db.CreateEntry(&models.Entry{SourceName: models.SourceTrakt, ExternalID: "movie-1", Name: "Heat", MediaType: models.MediaTypeMovie}))

	handler := NewEntriesHandler(db, testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var all []EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, 2)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/entries?type=game", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var games []EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Hades", games[0].Entry.Name)
}

func TestShelvesHandler(t *testing.T) {
	db := testDB(t)

	handler := NewShelvesHandler(db, testLogger())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shelves", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var shelves []models.Shelf
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shelves))
	require.Len(t, shelves, 3)
	assert.Equal(t, models.ShelfBacklog, shelves[0].Name)
}

func TestMethodNotAllowed(t *testing.T) {
	handler := NewShelvesHandler(testDB(t), testLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/shelves", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
