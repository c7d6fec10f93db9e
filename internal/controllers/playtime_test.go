package controllers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/services/steam"
)

type fakeLibrary struct {
	games []steam.OwnedGame
}

func (f *fakeLibrary) OwnedGames(ctx context.Context) ([]steam.OwnedGame, error) {
	return f.games, nil
}

func playtimeTestDB(t *testing.T) *models.Database {
	t.Helper()

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureDefaultShelves())

	return db
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func createGame(t *testing.T, db *models.Database, name string, spent int) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		SourceName: models.SourceHLTB,
		ExternalID: name,
		Name:       name,
		MediaType:  models.MediaTypeGame,
	}
	require.NoError(t, db.CreateEntry(entry))
	require.NoError(t, db.CreateSubEntry(&models.SubEntry{
		EntryID:          entry.ID,
		EstimatedMinutes: 600,
		SpentMinutes:     spent,
	}))
	return entry
}

func TestSyncPlaytimeMatchesByTitle(t *testing.T) {
	db := playtimeTestDB(t)
	entry := createGame(t, db, "Hades", 0)

	library := &fakeLibrary{games: []steam.OwnedGame{
		{AppID: 1145360, Name: "Hades™", PlaytimeForever: 420},
		{AppID: 570, Name: "Dota 2", PlaytimeForever: 9000},
	}}

	ctrl := NewPlaytimeController(db, library, quietLogger())
	updated, err := ctrl.SyncPlaytime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	stored, err := db.GetEntryByID(entry.ID)
	require.NoError(t, err)
	appID, ok := stored.ExternalIDFor(models.SourceSteam)
	require.True(t, ok, "appid should be remembered after a title match")
	assert.Equal(t, "1145360", appID)

	subs, err := db.GetSubEntriesByEntry(entry.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 420, subs[0].SpentMinutes)
}

func TestSyncPlaytimeNeverLowersSpentTime(t *testing.T) {
	db := playtimeTestDB(t)
	entry := createGame(t, db, "Hades", 500)

	library := &fakeLibrary{games: []steam.OwnedGame{
		{AppID: 1145360, Name: "Hades", PlaytimeForever: 420},
	}}

	ctrl := NewPlaytimeController(db, library, quietLogger())
	_, err := ctrl.SyncPlaytime(context.Background())
	require.NoError(t, err)

	subs, err := db.GetSubEntriesByEntry(entry.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 500, subs[0].SpentMinutes)
}

func TestSyncPlaytimeSkipsUnmatchedGames(t *testing.T) {
	db := playtimeTestDB(t)
	createGame(t, db, "Outer Wilds", 0)

	library := &fakeLibrary{games: []steam.OwnedGame{
		{AppID: 570, Name: "Dota 2", PlaytimeForever: 9000},
	}}

	ctrl := NewPlaytimeController(db, library, quietLogger())
	updated, err := ctrl.SyncPlaytime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
}
