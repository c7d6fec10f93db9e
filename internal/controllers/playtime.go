package controllers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/services/steam"
)

// GameLibrary is the Steam surface the playtime sync needs
type GameLibrary interface {
	OwnedGames(ctx context.Context) ([]steam.OwnedGame, error)
}

// PlaytimeController pushes Steam playtime into the spent minutes of game
// entries. Spent time only ever goes up; manual corrections above the Steam
// number are preserved.
type PlaytimeController struct {
	db          *models.Database
	steamClient GameLibrary
	logger      *logrus.Logger
}

// NewPlaytimeController creates a new playtime controller
func NewPlaytimeController(db *models.Database, steamClient GameLibrary, logger *logrus.Logger) *PlaytimeController {
	return &PlaytimeController{
		db:          db,
		steamClient: steamClient,
		logger:      logger,
	}
}

// SyncPlaytime matches owned Steam games against game entries and raises
// their spent minutes. Returns the number of updated entries.
func (c *PlaytimeController) SyncPlaytime(ctx context.Context) (int, error) {
	games, err := c.steamClient.OwnedGames(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch Steam library: %w", err)
	}

	entries, err := c.db.GetEntriesByType(
		models.MediaTypeGame, models.MediaTypeGameVR, models.MediaTypeGameMobile)
	if err != nil {
		return 0, fmt.Errorf("failed to load game entries: %w", err)
	}

	updated := 0
	for _, entry := range entries {
		game := c.matchGame(entry, games)
		if game == nil || game.PlaytimeForever == 0 {
			continue
		}

		changed, err := c.applyPlaytime(entry, game)
		if err != nil {
			return updated, err
		}
		if changed {
			updated++
		}
	}

	c.logger.WithFields(logrus.Fields{
		"games":   len(games),
		"entries": len(entries),
		"updated": updated,
	}).Info("Steam playtime sync completed")

	return updated, nil
}

// matchGame finds the owned game for an entry, by stored appid first and
// fuzzy title match otherwise
func (c *PlaytimeController) matchGame(entry *models.Entry, games []steam.OwnedGame) *steam.OwnedGame {
	if appID, ok := entry.ExternalIDFor(models.SourceSteam); ok {
		for i := range games {
			if strconv.Itoa(games[i].AppID) == appID {
				return &games[i]
			}
		}
	}

	for i := range games {
		if titlesMatch(entry.Name, games[i].Name) {
			return &games[i]
		}
	}
	return nil
}

func (c *PlaytimeController) applyPlaytime(entry *models.Entry, game *steam.OwnedGame) (bool, error) {
	changed := false

	// Remember the appid so later runs skip the fuzzy match
	if _, ok := entry.ExternalIDFor(models.SourceSteam); !ok {
		entry.SetExternalID(models.SourceSteam, strconv.Itoa(game.AppID))
		if err := c.db.UpdateEntry(entry); err != nil {
			return false, fmt.Errorf("failed to update entry %q: %w", entry.Name, err)
		}
		changed = true
	}

	subs, err := c.db.GetSubEntriesByEntry(entry.ID)
	if err != nil {
		return changed, fmt.Errorf("failed to load sub-entries for %q: %w", entry.Name, err)
	}

	for _, sub := range subs {
		if sub.SpentMinutes >= game.PlaytimeForever {
			continue
		}
		sub.SpentMinutes = game.PlaytimeForever
		if err := c.db.UpdateSubEntry(sub); err != nil {
			return changed, fmt.Errorf("failed to update sub-entry for %q: %w", entry.Name, err)
		}

		c.logger.WithFields(logrus.Fields{
			"title":   entry.Name,
			"minutes": game.PlaytimeForever,
		}).Info("Updated playtime")
		changed = true
	}

	return changed, nil
}
