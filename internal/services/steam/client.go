// Package steam fetches owned games and playtime from the Steam Web API.
package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/config"
)

const defaultBaseURL = "https://api.steampowered.com"

// Client handles communication with the Steam Web API
type Client struct {
	baseURL    string
	apiKey     string
	steamID    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new Steam API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.SteamAPIKey == "" {
		return nil, fmt.Errorf("STEAM_API_KEY is required")
	}
	if cfg.SteamUserID == "" {
		return nil, fmt.Errorf("STEAM_USER_ID is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.SteamAPIKey,
		steamID:    cfg.SteamUserID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// OwnedGame is one game of the player's library with its playtime
type OwnedGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"` // minutes
	Playtime2Weeks  int    `json:"playtime_2weeks"`  // minutes
}

type ownedGamesResponse struct {
	Response struct {
		GameCount int         `json:"game_count"`
		Games     []OwnedGame `json:"games"`
	} `json:"response"`
}

// OwnedGames fetches all owned games with their total playtime
func (c *Client) OwnedGames(ctx context.Context) ([]OwnedGame, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("steamid", c.steamID)
	params.Set("include_appinfo", "1")
	params.Set("include_played_free_games", "1")
	params.Set("format", "json")

	fullURL := c.baseURL + "/IPlayerService/GetOwnedGames/v0001/?" + params.Encode()

	var result ownedGamesResponse
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("API request failed with status %d", resp.StatusCode))
		}

		return json.NewDecoder(resp.Body).Decode(&result)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("failed to fetch owned games: %w", err)
	}

	c.logger.WithField("count", result.Response.GameCount).Debug("Fetched owned games")
	return result.Response.Games, nil
}
