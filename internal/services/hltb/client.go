// Package hltb fetches the user's game backlog from HowLongToBeat.
package hltb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/config"
	"github.com/amaumene/shelfspace/internal/estimate"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
)

const (
	defaultBaseURL = "https://howlongtobeat.com"
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64; rv:132.0) Gecko/20100101 Firefox/132.0"

	// Next.js data route prefix; the build id changes on HLTB deploys
	gameDataPrefix = "/_next/data/PulRqjuI9R3KSc-k9tS7i"
)

// Client handles communication with the HowLongToBeat site API
type Client struct {
	baseURL    string
	userID     string
	stepHours  float64
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new HowLongToBeat client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.HLTBUserID == "" {
		return nil, fmt.Errorf("HLTB_USER_ID is required")
	}

	return &Client{
		baseURL:    defaultBaseURL,
		userID:     cfg.HLTBUserID,
		stepHours:  cfg.GameRoundHours,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cache:      gocache.New(6*time.Hour, 30*time.Minute),
		logger:     logger,
	}, nil
}

type gameListEntry struct {
	GameID       int    `json:"game_id"`
	CustomTitle  string `json:"custom_title"`
	Platform     string `json:"platform"`
	ListBacklog  int    `json:"list_backlog"`
	ListPlaying  int    `json:"list_playing"`
	ReviewScoreG int    `json:"review_score_g"`
}

type gameListResponse struct {
	Data struct {
		GamesList []gameListEntry `json:"gamesList"`
	} `json:"data"`
}

type gameDetail struct {
	CompPlusAvg     int    `json:"comp_plus_avg"` // completionist average, seconds
	ReleaseWorld    string `json:"release_world"`
	ProfilePlatform string `json:"profile_platform"`
}

type gameDetailResponse struct {
	PageProps struct {
		Game struct {
			Data struct {
				Game []gameDetail `json:"game"`
			} `json:"data"`
		} `json:"game"`
	} `json:"pageProps"`
}

// BacklogGames fetches the user's backlog as normalized records. Games
// currently being played are managed by hand and not imported.
func (c *Client) BacklogGames(ctx context.Context) ([]reconcile.Record, error) {
	body := map[string]interface{}{
		"user_id":       c.userID,
		"lists":         []string{"playing", "replays", "backlog", "completed", "retired"},
		"set_playstyle": "comp_all_h",
		"limit":         1000,
	}

	var list gameListResponse
	path := fmt.Sprintf("/api/user/%s/games/list", c.userID)
	if err := c.doRequest(ctx, http.MethodPost, path, body, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch game list: %w", err)
	}

	var records []reconcile.Record
	for _, game := range list.Data.GamesList {
		if game.ListBacklog == 0 || game.ListPlaying != 0 {
			continue
		}

		rec := reconcile.Record{
			Source:     models.SourceHLTB,
			ExternalID: strconv.Itoa(game.GameID),
			Title:      game.CustomTitle,
			MediaType:  mediaTypeForPlatform(game.Platform),
			Notes:      fmt.Sprintf("HLTB: %d", game.ReviewScoreG),
		}

		detail, err := c.gameDetail(ctx, game.GameID)
		if err != nil {
			// Import the game without an estimate rather than dropping it
			c.logger.WithError(err).WithField("title", game.CustomTitle).Warn("Game detail fetch failed")
		} else {
			if detail.CompPlusAvg > 0 {
				hours := float64(detail.CompPlusAvg) / 3600
				rec.EstimatedMinutes = estimate.GameMinutes(hours, c.stepHours)
			}
			if detail.ReleaseWorld != "" {
				if released, err := time.Parse("2006-01-02", detail.ReleaseWorld); err == nil {
					rec.ReleaseDate = &released
				}
			}
		}

		records = append(records, rec)
	}

	c.logger.WithField("count", len(records)).Debug("Fetched backlog games")
	return records, nil
}

func (c *Client) gameDetail(ctx context.Context, gameID int) (*gameDetail, error) {
	cacheKey := fmt.Sprintf("hltb:%d", gameID)
	if cached, found := c.cache.Get(cacheKey); found {
		return cached.(*gameDetail), nil
	}

	var resp gameDetailResponse
	path := fmt.Sprintf("%s/game/%d.json", gameDataPrefix, gameID)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.PageProps.Game.Data.Game) == 0 {
		return nil, fmt.Errorf("empty game payload for id %d", gameID)
	}

	detail := &resp.PageProps.Game.Data.Game[0]
	c.cache.Set(cacheKey, detail, gocache.DefaultExpiration)
	return detail, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path

	operation := func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewBuffer(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "*/*")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Referer", c.baseURL)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
		}

		return json.NewDecoder(resp.Body).Decode(result)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

func mediaTypeForPlatform(platform string) models.MediaType {
	switch platform {
	case "PC VR":
		return models.MediaTypeGameVR
	case "Mobile":
		return models.MediaTypeGameMobile
	default:
		return models.MediaTypeGame
	}
}
