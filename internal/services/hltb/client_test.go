package hltb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/shelfspace/internal/models"
)

func testClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return &Client{
		baseURL:    baseURL,
		userID:     "42",
		stepHours:  0.5,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		cache:      gocache.New(time.Minute, time.Minute),
		logger:     logger,
	}
}

func TestBacklogGames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/api/user/42/games/list":
			w.Write([]byte(`{"data": {"gamesList": [
				{"game_id": 1, "custom_title": "Outer Wilds", "platform": "PC", "list_backlog": 1, "list_playing": 0, "review_score_g": 90},
				{"game_id": 2, "custom_title": "Hades II", "platform": "PC", "list_backlog": 1, "list_playing": 1, "review_score_g": 88},
				{"game_id": 3, "custom_title": "Beat Saber", "platform": "PC VR", "list_backlog": 1, "list_playing": 0, "review_score_g": 85},
				{"game_id": 4, "custom_title": "Done Game", "platform": "PC", "list_backlog": 0, "list_playing": 0, "review_score_g": 70}
			]}}`))
		case strings.HasSuffix(r.URL.Path, "/game/1.json"):
			// 7.2 hours reported as seconds
			w.Write([]byte(`{"pageProps": {"game": {"data": {"game": [
				{"comp_plus_avg": 25920, "release_world": "2019-05-28", "profile_platform": "PC"}
			]}}}}`))
		case strings.HasSuffix(r.URL.Path, "/game/3.json"):
			w.Write([]byte(`{"pageProps": {"game": {"data": {"game": [
				{"comp_plus_avg": 18000, "release_world": "2019-05-21", "profile_platform": "PC VR"}
			]}}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	records, err := client.BacklogGames(context.Background())
	require.NoError(t, err)

	// Playing and completed games are not imported
	require.Len(t, records, 2)

	outerWilds := records[0]
	assert.Equal(t, models.SourceHLTB, outerWilds.Source)
	assert.Equal(t, "1", outerWilds.ExternalID)
	assert.Equal(t, models.MediaTypeGame, outerWilds.MediaType)
	// 25920s = 7.2h, rounded up to 7.5h
	assert.Equal(t, 450, outerWilds.EstimatedMinutes)
	assert.Equal(t, "HLTB: 90", outerWilds.Notes)
	require.NotNil(t, outerWilds.ReleaseDate)
	assert.Equal(t, 2019, outerWilds.ReleaseDate.Year())

	beatSaber := records[1]
	assert.Equal(t, models.MediaTypeGameVR, beatSaber.MediaType)
	assert.Equal(t, 300, beatSaber.EstimatedMinutes)
}
