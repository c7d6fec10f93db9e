package trakt

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/estimate"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
)

// UpcomingEpisodes fetches the my-shows calendar for the next days and groups
// it into one record per (show, season). External ids match the watchlist
// season records, so calendar episodes merge into existing season entries.
func (c *Client) UpcomingEpisodes(ctx context.Context, days int) ([]reconcile.Record, error) {
	path := fmt.Sprintf("/calendars/my/shows/%s/%d", time.Now().Format("2006-01-02"), days)

	var items []CalendarItem
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	grouped := make(map[string]*reconcile.Record)
	showSeasons := make(map[int]map[int]bool)
	recordShow := make(map[string]int)
	for _, item := range items {
		if item.Episode.Season == 0 {
			continue
		}

		id := seasonExternalID(item.Show.IDs.Trakt, item.Episode.Season)
		rec, ok := grouped[id]
		if !ok {
			rec = &reconcile.Record{
				Source:     models.SourceTrakt,
				ExternalID: id,
				Title:      item.Show.Title,
				MediaType:  models.MediaTypeShowSeason,
				Season:     item.Episode.Season,
			}
			grouped[id] = rec
			recordShow[id] = item.Show.IDs.Trakt

			if showSeasons[item.Show.IDs.Trakt] == nil {
				showSeasons[item.Show.IDs.Trakt] = make(map[int]bool)
			}
			showSeasons[item.Show.IDs.Trakt][item.Episode.Season] = true
		}

		runtime := item.Episode.Runtime
		if runtime == 0 {
			runtime = item.Show.Runtime
		}

		unit := reconcile.Unit{
			Key:     episodeKey(item.Episode.Season, item.Episode.Number),
			Name:    fmt.Sprintf("S%02dE%02d", item.Episode.Season, item.Episode.Number),
			AirDate: parseAirDate(item.FirstAired),
		}
		if runtime > 0 {
			unit.EstimatedMinutes = estimate.EpisodeMinutes(runtime)
		}
		rec.Units = append(rec.Units, unit)
	}

	records := make([]reconcile.Record, 0, len(grouped))
	for id, rec := range grouped {
		// A window spanning a season boundary must yield distinct names
		if len(showSeasons[recordShow[id]]) > 1 {
			rec.MultiSeason = true
		}
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ExternalID < records[j].ExternalID })

	c.logger.WithFields(logrus.Fields{
		"days":  days,
		"count": len(records),
	}).Debug("Fetched upcoming records")

	return records, nil
}
