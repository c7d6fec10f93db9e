package trakt

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/shelfspace/internal/estimate"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
)

// WatchlistShows fetches the user's show watchlist as one record per season
func (c *Client) WatchlistShows(ctx context.Context) ([]reconcile.Record, error) {
	return c.fetchShows(ctx, "/users/me/watchlist")
}

// ListShows fetches the shows of a custom list as one record per season
func (c *Client) ListShows(ctx context.Context, slug string) ([]reconcile.Record, error) {
	return c.fetchShows(ctx, fmt.Sprintf("/users/me/lists/%s/items", slug))
}

func (c *Client) fetchShows(ctx context.Context, path string) ([]reconcile.Record, error) {
	var items []ListItem
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &items); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	var (
		mu      sync.Mutex
		records []reconcile.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailFetchLimit)

	for _, item := range items {
		if item.Type != "show" || item.Show == nil {
			continue
		}
		show := item.Show

		g.Go(func() error {
			recs, err := c.seasonRecords(gctx, show)
			if err != nil {
				c.logger.WithError(err).WithField("title", show.Title).Warn("Skipping show, detail fetch failed")
				return nil
			}
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(records)).Debug("Fetched season records")
	return records, nil
}

// seasonRecords expands a show into one record per aired season, each with
// its episode units
func (c *Client) seasonRecords(ctx context.Context, show *ShowRef) ([]reconcile.Record, error) {
	var seasons []SeasonSummary
	path := fmt.Sprintf("/shows/%d/seasons?extended=full", show.IDs.Trakt)
	if err := c.getCached(ctx, path, &seasons); err != nil {
		return nil, err
	}

	// Season 0 holds specials and is not imported
	var regular []SeasonSummary
	for _, s := range seasons {
		if s.Number > 0 && s.EpisodeCount > 0 {
			regular = append(regular, s)
		}
	}
	multiSeason := len(regular) > 1

	var records []reconcile.Record
	for _, season := range regular {
		var episodes []EpisodeDetail
		path := fmt.Sprintf("/shows/%d/seasons/%d?extended=full", show.IDs.Trakt, season.Number)
		if err := c.getCached(ctx, path, &episodes); err != nil {
			return nil, err
		}

		rec := reconcile.Record{
			Source:      models.SourceTrakt,
			ExternalID:  seasonExternalID(show.IDs.Trakt, season.Number),
			Title:       show.Title,
			MediaType:   models.MediaTypeShowSeason,
			Season:      season.Number,
			MultiSeason: multiSeason,
		}

		for _, ep := range episodes {
			unit := reconcile.Unit{
				Key:  episodeKey(season.Number, ep.Number),
				Name: fmt.Sprintf("S%02dE%02d", season.Number, ep.Number),
			}
			if ep.Runtime > 0 {
				unit.EstimatedMinutes = estimate.EpisodeMinutes(ep.Runtime)
			}
			if aired := parseAirDate(ep.FirstAired); aired != nil {
				unit.AirDate = aired
				if rec.ReleaseDate == nil || aired.Before(*rec.ReleaseDate) {
					rec.ReleaseDate = aired
				}
			}
			rec.Units = append(rec.Units, unit)
		}

		if len(rec.Units) > 0 {
			records = append(records, rec)
		}
	}

	return records, nil
}

func seasonExternalID(showID, season int) string {
	return fmt.Sprintf("show-%d-s%d", showID, season)
}

func episodeKey(season, episode int) string {
	return fmt.Sprintf("s%02de%02d", season, episode)
}

func parseAirDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	aired, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	return &aired
}
