package trakt

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
)

// detailFetchLimit caps concurrent per-item detail requests
const detailFetchLimit = 4

// WatchlistMovies fetches the user's movie watchlist as normalized records
func (c *Client) WatchlistMovies(ctx context.Context) ([]reconcile.Record, error) {
	return c.fetchMovies(ctx, "/users/me/watchlist")
}

// ListMovies fetches the movies of a custom list as normalized records
func (c *Client) ListMovies(ctx context.Context, slug string) ([]reconcile.Record, error) {
	return c.fetchMovies(ctx, fmt.Sprintf("/users/me/lists/%s/items", slug))
}

func (c *Client) fetchMovies(ctx context.Context, path string) ([]reconcile.Record, error) {
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
		if item.Type != "movie" || item.Movie == nil {
			continue
		}
		movie := item.Movie

		g.Go(func() error {
			rec, err := c.movieRecord(gctx, movie)
			if err != nil {
				// One unreachable movie must not sink the batch
				c.logger.WithError(err).WithField("title", movie.Title).Warn("Skipping movie, detail fetch failed")
				return nil
			}
			mu.Lock()
			records = append(records, rec)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(records)).Debug("Fetched movie records")
	return records, nil
}

func (c *Client) movieRecord(ctx context.Context, movie *MovieRef) (reconcile.Record, error) {
	var detail MovieDetail
	path := fmt.Sprintf("/movies/%d?extended=full", movie.IDs.Trakt)
	if err := c.getCached(ctx, path, &detail); err != nil {
		return reconcile.Record{}, err
	}

	rec := reconcile.Record{
		Source:           models.SourceTrakt,
		ExternalID:       fmt.Sprintf("movie-%d", movie.IDs.Trakt),
		Title:            movie.Title,
		MediaType:        models.MediaTypeMovie,
		EstimatedMinutes: detail.Runtime,
	}

	if detail.Released != "" {
		if released, err := time.Parse("2006-01-02", detail.Released); err == nil {
			rec.ReleaseDate = &released
		}
	}
	if rec.ReleaseDate == nil && movie.Year > 0 {
		year := time.Date(movie.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		rec.ReleaseDate = &year
	}
	if detail.Rating > 0 {
		rating := int(detail.Rating * 10)
		rec.Rating = &rating
	}

	return rec, nil
}
