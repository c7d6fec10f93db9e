package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amaumene/shelfspace/internal/controllers"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
	"github.com/amaumene/shelfspace/internal/services/goodreads"
	"github.com/amaumene/shelfspace/internal/services/hltb"
	"github.com/amaumene/shelfspace/internal/services/steam"
	"github.com/amaumene/shelfspace/internal/services/trakt"
)

// traktClient builds an authenticated Trakt client, running the device
// flow when no usable token is stored.
func (a *app) traktClient(ctx context.Context) (*trakt.Client, error) {
	client, err := trakt.NewClient(a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Trakt client: %w", err)
	}

	if _, err := client.GetToken(); err != nil {
		a.logger.Info("Trakt authentication required")
		if err := client.Authenticate(ctx); err != nil {
			return nil, fmt.Errorf("failed to authenticate with Trakt: %w", err)
		}
	}

	return client, nil
}

// runImport reconciles one batch and prints the per-record summary.
// A batch that completes with rejected records still exits zero.
func (a *app) runImport(ctx context.Context, source string, records []reconcile.Record) error {
	importCtrl := controllers.NewImportController(a.db, a.blacklist, a.logger)

	summary, err := importCtrl.Import(ctx, source, records)
	if err != nil {
		return err
	}

	importCtrl.PrintSummary(os.Stdout, summary)
	return nil
}

func newProcessMoviesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-movies",
		Short: "Import watchlist movies from Trakt",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := a.traktClient(cmd.Context())
			if err != nil {
				return err
			}

			records, err := client.WatchlistMovies(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch watchlist movies: %w", err)
			}

			return a.runImport(cmd.Context(), models.SourceTrakt, records)
		},
	}
}

func newProcessShowsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-shows",
		Short: "Import watchlist shows from Trakt as per-season entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := a.traktClient(cmd.Context())
			if err != nil {
				return err
			}

			records, err := client.WatchlistShows(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch watchlist shows: %w", err)
			}

			return a.runImport(cmd.Context(), models.SourceTrakt, records)
		},
	}
}

func newProcessUpcomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-upcoming",
		Short: "Import upcoming episodes from the Trakt calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := a.traktClient(cmd.Context())
			if err != nil {
				return err
			}

			records, err := client.UpcomingEpisodes(cmd.Context(), a.cfg.UpcomingDays)
			if err != nil {
				return fmt.Errorf("failed to fetch upcoming episodes: %w", err)
			}

			return a.runImport(cmd.Context(), models.SourceTrakt, records)
		},
	}
}

func newUpdateTraktListsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-trakt-lists",
		Short: "Import movies and shows from the configured Trakt lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			if len(a.cfg.TraktLists) == 0 {
				return fmt.Errorf("TRAKT_LISTS is not configured")
			}

			client, err := a.traktClient(cmd.Context())
			if err != nil {
				return err
			}

			var records []reconcile.Record
			for _, slug := range a.cfg.TraktLists {
				movies, err := client.ListMovies(cmd.Context(), slug)
				if err != nil {
					return fmt.Errorf("failed to fetch list %q movies: %w", slug, err)
				}
				shows, err := client.ListShows(cmd.Context(), slug)
				if err != nil {
					return fmt.Errorf("failed to fetch list %q shows: %w", slug, err)
				}
				records = append(records, movies...)
				records = append(records, shows...)
			}

			return a.runImport(cmd.Context(), models.SourceTrakt, records)
		},
	}
}

func newProcessGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-games",
		Short: "Import the HowLongToBeat backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := hltb.NewClient(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize HLTB client: %w", err)
			}

			records, err := client.BacklogGames(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch HLTB backlog: %w", err)
			}

			return a.runImport(cmd.Context(), models.SourceHLTB, records)
		},
	}
}

func newProcessBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process-books <export.csv>",
		Short: "Import books from a Goodreads CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			parser := goodreads.NewParser(a.logger)
			records, err := parser.ParseFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to parse Goodreads export: %w", err)
			}

			return a.runImport(cmd.Context(), models.SourceGoodreads, records)
		},
	}
}

func newSyncSteamPlaytimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-steam-playtime",
		Short: "Push Steam playtime into game entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			client, err := steam.NewClient(a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize Steam client: %w", err)
			}

			playtimeCtrl := controllers.NewPlaytimeController(a.db, client, a.logger)
			updated, err := playtimeCtrl.SyncPlaytime(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "updated playtime on %d entries\n", updated)
			return nil
		},
	}
}

func newListEntriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-entries",
		Short: "Print all entries grouped by shelf",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			listCtrl := controllers.NewListController(a.db, a.logger)
			return listCtrl.ListEntries(os.Stdout)
		},
	}
}
