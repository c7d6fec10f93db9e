package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/config"
	"github.com/amaumene/shelfspace/internal/controllers"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
	"github.com/amaumene/shelfspace/internal/services/hltb"
	"github.com/amaumene/shelfspace/internal/services/trakt"
)

// Scheduler runs periodic imports in serve mode
type Scheduler struct {
	cron         *cron.Cron
	cfg          *config.Config
	importCtrl   *controllers.ImportController
	playtimeCtrl *controllers.PlaytimeController
	traktClient  *trakt.Client
	hltbClient   *hltb.Client
	logger       *logrus.Logger
}

// NewScheduler creates a new scheduler. The trakt, hltb and playtime
// dependencies are optional; jobs for unconfigured sources are skipped.
func NewScheduler(
	cfg *config.Config,
	importCtrl *controllers.ImportController,
	playtimeCtrl *controllers.PlaytimeController,
	traktClient *trakt.Client,
	hltbClient *hltb.Client,
	logger *logrus.Logger,
) *Scheduler {
	return &Scheduler{
		cron:         cron.New(),
		cfg:          cfg,
		importCtrl:   importCtrl,
		playtimeCtrl: playtimeCtrl,
		traktClient:  traktClient,
		hltbClient:   hltbClient,
		logger:       logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.WithField("interval_hours", s.cfg.SyncIntervalHours).Info("Starting scheduler")

	spec := fmt.Sprintf("@every %dh", s.cfg.SyncIntervalHours)
	if _, err := s.cron.AddFunc(spec, s.runAll); err != nil {
		return fmt.Errorf("failed to add sync job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Run an initial sync immediately
	go s.runAll()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runAll executes every import job for the configured sources
func (s *Scheduler) runAll() {
	ctx := context.Background()

	if s.traktClient != nil {
		s.runTraktSync(ctx)
	}
	if s.hltbClient != nil {
		s.runGameSync(ctx)
	}
	if s.playtimeCtrl != nil {
		s.runPlaytimeSync(ctx)
	}
}

// runTraktSync imports watchlist movies, shows and upcoming episodes
func (s *Scheduler) runTraktSync(ctx context.Context) {
	s.logger.Info("Running scheduled Trakt sync")

	jobs := []struct {
		name  string
		fetch func(context.Context) ([]reconcile.Record, error)
	}{
		{"movies", s.fetchAllMovies},
		{"shows", s.fetchAllShows},
		{"upcoming", func(ctx context.Context) ([]reconcile.Record, error) {
			return s.traktClient.UpcomingEpisodes(ctx, s.cfg.UpcomingDays)
		}},
	}

	for _, job := range jobs {
		records, err := job.fetch(ctx)
		if err != nil {
			s.logger.WithError(err).WithField("job", job.name).Error("Trakt fetch failed")
			continue
		}
		if _, err := s.importCtrl.Import(ctx, models.SourceTrakt, records); err != nil {
			s.logger.WithError(err).WithField("job", job.name).Error("Trakt import failed")
		}
	}
}

func (s *Scheduler) fetchAllMovies(ctx context.Context) ([]reconcile.Record, error) {
	records, err := s.traktClient.WatchlistMovies(ctx)
	if err != nil {
		return nil, err
	}
	for _, slug := range s.cfg.TraktLists {
		listRecords, err := s.traktClient.ListMovies(ctx, slug)
		if err != nil {
			return nil, err
		}
		records = append(records, listRecords...)
	}
	return records, nil
}

func (s *Scheduler) fetchAllShows(ctx context.Context) ([]reconcile.Record, error) {
	records, err := s.traktClient.WatchlistShows(ctx)
	if err != nil {
		return nil, err
	}
	for _, slug := range s.cfg.TraktLists {
		listRecords, err := s.traktClient.ListShows(ctx, slug)
		if err != nil {
			return nil, err
		}
		records = append(records, listRecords...)
	}
	return records, nil
}

// runGameSync imports the HowLongToBeat backlog
func (s *Scheduler) runGameSync(ctx context.Context) {
	s.logger.Info("Running scheduled game sync")

	records, err := s.hltbClient.BacklogGames(ctx)
	if err != nil {
		s.logger.WithError(err).Error("HLTB fetch failed")
		return
	}
	if _, err := s.importCtrl.Import(ctx, models.SourceHLTB, records); err != nil {
		s.logger.WithError(err).Error("HLTB import failed")
	}
}

// runPlaytimeSync pushes Steam playtime into game entries
func (s *Scheduler) runPlaytimeSync(ctx context.Context) {
	s.logger.Info("Running scheduled playtime sync")

	updated, err := s.playtimeCtrl.SyncPlaytime(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Playtime sync failed")
		return
	}
	s.logger.WithField("updated", updated).Info("Playtime sync completed")
}
