package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amaumene/shelfspace/internal/api"
	"github.com/amaumene/shelfspace/internal/controllers"
	"github.com/amaumene/shelfspace/internal/scheduler"
	"github.com/amaumene/shelfspace/internal/services/hltb"
	"github.com/amaumene/shelfspace/internal/services/steam"
	"github.com/amaumene/shelfspace/internal/services/trakt"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server with periodic imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			return a.serve(cmd.Context())
		},
	}
}

// serve runs the HTTP server and the import scheduler until a shutdown
// signal arrives. Sources without credentials are left out of the schedule.
func (a *app) serve(ctx context.Context) error {
	a.logger.Info("Starting shelfspace")

	var traktClient *trakt.Client
	if a.cfg.TraktClientID != "" {
		client, err := a.traktClient(ctx)
		if err != nil {
			return err
		}
		traktClient = client
		a.logger.Info("Trakt client initialized")
	} else {
		a.logger.Warn("Trakt is not configured, skipping Trakt sync")
	}

	var hltbClient *hltb.Client
	if a.cfg.HLTBUserID != "" {
		client, err := hltb.NewClient(a.cfg, a.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize HLTB client: %w", err)
		}
		hltbClient = client
		a.logger.Info("HLTB client initialized")
	} else {
		a.logger.Warn("HLTB is not configured, skipping game sync")
	}

	var playtimeCtrl *controllers.PlaytimeController
	if a.cfg.SteamAPIKey != "" {
		steamClient, err := steam.NewClient(a.cfg, a.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Steam client: %w", err)
		}
		playtimeCtrl = controllers.NewPlaytimeController(a.db, steamClient, a.logger)
		a.logger.Info("Steam client initialized")
	} else {
		a.logger.Warn("Steam is not configured, skipping playtime sync")
	}

	importCtrl := controllers.NewImportController(a.db, a.blacklist, a.logger)

	sched := scheduler.NewScheduler(a.cfg, importCtrl, playtimeCtrl, traktClient, hltbClient, a.logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	server := api.NewServer(a.cfg, a.db, a.logger)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(serveCtx); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	a.logger.Info("Shelfspace is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		a.logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			a.logger.WithError(err).Error("Error during server shutdown")
		}
	}

	a.logger.Info("Shelfspace stopped")
	return nil
}
