package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amaumene/shelfspace/internal/config"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/utils"
)

// app holds the dependencies shared by every subcommand
type app struct {
	cfg       *config.Config
	logger    *logrus.Logger
	db        *models.Database
	blacklist *utils.Blacklist
}

// setup loads configuration, opens the database and seeds the default
// shelves. Every subcommand runs through here.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.LogLevel)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.EnsureDefaultShelves(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure default shelves: %w", err)
	}

	blacklist, err := utils.LoadBlacklist(cfg.BlacklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blacklist, continuing without it")
		blacklist = &utils.Blacklist{}
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		blacklist: blacklist,
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Failed to close database")
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "shelfspace",
		Short:         "Aggregate movies, shows, games and books into personal shelves",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newProcessMoviesCmd(),
		newProcessShowsCmd(),
		newProcessUpcomingCmd(),
		newUpdateTraktListsCmd(),
		newProcessGamesCmd(),
		newProcessBooksCmd(),
		newSyncSteamPlaytimeCmd(),
		newListEntriesCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
