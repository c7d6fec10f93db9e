package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Trakt
	TraktClientID     string
	TraktClientSecret string
	TraktLists        []string // custom list slugs for update-trakt-lists

	// HowLongToBeat
	HLTBUserID string

	// Steam
	SteamAPIKey string
	SteamUserID string

	// Import tuning
	GameRoundHours float64 // rounding interval for game estimates, in hours
	UpcomingDays   int     // calendar window for process-upcoming

	// Server
	ServerPort        string
	SyncIntervalHours int // periodic import interval in serve mode

	// Paths
	TokenFile     string // $CONFIG_DIR/token.json
	BlacklistFile string // $CONFIG_DIR/blacklist.txt
	DatabaseFile  string // $CONFIG_DIR/shelfspace.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Setup viper FIRST to load .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	// Set defaults
	viper.SetDefault("GAME_ROUND_HOURS", 0.5)
	viper.SetDefault("UPCOMING_DAYS", 49)
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SYNC_INTERVAL_HOURS", 6)
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "shelfspace")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		TraktClientID:     viper.GetString("TRAKT_CLIENT_ID"),
		TraktClientSecret: viper.GetString("TRAKT_CLIENT_SECRET"),
		TraktLists:        splitList(viper.GetString("TRAKT_LISTS")),

		HLTBUserID: viper.GetString("HLTB_USER_ID"),

		SteamAPIKey: viper.GetString("STEAM_API_KEY"),
		SteamUserID: viper.GetString("STEAM_USER_ID"),

		GameRoundHours: viper.GetFloat64("GAME_ROUND_HOURS"),
		UpcomingDays:   viper.GetInt("UPCOMING_DAYS"),

		ServerPort:        viper.GetString("SERVER_PORT"),
		SyncIntervalHours: viper.GetInt("SYNC_INTERVAL_HOURS"),

		TokenFile:     filepath.Join(configDir, "token.json"),
		BlacklistFile: filepath.Join(configDir, "blacklist.txt"),
		DatabaseFile:  filepath.Join(configDir, "shelfspace.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if config.GameRoundHours <= 0 {
		return nil, fmt.Errorf("GAME_ROUND_HOURS must be positive")
	}
	if config.UpcomingDays <= 0 {
		return nil, fmt.Errorf("UPCOMING_DAYS must be positive")
	}

	// Per-source credentials are validated by the client that needs them, so
	// source-less commands (list-entries, serve) run without any configured.
	return config, nil
}

func splitList(raw string) []string {
	var result []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
