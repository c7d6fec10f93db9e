package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
)

// StatusHandler handles status requests
type StatusHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(db *models.Database, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{
		db:     db,
		logger: logger,
	}
}

// StatusResponse represents the status response
type StatusResponse struct {
	TotalEntries      int            `json:"total_entries"`
	EntriesByType     map[string]int `json:"entries_by_type"`
	EntriesBySource   map[string]int `json:"entries_by_source"`
	SubEntriesByShelf map[string]int `json:"sub_entries_by_shelf"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.db.GetAllEntries()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get entries")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := StatusResponse{
		TotalEntries:      len(entries),
		EntriesByType:     make(map[string]int),
		EntriesBySource:   make(map[string]int),
		SubEntriesByShelf: make(map[string]int),
	}

	for _, entry := range entries {
		response.EntriesByType[string(entry.MediaType)]++
		response.EntriesBySource[string(entry.SourceName)]++
	}

	shelves, err := h.db.ListShelves()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get shelves")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	for _, shelf := range shelves {
		subs, err := h.db.GetSubEntriesByShelf(shelf.ID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to get sub-entries")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		response.SubEntriesByShelf[shelf.Name] = len(subs)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
