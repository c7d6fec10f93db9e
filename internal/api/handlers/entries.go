package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
)

// EntriesHandler serves the entry catalog as JSON
type EntriesHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewEntriesHandler creates a new entries handler
func NewEntriesHandler(db *models.Database, logger *logrus.Logger) *EntriesHandler {
	return &EntriesHandler{
		db:     db,
		logger: logger,
	}
}

// EntryResponse is one entry with its sub-entries attached
type EntryResponse struct {
	Entry      *models.Entry      `json:"entry"`
	SubEntries []*models.SubEntry `json:"sub_entries"`
}

// ServeHTTP handles GET /api/entries, optionally filtered by ?type=
func (h *EntriesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var entries []*models.Entry
	var err error
	if mediaType := r.URL.Query().Get("type"); mediaType != "" {
		entries, err = h.db.GetEntriesByType(models.MediaType(mediaType))
	} else {
		entries, err = h.db.GetAllEntries()
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get entries")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	response := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		subs, err := h.db.GetSubEntriesByEntry(entry.ID)
		if err != nil {
			h.logger.WithError(err).Error("Failed to get sub-entries")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		response = append(response, EntryResponse{Entry: entry, SubEntries: subs})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
