package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
)

// ShelvesHandler serves the shelf list as JSON
type ShelvesHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewShelvesHandler creates a new shelves handler
func NewShelvesHandler(db *models.Database, logger *logrus.Logger) *ShelvesHandler {
	return &ShelvesHandler{
		db:     db,
		logger: logger,
	}
}

// ServeHTTP handles GET /api/shelves
func (h *ShelvesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	shelves, err := h.db.ListShelves()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get shelves")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shelves)
}
