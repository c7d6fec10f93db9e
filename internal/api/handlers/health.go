package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *models.Database, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// ServeHTTP handles the health check endpoint. The store is probed with a
// cheap read so a wedged database file turns the check red.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := h.db.ListShelves(); err != nil {
		h.logger.WithError(err).Error("Health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
