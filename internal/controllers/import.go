package controllers

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
	"github.com/amaumene/shelfspace/internal/utils"
)

// ImportController runs import batches: blacklist filtering, reconciliation
// and the per-record operator summary. The reconciler is shared across
// batches so its per-entry locks hold when scheduled imports overlap.
type ImportController struct {
	db         *models.Database
	blacklist  *utils.Blacklist
	reconciler *reconcile.Reconciler
	logger     *logrus.Logger
}

// NewImportController creates a new import controller
func NewImportController(db *models.Database, blacklist *utils.Blacklist, logger *logrus.Logger) *ImportController {
	return &ImportController{
		db:         db,
		blacklist:  blacklist,
		reconciler: reconcile.NewReconciler(db, logger),
		logger:     logger,
	}
}

// Import reconciles a batch of records from one source
func (c *ImportController) Import(ctx context.Context, source string, records []reconcile.Record) (*reconcile.Summary, error) {
	filtered := records[:0:0]
	for _, rec := range records {
		if term := c.blacklist.Match(rec.Title); term != "" {
			c.logger.WithFields(logrus.Fields{
				"title": rec.Title,
				"term":  term,
			}).Info("Skipping blacklisted record")
			continue
		}
		filtered = append(filtered, rec)
	}

	return c.reconciler.Run(ctx, source, filtered)
}

// PrintSummary writes the per-record batch outcome for the operator
func (c *ImportController) PrintSummary(w io.Writer, summary *reconcile.Summary) {
	for _, outcome := range summary.Outcomes {
		switch outcome.Action {
		case reconcile.ActionCreated:
			fmt.Fprintf(w, "created  %s (%d units)\n", outcome.Title, outcome.NewUnits)
		case reconcile.ActionUpdated:
			fmt.Fprintf(w, "updated  %s (%d new units)\n", outcome.Title, outcome.NewUnits)
		case reconcile.ActionSkipped:
			fmt.Fprintf(w, "skipped  %s\n", outcome.Title)
		case reconcile.ActionRejected:
			fmt.Fprintf(w, "rejected %s: %s\n", outcome.Title, outcome.Reason)
		}
	}

	fmt.Fprintf(w, "\n%s: %d records, %d created, %d updated, %d skipped, %d rejected\n",
		summary.Source, summary.Total(), summary.Created, summary.Updated, summary.Skipped, summary.Rejected)
}
