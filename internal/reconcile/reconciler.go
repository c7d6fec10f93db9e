// Package reconcile turns normalized source records into entry/sub-entry
// writes without creating duplicates or clobbering user edits.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/metrics"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/shelves"
)

// Gateway is the persistence surface the reconciler writes through
type Gateway interface {
	FindEntryBySource(source, externalID string) (*models.Entry, error)
	CreateEntry(entry *models.Entry) error
	UpdateEntry(entry *models.Entry) error
	GetSubEntriesByEntry(entryID uint64) ([]*models.SubEntry, error)
	CreateSubEntries(subs []*models.SubEntry) error
	ListShelves() ([]*models.Shelf, error)
}

// Reconciler decides create/update/skip for each imported record
type Reconciler struct {
	gateway Gateway
	logger  *logrus.Logger
	locks   *entryLocks
}

// NewReconciler creates a new reconciler
func NewReconciler(gateway Gateway, logger *logrus.Logger) *Reconciler {
	return &Reconciler{
		gateway: gateway,
		logger:  logger,
		locks:   newEntryLocks(),
	}
}

// Run reconciles a batch of records from one source. Malformed records are
// rejected individually; the batch continues. Only missing default shelves or
// storage failures abort the run.
func (r *Reconciler) Run(ctx context.Context, source string, records []Record) (*Summary, error) {
	start := time.Now()

	all, err := r.gateway.ListShelves()
	if err != nil {
		return nil, fmt.Errorf("failed to list shelves: %w", err)
	}
	resolver, err := shelves.NewResolver(all)
	if err != nil {
		return nil, err
	}

	summary := &Summary{Source: source}
	for _, rec := range records {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		outcome, err := r.reconcileOne(source, rec, resolver)
		if err != nil {
			return summary, err
		}

		summary.add(outcome)
		metrics.RecordsTotal.WithLabelValues(source, string(outcome.Action)).Inc()
	}

	metrics.ImportRuns.WithLabelValues(source).Inc()
	metrics.ImportDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())

	r.logger.WithFields(logrus.Fields{
		"source":   source,
		"created":  summary.Created,
		"updated":  summary.Updated,
		"skipped":  summary.Skipped,
		"rejected": summary.Rejected,
	}).Info("Reconciliation completed")

	return summary, nil
}

// reconcileOne handles a single record. Returned errors are batch-fatal
// (storage failures); data problems become rejected outcomes instead.
func (r *Reconciler) reconcileOne(source string, rec Record, resolver *shelves.Resolver) (Outcome, error) {
	if reason := validate(rec); reason != "" {
		r.logger.WithFields(logrus.Fields{
			"source": source,
			"title":  rec.Title,
			"reason": reason,
		}).Warn("Rejecting malformed record")
		return Outcome{Title: rec.Title, ExternalID: rec.ExternalID, Action: ActionRejected, Reason: reason}, nil
	}

	unlock := r.locks.lock(source + ":" + rec.ExternalID)
	defer unlock()

	existing, err := r.gateway.FindEntryBySource(source, rec.ExternalID)
	switch {
	case err == nil:
		return r.update(existing, rec, resolver)
	case errors.Is(err, models.ErrNotFound):
		return r.create(source, rec, resolver)
	default:
		return Outcome{}, fmt.Errorf("failed to look up entry %s:%s: %w", source, rec.ExternalID, err)
	}
}

func validate(rec Record) string {
	if rec.ExternalID == "" {
		return "missing external id"
	}
	if rec.Title == "" {
		return "missing title"
	}
	return ""
}

func (r *Reconciler) create(source string, rec Record, resolver *shelves.Resolver) (Outcome, error) {
	entry := &models.Entry{
		SourceName:  source,
		ExternalID:  rec.ExternalID,
		Name:        rec.EntryName(),
		MediaType:   rec.MediaType,
		ReleaseDate: rec.ReleaseDate,
		Rating:      rec.Rating,
		Notes:       rec.Notes,
	}

	if err := r.gateway.CreateEntry(entry); err != nil {
		return Outcome{}, fmt.Errorf("failed to create entry %q: %w", entry.Name, err)
	}

	subs := buildSubEntries(entry.ID, rec, nil, resolver)
	if err := r.gateway.CreateSubEntries(subs); err != nil {
		return Outcome{}, fmt.Errorf("failed to create sub-entries for %q: %w", entry.Name, err)
	}

	r.logger.WithFields(logrus.Fields{
		"source": source,
		"title":  entry.Name,
		"units":  len(subs),
	}).Info("Created entry")

	return Outcome{Title: entry.Name, ExternalID: rec.ExternalID, Action: ActionCreated, NewUnits: len(subs)}, nil
}

func (r *Reconciler) update(entry *models.Entry, rec Record, resolver *shelves.Resolver) (Outcome, error) {
	changed := mergeMetadata(entry, rec)

	existingSubs, err := r.gateway.GetSubEntriesByEntry(entry.ID)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to load sub-entries for %q: %w", entry.Name, err)
	}

	newSubs := buildSubEntries(entry.ID, rec, existingSubs, resolver)

	if !changed && len(newSubs) == 0 {
		// Steady state: no writes at all
		return Outcome{Title: entry.Name, ExternalID: rec.ExternalID, Action: ActionSkipped}, nil
	}

	if changed {
		if err := r.gateway.UpdateEntry(entry); err != nil {
			return Outcome{}, fmt.Errorf("failed to update entry %q: %w", entry.Name, err)
		}
	}
	if len(newSubs) > 0 {
		if err := r.gateway.CreateSubEntries(newSubs); err != nil {
			return Outcome{}, fmt.Errorf("failed to create sub-entries for %q: %w", entry.Name, err)
		}
	}

	r.logger.WithFields(logrus.Fields{
		"source":    rec.Source,
		"title":     entry.Name,
		"new_units": len(newSubs),
	}).Info("Updated entry")

	return Outcome{Title: entry.Name, ExternalID: rec.ExternalID, Action: ActionUpdated, NewUnits: len(newSubs)}, nil
}

// mergeMetadata fills fields that are still empty on the persisted entry.
// Non-empty values are user territory and always win over source data. The
// name is the one exception: a name still equal to the record's bare title
// was never edited and may gain the season suffix.
func mergeMetadata(entry *models.Entry, rec Record) bool {
	changed := false

	if canonical := rec.EntryName(); entry.Name == rec.Title && entry.Name != canonical {
		entry.Name = canonical
		changed = true
	}
	if entry.ReleaseDate == nil && rec.ReleaseDate != nil {
		entry.ReleaseDate = rec.ReleaseDate
		changed = true
	}
	if entry.Rating == nil && rec.Rating != nil {
		entry.Rating = rec.Rating
		changed = true
	}
	if entry.Notes == "" && rec.Notes != "" {
		entry.Notes = rec.Notes
		changed = true
	}

	return changed
}

// buildSubEntries creates sub-entries for the record's units that are not
// already persisted. Existing sub-entries are never touched: shelf placement
// and completion state belong to the user once created.
func buildSubEntries(entryID uint64, rec Record, existing []*models.SubEntry, resolver *shelves.Resolver) []*models.SubEntry {
	present := make(map[string]bool, len(existing))
	position := 0
	for _, sub := range existing {
		present[sub.Key] = true
		if sub.Position >= position {
			position = sub.Position + 1
		}
	}

	units := rec.Units
	if len(units) == 0 {
		// Non-episodic media get a single whole-item unit
		units = []Unit{{
			Key:              "",
			AirDate:          rec.ReleaseDate,
			EstimatedMinutes: rec.EstimatedMinutes,
		}}
	}

	var subs []*models.SubEntry
	for _, unit := range units {
		if present[unit.Key] {
			continue
		}

		spent := 0
		if unit.Key == "" {
			spent = rec.SpentMinutes
		}

		shelf := resolver.Resolve(unit.AirDate)
		subs = append(subs, &models.SubEntry{
			EntryID:          entryID,
			Key:              unit.Key,
			Name:             unit.Name,
			Position:         position,
			EstimatedMinutes: unit.EstimatedMinutes,
			SpentMinutes:     spent,
			Finished:         false,
			ShelfID:          shelf.ID,
		})
		position++
	}

	return subs
}
