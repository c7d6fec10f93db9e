package reconcile

import (
	"fmt"
	"time"

	"github.com/amaumene/shelfspace/internal/models"
)

// Record is the fixed-shape intermediate representation produced by a source
// adapter. The reconciler never inspects source-specific raw payloads.
type Record struct {
	Source     string
	ExternalID string
	Title      string
	MediaType  models.MediaType

	ReleaseDate *time.Time
	Rating      *int
	Notes       string

	// Season is set for show seasons; MultiSeason marks shows with more than
	// one season represented, which puts an "S<n>" suffix on the entry name.
	Season      int
	MultiSeason bool

	// EstimatedMinutes is the normalized duration for non-episodic media
	EstimatedMinutes int

	// SpentMinutes pre-fills time already spent (e.g. books already read)
	SpentMinutes int

	// Units lists the record's consumable sub-units. Empty means a single
	// whole-item sub-entry placed by the record's release date.
	Units []Unit
}

// Unit is one consumable sub-unit of a record (an episode, typically)
type Unit struct {
	Key              string
	Name             string
	AirDate          *time.Time
	EstimatedMinutes int
}

// EntryName computes the persisted entry name for the record. Multi-season
// shows carry the season suffix regardless of import order.
func (r *Record) EntryName() string {
	if r.MultiSeason && r.Season > 0 {
		return fmt.Sprintf("%s S%d", r.Title, r.Season)
	}
	return r.Title
}
