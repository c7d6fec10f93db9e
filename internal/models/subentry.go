package models

import "time"

// SubEntry represents a consumable unit within an entry: a whole item for
// movies, games and books, or a single episode for show seasons.
type SubEntry struct {
	ID      uint64 `boltholdKey:"ID"`
	EntryID uint64 `boltholdIndex:"EntryID"`

	// Key is the stable sub-identifier used to diff imported units against
	// persisted ones ("" for the whole item, "s01e03" for episodes).
	Key  string
	Name string

	// Position orders sub-entries within their entry
	Position int

	EstimatedMinutes int
	SpentMinutes     int
	Finished         bool

	// Non-owning shelf reference (id-based)
	ShelfID uint64 `boltholdIndex:"ShelfID"`

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}
