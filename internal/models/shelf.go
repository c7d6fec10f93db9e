package models

import "time"

// Shelf is an organizational bucket holding sub-entries. Shelves with both
// dates set are time-boxed; Icebox/Backlog/Upcoming are open-ended defaults.
type Shelf struct {
	ID   uint64 `boltholdKey:"ID"`
	Name string `boltholdIndex:"Name"`

	StartDate *time.Time
	EndDate   *time.Time

	// Weight is the sort key; lower weights sort first and win overlap
	// tie-breaks during shelf resolution.
	Weight   int
	Finished bool

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeBoxed reports whether the shelf covers a date interval
func (s *Shelf) TimeBoxed() bool {
	return s.StartDate != nil && s.EndDate != nil
}

// Contains reports whether d falls inside the shelf's [start, end] interval
func (s *Shelf) Contains(d time.Time) bool {
	if !s.TimeBoxed() {
		return false
	}
	return !d.Before(*s.StartDate) && !d.After(*s.EndDate)
}
