package models

import "time"

// Entry represents a top-level media item
type Entry struct {
	ID uint64 `boltholdKey:"ID"`

	// External identity used for deduplication. SourceName/ExternalID is the
	// identity the entry was first imported under; SourceIDs carries any
	// additional per-source ids attached later (e.g. a Steam appid).
	SourceName string
	ExternalID string `boltholdIndex:"ExternalID"`
	SourceIDs  map[string]string

	Name      string
	MediaType MediaType

	ReleaseDate *time.Time
	Rating      *int // 0-100 scale
	Notes       string

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternalIDFor returns the entry's id under the given source, if any
func (e *Entry) ExternalIDFor(source string) (string, bool) {
	if e.SourceName == source && e.ExternalID != "" {
		return e.ExternalID, true
	}
	id, ok := e.SourceIDs[source]
	return id, ok
}

// SetExternalID attaches an additional per-source id to the entry
func (e *Entry) SetExternalID(source, id string) {
	if e.SourceName == source {
		e.ExternalID = id
		return
	}
	if e.SourceIDs == nil {
		e.SourceIDs = make(map[string]string)
	}
	e.SourceIDs[source] = id
}
