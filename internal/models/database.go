package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/bolthold"
	"go.etcd.io/bbolt"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = bolthold.ErrNotFound

// Database wraps the bolthold store
type Database struct {
	store *bolthold.Store
}

// NewDatabase creates a new database connection
func NewDatabase(path string) (*Database, error) {
	store, err := bolthold.Open(path, 0600, &bolthold.Options{
		Options: &bbolt.Options{
			Timeout: 1 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{store: store}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	return db.store.Close()
}

// Entry operations

// CreateEntry creates a new entry in the database
func (db *Database) CreateEntry(entry *Entry) error {
	entry.CreatedAt = time.Now()
	entry.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), entry)
}

// UpdateEntry updates an existing entry
func (db *Database) UpdateEntry(entry *Entry) error {
	entry.UpdatedAt = time.Now()
	return db.store.Update(entry.ID, entry)
}

// GetEntryByID retrieves an entry by ID
func (db *Database) GetEntryByID(id uint64) (*Entry, error) {
	var entry Entry
	if err := db.store.Get(id, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindEntryBySource retrieves an entry by its external identity under a source
func (db *Database) FindEntryBySource(source, externalID string) (*Entry, error) {
	var entries []*Entry
	err := db.store.Find(&entries, bolthold.Where("ExternalID").Eq(externalID))
	if err != nil {
		return nil, err
	}

	for _, entry := range entries {
		if id, ok := entry.ExternalIDFor(source); ok && id == externalID {
			return entry, nil
		}
	}

	// The indexed column only covers the primary identity; secondary ids
	// attached via SourceIDs need a scan.
	var all []*Entry
	if err := db.store.Find(&all, nil); err != nil {
		return nil, err
	}
	for _, entry := range all {
		if id, ok := entry.ExternalIDFor(source); ok && id == externalID {
			return entry, nil
		}
	}

	return nil, bolthold.ErrNotFound
}

// GetAllEntries retrieves all entries
func (db *Database) GetAllEntries() ([]*Entry, error) {
	var entries []*Entry
	err := db.store.Find(&entries, nil)
	return entries, err
}

// GetEntriesByType retrieves all entries of the given media types
func (db *Database) GetEntriesByType(types ...MediaType) ([]*Entry, error) {
	var entries []*Entry
	if err := db.store.Find(&entries, nil); err != nil {
		return nil, err
	}

	wanted := make(map[MediaType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var result []*Entry
	for _, entry := range entries {
		if wanted[entry.MediaType] {
			result = append(result, entry)
		}
	}
	return result, nil
}

// SubEntry operations

// CreateSubEntry creates a new sub-entry
func (db *Database) CreateSubEntry(sub *SubEntry) error {
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), sub)
}

// CreateSubEntries creates a batch of sub-entries
func (db *Database) CreateSubEntries(subs []*SubEntry) error {
	for _, sub := range subs {
		if err := db.CreateSubEntry(sub); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSubEntry updates an existing sub-entry
func (db *Database) UpdateSubEntry(sub *SubEntry) error {
	sub.UpdatedAt = time.Now()
	return db.store.Update(sub.ID, sub)
}

// GetSubEntriesByEntry retrieves all sub-entries owned by an entry, ordered
func (db *Database) GetSubEntriesByEntry(entryID uint64) ([]*SubEntry, error) {
	var subs []*SubEntry
	err := db.store.Find(&subs, bolthold.Where("EntryID").Eq(entryID).Index("EntryID"))
	if err != nil {
		return nil, err
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Position < subs[j].Position })
	return subs, nil
}

// GetSubEntriesByShelf retrieves all sub-entries currently on a shelf
func (db *Database) GetSubEntriesByShelf(shelfID uint64) ([]*SubEntry, error) {
	var subs []*SubEntry
	err := db.store.Find(&subs, bolthold.Where("ShelfID").Eq(shelfID).Index("ShelfID"))
	return subs, err
}

// Shelf operations

// CreateShelf creates a new shelf
func (db *Database) CreateShelf(shelf *Shelf) error {
	shelf.CreatedAt = time.Now()
	shelf.UpdatedAt = time.Now()
	return db.store.Insert(bolthold.NextSequence(), shelf)
}

// UpdateShelf updates an existing shelf
func (db *Database) UpdateShelf(shelf *Shelf) error {
	shelf.UpdatedAt = time.Now()
	return db.store.Update(shelf.ID, shelf)
}

// GetShelfByName retrieves a shelf by its exact name
func (db *Database) GetShelfByName(name string) (*Shelf, error) {
	var shelf Shelf
	err := db.store.FindOne(&shelf, bolthold.Where("Name").Eq(name))
	if err != nil {
		return nil, err
	}
	return &shelf, nil
}

// ListShelves retrieves all shelves ordered by weight
func (db *Database) ListShelves() ([]*Shelf, error) {
	var shelves []*Shelf
	if err := db.store.Find(&shelves, nil); err != nil {
		return nil, err
	}
	sort.Slice(shelves, func(i, j int) bool { return shelves[i].Weight < shelves[j].Weight })
	return shelves, nil
}

// EnsureDefaultShelves creates the Backlog/Upcoming/Icebox shelves if missing.
// Default shelves sort after any user-defined time-boxed shelf.
func (db *Database) EnsureDefaultShelves() error {
	defaults := []struct {
		name   string
		weight int
	}{
		{ShelfBacklog, 1000},
		{ShelfUpcoming, 1100},
		{ShelfIcebox, 1200},
	}

	for _, d := range defaults {
		_, err := db.GetShelfByName(d.name)
		if err == nil {
			continue
		}
		if err != bolthold.ErrNotFound {
			return err
		}
		if err := db.CreateShelf(&Shelf{Name: d.name, Weight: d.weight}); err != nil {
			return fmt.Errorf("failed to create default shelf %s: %w", d.name, err)
		}
	}

	return nil
}
