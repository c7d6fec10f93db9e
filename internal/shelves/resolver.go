// Package shelves selects the target shelf for newly imported items.
package shelves

import (
	"fmt"
	"time"

	"github.com/amaumene/shelfspace/internal/models"
)

// Resolver picks initial shelf placement from a snapshot of persisted shelves.
// Placement never fails once a Resolver is built: items without a usable date
// land on Backlog, far-future items on Icebox.
type Resolver struct {
	timeBoxed []*models.Shelf
	backlog   *models.Shelf
	icebox    *models.Shelf
	upcoming  *models.Shelf
}

// NewResolver builds a resolver from the ordered shelf list. The three
// default shelves are looked up by exact name; their absence is a fatal
// configuration error since the resolver cannot synthesize them.
func NewResolver(all []*models.Shelf) (*Resolver, error) {
	r := &Resolver{}
	for _, shelf := range all {
		switch shelf.Name {
		case models.ShelfBacklog:
			r.backlog = shelf
		case models.ShelfIcebox:
			r.icebox = shelf
		case models.ShelfUpcoming:
			r.upcoming = shelf
		default:
			if shelf.TimeBoxed() && !shelf.Finished {
				r.timeBoxed = append(r.timeBoxed, shelf)
			}
		}
	}

	for name, shelf := range map[string]*models.Shelf{
		models.ShelfBacklog:  r.backlog,
		models.ShelfIcebox:   r.icebox,
		models.ShelfUpcoming: r.upcoming,
	} {
		if shelf == nil {
			return nil, fmt.Errorf("default shelf %q is missing", name)
		}
	}

	return r, nil
}

// Backlog returns the Backlog default shelf
func (r *Resolver) Backlog() *models.Shelf {
	return r.backlog
}

// Upcoming returns the Upcoming default shelf
func (r *Resolver) Upcoming() *models.Shelf {
	return r.upcoming
}

// Resolve picks the shelf for an item with the given candidate date.
func (r *Resolver) Resolve(date *time.Time) *models.Shelf {
	if date == nil {
		return r.backlog
	}

	// Lowest weight wins when intervals overlap
	var match *models.Shelf
	for _, shelf := range r.timeBoxed {
		if !shelf.Contains(*date) {
			continue
		}
		if match == nil || shelf.Weight < match.Weight {
			match = shelf
		}
	}
	if match != nil {
		return match
	}

	if date.After(r.horizon()) {
		return r.icebox
	}
	return r.backlog
}

// horizon is the end of the latest known time-boxed interval; dates beyond it
// are "future beyond all known shelves". With no time-boxed shelves the
// horizon is now, so past dates still fall back to Backlog.
func (r *Resolver) horizon() time.Time {
	h := time.Now()
	for _, shelf := range r.timeBoxed {
		if shelf.EndDate.After(h) {
			h = *shelf.EndDate
		}
	}
	return h
}
