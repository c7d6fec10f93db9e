package shelves

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/shelfspace/internal/models"
)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func defaultShelves() []*models.Shelf {
	return []*models.Shelf{
		{ID: 1, Name: models.ShelfBacklog, Weight: 1000},
		{ID: 2, Name: models.ShelfUpcoming, Weight: 1100},
		{ID: 3, Name: models.ShelfIcebox, Weight: 1200},
	}
}

func TestNewResolverMissingDefaults(t *testing.T) {
	_, err := NewResolver([]*models.Shelf{
		{ID: 1, Name: models.ShelfBacklog},
		{ID: 3, Name: models.ShelfIcebox},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upcoming")

	_, err = NewResolver(nil)
	require.Error(t, err)
}

func TestResolveNoDate(t *testing.T) {
	r, err := NewResolver(defaultShelves())
	require.NoError(t, err)

	assert.Equal(t, models.ShelfBacklog, r.Resolve(nil).Name)
}

func TestResolveTimeBoxed(t *testing.T) {
	shelves := append(defaultShelves(),
		&models.Shelf{ID: 10, Name: "March", Weight: 10,
			StartDate: datePtr(2026, 3, 1), EndDate: datePtr(2026, 3, 31)},
		&models.Shelf{ID: 11, Name: "April", Weight: 20,
			StartDate: datePtr(2026, 4, 1), EndDate: datePtr(2026, 4, 30)},
	)
	r, err := NewResolver(shelves)
	require.NoError(t, err)

	assert.Equal(t, "March", r.Resolve(datePtr(2026, 3, 15)).Name)
	assert.Equal(t, "April", r.Resolve(datePtr(2026, 4, 1)).Name)

	// Boundaries are inclusive
	assert.Equal(t, "March", r.Resolve(datePtr(2026, 3, 1)).Name)
	assert.Equal(t, "March", r.Resolve(datePtr(2026, 3, 31)).Name)
}

func TestResolveOverlapLowestWeightWins(t *testing.T) {
	shelves := append(defaultShelves(),
		&models.Shelf{ID: 10, Name: "Spring", Weight: 20,
			StartDate: datePtr(2026, 3, 1), EndDate: datePtr(2026, 5, 31)},
		&models.Shelf{ID: 11, Name: "April", Weight: 10,
			StartDate: datePtr(2026, 4, 1), EndDate: datePtr(2026, 4, 30)},
	)
	r, err := NewResolver(shelves)
	require.NoError(t, err)

	assert.Equal(t, "April", r.Resolve(datePtr(2026, 4, 15)).Name)
	assert.Equal(t, "Spring", r.Resolve(datePtr(2026, 3, 15)).Name)
}

func TestResolveFinishedShelvesSkipped(t *testing.T) {
	shelves := append(defaultShelves(),
		&models.Shelf{ID: 10, Name: "Done", Weight: 10, Finished: true,
			StartDate: datePtr(2026, 3, 1), EndDate: datePtr(2026, 3, 31)},
	)
	r, err := NewResolver(shelves)
	require.NoError(t, err)

	assert.Equal(t, models.ShelfBacklog, r.Resolve(datePtr(2026, 3, 15)).Name)
}

func TestResolveFallbacks(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, -2, 0)
	future := now.AddDate(1, 0, 0)

	start := now.AddDate(0, 0, -7)
	end := now.AddDate(0, 0, 7)
	shelves := append(defaultShelves(),
		&models.Shelf{ID: 10, Name: "Current", Weight: 10, StartDate: &start, EndDate: &end},
	)
	r, err := NewResolver(shelves)
	require.NoError(t, err)

	// Past date with no matching interval falls back to Backlog
	assert.Equal(t, models.ShelfBacklog, r.Resolve(&past).Name)
	// Future beyond all known shelves goes to the Icebox
	assert.Equal(t, models.ShelfIcebox, r.Resolve(&future).Name)
	// Inside the only interval
	assert.Equal(t, "Current", r.Resolve(&now).Name)
}

func TestResolveGapBetweenIntervals(t *testing.T) {
	now := time.Now()

	nearStart := now.AddDate(0, 0, 1)
	nearEnd := now.AddDate(0, 0, 14)
	farStart := now.AddDate(0, 2, 0)
	farEnd := now.AddDate(0, 3, 0)
	shelves := append(defaultShelves(),
		&models.Shelf{ID: 10, Name: "Near", Weight: 10, StartDate: &nearStart, EndDate: &nearEnd},
		&models.Shelf{ID: 11, Name: "Far", Weight: 20, StartDate: &farStart, EndDate: &farEnd},
	)
	r, err := NewResolver(shelves)
	require.NoError(t, err)

	// Only dates past the last known end date count as "beyond all known
	// shelves"; a gap between intervals is still planned territory.
	gap := now.AddDate(0, 1, 0)
	assert.Equal(t, models.ShelfBacklog, r.Resolve(&gap).Name)

	beyond := farEnd.AddDate(0, 0, 1)
	assert.Equal(t, models.ShelfIcebox, r.Resolve(&beyond).Name)
}
