package controllers

import (
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/utils"
)

// ListController renders the shelf-grouped entry listing
type ListController struct {
	db     *models.Database
	logger *logrus.Logger
}

// NewListController creates a new list controller
func NewListController(db *models.Database, logger *logrus.Logger) *ListController {
	return &ListController{db: db, logger: logger}
}

type listRow struct {
	entry *models.Entry
	sub   *models.SubEntry
}

// ListEntries writes all sub-entries grouped by shelf, shelves in weight
// order, rows sorted by entry name
func (c *ListController) ListEntries(w io.Writer) error {
	shelvesList, err := c.db.ListShelves()
	if err != nil {
		return fmt.Errorf("failed to list shelves: %w", err)
	}

	entries, err := c.db.GetAllEntries()
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	entryByID := make(map[uint64]*models.Entry, len(entries))
	for _, entry := range entries {
		entryByID[entry.ID] = entry
	}

	for _, shelf := range shelvesList {
		subs, err := c.db.GetSubEntriesByShelf(shelf.ID)
		if err != nil {
			return fmt.Errorf("failed to list shelf %q: %w", shelf.Name, err)
		}
		if len(subs) == 0 {
			continue
		}

		rows := make([]listRow, 0, len(subs))
		for _, sub := range subs {
			entry, ok := entryByID[sub.EntryID]
			if !ok {
				c.logger.WithField("sub_entry", sub.ID).Warn("Orphaned sub-entry, skipping")
				continue
			}
			rows = append(rows, listRow{entry: entry, sub: sub})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].entry.Name != rows[j].entry.Name {
				return rows[i].entry.Name < rows[j].entry.Name
			}
			return rows[i].sub.Position < rows[j].sub.Position
		})

		fmt.Fprintf(w, "\n📚 %s\n", shelf.Name)
		for _, row := range rows {
			name := row.entry.Name
			if row.sub.Name != "" {
				name = fmt.Sprintf("%s %s", name, row.sub.Name)
			}

			year := "N/A"
			if row.entry.ReleaseDate != nil {
				year = fmt.Sprintf("%d", row.entry.ReleaseDate.Year())
			}

			fmt.Fprintf(w, "  %s %s (%s) - %s\n",
				utils.EmojiForType(row.entry.MediaType), name, year,
				utils.FormatMinutes(row.sub.EstimatedMinutes))
		}
	}

	return nil
}
