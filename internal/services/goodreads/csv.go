// Package goodreads parses the Goodreads library export CSV.
package goodreads

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/estimate"
	"github.com/amaumene/shelfspace/internal/models"
	"github.com/amaumene/shelfspace/internal/reconcile"
)

// Publishers whose books are read as comics
var comicsPublishers = []string{"comix", "comic", "vovkulaka"}

const unshelved = 1 << 20

var shelfPositionRe = regexp.MustCompile(`\(#(\d+)\)`)

// Parser reads Goodreads export files
type Parser struct {
	logger *logrus.Logger
}

// NewParser creates a new export parser
func NewParser(logger *logrus.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads a Goodreads library export and returns normalized records
// ordered by their shelf positions (reading first, then to-read, then read).
func (p *Parser) ParseFile(filename string) ([]reconcile.Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	return p.Parse(f)
}

// Parse reads the export CSV from a reader
func (p *Parser) Parse(r io.Reader) ([]reconcile.Record, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"Book Id", "Title", "Author", "Exclusive Shelf"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("export is missing the %q column", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	type indexed struct {
		index  int
		record reconcile.Record
	}
	var books []indexed

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		// Audiobooks have no usable page count and are tracked elsewhere
		if strings.Contains(strings.ToLower(field(row, "Binding")), "audio") {
			continue
		}

		rec, index := p.bookRecord(row, field)
		books = append(books, indexed{index: index, record: rec})
	}

	sort.SliceStable(books, func(i, j int) bool { return books[i].index < books[j].index })

	records := make([]reconcile.Record, 0, len(books))
	for _, b := range books {
		records = append(records, b.record)
	}

	p.logger.WithField("count", len(records)).Debug("Parsed export records")
	return records, nil
}

func (p *Parser) bookRecord(row []string, field func([]string, string) string) (reconcile.Record, int) {
	shelfString := field(row, "Bookshelves with positions")

	var index int
	switch field(row, "Exclusive Shelf") {
	case "read":
		index = 2*unshelved + shelfPosition(shelfString, "read")
	case "to-read":
		index = unshelved + shelfPosition(shelfString, "to-read")
	default:
		index = shelfPosition(shelfString, "currently-reading")
	}

	mediaType := models.MediaTypeBook
	if strings.Contains(field(row, "Bookshelves"), "want-to-read-tech") {
		mediaType = models.MediaTypeBookEd
	}

	publisher := strings.ToLower(field(row, "Publisher"))
	for _, substring := range comicsPublishers {
		if strings.Contains(publisher, substring) {
			mediaType = models.MediaTypeComic
			break
		}
	}

	rec := reconcile.Record{
		Source:     models.SourceGoodreads,
		ExternalID: field(row, "Book Id"),
		Title:      fmt.Sprintf("%s - %s", field(row, "Author"), field(row, "Title")),
		MediaType:  mediaType,
	}

	if rating := field(row, "Average Rating"); rating != "" {
		rec.Notes = fmt.Sprintf("GR: %s / 5", rating)
	}

	if pages, err := strconv.Atoi(field(row, "Number of Pages")); err == nil && pages > 0 {
		switch mediaType {
		case models.MediaTypeComic:
			rec.EstimatedMinutes = estimate.ComicMinutes(pages)
		case models.MediaTypeBookEd:
			rec.EstimatedMinutes = estimate.EducationalBookMinutes(pages)
		default:
			rec.EstimatedMinutes = estimate.BookMinutes(pages)
		}
	}

	// Books already read carry their estimate as time spent
	if field(row, "Exclusive Shelf") == "read" {
		rec.SpentMinutes = rec.EstimatedMinutes
	}

	return rec, index
}

// shelfPosition extracts the "(#n)" position of a named shelf from the
// "Bookshelves with positions" column; unshelved books sort last
func shelfPosition(shelfString, shelf string) int {
	for _, part := range strings.Split(shelfString, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, shelf+" ") {
			continue
		}
		if m := shelfPositionRe.FindStringSubmatch(part); m != nil {
			pos, _ := strconv.Atoi(m[1])
			return pos
		}
	}
	return unshelved - 1
}
