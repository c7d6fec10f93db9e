package goodreads

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/shelfspace/internal/models"
)

const sampleExport = `Book Id,Title,Author,Number of Pages,Bookshelves,Bookshelves with positions,Exclusive Shelf,Binding,Publisher,Average Rating
1001,Blindsight,Peter Watts,384,to-read,"to-read (#2)",to-read,Paperback,Tor Books,4.01
1002,The Phoenix Project,Gene Kim,345,"to-read, want-to-read-tech","to-read (#1)",to-read,Hardcover,IT Revolution Press,4.26
1003,Saga Vol. 1,Brian K. Vaughan,160,to-read,"to-read (#3)",to-read,Paperback,Image Comics,4.16
1004,Project Hail Mary,Andy Weir,476,read,"read (#1)",read,Hardcover,Ballantine Books,4.50
1005,Some Audiobook,Jane Doe,0,to-read,"to-read (#4)",to-read,Audible Audio,Audible,4.00
1006,Piranesi,Susanna Clarke,245,currently-reading,"currently-reading (#1)",currently-reading,Hardcover,Bloomsbury,4.23
`

func testParser() *Parser {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewParser(logger)
}

func TestParseOrdering(t *testing.T) {
	records, err := testParser().Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	// Audiobook dropped, five books left: reading, then to-read by
	// position, then read
	require.Len(t, records, 5)
	assert.Equal(t, "Susanna Clarke - Piranesi", records[0].Title)
	assert.Equal(t, "Gene Kim - The Phoenix Project", records[1].Title)
	assert.Equal(t, "Peter Watts - Blindsight", records[2].Title)
	assert.Equal(t, "Brian K. Vaughan - Saga Vol. 1", records[3].Title)
	assert.Equal(t, "Andy Weir - Project Hail Mary", records[4].Title)
}

func TestParseMediaTypesAndEstimates(t *testing.T) {
	records, err := testParser().Parse(strings.NewReader(sampleExport))
	require.NoError(t, err)

	byID := map[string]int{}
	for i, rec := range records {
		byID[rec.ExternalID] = i
	}

	regular := records[byID["1001"]]
	assert.Equal(t, models.MediaTypeBook, regular.MediaType)
	assert.Equal(t, 960, regular.EstimatedMinutes) // 384 * 2.5
	assert.Equal(t, "GR: 4.01 / 5", regular.Notes)

	tech := records[byID["1002"]]
	assert.Equal(t, models.MediaTypeBookEd, tech.MediaType)
	assert.Equal(t, 1725, tech.EstimatedMinutes) // 345 * 5

	comic := records[byID["1003"]]
	assert.Equal(t, models.MediaTypeComic, comic.MediaType)
	assert.Equal(t, 160, comic.EstimatedMinutes)

	read := records[byID["1004"]]
	assert.Equal(t, read.EstimatedMinutes, read.SpentMinutes,
		"already-read books carry their estimate as spent time")

	unread := records[byID["1001"]]
	assert.Zero(t, unread.SpentMinutes)
}

func TestParseMissingColumns(t *testing.T) {
	_, err := testParser().Parse(strings.NewReader("Title,Author\nfoo,bar\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Book Id")
}
