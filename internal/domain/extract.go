package domain

import (
	"errors"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
)

const (
	// dataTableSelector matches Wikipedia's structured data tables.
	dataTableSelector = "table.wikitable"
	// dataTableIndex picks the stadium table among the wikitables on the page;
	// the first one is a summary.
	dataTableIndex = 1
	// columnCount is the number of positional cells a data row must carry.
	columnCount = 7
)

var (
	// ErrTableNotFound is returned when the page has fewer wikitables than expected.
	ErrTableNotFound = errors.New("stadium table not found")
	// ErrMalformedRow is returned for a data row with too few cells.
	ErrMalformedRow = errors.New("malformed stadium row")
)

// ExtractStadiums parses page HTML into raw stadium rows in source order.
// Ranks are assigned 1..N from the row position below the header.
func ExtractStadiums(r io.Reader) ([]RawStadium, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tables := doc.Find(dataTableSelector)
	if tables.Length() <= dataTableIndex {
		return nil, fmt.Errorf("%w: found %d %q tables", ErrTableNotFound, tables.Length(), dataTableSelector)
	}

	rows := tables.Eq(dataTableIndex).Find("tr")
	stadiums := make([]RawStadium, 0, rows.Length())

	for i := 1; i < rows.Length(); i++ {
		cells := rows.Eq(i).Find("td")
		if cells.Length() < columnCount {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedRow, i, cells.Length(), columnCount)
		}
		stadiums = append(stadiums, parseRow(i, cells))
	}

	return stadiums, nil
}

func parseRow(rank int, cells *goquery.Selection) RawStadium {
	text := func(col int) string { return cells.Eq(col).Text() }

	return RawStadium{
		Rank:     rank,
		Stadium:  CleanText(text(0)),
		Capacity: CleanCapacity(text(1)),
		Region:   CleanText(text(2)),
		Country:  CleanText(text(3)),
		City:     CleanText(text(4)),
		Images:   extractImage(cells.Eq(5)),
		HomeTeam: CleanText(text(6)),
	}
}

func extractImage(cell *goquery.Selection) string {
	img := cell.Find("img").First()
	if img.Length() == 0 {
		return NoImageURL
	}
	return normalizeImageSrc(img.AttrOr("src", ""))
}
