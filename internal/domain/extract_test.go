package domain

import (
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExtractStadiums_Fixture(t *testing.T) {
	stadiums, err := ExtractStadiums(loadFixture(t, "stadiums.html"))
	require.NoError(t, err)

	want := []RawStadium{
		{
			Rank:     1,
			Stadium:  "Old Trafford",
			Capacity: "74879",
			Region:   "North West",
			Country:  "England",
			City:     "Manchester",
			Images:   "https://img.url/x.png",
			HomeTeam: "Manchester United",
		},
		{
			Rank:     2,
			Stadium:  "Camp Nou",
			Capacity: "99354",
			Region:   "Catalonia",
			Country:  "Spain",
			City:     "Barcelona",
			Images:   "https://upload.wikimedia.org/thumb/camp_nou.jpg",
			HomeTeam: "FC Barcelona",
		},
		{
			Rank:     3,
			Stadium:  "Estadio Azteca",
			Capacity: "N/A",
			Region:   "Mexico City",
			Country:  "Mexico",
			City:     "MexicoCity",
			Images:   NoImageURL,
			HomeTeam: "Club América",
		},
		{
			Rank:     4,
			Stadium:  "Wembley Stadium",
			Capacity: "90000",
			Region:   "London",
			Country:  "England",
			City:     "London",
			Images:   NoImageURL,
			HomeTeam: "England national football team",
		},
	}
	if diff := cmp.Diff(want, stadiums); diff != "" {
		t.Fatalf("extracted rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractStadiums_RanksFollowRowOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<table class="wikitable"></table><table class="wikitable"><tr><th>h</th></tr>`)
	const n = 25
	for i := 0; i < n; i++ {
		b.WriteString(`<tr><td>S</td><td>1,000</td><td>R</td><td>C</td><td>T</td><td></td><td>H</td></tr>`)
	}
	b.WriteString(`</table>`)

	stadiums, err := ExtractStadiums(strings.NewReader(b.String()))
	require.NoError(t, err)
	require.Len(t, stadiums, n)
	for i, s := range stadiums {
		assert.Equal(t, i+1, s.Rank)
	}
}

func TestExtractStadiums_HeaderOnly(t *testing.T) {
	html := `<table class="wikitable"></table><table class="wikitable"><tr><th>Stadium</th></tr></table>`
	stadiums, err := ExtractStadiums(strings.NewReader(html))
	require.NoError(t, err)
	assert.Empty(t, stadiums)
}

func TestExtractStadiums_MissingTable(t *testing.T) {
	html := `<table class="wikitable"><tr><th>only one</th></tr></table><table class="other"></table>`
	_, err := ExtractStadiums(strings.NewReader(html))
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestExtractStadiums_ShortRowFails(t *testing.T) {
	_, err := ExtractStadiums(loadFixture(t, "short_row.html"))
	require.ErrorIs(t, err, ErrMalformedRow)
	assert.Contains(t, err.Error(), "row 1")
}
