// Package domain models the stadium table published on Wikipedia's
// "List of association football stadiums by capacity" page.
//
// # Data Source
//
// The page carries several tables with the "wikitable" class. The first is a
// summary; the second (index 1) lists every stadium, one row per venue, with
// a header row followed by data rows. Cells are positional:
//
//	0 Stadium | 1 Capacity | 2 Region | 3 Country | 4 City | 5 Image | 6 Home team
//
// # Cell Conventions
//
// Editors decorate cell text in a few recurring ways, all removed by [CleanText]:
//
//	"Old Trafford[1]"            citation marker, cut at "["
//	"Manchester United ♦"        diamond marking a shared ground, cut at " ♦"
//	"Estadio Azteca (formerly)"  historical name suffix, cut at " (formerly)"
//	"&nbsp"                      unescaped non-breaking space literal, removed
//
// Capacities use thousands separators and sometimes a trailing period
// ("74,879."); [CleanCapacity] strips both and [ParseCapacity] coerces the
// remainder, mapping anything unparseable ("N/A", "") to 0.
//
// Image cells hold a thumbnail with a protocol-relative src
// ("//upload.wikimedia.org/..."), normalized to https. Rows without an image get
// [NoImageURL].
//
// # Geocoding
//
// Each stadium is geocoded as "<stadium>, <country>". Providers often fall back
// to the city centre when they do not know a stadium, which gives unrelated
// venues identical coordinates. The reconciliation pass re-queries every record
// whose location repeats an earlier one, using "<city>, <country>". This is a
// heuristic: the first record of a group keeps its stadium-based coordinates and
// later ones may still collide after the city lookup.
package domain
