package domain

import (
	"strconv"
	"strings"
)

// Markers Wikipedia editors append to cell text. Everything from the first
// occurrence onward is dropped.
const (
	nbspLiteral    = "&nbsp"
	diamondMarker  = " ♦"
	citationMarker = "["
	formerlyMarker = " (formerly)"
)

// CleanText normalizes a table cell: trims whitespace, removes literal "&nbsp",
// cuts the text at the first " ♦", "[" or " (formerly)" marker (in that order),
// and removes newlines.
//
// Newline removal can join a marker back together (" \n♦" becomes " ♦"), so the
// rules are applied until the text stops changing. Each productive pass
// shortens the string, which bounds the loop.
func CleanText(s string) string {
	for {
		next := cleanOnce(s)
		if next == s {
			return next
		}
		s = next
	}
}

func cleanOnce(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, nbspLiteral, "")
	s, _, _ = strings.Cut(s, diamondMarker)
	s, _, _ = strings.Cut(s, citationMarker)
	s, _, _ = strings.Cut(s, formerlyMarker)
	s = strings.ReplaceAll(s, "\n", "")
	return strings.TrimSpace(s)
}

// CleanCapacity cleans a capacity cell and strips thousands separators and
// stray periods: "74,879." -> "74879".
func CleanCapacity(s string) string {
	s = CleanText(s)
	s = strings.ReplaceAll(s, ",", "")
	return strings.ReplaceAll(s, ".", "")
}

// ParseCapacity coerces a cleaned capacity string to a non-negative integer.
// Anything unparseable, including "N/A" and "", becomes 0.
func ParseCapacity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// normalizeImageSrc turns a protocol-relative or absolute src into an https
// URL by keeping everything after the first "//". A src with no "//" cannot be
// normalized and yields the placeholder.
func normalizeImageSrc(src string) string {
	_, rest, ok := strings.Cut(strings.TrimSpace(src), "//")
	if !ok || rest == "" {
		return NoImageURL
	}
	return "https://" + rest
}
