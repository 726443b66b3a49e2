// Package validate checks a written stadium CSV against the invariants every
// pipeline run must uphold: the expected header, ranks 1..N in order,
// non-negative integer capacities, non-empty images and parseable locations.
package validate

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/couchcryptid/stadium-data-etl/internal/adapter/filesink"
	"github.com/couchcryptid/stadium-data-etl/internal/domain"
)

// Phase collects the violations found by one group of checks.
type Phase struct {
	Name   string
	Errors []string
}

func (p *Phase) errorf(format string, args ...any) {
	p.Errors = append(p.Errors, fmt.Sprintf(format, args...))
}

// Passed reports whether the phase found no violations.
func (p *Phase) Passed() bool { return len(p.Errors) == 0 }

// Report is the result of validating one file.
type Report struct {
	Rows   int
	Phases []*Phase
}

// Passed reports whether every phase passed.
func (r *Report) Passed() bool {
	for _, p := range r.Phases {
		if !p.Passed() {
			return false
		}
	}
	return true
}

// Print writes a human-readable summary followed by every violation.
func (r *Report) Print(w io.Writer) {
	for _, p := range r.Phases {
		status := "PASS"
		if !p.Passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.Errors))
		}
		fmt.Fprintf(w, "  %-24s %s\n", p.Name, status)
	}
	fmt.Fprintf(w, "\nRecords: %d\n", r.Rows)

	for _, p := range r.Phases {
		if p.Passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.Name)
		for i, e := range p.Errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}
}

// column indexes into filesink.Header.
const (
	colRank = iota
	colStadium
	colCapacity
	colRegion
	colCountry
	colCity
	colImages
	colHomeTeam
	colLocation
)

// CSV validates a file produced by the CSV writer. The error is non-nil only
// when the input cannot be read as CSV at all.
func CSV(r io.Reader) (*Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	return &Report{
		Rows: len(rows),
		Phases: []*Phase{
			validateHeader(header),
			validateRanks(rows),
			validateFields(rows),
		},
	}, nil
}

func validateHeader(header []string) *Phase {
	p := &Phase{Name: "Header"}
	if !slices.Equal(header, filesink.Header) {
		p.errorf("header %q, want %q", header, filesink.Header)
	}
	return p
}

func validateRanks(rows [][]string) *Phase {
	p := &Phase{Name: "Rank ordering"}
	for i, row := range rows {
		line := i + 2
		if len(row) <= colRank {
			continue
		}
		rank, err := strconv.Atoi(row[colRank])
		if err != nil {
			p.errorf("line %d: rank %q is not an integer", line, row[colRank])
			continue
		}
		if rank != i+1 {
			p.errorf("line %d: rank %d, want %d", line, rank, i+1)
		}
	}
	return p
}

func validateFields(rows [][]string) *Phase {
	p := &Phase{Name: "Field values"}
	for i, row := range rows {
		line := i + 2
		if len(row) != len(filesink.Header) {
			p.errorf("line %d: %d columns, want %d", line, len(row), len(filesink.Header))
			continue
		}

		capacity, err := strconv.Atoi(row[colCapacity])
		switch {
		case err != nil:
			p.errorf("line %d: capacity %q is not an integer", line, row[colCapacity])
		case capacity < 0:
			p.errorf("line %d: negative capacity %d", line, capacity)
		}

		for _, col := range []int{colStadium, colCountry, colCity, colImages} {
			if row[col] == "" {
				p.errorf("line %d: empty %s", line, filesink.Header[col])
			}
		}

		if loc := row[colLocation]; loc != "" {
			if _, err := domain.ParseLocation(loc); err != nil {
				p.errorf("line %d: %v", line, err)
			}
		}
	}
	return p
}
