package filesink

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
)

type csvEncoder struct{}

func (csvEncoder) ext() string { return "csv" }

func (csvEncoder) encode(w io.Writer, records []domain.StadiumRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for i := range records {
		if err := cw.Write(csvRow(&records[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(r *domain.StadiumRecord) []string {
	location := ""
	if r.Location != nil {
		location = r.Location.String()
	}
	return []string{
		strconv.Itoa(r.Rank),
		r.Stadium,
		strconv.Itoa(r.Capacity),
		r.Region,
		r.Country,
		r.City,
		r.Images,
		r.HomeTeam,
		location,
	}
}
