package filesink

import (
	"io"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/parquet-go/parquet-go"
)

// parquetRow mirrors Header with the location split into nullable columns.
type parquetRow struct {
	Rank      int64    `parquet:"rank"`
	Stadium   string   `parquet:"stadium"`
	Capacity  int64    `parquet:"capacity"`
	Region    string   `parquet:"region"`
	Country   string   `parquet:"country"`
	City      string   `parquet:"city"`
	Images    string   `parquet:"images"`
	HomeTeam  string   `parquet:"home_team"`
	Latitude  *float64 `parquet:"latitude,optional"`
	Longitude *float64 `parquet:"longitude,optional"`
}

type parquetEncoder struct{}

func (parquetEncoder) ext() string { return "parquet" }

func (parquetEncoder) encode(w io.Writer, records []domain.StadiumRecord) error {
	rows := make([]parquetRow, len(records))
	for i, r := range records {
		rows[i] = parquetRow{
			Rank:     int64(r.Rank),
			Stadium:  r.Stadium,
			Capacity: int64(r.Capacity),
			Region:   r.Region,
			Country:  r.Country,
			City:     r.City,
			Images:   r.Images,
			HomeTeam: r.HomeTeam,
		}
		if r.Location != nil {
			lat, lon := r.Location.Lat, r.Location.Lon
			rows[i].Latitude = &lat
			rows[i].Longitude = &lon
		}
	}

	pw := parquet.NewGenericWriter[parquetRow](w)
	if _, err := pw.Write(rows); err != nil {
		return err
	}
	return pw.Close()
}
