package filesink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/jonboulle/clockwork"
)

const filePrefix = "stadium_cleaned_"

// Header lists output columns in record field order.
var Header = []string{"rank", "stadium", "capacity", "region", "country", "city", "images", "home_team", "location"}

type encoder interface {
	ext() string
	encode(w io.Writer, records []domain.StadiumRecord) error
}

// Writer persists each batch of records as one new timestamped file.
// It implements pipeline.Loader.
type Writer struct {
	dir    string
	enc    encoder
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewWriter creates a Writer for format ("csv" or "parquet") under dir.
// A nil clock uses real time.
func NewWriter(dir, format string, clock clockwork.Clock, logger *slog.Logger) (*Writer, error) {
	var enc encoder
	switch format {
	case "csv", "":
		enc = csvEncoder{}
	case "parquet":
		enc = parquetEncoder{}
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Writer{dir: dir, enc: enc, clock: clock, logger: logger}, nil
}

// FileName builds the artifact name for t, e.g.
// "stadium_cleaned_2024-05-01_14_03_05.123456.csv". Colons are replaced so the
// name is valid on every filesystem.
func FileName(t time.Time, ext string) string {
	return filePrefix + t.Format("2006-01-02") + "_" + t.Format("15_04_05.000000") + "." + ext
}

// Load writes records to a new file.
func (w *Writer) Load(_ context.Context, records []domain.StadiumRecord) error {
	_, err := w.Write(records)
	return err
}

// Write creates the output directory if needed, writes records to a new file
// and returns its path. An existing file is never overwritten.
func (w *Writer) Write(records []domain.StadiumRecord) (path string, err error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path = filepath.Join(w.dir, FileName(w.clock.Now(), w.enc.ext()))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
			path = ""
		}
	}()

	if err := w.enc.encode(f, records); err != nil {
		return path, fmt.Errorf("encode %s: %w", w.enc.ext(), err)
	}

	w.logger.Info("data written", "path", path, "records", len(records))
	return path, nil
}
