package pipeline

import (
	"context"
	"strings"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
)

// HTMLExtractor implements Extractor over the stadium table of a
// Wikipedia article.
type HTMLExtractor struct{}

// Extract parses content with domain.ExtractStadiums.
func (HTMLExtractor) Extract(_ context.Context, content string) ([]domain.RawStadium, error) {
	return domain.ExtractStadiums(strings.NewReader(content))
}

// Loaders runs each loader in order and stops at the first failure.
type Loaders []Loader

// Load hands records to each loader in turn.
func (ls Loaders) Load(ctx context.Context, records []domain.StadiumRecord) error {
	for _, l := range ls {
		if err := l.Load(ctx, records); err != nil {
			return err
		}
	}
	return nil
}
