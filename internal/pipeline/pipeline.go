package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/stadium-data-etl/internal/domain"
	"github.com/couchcryptid/stadium-data-etl/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Fetcher retrieves raw page content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor parses raw page content into ordered stadium rows.
type Extractor interface {
	Extract(ctx context.Context, content string) ([]domain.RawStadium, error)
}

// Enricher turns extracted rows into final records.
type Enricher interface {
	Enrich(ctx context.Context, raws []domain.RawStadium) ([]domain.StadiumRecord, error)
}

// Loader persists a complete batch of enriched records.
type Loader interface {
	Load(ctx context.Context, records []domain.StadiumRecord) error
}

// Run outcomes recorded on the runs_total metric.
const (
	outcomeSuccess      = "success"
	outcomeFetchError   = "fetch_error"
	outcomeExtractError = "extract_error"
	outcomeEnrichError  = "enrich_error"
	outcomeLoadError    = "load_error"
	outcomeCancelled    = "cancelled"
)

// Report summarizes one completed run.
type Report struct {
	Extracted int
	Loaded    int
	Duration  time.Duration
}

// Status is a snapshot of the most recent runs, served on /status.
type Status struct {
	Ready         bool      `json:"ready"`
	LastRunAt     time.Time `json:"last_run_at,omitzero"`
	LastSuccessAt time.Time `json:"last_success_at,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
	LastExtracted int       `json:"last_extracted"`
	LastLoaded    int       `json:"last_loaded"`
}

// Pipeline orchestrates fetch, extract, enrich and load for one source page.
type Pipeline struct {
	sourceURL string
	fetcher   Fetcher
	extractor Extractor
	enricher  Enricher
	loader    Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	ready     atomic.Bool

	mu     sync.Mutex
	status Status
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithClock sets the time source for run timing and the serve schedule.
func WithClock(c clockwork.Clock) Option {
	return func(p *Pipeline) { p.clock = c }
}

// New creates a Pipeline with the given stages and observability.
func New(sourceURL string, f Fetcher, x Extractor, e Enricher, l Loader, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		sourceURL: sourceURL,
		fetcher:   f,
		extractor: x,
		enricher:  e,
		loader:    l,
		logger:    logger,
		metrics:   metrics,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed a run yet")
	}
	return nil
}

// Status returns the outcome of the latest run.
func (p *Pipeline) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := p.status
	st.Ready = p.ready.Load()
	return st
}

// RunOnce executes a single fetch-extract-enrich-load pass. Any stage error
// aborts the run; nothing is loaded unless enrichment completed.
func (p *Pipeline) RunOnce(ctx context.Context) (Report, error) {
	start := p.clock.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.mu.Lock()
	p.status.LastRunAt = start
	p.mu.Unlock()

	p.logger.Info("run started", "source", p.sourceURL)

	content, err := p.fetcher.Fetch(ctx, p.sourceURL)
	if err != nil {
		return p.fail(ctx, outcomeFetchError, fmt.Errorf("fetch: %w", err))
	}

	raws, err := p.extractor.Extract(ctx, content)
	if err != nil {
		return p.fail(ctx, outcomeExtractError, fmt.Errorf("extract: %w", err))
	}
	p.metrics.RecordsExtracted.Add(float64(len(raws)))
	p.logger.Info("stadiums extracted", "records", len(raws))

	records, err := p.enricher.Enrich(ctx, raws)
	if err != nil {
		return p.fail(ctx, outcomeEnrichError, fmt.Errorf("enrich: %w", err))
	}

	if err := p.loader.Load(ctx, records); err != nil {
		return p.fail(ctx, outcomeLoadError, fmt.Errorf("load: %w", err))
	}
	p.metrics.RecordsLoaded.Add(float64(len(records)))

	end := p.clock.Now()
	report := Report{Extracted: len(raws), Loaded: len(records), Duration: end.Sub(start)}
	p.metrics.RunsTotal.WithLabelValues(outcomeSuccess).Inc()
	p.metrics.RunDuration.Observe(report.Duration.Seconds())
	p.metrics.LastSuccessSeconds.Set(float64(end.Unix()))
	p.ready.Store(true)

	p.mu.Lock()
	p.status.LastSuccessAt = end
	p.status.LastError = ""
	p.status.LastExtracted = report.Extracted
	p.status.LastLoaded = report.Loaded
	p.mu.Unlock()

	p.logger.Info("run completed", "records", report.Loaded, "duration", report.Duration)
	return report, nil
}

// fail records a failed run. A run stopped by context cancellation is counted
// as cancelled and does not replace the last error.
func (p *Pipeline) fail(ctx context.Context, outcome string, err error) (Report, error) {
	if ctx.Err() != nil {
		p.metrics.RunsTotal.WithLabelValues(outcomeCancelled).Inc()
		p.logger.Info("run cancelled", "stage", outcome, "reason", ctx.Err())
		return Report{}, err
	}
	p.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	p.mu.Lock()
	p.status.LastError = err.Error()
	p.mu.Unlock()
	p.logger.Error("run failed", "outcome", outcome, "error", err)
	return Report{}, err
}

// Run executes a pass immediately and then once per interval until the
// context is cancelled. Failed runs are logged and retried on the next tick.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("run interval must be positive, got %s", interval)
	}
	p.logger.Info("pipeline started", "interval", interval)

	ticker := p.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		// Errors are logged and counted by RunOnce.
		_, _ = p.RunOnce(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}
