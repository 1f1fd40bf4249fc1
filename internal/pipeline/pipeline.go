package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/nwss-report/internal/domain"
	"github.com/couchcryptid/nwss-report/internal/observability"
)

// RowReader yields raw rows in input order. Read returns io.EOF after the last row.
type RowReader interface {
	Read() (domain.RawRecord, error)
}

// Params selects the rows of a run.
type Params struct {
	Window  domain.DateWindow
	Filters domain.Filters
}

// Result is the outcome of a run with at least one matched row.
type Result struct {
	Window      domain.DateWindow
	Grouping    *domain.Grouping
	Sites       domain.AggregationResult
	RowsRead    int
	GeneratedAt time.Time
}

// Pipeline reads every row once, groups the matches by site, and aggregates
// the sites into updated and not updated.
type Pipeline struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Pipeline with the given observability.
func New(logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{logger: logger, metrics: metrics}
}

// Run consumes r until io.EOF. The first read or row error aborts the run.
// When no row matches it returns domain.ErrNoMatchedRows.
func (p *Pipeline) Run(ctx context.Context, r RowReader, params Params) (*Result, error) {
	start := time.Now()
	defer func() {
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	}()

	p.logger.Info("pipeline started",
		"window", params.Window.String(),
		"jurisdiction", optional(params.Filters.Jurisdiction),
		"wwtp_id", optional(params.Filters.FacilityID),
	)

	grouper := domain.NewGrouper(params.Window, params.Filters)
	rowsRead := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rowsRead++
		p.metrics.RowsRead.Inc()

		outcome, err := grouper.Add(raw)
		if err != nil {
			return nil, fmt.Errorf("group rows: %w", err)
		}
		if outcome != domain.OutcomeMatched {
			p.metrics.RowsSkipped.WithLabelValues(string(outcome)).Inc()
			p.logger.Debug("row skipped", "line", raw.Line, "reason", outcome)
		}
	}

	grouping := grouper.Result()
	p.recordMatches(grouping)

	if grouping.Len() == 0 {
		p.logger.Warn("no rows matched", "rows_read", rowsRead, "window", params.Window.String())
		return nil, domain.ErrNoMatchedRows
	}

	sites := domain.Aggregate(grouping)
	p.metrics.Sites.WithLabelValues("updated").Set(float64(len(sites.Updated)))
	p.metrics.Sites.WithLabelValues("not_updated").Set(float64(len(sites.NotUpdated)))

	p.logger.Info("pipeline finished",
		"rows_read", rowsRead,
		"rows_matched", grouping.Matched(),
		"sites", grouping.Len(),
		"updated", len(sites.Updated),
		"not_updated", len(sites.NotUpdated),
		"duration", time.Since(start),
	)

	return &Result{
		Window:      params.Window,
		Grouping:    grouping,
		Sites:       sites,
		RowsRead:    rowsRead,
		GeneratedAt: domain.Now(),
	}, nil
}

func (p *Pipeline) recordMatches(g *domain.Grouping) {
	for _, key := range g.Keys() {
		grp, _ := g.Group(key)
		p.metrics.RowsMatched.WithLabelValues("valid").Add(float64(grp.ValidCount()))
		p.metrics.RowsMatched.WithLabelValues("invalid").Add(float64(grp.InvalidCount()))
	}
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
