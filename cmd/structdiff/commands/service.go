package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/randlee/structdiff/internal/cache"
	"github.com/randlee/structdiff/internal/render"
	"github.com/randlee/structdiff/pkg/diff"
	"github.com/randlee/structdiff/pkg/observability"
	"github.com/randlee/structdiff/pkg/syntax/parser"
	"github.com/randlee/structdiff/pkg/textdiff"
)

// Service runs the parse-compare-render pipeline shared by the compare and
// history commands.
type Service struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *observability.CompareMetrics
	parser  *parser.Parser
	store   *cache.Store
	opts    diff.Options
}

// NewService assembles a Service. The cache store may be nil to disable
// result caching.
func NewService(providers observability.Providers, opts diff.Options, store *cache.Store) (*Service, error) {
	metrics, err := observability.NewCompareMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("create metrics: %w", err)
	}

	return &Service{
		logger:  providers.Logger,
		tracer:  providers.Tracer,
		metrics: metrics,
		parser:  parser.New(),
		store:   store,
		opts:    opts,
	}, nil
}

// CompareBytes diffs two source versions. When semantic parsing fails on
// either side, the report falls back to a line-based textual diff.
func (s *Service) CompareBytes(ctx context.Context, oldSrc, newSrc []byte, oldPath, newPath string) (*render.Report, error) {
	ctx, span := s.tracer.Start(ctx, "compare",
		trace.WithAttributes(
			attribute.String("old.path", oldPath),
			attribute.String("new.path", newPath),
		),
	)
	defer span.End()

	start := time.Now()

	report, err := s.compare(ctx, oldSrc, newSrc, oldPath, newPath)

	status := "ok"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordCompare(ctx, "compare", status, time.Since(start))

	if err != nil {
		return nil, err
	}

	s.recordChangeMetrics(ctx, report)

	return report, nil
}

func (s *Service) compare(ctx context.Context, oldSrc, newSrc []byte, oldPath, newPath string) (*render.Report, error) {
	report := &render.Report{OldPath: oldPath, NewPath: newPath}

	opts := s.opts
	opts.OldPath = oldPath
	opts.NewPath = newPath

	oldRoot, oldErr := s.parser.Parse(ctx, oldSrc)
	newRoot, newErr := s.parser.Parse(ctx, newSrc)

	if oldErr != nil || newErr != nil {
		s.logger.WarnContext(ctx, "semantic parse failed, using line diff",
			"old_error", oldErr, "new_error", newErr)

		report.Fallback = textdiff.Compare(string(oldSrc), string(newSrc))

		return report, nil
	}

	if s.store != nil {
		key := cache.Key(oldRoot.Fingerprint(), newRoot.Fingerprint(), opts)

		cached, cacheErr := s.store.Get(key)
		if cacheErr == nil {
			s.logger.DebugContext(ctx, "cache hit", "key", key)

			report.Changes = cached

			return report, nil
		}

		if !errors.Is(cacheErr, cache.ErrMiss) {
			s.logger.WarnContext(ctx, "cache read failed", "error", cacheErr)
		}

		changes, err := diff.Compare(ctx, oldRoot, newRoot, opts)
		if err != nil {
			return nil, fmt.Errorf("compare trees: %w", err)
		}

		putErr := s.store.Put(key, changes)
		if putErr != nil {
			s.logger.WarnContext(ctx, "cache write failed", "error", putErr)
		}

		report.Changes = changes

		return report, nil
	}

	changes, err := diff.Compare(ctx, oldRoot, newRoot, opts)
	if err != nil {
		return nil, fmt.Errorf("compare trees: %w", err)
	}

	report.Changes = changes

	return report, nil
}

func (s *Service) recordChangeMetrics(ctx context.Context, report *render.Report) {
	summary := render.Summarize(report.Changes)

	for impact, count := range summary.ByImpact {
		s.metrics.RecordChanges(ctx, impact.String(), int64(count))
	}
}
