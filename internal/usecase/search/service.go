// Package search answers free-text queries across every entity collection as
// one relevance-ranked list.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/search/record"
	"github.com/fuelgrid-cloud/pumproom/internal/metrics"
)

// DefaultMaxCandidatesPerSource caps how many documents each source
// contributes before client-side filtering. The store has no full-text
// query primitive, so matches beyond the cap are unreachable; this is a
// documented scalability ceiling, not a correctness bug.
const DefaultMaxCandidatesPerSource = 50

// Service fans a query out to every entity collection, filters and tags the
// hits, and ranks the merged list. Each call is independent and stateless.
type Service struct {
	repo         Repository
	logger       *zap.Logger
	maxPerSource int
	sources      []entity.Kind
}

// New creates a search service.
func New(repo Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		logger:       logger,
		maxPerSource: DefaultMaxCandidatesPerSource,
		sources:      entity.All(),
	}
}

// WithMaxCandidatesPerSource configures the per-source fetch cap.
func (s *Service) WithMaxCandidatesPerSource(n int) *Service {
	if n > 0 {
		s.maxPerSource = n
	}
	return s
}

// Search returns the ranked cross-collection hits for a free-text query.
// An empty or whitespace query yields no results. Search never fails:
// a source that cannot be read contributes zero hits and a logged
// diagnostic, and a total outage degrades to an empty list.
func (s *Service) Search(ctx context.Context, query string) []record.Record {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	// Fire every source concurrently; a slow or broken source must not
	// block the others. Slots keep the merge order deterministic.
	slots := make([][]record.Record, len(s.sources))
	var g errgroup.Group
	for i, kind := range s.sources {
		i, kind := i, kind
		g.Go(func() error {
			slots[i] = s.searchSource(ctx, kind, query)
			return nil
		})
	}
	_ = g.Wait()

	var merged []record.Record
	for _, hits := range slots {
		merged = append(merged, hits...)
	}

	Rank(merged, query)

	s.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(merged)),
	)
	return merged
}

// searchSource fetches, normalizes, and filters one collection. Failures are
// logged and reported as zero results so the remaining sources stay usable.
func (s *Service) searchSource(ctx context.Context, kind entity.Kind, query string) []record.Record {
	docs, err := s.repo.List(ctx, kind, s.maxPerSource)
	if err != nil {
		metrics.SearchSourceFailures.WithLabelValues(kind.String()).Inc()
		s.logger.Warn("search source unavailable",
			zap.String("source", kind.String()),
			zap.Error(err),
		)
		return nil
	}

	var hits []record.Record
	for _, doc := range docs {
		rec := record.New(kind, doc.ID, doc.Fields)
		if rec.Matches(query) {
			hits = append(hits, rec)
		}
	}
	metrics.SearchSourceHits.WithLabelValues(kind.String()).Add(float64(len(hits)))
	return hits
}
