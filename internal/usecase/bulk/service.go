// Package bulk applies batches of writes with all-settle semantics: one
// item's failure never prevents the rest from completing, and the caller gets
// per-item outcomes plus an aggregate success/failure count.
package bulk

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fuelgrid-cloud/pumproom/internal/domain"
	dombatch "github.com/fuelgrid-cloud/pumproom/internal/domain/batch"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/domain/normalize"
	"github.com/fuelgrid-cloud/pumproom/internal/metrics"
)

// MaxBatchSize is the default cap on items per bulk operation.
const MaxBatchSize = 500

// Service handles bulk document writes.
type Service struct {
	records      Writer
	logger       *zap.Logger
	maxBatchSize int
}

// New creates a bulk service.
func New(records Writer, logger *zap.Logger) *Service {
	return &Service{records: records, logger: logger, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the batch cap.
func (s *Service) WithMaxBatchSize(n int) *Service {
	if n > 0 {
		s.maxBatchSize = n
	}
	return s
}

// ImportPumps writes already-parsed spreadsheet rows as pump documents. Rows
// with no resolvable pump name are rejected individually; every other row is
// attempted regardless of earlier failures.
func (s *Service) ImportPumps(ctx context.Context, rows []map[string]any, actor string) ([]dombatch.Result, dombatch.Summary) {
	results := make([]dombatch.Result, len(rows))

	if len(rows) > s.maxBatchSize {
		for i := range rows {
			results[i] = dombatch.NewError(rowLabel(i), fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrBatchTooLarge))
		}
		return results, s.settle("import", results)
	}

	for i, row := range rows {
		fields := normalize.Entity(entity.Pump, row)
		if fields.Str("name") == "" {
			results[i] = dombatch.NewError(rowLabel(i), fmt.Errorf("row has no pump name: %w", domain.ErrValidation))
			continue
		}

		id, err := s.records.Create(ctx, entity.Pump, row, actor)
		if err != nil {
			results[i] = dombatch.NewError(rowLabel(i), fmt.Errorf("create pump: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(id)
	}

	return results, s.settle("import", results)
}

// Reorder persists a new display order: one write per record, all-settle.
func (s *Service) Reorder(ctx context.Context, kind entity.Kind, ids []string, actor string) ([]dombatch.Result, dombatch.Summary) {
	results := make([]dombatch.Result, len(ids))

	if len(ids) > s.maxBatchSize {
		for i, id := range ids {
			results[i] = dombatch.NewError(id, fmt.Errorf("batch size exceeds %d: %w", s.maxBatchSize, domain.ErrBatchTooLarge))
		}
		return results, s.settle("reorder", results)
	}

	for i, id := range ids {
		err := s.records.Update(ctx, kind, id, map[string]any{"order": i}, actor)
		if err != nil {
			results[i] = dombatch.NewError(id, fmt.Errorf("reorder: %w", err))
			continue
		}
		results[i] = dombatch.NewOK(id)
	}

	return results, s.settle("reorder", results)
}

// settle summarizes outcomes, records metrics, and logs failures.
func (s *Service) settle(operation string, results []dombatch.Result) dombatch.Summary {
	summary := dombatch.Summarize(results)
	metrics.BulkItemOutcomes.WithLabelValues(operation, string(dombatch.StatusOK)).Add(float64(summary.Succeeded))
	metrics.BulkItemOutcomes.WithLabelValues(operation, string(dombatch.StatusError)).Add(float64(summary.Failed))

	if summary.Failed > 0 {
		s.logger.Warn("bulk operation partially failed",
			zap.String("operation", operation),
			zap.Int("succeeded", summary.Succeeded),
			zap.Int("failed", summary.Failed),
		)
	}
	return summary
}

func rowLabel(i int) string { return fmt.Sprintf("row-%d", i+1) }
