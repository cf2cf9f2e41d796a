package bulk

import (
	"context"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
)

// Writer defines the per-record write contract for bulk operations.
type Writer interface {
	Create(ctx context.Context, kind entity.Kind, fields map[string]any, actor string) (string, error)
	Update(ctx context.Context, kind entity.Kind, id string, fields map[string]any, actor string) error
}
