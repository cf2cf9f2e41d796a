package requests

import (
	"context"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// Repository defines the storage contract for the approval workflow.
type Repository interface {
	Get(ctx context.Context, kind entity.Kind, id string) (store.Document, error)
	Update(ctx context.Context, kind entity.Kind, id string, fields map[string]any, actor string) error
	Create(ctx context.Context, kind entity.Kind, fields map[string]any, actor string) (string, error)
}
