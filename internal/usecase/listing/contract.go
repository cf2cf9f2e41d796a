package listing

import (
	"context"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// Repository defines the storage contract for list screens.
type Repository interface {
	List(ctx context.Context, kind entity.Kind, limit int) ([]store.Document, error)
}
