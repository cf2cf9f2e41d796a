package search

import (
	"context"

	"github.com/fuelgrid-cloud/pumproom/internal/domain/entity"
	"github.com/fuelgrid-cloud/pumproom/internal/store"
)

// Repository defines the storage contract for cross-collection search.
type Repository interface {
	List(ctx context.Context, kind entity.Kind, limit int) ([]store.Document, error)
}
