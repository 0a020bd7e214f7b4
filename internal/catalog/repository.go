package catalog

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// Repository returns nil, nil for unknown ids.
type Repository interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetVariation(ctx context.Context, id string) (*model.Variation, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error)
}
