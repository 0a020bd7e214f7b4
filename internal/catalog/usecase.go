package catalog

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// UseCase is the read-only catalog lookup the stock engine validates against.
// Every getter fails with NotFound instead of returning nil.
type UseCase interface {
	GetItem(ctx context.Context, id string) (*model.Item, error)
	GetVariation(ctx context.Context, id string) (*model.Variation, error)
	GetLocation(ctx context.Context, id string) (*model.Location, error)
	ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error)

	// ResolveVariation returns a variation together with its owning item.
	ResolveVariation(ctx context.Context, variationID string) (*model.Variation, *model.Item, error)
}
