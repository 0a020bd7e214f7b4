package bundle

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	// ListComponents returns components in display order.
	ListComponents(ctx context.Context, bundleItemID string) ([]model.BundleComponent, error)
	InsertComponent(ctx context.Context, component *model.BundleComponent) error
	DeleteComponent(ctx context.Context, bundleItemID, componentVariationID string) (bool, error)
}
