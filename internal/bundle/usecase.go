package bundle

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/bundle/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type UseCase interface {
	AddComponent(ctx context.Context, input *dto.AddComponentInput) (*model.BundleComponent, error)
	RemoveComponent(ctx context.Context, bundleItemID, componentVariationID string) error
	ListComponents(ctx context.Context, bundleItemID string) ([]model.BundleComponent, error)

	// AvailableStock is how many whole bundles the components at locationID
	// can build. It is always computed from live component stock.
	AvailableStock(ctx context.Context, bundleItemID, locationID string) (int, error)
	// AvailableStockByLocation covers every location where any component is stocked.
	AvailableStockByLocation(ctx context.Context, bundleItemID string) (map[string]int, error)

	DeductBundleStock(ctx context.Context, input *dto.DeductBundleInput) ([]model.InventoryAdjustment, error)
}
