package fulfillment

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/fulfillment/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type UseCase interface {
	// DeductOrder removes the stock for every line of an order in one
	// transaction. Bundle lines are expanded into their components.
	DeductOrder(ctx context.Context, input *dto.DeductOrderInput) ([]model.InventoryAdjustment, error)
}
