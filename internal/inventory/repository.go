package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	// Stock levels. Lookups return nil, nil when the row does not exist.
	GetStockLevel(ctx context.Context, variationID, locationID string) (*model.StockLevel, error)
	ListStockLevels(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error)
	ListStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error)

	// Row-locking reads; only meaningful inside a transaction.
	LockStockLevel(ctx context.Context, variationID, locationID string, create bool) (*model.StockLevel, error)
	LockStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error)

	// UpdateStock writes newStock only if the row still holds expectedStock.
	UpdateStock(ctx context.Context, levelID string, expectedStock, newStock int) (bool, error)

	// Adjustments (append-only)
	InsertAdjustment(ctx context.Context, adjustment *model.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.InventoryAdjustment, int, error)
	ListAdjustmentsForKey(ctx context.Context, variationID, locationID string) ([]model.InventoryAdjustment, error)
}
