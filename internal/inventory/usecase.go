package inventory

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

// StockMap is variation id -> location id -> stock.
type StockMap map[string]map[string]int

func (m StockMap) Get(variationID, locationID string) int {
	return m[variationID][locationID]
}

type UseCase interface {
	ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.InventoryAdjustment, error)
	DeductAcrossLocations(ctx context.Context, input *dto.DeductAcrossLocationsInput) ([]model.InventoryAdjustment, error)

	GetStockLevel(ctx context.Context, variationID, locationID string) (*model.StockLevel, error)
	StockByLocation(ctx context.Context, variationIDs []string) (StockMap, error)
	// LockStockByLocation is StockByLocation holding row locks until the
	// surrounding transaction ends.
	LockStockByLocation(ctx context.Context, variationIDs []string) (StockMap, error)

	ListStockLevels(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error)
	ListLowStock(ctx context.Context, threshold int, locationID string, page, pageSize int) ([]model.StockLevel, int, error)
	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.InventoryAdjustment, int, error)
	VerifyLedger(ctx context.Context, variationID, locationID string) (*model.LedgerReport, error)
}
