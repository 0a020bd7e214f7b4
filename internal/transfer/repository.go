package transfer

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

type Repository interface {
	CreateTransfer(ctx context.Context, transfer *model.InventoryTransfer) error
	// GetTransfer and LockTransfer return nil, nil when the transfer does not exist.
	GetTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error)
	LockTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error)
	UpdateTransfer(ctx context.Context, transfer *model.InventoryTransfer) error
	ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.InventoryTransfer, int, error)
}
