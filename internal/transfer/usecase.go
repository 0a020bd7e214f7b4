package transfer

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

type UseCase interface {
	CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.InventoryTransfer, error)
	UpdateTransfer(ctx context.Context, input *dto.UpdateTransferInput) (*model.InventoryTransfer, error)
	// TransitionTransfer moves a transfer through its lifecycle. Entering
	// Completed moves the stock; no other transition touches the ledger.
	TransitionTransfer(ctx context.Context, input *dto.TransitionTransferInput) (*model.InventoryTransfer, error)
	CompleteTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error)

	GetTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error)
	ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.InventoryTransfer, int, error)
}
