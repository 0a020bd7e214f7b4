package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/fekuna/omnipos-stock-service/internal/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type transferUseCase struct {
	repo      transfer.Repository
	catalog   catalog.UseCase
	inventory inventory.UseCase
	tx        database.TxManager
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewTransferUseCase(repo transfer.Repository, catalog catalog.UseCase, inv inventory.UseCase, tx database.TxManager, log logger.ZapLogger) transfer.UseCase {
	return &transferUseCase{
		repo:      repo,
		catalog:   catalog,
		inventory: inv,
		tx:        tx,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *transferUseCase) CreateTransfer(ctx context.Context, input *dto.CreateTransferInput) (*model.InventoryTransfer, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	now := uc.now()
	t := &model.InventoryTransfer{
		ID:             uuid.New().String(),
		ItemID:         input.ItemID,
		VariationID:    input.VariationID,
		FromLocationID: input.FromLocationID,
		ToLocationID:   input.ToLocationID,
		Quantity:       input.Quantity,
		Status:         model.TransferStatusPending,
		Notes:          input.Notes,
		TransferDate:   now,
		CreatedBy:      actor.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.TransferDate != nil {
		t.TransferDate = *input.TransferDate
	}

	if err := uc.checkTransfer(ctx, t); err != nil {
		uc.logger.Warn("transfer rejected", zap.String("variation_id", t.VariationID), zap.Error(err))
		return nil, err
	}
	if err := uc.repo.CreateTransfer(ctx, t); err != nil {
		uc.logger.Error("failed to create transfer", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("transfer created",
		zap.String("transfer_id", t.ID),
		zap.String("from_location_id", t.FromLocationID),
		zap.String("to_location_id", t.ToLocationID),
		zap.Int("quantity", t.Quantity),
	)
	return t, nil
}

func (uc *transferUseCase) UpdateTransfer(ctx context.Context, input *dto.UpdateTransferInput) (*model.InventoryTransfer, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var t *model.InventoryTransfer
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = uc.lock(ctx, input.ID)
		if err != nil {
			return err
		}
		if !t.Status.Editable() {
			return apperr.InvalidTransition("transfer %s is %s and can no longer be edited", t.ID, t.Status)
		}

		if input.ItemID != nil {
			t.ItemID = *input.ItemID
		}
		if input.VariationID != nil {
			t.VariationID = *input.VariationID
		}
		if input.FromLocationID != nil {
			t.FromLocationID = *input.FromLocationID
		}
		if input.ToLocationID != nil {
			t.ToLocationID = *input.ToLocationID
		}
		if input.Quantity != nil {
			t.Quantity = *input.Quantity
		}
		if input.Notes != nil {
			t.Notes = *input.Notes
		}
		if input.TransferDate != nil {
			t.TransferDate = *input.TransferDate
		}
		t.UpdatedAt = uc.now()

		if err := uc.checkTransfer(ctx, t); err != nil {
			return err
		}
		return uc.repo.UpdateTransfer(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (uc *transferUseCase) CompleteTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	return uc.TransitionTransfer(ctx, &dto.TransitionTransferInput{ID: id, Status: model.TransferStatusCompleted})
}

func (uc *transferUseCase) TransitionTransfer(ctx context.Context, input *dto.TransitionTransferInput) (*model.InventoryTransfer, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Status.Valid() {
		return nil, apperr.InvalidArgument("unknown transfer status %q", input.Status)
	}

	var t *model.InventoryTransfer
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		t, err = uc.lock(ctx, input.ID)
		if err != nil {
			return err
		}
		if !model.CanTransitionTransfer(t.Status, input.Status) {
			return apperr.InvalidTransition("transfer %s cannot move from %s to %s", t.ID, t.Status, input.Status)
		}

		now := uc.now()
		if input.Status == model.TransferStatusCompleted {
			if err := uc.moveStock(ctx, t); err != nil {
				return err
			}
			completedBy := actor.ID
			t.CompletedBy = &completedBy
			t.CompletedAt = &now
		}
		t.Status = input.Status
		t.UpdatedAt = now
		return uc.repo.UpdateTransfer(ctx, t)
	})
	if err != nil {
		if apperr.IsBusiness(err) {
			uc.logger.Warn("transfer transition rejected",
				zap.String("transfer_id", input.ID),
				zap.String("to_status", string(input.Status)),
				zap.Error(err),
			)
		} else {
			uc.logger.Error("transfer transition failed", zap.String("transfer_id", input.ID), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("transfer status changed",
		zap.String("transfer_id", t.ID),
		zap.String("status", string(t.Status)),
	)
	return t, nil
}

// moveStock debits the source and credits the destination. Both adjustments
// share the caller's transaction, so a depleted source undoes everything.
func (uc *transferUseCase) moveStock(ctx context.Context, t *model.InventoryTransfer) error {
	if _, err := uc.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID:  t.VariationID,
		LocationID:   t.FromLocationID,
		ChangeAmount: -t.Quantity,
		Reason:       fmt.Sprintf("Transfer out (transfer #%s)", t.ID),
		Source:       model.AdjustmentSourceTransferOut,
		ReferenceID:  t.ID,
	}); err != nil {
		return err
	}

	_, err := uc.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID:  t.VariationID,
		LocationID:   t.ToLocationID,
		ChangeAmount: t.Quantity,
		Reason:       fmt.Sprintf("Transfer in (transfer #%s)", t.ID),
		Source:       model.AdjustmentSourceTransferIn,
		ReferenceID:  t.ID,
	})
	return err
}

func (uc *transferUseCase) GetTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	t, err := uc.repo.GetTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("transfer %s not found", id)
	}
	return t, nil
}

func (uc *transferUseCase) ListTransfers(ctx context.Context, filters *dto.TransferFilters) ([]model.InventoryTransfer, int, error) {
	return uc.repo.ListTransfers(ctx, filters)
}

func (uc *transferUseCase) lock(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	t, err := uc.repo.LockTransfer(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperr.NotFound("transfer %s not found", id)
	}
	return t, nil
}

// checkTransfer validates the identities on a transfer and that the source
// currently holds enough stock. No stock is reserved.
func (uc *transferUseCase) checkTransfer(ctx context.Context, t *model.InventoryTransfer) error {
	if t.FromLocationID == t.ToLocationID {
		return apperr.InvalidTransition("transfer source and destination are both %s", t.FromLocationID)
	}

	v, item, err := uc.catalog.ResolveVariation(ctx, t.VariationID)
	if err != nil {
		return err
	}
	if v.ItemID != t.ItemID {
		return apperr.InvalidArgument("variation %s does not belong to item %s", v.ID, t.ItemID)
	}
	if item.IsBundle {
		return apperr.InvalidArgument("bundle %s has no stock of its own to transfer", item.ID)
	}
	if _, err := uc.catalog.GetLocation(ctx, t.FromLocationID); err != nil {
		return err
	}
	if _, err := uc.catalog.GetLocation(ctx, t.ToLocationID); err != nil {
		return err
	}

	source, err := uc.inventory.GetStockLevel(ctx, t.VariationID, t.FromLocationID)
	if err != nil {
		return err
	}
	if source.Stock < t.Quantity {
		return apperr.InsufficientStock("location %s holds %d of variation %s, transfer needs %d",
			t.FromLocationID, source.Stock, t.VariationID, t.Quantity)
	}
	return nil
}
