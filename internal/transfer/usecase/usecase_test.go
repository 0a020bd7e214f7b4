package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	catalogUC "github.com/fekuna/omnipos-stock-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	invUC "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/store/memory"
	"github.com/fekuna/omnipos-stock-service/internal/transfer"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clerk = auth.Actor{ID: "u-clerk", Role: auth.RoleStaff}

type fixture struct {
	store     *memory.Store
	inventory inventory.UseCase
	transfers transfer.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	store.AddItem("item-phone", "Phone Case", false)
	store.AddVariation("var-case", "item-phone", "Phone Case Black")
	store.AddItem("item-kit", "Repair Kit", true)
	store.AddVariation("var-kit", "item-kit", "Repair Kit")
	store.AddLocation("loc-a", "Store A")
	store.AddLocation("loc-b", "Store B")

	log := logger.NewNop()
	cat := catalogUC.NewCatalogUseCase(store)
	inv := invUC.NewInventoryUseCase(store, cat, store, log)
	return &fixture{
		store:     store,
		inventory: inv,
		transfers: NewTransferUseCase(store, cat, inv, store, log),
	}
}

func createInput(qty int) *dto.CreateTransferInput {
	return &dto.CreateTransferInput{
		ItemID:         "item-phone",
		VariationID:    "var-case",
		FromLocationID: "loc-a",
		ToLocationID:   "loc-b",
		Quantity:       qty,
	}
}

func (f *fixture) stock(t *testing.T, locationID string) int {
	t.Helper()
	level, err := f.inventory.GetStockLevel(context.Background(), "var-case", locationID)
	require.NoError(t, err)
	return level.Stock
}

func TestCompleteTransfer_MovesStockOnce(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 10)
	ctx := auth.WithActor(context.Background(), clerk)

	tr, err := f.transfers.CreateTransfer(ctx, createInput(4))
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusPending, tr.Status)
	assert.Equal(t, 10, f.stock(t, "loc-a"), "creating a transfer must not move stock")

	done, err := f.transfers.CompleteTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusCompleted, done.Status)
	require.NotNil(t, done.CompletedBy)
	assert.Equal(t, "u-clerk", *done.CompletedBy)
	require.NotNil(t, done.CompletedAt)

	assert.Equal(t, 6, f.stock(t, "loc-a"))
	assert.Equal(t, 4, f.stock(t, "loc-b"))

	adjs, total, err := f.inventory.ListAdjustments(ctx, &invDto.AdjustmentFilters{ReferenceID: tr.ID})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	changes := map[string]int{}
	for _, a := range adjs {
		changes[a.LocationID] = a.ChangeAmount
		assert.Contains(t, a.Reason, tr.ID)
	}
	assert.Equal(t, map[string]int{"loc-a": -4, "loc-b": 4}, changes)

	_, err = f.transfers.CompleteTransfer(ctx, tr.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)
	_, total, err = f.inventory.ListAdjustments(ctx, &invDto.AdjustmentFilters{ReferenceID: tr.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 6, f.stock(t, "loc-a"))
}

func TestCreateTransfer_Rejections(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 3)
	ctx := auth.WithActor(context.Background(), clerk)

	same := createInput(1)
	same.ToLocationID = "loc-a"
	_, err := f.transfers.CreateTransfer(ctx, same)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.transfers.CreateTransfer(ctx, createInput(4))
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	_, err = f.transfers.CreateTransfer(ctx, createInput(0))
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	kit := createInput(1)
	kit.ItemID = "item-kit"
	kit.VariationID = "var-kit"
	_, err = f.transfers.CreateTransfer(ctx, kit)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	missing := createInput(1)
	missing.ToLocationID = "loc-z"
	_, err = f.transfers.CreateTransfer(ctx, missing)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.transfers.CreateTransfer(context.Background(), createInput(1))
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, total, err := f.transfers.ListTransfers(ctx, &dto.TransferFilters{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateTransfer_RevalidatesSource(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 5)
	ctx := auth.WithActor(context.Background(), clerk)

	tr, err := f.transfers.CreateTransfer(ctx, createInput(2))
	require.NoError(t, err)

	tooMany := 6
	_, err = f.transfers.UpdateTransfer(ctx, &dto.UpdateTransferInput{ID: tr.ID, Quantity: &tooMany})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	got, err := f.transfers.GetTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity)

	ok := 5
	notes := "restock window display"
	updated, err := f.transfers.UpdateTransfer(ctx, &dto.UpdateTransferInput{ID: tr.ID, Quantity: &ok, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)
	assert.Equal(t, notes, updated.Notes)

	swap := "loc-a"
	_, err = f.transfers.UpdateTransfer(ctx, &dto.UpdateTransferInput{ID: tr.ID, ToLocationID: &swap})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestUpdateTransfer_CompletedIsFrozen(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 5)
	ctx := auth.WithActor(context.Background(), clerk)

	tr, err := f.transfers.CreateTransfer(ctx, createInput(2))
	require.NoError(t, err)
	_, err = f.transfers.CompleteTransfer(ctx, tr.ID)
	require.NoError(t, err)

	one := 1
	_, err = f.transfers.UpdateTransfer(ctx, &dto.UpdateTransferInput{ID: tr.ID, Quantity: &one})
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestCompleteTransfer_DepletedSourceLeavesPriorState(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 10)
	ctx := auth.WithActor(context.Background(), clerk)

	tr, err := f.transfers.CreateTransfer(ctx, createInput(8))
	require.NoError(t, err)

	_, err = f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID:  "var-case",
		LocationID:   "loc-a",
		ChangeAmount: -5,
		Reason:       "walk-in sale",
		Source:       model.AdjustmentSourceSale,
	})
	require.NoError(t, err)

	_, err = f.transfers.CompleteTransfer(ctx, tr.ID)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	assert.Equal(t, 5, f.stock(t, "loc-a"))
	assert.Equal(t, 0, f.stock(t, "loc-b"))
	got, err := f.transfers.GetTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusPending, got.Status)
	_, total, err := f.inventory.ListAdjustments(ctx, &invDto.AdjustmentFilters{ReferenceID: tr.ID})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTransitionTransfer_Lifecycle(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-case", "loc-a", 10)
	ctx := auth.WithActor(context.Background(), clerk)

	tr, err := f.transfers.CreateTransfer(ctx, createInput(1))
	require.NoError(t, err)

	moved, err := f.transfers.TransitionTransfer(ctx, &dto.TransitionTransferInput{ID: tr.ID, Status: model.TransferStatusInTransit})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusInTransit, moved.Status)
	assert.Equal(t, 10, f.stock(t, "loc-a"))

	back, err := f.transfers.TransitionTransfer(ctx, &dto.TransitionTransferInput{ID: tr.ID, Status: model.TransferStatusPending})
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusPending, back.Status)

	_, err = f.transfers.TransitionTransfer(ctx, &dto.TransitionTransferInput{ID: tr.ID, Status: "lost"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.transfers.TransitionTransfer(ctx, &dto.TransitionTransferInput{ID: "missing", Status: model.TransferStatusCompleted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	list, total, err := f.transfers.ListTransfers(ctx, &dto.TransferFilters{LocationID: "loc-b"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, tr.ID, list[0].ID)
}
