package postgres_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	bundleRepo "github.com/fekuna/omnipos-stock-service/internal/bundle/repository"
	bundleUC "github.com/fekuna/omnipos-stock-service/internal/bundle/usecase"
	catRepo "github.com/fekuna/omnipos-stock-service/internal/catalog/repository"
	catUC "github.com/fekuna/omnipos-stock-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/database/postgres"
	fulfillmentDto "github.com/fekuna/omnipos-stock-service/internal/fulfillment/dto"
	fulfillmentUC "github.com/fekuna/omnipos-stock-service/internal/fulfillment/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	invRepo "github.com/fekuna/omnipos-stock-service/internal/inventory/repository"
	invUC "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	transferDto "github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	transferRepo "github.com/fekuna/omnipos-stock-service/internal/transfer/repository"
	transferUC "github.com/fekuna/omnipos-stock-service/internal/transfer/usecase"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manager = auth.Actor{ID: "u-manager", Role: auth.RoleManager}

type pgFixture struct {
	db        *sqlx.DB
	inventory inventory.UseCase
	tx        *postgres.TxManager
	itemID    string
	varID     string
	locA      string
	locB      string
}

func openTestDB(t *testing.T) *pgFixture {
	t.Helper()
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 and POSTGRES_TEST_DSN to run integration tests")
	}
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN is not set")
	}

	db, err := postgres.Open(dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, postgres.Migrate(ctx, db))

	f := &pgFixture{
		db:     db,
		tx:     postgres.NewTxManager(db, 3),
		itemID: uuid.NewString(),
		varID:  uuid.NewString(),
		locA:   uuid.NewString(),
		locB:   uuid.NewString(),
	}
	suffix := f.itemID[:8]
	db.MustExecContext(ctx, `INSERT INTO items (id, sku, name) VALUES ($1, $2, 'Phone Case')`, f.itemID, "CASE-"+suffix)
	db.MustExecContext(ctx, `INSERT INTO variations (id, item_id, sku, name) VALUES ($1, $2, $3, 'Phone Case Black')`, f.varID, f.itemID, "CASE-BLK-"+suffix)
	db.MustExecContext(ctx, `INSERT INTO locations (id, code, name) VALUES ($1, $2, 'Store A'), ($3, $4, 'Store B')`,
		f.locA, "A-"+suffix, f.locB, "B-"+suffix)

	f.inventory = invUC.NewInventoryUseCase(invRepo.NewPGRepository(db), catUC.NewCatalogUseCase(catRepo.NewPGRepository(db)), f.tx, logger.NewNop())
	return f
}

func (f *pgFixture) stock(t *testing.T, locationID string) int {
	t.Helper()
	level, err := f.inventory.GetStockLevel(context.Background(), f.varID, locationID)
	require.NoError(t, err)
	return level.Stock
}

func TestIntegration_AdjustmentsFoldToStock(t *testing.T) {
	f := openTestDB(t)
	ctx := auth.WithActor(context.Background(), manager)

	for _, change := range []int{10, -3, 5} {
		_, err := f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
			VariationID:  f.varID,
			LocationID:   f.locA,
			ChangeAmount: change,
			Reason:       "integration",
			Source:       model.AdjustmentSourceManual,
		})
		require.NoError(t, err)
	}

	_, err := f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID: f.varID, LocationID: f.locA, ChangeAmount: -13, Reason: "too much", Source: model.AdjustmentSourceManual,
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	assert.Equal(t, 12, f.stock(t, f.locA))

	report, err := f.inventory.VerifyLedger(ctx, f.varID, f.locA)
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.Equal(t, 3, report.Adjustments)
}

func TestIntegration_TransferCompletes(t *testing.T) {
	f := openTestDB(t)
	ctx := auth.WithActor(context.Background(), manager)
	log := logger.NewNop()
	catalog := catUC.NewCatalogUseCase(catRepo.NewPGRepository(f.db))
	transfers := transferUC.NewTransferUseCase(transferRepo.NewPGRepository(f.db), catalog, f.inventory, f.tx, log)

	_, err := f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID: f.varID, LocationID: f.locA, ChangeAmount: 10, Reason: "delivery", Source: model.AdjustmentSourceManual,
	})
	require.NoError(t, err)

	tr, err := transfers.CreateTransfer(ctx, &transferDto.CreateTransferInput{
		ItemID: f.itemID, VariationID: f.varID, FromLocationID: f.locA, ToLocationID: f.locB, Quantity: 4,
	})
	require.NoError(t, err)

	done, err := transfers.CompleteTransfer(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransferStatusCompleted, done.Status)

	_, err = transfers.CompleteTransfer(ctx, tr.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	assert.Equal(t, 6, f.stock(t, f.locA))
	assert.Equal(t, 4, f.stock(t, f.locB))
}

func TestIntegration_FailedOrderRollsBack(t *testing.T) {
	f := openTestDB(t)
	ctx := auth.WithActor(context.Background(), manager)
	log := logger.NewNop()
	catalog := catUC.NewCatalogUseCase(catRepo.NewPGRepository(f.db))
	bundles := bundleUC.NewBundleUseCase(bundleRepo.NewPGRepository(f.db), catalog, f.inventory, f.tx, log)
	orders := fulfillmentUC.NewFulfillmentUseCase(catalog, f.inventory, bundles, f.tx, log)

	_, err := f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID: f.varID, LocationID: f.locA, ChangeAmount: 3, Reason: "delivery", Source: model.AdjustmentSourceManual,
	})
	require.NoError(t, err)

	// The second line cannot be filled, so the first one must not stick.
	_, err = orders.DeductOrder(auth.WithActor(context.Background(), auth.SystemActor), &fulfillmentDto.DeductOrderInput{
		OrderID:    "ord-" + f.itemID[:8],
		LocationID: f.locA,
		Lines: []fulfillmentDto.OrderLine{
			{VariationID: f.varID, Quantity: 2},
			{VariationID: f.varID, Quantity: 2},
		},
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 3, f.stock(t, f.locA))

	adjs, total, err := f.inventory.ListAdjustments(ctx, &invDto.AdjustmentFilters{VariationID: f.varID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, adjs, 1)
}
