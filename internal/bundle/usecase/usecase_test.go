package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/bundle"
	"github.com/fekuna/omnipos-stock-service/internal/bundle/dto"
	catalogUC "github.com/fekuna/omnipos-stock-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	invUC "github.com/fekuna/omnipos-stock-service/internal/inventory/usecase"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/store/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cashier = auth.Actor{ID: "u-cashier", Role: auth.RoleStaff}

type fixture struct {
	store     *memory.Store
	inventory inventory.UseCase
	bundles   bundle.UseCase
}

// newFixture builds a "Screen Repair Kit" bundle of 2x screen protector (A)
// and 1x cleaning cloth (B).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	store.AddItem("item-protector", "Screen Protector", false)
	store.AddVariation("var-a", "item-protector", "Screen Protector 6.1")
	store.AddItem("item-cloth", "Cleaning Cloth", false)
	store.AddVariation("var-b", "item-cloth", "Cleaning Cloth")
	store.AddItem("item-kit", "Screen Repair Kit", true)
	store.AddVariation("var-kit", "item-kit", "Screen Repair Kit")
	store.AddItem("item-empty", "Empty Bundle", true)
	store.AddVariation("var-empty", "item-empty", "Empty Bundle")
	store.AddLocation("loc-1", "Store 1")
	store.AddLocation("loc-2", "Store 2")
	store.AddLocation("loc-3", "Store 3")

	log := logger.NewNop()
	cat := catalogUC.NewCatalogUseCase(store)
	inv := invUC.NewInventoryUseCase(store, cat, store, log)
	f := &fixture{
		store:     store,
		inventory: inv,
		bundles:   NewBundleUseCase(store, cat, inv, store, log),
	}

	ctx := auth.WithActor(context.Background(), cashier)
	_, err := f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-kit", ComponentVariationID: "var-a", Quantity: 2, IsHighlight: true})
	require.NoError(t, err)
	_, err = f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-kit", ComponentVariationID: "var-b", Quantity: 1, DisplayOrder: 1})
	require.NoError(t, err)
	return f
}

func (f *fixture) stock(t *testing.T, variationID, locationID string) int {
	t.Helper()
	level, err := f.inventory.GetStockLevel(context.Background(), variationID, locationID)
	require.NoError(t, err)
	return level.Stock
}

func TestAvailableStock_MinFloor(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	ctx := context.Background()

	n, err := f.bundles.AvailableStock(ctx, "item-kit", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.bundles.AvailableStock(ctx, "item-kit", "loc-2")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.bundles.AvailableStock(ctx, "item-empty", "loc-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.bundles.AvailableStock(ctx, "item-protector", "loc-1")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestAvailableStock_TracksLiveStock(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	ctx := auth.WithActor(context.Background(), cashier)

	_, err := f.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID:  "var-b",
		LocationID:   "loc-1",
		ChangeAmount: -2,
		Reason:       "damaged",
		Source:       model.AdjustmentSourceManual,
	})
	require.NoError(t, err)

	n, err := f.bundles.AvailableStock(ctx, "item-kit", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAvailableStockByLocation(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	f.store.SetStock("var-a", "loc-2", 8)
	f.store.SetStock("var-b", "loc-3", 0)

	byLoc, err := f.bundles.AvailableStockByLocation(context.Background(), "item-kit")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"loc-1": 2, "loc-2": 0}, byLoc)
}

func TestAvailability_NegativeStockCountsAsZero(t *testing.T) {
	components := []model.BundleComponent{{ComponentVariationID: "a", Quantity: 1}}
	stock := inventory.StockMap{"a": {"l": -4}}
	assert.Zero(t, Availability(components, stock, "l"))
	assert.Empty(t, AvailabilityByLocation(components, stock))
	assert.Zero(t, Availability(nil, stock, "l"))
}

func TestDeductBundleStock_SingleLocation(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	ctx := auth.WithActor(context.Background(), cashier)

	adjs, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{
		BundleVariationID: "var-kit",
		Quantity:          2,
		LocationID:        "loc-1",
		OrderID:           "1001",
	})
	require.NoError(t, err)
	require.Len(t, adjs, 2)
	for _, a := range adjs {
		assert.Equal(t, model.AdjustmentSourceBundleSale, a.Source)
		assert.Contains(t, a.Reason, "Screen Repair Kit")
		assert.Contains(t, a.Reason, "1001")
	}
	assert.Equal(t, 1, f.stock(t, "var-a", "loc-1"))
	assert.Equal(t, 1, f.stock(t, "var-b", "loc-1"))
}

func TestDeductBundleStock_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	ctx := auth.WithActor(context.Background(), cashier)

	_, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{
		BundleVariationID: "var-kit",
		Quantity:          3,
		LocationID:        "loc-1",
		OrderID:           "1002",
	})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	assert.Equal(t, 5, f.stock(t, "var-a", "loc-1"))
	assert.Equal(t, 3, f.stock(t, "var-b", "loc-1"))
	_, total, err := f.inventory.ListAdjustments(ctx, &invDto.AdjustmentFilters{ReferenceID: "1002"})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestDeductBundleStock_AcrossLocationsGreedy(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 3)
	f.store.SetStock("var-a", "loc-2", 4)
	f.store.SetStock("var-a", "loc-3", 4)
	f.store.SetStock("var-b", "loc-1", 2)
	f.store.SetStock("var-b", "loc-3", 1)
	ctx := auth.WithActor(context.Background(), cashier)

	adjs, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{
		BundleVariationID: "var-kit",
		Quantity:          3,
		OrderID:           "1003",
	})
	require.NoError(t, err)

	type debit struct {
		variation, location string
		change              int
	}
	var got []debit
	for _, a := range adjs {
		got = append(got, debit{a.VariationID, a.LocationID, a.ChangeAmount})
	}
	// var-a needs 6: loc-2 and loc-3 tie at 4, loc-2 wins on id; var-b needs 3.
	assert.Equal(t, []debit{
		{"var-a", "loc-2", -4},
		{"var-a", "loc-3", -2},
		{"var-b", "loc-1", -2},
		{"var-b", "loc-3", -1},
	}, got)

	assert.Equal(t, 3, f.stock(t, "var-a", "loc-1"))
	assert.Equal(t, 0, f.stock(t, "var-a", "loc-2"))
	assert.Equal(t, 2, f.stock(t, "var-a", "loc-3"))
	assert.Equal(t, 0, f.stock(t, "var-b", "loc-1"))
	assert.Equal(t, 0, f.stock(t, "var-b", "loc-3"))
}

func TestDeductBundleStock_AcrossLocationsShortfallMutatesNothing(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 10)
	f.store.SetStock("var-b", "loc-1", 1)
	f.store.SetStock("var-b", "loc-2", 1)
	ctx := auth.WithActor(context.Background(), cashier)

	_, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{BundleVariationID: "var-kit", Quantity: 3})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, "var-a", "loc-1"))
	assert.Equal(t, 1, f.stock(t, "var-b", "loc-2"))
}

func TestDeductBundleStock_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithActor(context.Background(), cashier)

	_, err := f.bundles.DeductBundleStock(context.Background(), &dto.DeductBundleInput{BundleVariationID: "var-kit", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	_, err = f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{BundleVariationID: "var-a", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{BundleVariationID: "var-empty", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	_, err = f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{BundleVariationID: "var-kit", Quantity: 1, LocationID: "loc-x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestComponents(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithActor(context.Background(), cashier)

	components, err := f.bundles.ListComponents(ctx, "item-kit")
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, "var-a", components[0].ComponentVariationID)
	assert.True(t, components[0].IsHighlight)

	_, err = f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-kit", ComponentVariationID: "var-a", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "duplicate component")

	_, err = f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-kit", ComponentVariationID: "var-empty", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "nested bundle")

	_, err = f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-empty", ComponentVariationID: "var-b", Quantity: 0})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "zero quantity")

	_, err = f.bundles.AddComponent(ctx, &dto.AddComponentInput{BundleItemID: "item-cloth", ComponentVariationID: "var-a", Quantity: 1})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument, "not a bundle")

	require.NoError(t, f.bundles.RemoveComponent(ctx, "item-kit", "var-b"))
	assert.ErrorIs(t, f.bundles.RemoveComponent(ctx, "item-kit", "var-b"), apperr.ErrNotFound)

	components, err = f.bundles.ListComponents(ctx, "item-kit")
	require.NoError(t, err)
	assert.Len(t, components, 1)
}

func TestDeductBundleStock_HugeQuantityNeverWraps(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	f.store.SetStock("var-b", "loc-1", 3)
	ctx := auth.WithActor(context.Background(), cashier)

	for _, tc := range []struct {
		name     string
		quantity int
		location string
	}{
		{"wraps int64 at one location", 1<<62 + 1, "loc-1"},
		{"wraps int64 anywhere", 1<<62 + 1, ""},
		{"component product past column", model.MaxStock/2 + 1, "loc-1"},
		{"component product past column anywhere", model.MaxStock/2 + 1, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			adjs, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{
				BundleVariationID: "var-kit",
				Quantity:          tc.quantity,
				LocationID:        tc.location,
				OrderID:           "ord-huge",
			})
			require.ErrorIs(t, err, apperr.ErrInvalidArgument)
			assert.Empty(t, adjs)
			assert.Equal(t, 5, f.stock(t, "var-a", "loc-1"))
			assert.Equal(t, 3, f.stock(t, "var-b", "loc-1"))
		})
	}
}

func TestComponentNeed(t *testing.T) {
	c := model.BundleComponent{ComponentVariationID: "var-a", Quantity: 2}

	need, err := componentNeed(c, 3)
	require.NoError(t, err)
	assert.Equal(t, 6, need)

	need, err = componentNeed(c, model.MaxStock/2)
	require.NoError(t, err)
	assert.LessOrEqual(t, need, model.MaxStock)

	_, err = componentNeed(c, model.MaxStock/2+1)
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestDeductBundleStock_EmptyBundleMatchesAvailability(t *testing.T) {
	f := newFixture(t)
	f.store.SetStock("var-a", "loc-1", 5)
	ctx := auth.WithActor(context.Background(), cashier)

	n, err := f.bundles.AvailableStock(ctx, "item-empty", "loc-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, location := range []string{"loc-1", ""} {
		adjs, err := f.bundles.DeductBundleStock(ctx, &dto.DeductBundleInput{BundleVariationID: "var-empty", Quantity: 1, LocationID: location})
		require.ErrorIs(t, err, apperr.ErrInsufficientStock)
		assert.Empty(t, adjs)
	}
	assert.Equal(t, 5, f.stock(t, "var-a", "loc-1"))
}
