package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/bundle"
	"github.com/fekuna/omnipos-stock-service/internal/bundle/dto"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bundleUseCase struct {
	repo      bundle.Repository
	catalog   catalog.UseCase
	inventory inventory.UseCase
	tx        database.TxManager
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewBundleUseCase(repo bundle.Repository, catalog catalog.UseCase, inv inventory.UseCase, tx database.TxManager, log logger.ZapLogger) bundle.UseCase {
	return &bundleUseCase{
		repo:      repo,
		catalog:   catalog,
		inventory: inv,
		tx:        tx,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *bundleUseCase) AddComponent(ctx context.Context, input *dto.AddComponentInput) (*model.BundleComponent, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var c *model.BundleComponent
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.bundleItem(ctx, input.BundleItemID); err != nil {
			return err
		}

		_, item, err := uc.catalog.ResolveVariation(ctx, input.ComponentVariationID)
		if err != nil {
			return err
		}
		if item.IsBundle {
			return apperr.InvalidArgument("variation %s belongs to bundle %s; bundles cannot contain bundles",
				input.ComponentVariationID, item.ID)
		}

		existing, err := uc.repo.ListComponents(ctx, input.BundleItemID)
		if err != nil {
			return err
		}
		for _, e := range existing {
			if e.ComponentVariationID == input.ComponentVariationID {
				return apperr.InvalidArgument("variation %s is already a component of bundle %s",
					input.ComponentVariationID, input.BundleItemID)
			}
		}

		c = &model.BundleComponent{
			ID:                   uuid.New().String(),
			BundleItemID:         input.BundleItemID,
			ComponentVariationID: input.ComponentVariationID,
			Quantity:             input.Quantity,
			DisplayOrder:         input.DisplayOrder,
			IsHighlight:          input.IsHighlight,
			CreatedAt:            uc.now(),
		}
		return uc.repo.InsertComponent(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *bundleUseCase) RemoveComponent(ctx context.Context, bundleItemID, componentVariationID string) error {
	if _, err := auth.RequireActor(ctx); err != nil {
		return err
	}

	removed, err := uc.repo.DeleteComponent(ctx, bundleItemID, componentVariationID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("variation %s is not a component of bundle %s", componentVariationID, bundleItemID)
	}
	return nil
}

func (uc *bundleUseCase) ListComponents(ctx context.Context, bundleItemID string) ([]model.BundleComponent, error) {
	if _, err := uc.bundleItem(ctx, bundleItemID); err != nil {
		return nil, err
	}
	return uc.repo.ListComponents(ctx, bundleItemID)
}

func (uc *bundleUseCase) AvailableStock(ctx context.Context, bundleItemID, locationID string) (int, error) {
	if _, err := uc.bundleItem(ctx, bundleItemID); err != nil {
		return 0, err
	}
	if _, err := uc.catalog.GetLocation(ctx, locationID); err != nil {
		return 0, err
	}

	components, err := uc.repo.ListComponents(ctx, bundleItemID)
	if err != nil {
		return 0, err
	}
	stock, err := uc.inventory.StockByLocation(ctx, componentIDs(components))
	if err != nil {
		return 0, err
	}
	return Availability(components, stock, locationID), nil
}

func (uc *bundleUseCase) AvailableStockByLocation(ctx context.Context, bundleItemID string) (map[string]int, error) {
	if _, err := uc.bundleItem(ctx, bundleItemID); err != nil {
		return nil, err
	}

	components, err := uc.repo.ListComponents(ctx, bundleItemID)
	if err != nil {
		return nil, err
	}
	stock, err := uc.inventory.StockByLocation(ctx, componentIDs(components))
	if err != nil {
		return nil, err
	}
	return AvailabilityByLocation(components, stock), nil
}

// Availability is the number of whole bundles buildable at one location: the
// minimum over components of floor(stock / quantity). A bundle without
// components has nothing to sell.
func Availability(components []model.BundleComponent, stock inventory.StockMap, locationID string) int {
	if len(components) == 0 {
		return 0
	}
	available := -1
	for _, c := range components {
		n := 0
		if s := stock.Get(c.ComponentVariationID, locationID); s > 0 {
			n = s / c.Quantity
		}
		if available < 0 || n < available {
			available = n
		}
	}
	return available
}

// AvailabilityByLocation evaluates Availability at every location where any
// component has positive stock.
func AvailabilityByLocation(components []model.BundleComponent, stock inventory.StockMap) map[string]int {
	out := map[string]int{}
	if len(components) == 0 {
		return out
	}
	for _, c := range components {
		for locationID, s := range stock[c.ComponentVariationID] {
			if s <= 0 {
				continue
			}
			if _, done := out[locationID]; !done {
				out[locationID] = Availability(components, stock, locationID)
			}
		}
	}
	return out
}

func (uc *bundleUseCase) DeductBundleStock(ctx context.Context, input *dto.DeductBundleInput) ([]model.InventoryAdjustment, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var adjustments []model.InventoryAdjustment
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		adjustments = nil

		_, item, err := uc.catalog.ResolveVariation(ctx, input.BundleVariationID)
		if err != nil {
			return err
		}
		if !item.IsBundle {
			return apperr.InvalidArgument("variation %s is not a bundle", input.BundleVariationID)
		}
		components, err := uc.repo.ListComponents(ctx, item.ID)
		if err != nil {
			return err
		}
		// A bundle without components is never available, so selling one is a shortage.
		if len(components) == 0 {
			return apperr.InsufficientStock("bundle %s has no components", item.ID)
		}

		reason := bundleReason(item.Name, input.OrderID)

		if input.LocationID != "" {
			adjustments, err = uc.deductAt(ctx, components, input, reason)
		} else {
			adjustments, err = uc.deductAnywhere(ctx, components, input, reason)
		}
		return err
	})
	if err != nil {
		if apperr.IsBusiness(err) {
			uc.logger.Warn("bundle deduction rejected",
				zap.String("bundle_variation_id", input.BundleVariationID),
				zap.Int("quantity", input.Quantity),
				zap.String("order_id", input.OrderID),
				zap.Error(err),
			)
		} else {
			uc.logger.Error("bundle deduction failed",
				zap.String("bundle_variation_id", input.BundleVariationID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	uc.logger.Info("bundle stock deducted",
		zap.String("bundle_variation_id", input.BundleVariationID),
		zap.Int("quantity", input.Quantity),
		zap.String("order_id", input.OrderID),
		zap.Int("adjustments", len(adjustments)),
	)
	return adjustments, nil
}

// deductAt checks every component at one location before writing anything,
// then writes one adjustment per component.
func (uc *bundleUseCase) deductAt(ctx context.Context, components []model.BundleComponent, input *dto.DeductBundleInput, reason string) ([]model.InventoryAdjustment, error) {
	if _, err := uc.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	stock, err := uc.inventory.LockStockByLocation(ctx, componentIDs(components))
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		need, err := componentNeed(c, input.Quantity)
		if err != nil {
			return nil, err
		}
		if have := stock.Get(c.ComponentVariationID, input.LocationID); have < need {
			return nil, apperr.InsufficientStock("component %s at location %s: have %d, need %d",
				c.ComponentVariationID, input.LocationID, have, need)
		}
	}

	var adjustments []model.InventoryAdjustment
	for _, c := range components {
		adj, err := uc.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
			VariationID:  c.ComponentVariationID,
			LocationID:   input.LocationID,
			ChangeAmount: -c.Quantity * input.Quantity,
			Reason:       reason,
			Source:       model.AdjustmentSourceBundleSale,
			ReferenceID:  input.OrderID,
		})
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, *adj)
	}
	return adjustments, nil
}

// deductAnywhere sums each component across every location and fails before
// mutating when any component is short. Each component is then drawn greedily.
func (uc *bundleUseCase) deductAnywhere(ctx context.Context, components []model.BundleComponent, input *dto.DeductBundleInput, reason string) ([]model.InventoryAdjustment, error) {
	stock, err := uc.inventory.LockStockByLocation(ctx, componentIDs(components))
	if err != nil {
		return nil, err
	}
	for _, c := range components {
		need, err := componentNeed(c, input.Quantity)
		if err != nil {
			return nil, err
		}
		have := 0
		for _, s := range stock[c.ComponentVariationID] {
			if s > 0 {
				have += s
			}
		}
		if have < need {
			return nil, apperr.InsufficientStock("component %s across all locations: have %d, need %d",
				c.ComponentVariationID, have, need)
		}
	}

	var adjustments []model.InventoryAdjustment
	for _, c := range components {
		adjs, err := uc.inventory.DeductAcrossLocations(ctx, &invDto.DeductAcrossLocationsInput{
			VariationID: c.ComponentVariationID,
			Quantity:    c.Quantity * input.Quantity,
			Reason:      reason,
			Source:      model.AdjustmentSourceBundleSale,
			ReferenceID: input.OrderID,
		})
		if err != nil {
			return nil, err
		}
		adjustments = append(adjustments, adjs...)
	}
	return adjustments, nil
}

func (uc *bundleUseCase) bundleItem(ctx context.Context, bundleItemID string) (*model.Item, error) {
	item, err := uc.catalog.GetItem(ctx, bundleItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsBundle {
		return nil, apperr.InvalidArgument("item %s is not a bundle", bundleItemID)
	}
	return item, nil
}

// componentNeed is how many units of c selling quantity bundles consumes.
// Products that do not fit a stock column are rejected.
func componentNeed(c model.BundleComponent, quantity int) (int, error) {
	if c.Quantity <= 0 || quantity <= 0 || c.Quantity > model.MaxStock/quantity {
		return 0, apperr.InvalidArgument("%d bundles need more than %d of component %s",
			quantity, model.MaxStock, c.ComponentVariationID)
	}
	return c.Quantity * quantity, nil
}

func bundleReason(bundleName, orderID string) string {
	if orderID == "" {
		return fmt.Sprintf("Bundle sale: %s", bundleName)
	}
	return fmt.Sprintf("Bundle sale: %s (order #%s)", bundleName, orderID)
}

func componentIDs(components []model.BundleComponent) []string {
	ids := make([]string, len(components))
	for i, c := range components {
		ids[i] = c.ComponentVariationID
	}
	return ids
}
