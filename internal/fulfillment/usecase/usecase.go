package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/bundle"
	bundleDto "github.com/fekuna/omnipos-stock-service/internal/bundle/dto"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/fulfillment"
	"github.com/fekuna/omnipos-stock-service/internal/fulfillment/dto"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	invDto "github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/validate"
	"go.uber.org/zap"
)

type fulfillmentUseCase struct {
	catalog   catalog.UseCase
	inventory inventory.UseCase
	bundles   bundle.UseCase
	tx        database.TxManager
	logger    logger.ZapLogger
}

func NewFulfillmentUseCase(catalog catalog.UseCase, inv inventory.UseCase, bundles bundle.UseCase, tx database.TxManager, log logger.ZapLogger) fulfillment.UseCase {
	return &fulfillmentUseCase{
		catalog:   catalog,
		inventory: inv,
		bundles:   bundles,
		tx:        tx,
		logger:    log,
	}
}

func (uc *fulfillmentUseCase) DeductOrder(ctx context.Context, input *dto.DeductOrderInput) ([]model.InventoryAdjustment, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var adjustments []model.InventoryAdjustment
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		adjustments = nil
		for _, line := range input.Lines {
			adjs, err := uc.deductLine(ctx, input, line)
			if err != nil {
				return err
			}
			adjustments = append(adjustments, adjs...)
		}
		return nil
	})
	if err != nil {
		if apperr.IsBusiness(err) {
			uc.logger.Warn("order deduction rejected", zap.String("order_id", input.OrderID), zap.Error(err))
		} else {
			uc.logger.Error("order deduction failed", zap.String("order_id", input.OrderID), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("order stock deducted",
		zap.String("order_id", input.OrderID),
		zap.Int("lines", len(input.Lines)),
		zap.Int("adjustments", len(adjustments)),
	)
	return adjustments, nil
}

func (uc *fulfillmentUseCase) deductLine(ctx context.Context, order *dto.DeductOrderInput, line dto.OrderLine) ([]model.InventoryAdjustment, error) {
	_, item, err := uc.catalog.ResolveVariation(ctx, line.VariationID)
	if err != nil {
		return nil, err
	}

	if item.IsBundle {
		return uc.bundles.DeductBundleStock(ctx, &bundleDto.DeductBundleInput{
			BundleVariationID: line.VariationID,
			Quantity:          line.Quantity,
			LocationID:        order.LocationID,
			OrderID:           order.OrderID,
		})
	}

	reason := fmt.Sprintf("Order sale (order #%s)", order.OrderID)
	if order.LocationID == "" {
		return uc.inventory.DeductAcrossLocations(ctx, &invDto.DeductAcrossLocationsInput{
			VariationID: line.VariationID,
			Quantity:    line.Quantity,
			Reason:      reason,
			Source:      model.AdjustmentSourceSale,
			ReferenceID: order.OrderID,
		})
	}

	adj, err := uc.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
		VariationID:  line.VariationID,
		LocationID:   order.LocationID,
		ChangeAmount: -line.Quantity,
		Reason:       reason,
		Source:       model.AdjustmentSourceSale,
		ReferenceID:  order.OrderID,
	})
	if err != nil {
		return nil, err
	}
	return []model.InventoryAdjustment{*adj}, nil
}
