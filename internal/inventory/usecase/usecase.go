package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/database"
	"github.com/fekuna/omnipos-stock-service/internal/inventory"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/logger"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/validate"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo    inventory.Repository
	catalog catalog.UseCase
	tx      database.TxManager
	logger  logger.ZapLogger
	now     func() time.Time
}

func NewInventoryUseCase(repo inventory.Repository, catalog catalog.UseCase, tx database.TxManager, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		catalog: catalog,
		tx:      tx,
		logger:  log,
		now:     time.Now,
	}
}

func (uc *inventoryUseCase) ApplyAdjustment(ctx context.Context, input *dto.ApplyAdjustmentInput) (*model.InventoryAdjustment, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var adj *model.InventoryAdjustment
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		v, item, err := uc.resolve(ctx, input.VariationID, input.LocationID)
		if err != nil {
			return err
		}

		level, err := uc.repo.LockStockLevel(ctx, v.ID, input.LocationID, !input.RequireExisting)
		if err != nil {
			return err
		}
		if level == nil {
			return apperr.NotFound("no stock level for variation %s at location %s", v.ID, input.LocationID)
		}

		adj, err = uc.apply(ctx, actor, item.ID, level, input)
		return err
	})
	if err != nil {
		uc.logFailure("apply adjustment failed", err,
			zap.String("variation_id", input.VariationID),
			zap.String("location_id", input.LocationID),
			zap.Int("change_amount", input.ChangeAmount),
		)
		return nil, err
	}

	uc.logger.Info("stock adjusted",
		zap.String("adjustment_id", adj.ID),
		zap.String("variation_id", adj.VariationID),
		zap.String("location_id", adj.LocationID),
		zap.Int("change_amount", adj.ChangeAmount),
		zap.Int("stock_after", adj.StockAfter),
		zap.String("source", string(adj.Source)),
	)
	return adj, nil
}

// apply writes one stock update and its adjustment row. The caller holds the
// row lock on level.
func (uc *inventoryUseCase) apply(ctx context.Context, actor auth.Actor, itemID string, level *model.StockLevel, input *dto.ApplyAdjustmentInput) (*model.InventoryAdjustment, error) {
	before := level.Stock
	if !model.InStockRange(before) || !model.InStockRange(input.ChangeAmount) {
		return nil, apperr.InvalidArgument("change %d to variation %s at location %s is out of range",
			input.ChangeAmount, level.VariationID, level.LocationID)
	}
	after := before + input.ChangeAmount
	if !model.InStockRange(after) {
		return nil, apperr.InvalidArgument("change %d would take variation %s at location %s past %d",
			input.ChangeAmount, level.VariationID, level.LocationID, model.MaxStock)
	}

	if !input.AllowNegative && input.ChangeAmount < 0 && after < 0 {
		return nil, apperr.InsufficientStock("insufficient stock for variation %s at location %s: have %d, need %d",
			level.VariationID, level.LocationID, before, -input.ChangeAmount)
	}

	adj := &model.InventoryAdjustment{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		VariationID:  level.VariationID,
		LocationID:   level.LocationID,
		ChangeAmount: input.ChangeAmount,
		Reason:       input.Reason,
		Source:       input.Source,
		StockBefore:  before,
		StockAfter:   after,
		AdjustedBy:   actor.ID,
		CreatedAt:    uc.now(),
	}
	if input.ReferenceID != "" {
		ref := input.ReferenceID
		adj.ReferenceID = &ref
	}
	if autoApproved(actor, input.Source) {
		approver := actor.ID
		adj.ApprovedBy = &approver
		adj.Approved = true
	}

	if !adj.Balanced() {
		return nil, uc.violation("adjustment does not balance", adj)
	}

	ok, err := uc.repo.UpdateStock(ctx, level.ID, before, after)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, uc.violation("stock row changed while locked", adj)
	}

	if err := uc.repo.InsertAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	level.Stock = after
	level.UpdatedAt = adj.CreatedAt
	return adj, nil
}

// autoApproved: engine-driven movements are approved by the actor who caused
// them; manual changes by plain staff are kept for manager review.
func autoApproved(actor auth.Actor, source model.AdjustmentSource) bool {
	if source != model.AdjustmentSourceManual {
		return true
	}
	return actor.Role == auth.RoleManager || actor.Role == auth.RoleSystem
}

func (uc *inventoryUseCase) DeductAcrossLocations(ctx context.Context, input *dto.DeductAcrossLocationsInput) ([]model.InventoryAdjustment, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var adjustments []model.InventoryAdjustment
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		adjustments = nil

		_, item, err := uc.catalog.ResolveVariation(ctx, input.VariationID)
		if err != nil {
			return err
		}
		if item.IsBundle {
			return apperr.InvalidArgument("variation %s belongs to bundle %s; deduct its components", input.VariationID, item.ID)
		}

		levels, err := uc.repo.LockStockLevelsByVariations(ctx, []string{input.VariationID})
		if err != nil {
			return err
		}

		plan, err := PlanGreedyDeduction(levels, input.Quantity)
		if err != nil {
			return err
		}

		for _, step := range plan {
			adj, err := uc.apply(ctx, actor, item.ID, step.Level, &dto.ApplyAdjustmentInput{
				VariationID:  input.VariationID,
				LocationID:   step.Level.LocationID,
				ChangeAmount: -step.Quantity,
				Reason:       input.Reason,
				Source:       input.Source,
				ReferenceID:  input.ReferenceID,
			})
			if err != nil {
				return err
			}
			adjustments = append(adjustments, *adj)
		}
		return nil
	})
	if err != nil {
		uc.logFailure("multi-location deduction failed", err,
			zap.String("variation_id", input.VariationID),
			zap.Int("quantity", input.Quantity),
		)
		return nil, err
	}
	return adjustments, nil
}

// DeductionStep debits Quantity from one locked stock row.
type DeductionStep struct {
	Level    *model.StockLevel
	Quantity int
}

// PlanGreedyDeduction takes quantity from the rows with the most stock first,
// breaking ties by location id. It fails before planning anything when the
// positive stock across all rows cannot cover quantity.
func PlanGreedyDeduction(levels []model.StockLevel, quantity int) ([]DeductionStep, error) {
	candidates := make([]*model.StockLevel, 0, len(levels))
	total := 0
	for i := range levels {
		if levels[i].Stock > 0 {
			candidates = append(candidates, &levels[i])
			total += levels[i].Stock
		}
	}
	if total < quantity {
		variationID := ""
		if len(levels) > 0 {
			variationID = levels[0].VariationID
		}
		return nil, apperr.InsufficientStock("insufficient stock for variation %s across all locations: have %d, need %d",
			variationID, total, quantity)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Stock != candidates[j].Stock {
			return candidates[i].Stock > candidates[j].Stock
		}
		return candidates[i].LocationID < candidates[j].LocationID
	})

	var plan []DeductionStep
	remaining := quantity
	for _, level := range candidates {
		if remaining == 0 {
			break
		}
		take := level.Stock
		if take > remaining {
			take = remaining
		}
		plan = append(plan, DeductionStep{Level: level, Quantity: take})
		remaining -= take
	}
	return plan, nil
}

func (uc *inventoryUseCase) GetStockLevel(ctx context.Context, variationID, locationID string) (*model.StockLevel, error) {
	level, err := uc.repo.GetStockLevel(ctx, variationID, locationID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return &model.StockLevel{
			VariationID: variationID,
			LocationID:  locationID,
			Stock:       0,
		}, nil
	}
	return level, nil
}

func (uc *inventoryUseCase) StockByLocation(ctx context.Context, variationIDs []string) (inventory.StockMap, error) {
	levels, err := uc.repo.ListStockLevelsByVariations(ctx, variationIDs)
	if err != nil {
		return nil, err
	}
	return toStockMap(levels), nil
}

func (uc *inventoryUseCase) LockStockByLocation(ctx context.Context, variationIDs []string) (inventory.StockMap, error) {
	levels, err := uc.repo.LockStockLevelsByVariations(ctx, variationIDs)
	if err != nil {
		return nil, err
	}
	return toStockMap(levels), nil
}

func toStockMap(levels []model.StockLevel) inventory.StockMap {
	m := inventory.StockMap{}
	for _, l := range levels {
		if m[l.VariationID] == nil {
			m[l.VariationID] = map[string]int{}
		}
		m[l.VariationID][l.LocationID] = l.Stock
	}
	return m
}

func (uc *inventoryUseCase) ListStockLevels(ctx context.Context, filters *dto.StockFilters) ([]model.StockLevel, int, error) {
	return uc.repo.ListStockLevels(ctx, filters)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context, threshold int, locationID string, page, pageSize int) ([]model.StockLevel, int, error) {
	return uc.repo.ListStockLevels(ctx, &dto.StockFilters{
		LocationID: locationID,
		MaxStock:   &threshold,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (uc *inventoryUseCase) ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.InventoryAdjustment, int, error) {
	return uc.repo.ListAdjustments(ctx, filters)
}

func (uc *inventoryUseCase) VerifyLedger(ctx context.Context, variationID, locationID string) (*model.LedgerReport, error) {
	level, err := uc.repo.GetStockLevel(ctx, variationID, locationID)
	if err != nil {
		return nil, err
	}
	if level == nil {
		return nil, apperr.NotFound("no stock level for variation %s at location %s", variationID, locationID)
	}

	adjustments, err := uc.repo.ListAdjustmentsForKey(ctx, variationID, locationID)
	if err != nil {
		return nil, err
	}

	report := FoldLedger(level, adjustments)
	if !report.Consistent {
		uc.logger.Error("CONSISTENCY VIOLATION: stock level diverges from adjustment log",
			zap.String("variation_id", variationID),
			zap.String("location_id", locationID),
			zap.Int("stock", report.Stock),
			zap.Int("initial_stock", report.InitialStock),
			zap.Int("folded_change", report.FoldedChange),
			zap.Int("adjustments", report.Adjustments),
		)
	}
	return report, nil
}

// FoldLedger replays adjustments (in sequence order) on top of the first
// recorded stock_before and compares the result with the live row.
func FoldLedger(level *model.StockLevel, adjustments []model.InventoryAdjustment) *model.LedgerReport {
	report := &model.LedgerReport{
		VariationID:  level.VariationID,
		LocationID:   level.LocationID,
		Stock:        level.Stock,
		InitialStock: level.Stock,
		Adjustments:  len(adjustments),
		Consistent:   true,
	}
	if len(adjustments) == 0 {
		return report
	}

	report.InitialStock = adjustments[0].StockBefore
	running := report.InitialStock
	for i := range adjustments {
		a := &adjustments[i]
		if !a.Balanced() || a.StockBefore != running {
			report.Consistent = false
		}
		report.FoldedChange += a.ChangeAmount
		running = a.StockAfter
	}
	if report.InitialStock+report.FoldedChange != level.Stock {
		report.Consistent = false
	}
	return report
}

func (uc *inventoryUseCase) resolve(ctx context.Context, variationID, locationID string) (*model.Variation, *model.Item, error) {
	v, item, err := uc.catalog.ResolveVariation(ctx, variationID)
	if err != nil {
		return nil, nil, err
	}
	if item.IsBundle {
		return nil, nil, apperr.InvalidArgument("variation %s belongs to bundle %s; bundle stock is derived from its components", variationID, item.ID)
	}
	if _, err := uc.catalog.GetLocation(ctx, locationID); err != nil {
		return nil, nil, err
	}
	return v, item, nil
}

func (uc *inventoryUseCase) violation(msg string, adj *model.InventoryAdjustment) error {
	uc.logger.Error("CONSISTENCY VIOLATION: "+msg,
		zap.String("adjustment_id", adj.ID),
		zap.String("variation_id", adj.VariationID),
		zap.String("location_id", adj.LocationID),
		zap.Int("stock_before", adj.StockBefore),
		zap.Int("change_amount", adj.ChangeAmount),
		zap.Int("stock_after", adj.StockAfter),
	)
	return apperr.ConsistencyViolation("%s (variation %s, location %s)", msg, adj.VariationID, adj.LocationID)
}

func (uc *inventoryUseCase) logFailure(msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if apperr.IsBusiness(err) {
		uc.logger.Warn(msg, fields...)
		return
	}
	uc.logger.Error(msg, fields...)
}
