package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/audit"
	"github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/auth"
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

type auditUseCase struct {
	repo      audit.Repository
	catalog   catalog.UseCase
	inventory inventory.UseCase
	tx        database.TxManager
	logger    logger.ZapLogger
	now       func() time.Time
}

func NewAuditUseCase(repo audit.Repository, catalog catalog.UseCase, inv inventory.UseCase, tx database.TxManager, log logger.ZapLogger) audit.UseCase {
	return &auditUseCase{
		repo:      repo,
		catalog:   catalog,
		inventory: inv,
		tx:        tx,
		logger:    log,
		now:       time.Now,
	}
}

func (uc *auditUseCase) CreateAudit(ctx context.Context, input *dto.CreateAuditInput) (*model.InventoryAudit, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	v, item, err := uc.catalog.ResolveVariation(ctx, input.VariationID)
	if err != nil {
		return nil, err
	}
	if v.ItemID != input.ItemID {
		return nil, apperr.InvalidArgument("variation %s does not belong to item %s", v.ID, input.ItemID)
	}
	if item.IsBundle {
		return nil, apperr.InvalidArgument("bundle %s has no stock of its own to count", item.ID)
	}
	if _, err := uc.catalog.GetLocation(ctx, input.LocationID); err != nil {
		return nil, err
	}

	recorded := 0
	if input.RecordedStock != nil {
		recorded = *input.RecordedStock
	} else {
		level, err := uc.inventory.GetStockLevel(ctx, input.VariationID, input.LocationID)
		if err != nil {
			return nil, err
		}
		recorded = level.Stock
	}

	now := uc.now()
	a := &model.InventoryAudit{
		ID:            uuid.New().String(),
		ItemID:        input.ItemID,
		VariationID:   input.VariationID,
		LocationID:    input.LocationID,
		RecordedStock: recorded,
		Status:        model.AuditStatusPending,
		AuditedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	a.Recount(input.ActualStock)

	if err := uc.repo.CreateAudit(ctx, a); err != nil {
		uc.logger.Error("failed to create audit", zap.Error(err))
		return nil, err
	}

	uc.logger.Info("audit created",
		zap.String("audit_id", a.ID),
		zap.String("variation_id", a.VariationID),
		zap.String("location_id", a.LocationID),
		zap.Int("discrepancy", a.Discrepancy),
	)
	return a, nil
}

func (uc *auditUseCase) UpdateAudit(ctx context.Context, input *dto.UpdateAuditInput) (*model.InventoryAudit, error) {
	if _, err := auth.RequireActor(ctx); err != nil {
		return nil, err
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	var a *model.InventoryAudit
	err := uc.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = uc.lockFor(ctx, input.ID, model.AuditActionEdit)
		if err != nil {
			return err
		}
		a.Recount(input.ActualStock)
		a.UpdatedAt = uc.now()
		return uc.repo.UpdateAudit(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *auditUseCase) ResolveAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	actor, err := auth.RequireActor(ctx)
	if err != nil {
		return nil, err
	}

	var a *model.InventoryAudit
	err = uc.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = uc.lockFor(ctx, id, model.AuditActionResolve)
		if err != nil {
			return err
		}

		// The discrepancy was measured against the snapshot taken when the
		// audit was created; it is applied as-is to whatever stock is live now.
		adj, err := uc.inventory.ApplyAdjustment(ctx, &invDto.ApplyAdjustmentInput{
			VariationID:     a.VariationID,
			LocationID:      a.LocationID,
			ChangeAmount:    a.Discrepancy,
			Reason:          fmt.Sprintf("Adjustment from audit #%s", a.ID),
			Source:          model.AdjustmentSourceAudit,
			ReferenceID:     a.ID,
			AllowNegative:   true,
			RequireExisting: true,
		})
		if err != nil {
			return err
		}

		now := uc.now()
		resolver := actor.ID
		adjID := adj.ID
		a.Status = model.AuditStatusResolved
		a.ResolvedBy = &resolver
		a.AdjustmentID = &adjID
		a.ResolvedAt = &now
		a.UpdatedAt = now
		return uc.repo.UpdateAudit(ctx, a)
	})
	if err != nil {
		if apperr.IsBusiness(err) {
			uc.logger.Warn("audit resolution rejected", zap.String("audit_id", id), zap.Error(err))
		} else {
			uc.logger.Error("audit resolution failed", zap.String("audit_id", id), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("audit resolved",
		zap.String("audit_id", a.ID),
		zap.String("resolved_by", actor.ID),
		zap.Int("discrepancy", a.Discrepancy),
	)
	return a, nil
}

func (uc *auditUseCase) DeleteAudit(ctx context.Context, id string) error {
	if _, err := auth.RequireActor(ctx); err != nil {
		return err
	}

	return uc.tx.WithTx(ctx, func(ctx context.Context) error {
		if _, err := uc.lockFor(ctx, id, model.AuditActionDelete); err != nil {
			return err
		}
		return uc.repo.DeleteAudit(ctx, id)
	})
}

func (uc *auditUseCase) GetAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	a, err := uc.repo.GetAudit(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("audit %s not found", id)
	}
	return a, nil
}

func (uc *auditUseCase) ListAudits(ctx context.Context, filters *dto.AuditFilters) ([]model.InventoryAudit, int, error) {
	return uc.repo.ListAudits(ctx, filters)
}

// lockFor loads an audit under lock and checks that action is legal in its
// current status.
func (uc *auditUseCase) lockFor(ctx context.Context, id string, action model.AuditAction) (*model.InventoryAudit, error) {
	a, err := uc.repo.LockAudit(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.NotFound("audit %s not found", id)
	}
	if _, ok := model.NextAuditStatus(a.Status, action); !ok {
		return nil, apperr.InvalidTransition("cannot %s audit %s in status %s", action, id, a.Status)
	}
	return a, nil
}
