package audit

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type UseCase interface {
	CreateAudit(ctx context.Context, input *dto.CreateAuditInput) (*model.InventoryAudit, error)
	UpdateAudit(ctx context.Context, input *dto.UpdateAuditInput) (*model.InventoryAudit, error)
	// ResolveAudit applies the audit's discrepancy to live stock as one
	// adjustment and moves the audit to Resolved.
	ResolveAudit(ctx context.Context, id string) (*model.InventoryAudit, error)
	DeleteAudit(ctx context.Context, id string) error

	GetAudit(ctx context.Context, id string) (*model.InventoryAudit, error)
	ListAudits(ctx context.Context, filters *dto.AuditFilters) ([]model.InventoryAudit, int, error)
}
