package audit

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type Repository interface {
	CreateAudit(ctx context.Context, audit *model.InventoryAudit) error
	// GetAudit and LockAudit return nil, nil when the audit does not exist.
	GetAudit(ctx context.Context, id string) (*model.InventoryAudit, error)
	LockAudit(ctx context.Context, id string) (*model.InventoryAudit, error)
	UpdateAudit(ctx context.Context, audit *model.InventoryAudit) error
	DeleteAudit(ctx context.Context, id string) error
	ListAudits(ctx context.Context, filters *dto.AuditFilters) ([]model.InventoryAudit, int, error)
}
