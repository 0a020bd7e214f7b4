package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/database/postgres"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateAudit(ctx context.Context, a *model.InventoryAudit) error {
	query := `
        INSERT INTO inventory_audits (
            id, item_id, variation_id, location_id, recorded_stock, actual_stock, discrepancy,
            status, audited_by, resolved_by, adjustment_id, created_at, updated_at, resolved_at
        )
        VALUES (
            :id, :item_id, :variation_id, :location_id, :recorded_stock, :actual_stock, :discrepancy,
            :status, :audited_by, :resolved_by, :adjustment_id, :created_at, :updated_at, :resolved_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, a); err != nil {
		return postgres.QueryError("failed to create audit", err)
	}
	return nil
}

func (r *PGRepository) GetAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	return r.get(ctx, `SELECT * FROM inventory_audits WHERE id = $1`, id)
}

func (r *PGRepository) LockAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	return r.get(ctx, `SELECT * FROM inventory_audits WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, id string) (*model.InventoryAudit, error) {
	var a model.InventoryAudit
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &a, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get audit", err)
	}
	return &a, nil
}

func (r *PGRepository) UpdateAudit(ctx context.Context, a *model.InventoryAudit) error {
	query := `
        UPDATE inventory_audits SET
            actual_stock = :actual_stock,
            discrepancy = :discrepancy,
            status = :status,
            resolved_by = :resolved_by,
            adjustment_id = :adjustment_id,
            resolved_at = :resolved_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, a); err != nil {
		return postgres.QueryError("failed to update audit", err)
	}
	return nil
}

func (r *PGRepository) DeleteAudit(ctx context.Context, id string) error {
	query := `DELETE FROM inventory_audits WHERE id = $1 AND status = 'pending'`
	if _, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, id); err != nil {
		return postgres.QueryError("failed to delete audit", err)
	}
	return nil
}

func (r *PGRepository) ListAudits(ctx context.Context, f *dto.AuditFilters) ([]model.InventoryAudit, int, error) {
	audits := []model.InventoryAudit{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Status != "" {
		conditions = append(conditions, "status = :status")
		args["status"] = f.Status
	}
	if f.VariationID != "" {
		conditions = append(conditions, "variation_id = :variation_id")
		args["variation_id"] = f.VariationID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	ex := postgres.Executor(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM inventory_audits"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, ex, &count, ex.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, postgres.QueryError("count audits", err)
	}

	query := "SELECT * FROM inventory_audits" + whereClause + " ORDER BY created_at DESC, id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.SelectContext(ctx, ex, &audits, ex.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, postgres.QueryError("list audits", err)
	}
	return audits, count, nil
}
