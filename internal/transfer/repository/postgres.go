package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-stock-service/internal/database/postgres"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) CreateTransfer(ctx context.Context, t *model.InventoryTransfer) error {
	query := `
        INSERT INTO inventory_transfers (
            id, item_id, variation_id, from_location_id, to_location_id, quantity, status,
            notes, transfer_date, created_by, completed_by, completed_at, created_at, updated_at
        )
        VALUES (
            :id, :item_id, :variation_id, :from_location_id, :to_location_id, :quantity, :status,
            :notes, :transfer_date, :created_by, :completed_by, :completed_at, :created_at, :updated_at
        )
    `
	if _, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, t); err != nil {
		return postgres.QueryError("failed to create transfer", err)
	}
	return nil
}

func (r *PGRepository) GetTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	return r.get(ctx, `SELECT * FROM inventory_transfers WHERE id = $1`, id)
}

func (r *PGRepository) LockTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	return r.get(ctx, `SELECT * FROM inventory_transfers WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) get(ctx context.Context, query, id string) (*model.InventoryTransfer, error) {
	var t model.InventoryTransfer
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get transfer", err)
	}
	return &t, nil
}

func (r *PGRepository) UpdateTransfer(ctx context.Context, t *model.InventoryTransfer) error {
	query := `
        UPDATE inventory_transfers SET
            item_id = :item_id,
            variation_id = :variation_id,
            from_location_id = :from_location_id,
            to_location_id = :to_location_id,
            quantity = :quantity,
            status = :status,
            notes = :notes,
            transfer_date = :transfer_date,
            completed_by = :completed_by,
            completed_at = :completed_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	if _, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, t); err != nil {
		return postgres.QueryError("failed to update transfer", err)
	}
	return nil
}

func (r *PGRepository) ListTransfers(ctx context.Context, f *dto.TransferFilters) ([]model.InventoryTransfer, int, error) {
	transfers := []model.InventoryTransfer{}
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
		conditions = append(conditions, "(from_location_id = :location_id OR to_location_id = :location_id)")
		args["location_id"] = f.LocationID
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	ex := postgres.Executor(ctx, r.DB)

	countQuery, countArgs, err := sqlx.Named("SELECT count(*) FROM inventory_transfers"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.GetContext(ctx, ex, &count, ex.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, postgres.QueryError("count transfers", err)
	}

	query := "SELECT * FROM inventory_transfers" + whereClause + " ORDER BY transfer_date DESC, id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}
	listQuery, listArgs, err := sqlx.Named(query, args)
	if err != nil {
		return nil, 0, err
	}
	if err := sqlx.SelectContext(ctx, ex, &transfers, ex.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, postgres.QueryError("list transfers", err)
	}
	return transfers, count, nil
}
