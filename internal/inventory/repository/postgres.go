package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-stock-service/internal/database/postgres"
	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetStockLevel(ctx context.Context, variationID, locationID string) (*model.StockLevel, error) {
	var level model.StockLevel
	query := `SELECT * FROM stock_levels WHERE variation_id = $1 AND location_id = $2`
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &level, query, variationID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get stock level", err)
	}
	return &level, nil
}

func (r *PGRepository) ListStockLevels(ctx context.Context, f *dto.StockFilters) ([]model.StockLevel, int, error) {
	levels := []model.StockLevel{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.VariationID != "" {
		conditions = append(conditions, "variation_id = :variation_id")
		args["variation_id"] = f.VariationID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.MaxStock != nil {
		conditions = append(conditions, "stock <= :max_stock")
		args["max_stock"] = *f.MaxStock
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	if err := r.namedGet(ctx, &count, "SELECT count(*) FROM stock_levels"+whereClause, args); err != nil {
		return nil, 0, postgres.QueryError("count stock levels", err)
	}

	query := "SELECT * FROM stock_levels" + whereClause + " ORDER BY stock ASC, variation_id, location_id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := r.namedSelect(ctx, &levels, query, args); err != nil {
		return nil, 0, postgres.QueryError("list stock levels", err)
	}
	return levels, count, nil
}

func (r *PGRepository) ListStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error) {
	return r.selectByVariations(ctx, variationIDs, "")
}

func (r *PGRepository) LockStockLevel(ctx context.Context, variationID, locationID string, create bool) (*model.StockLevel, error) {
	ex := postgres.Executor(ctx, r.DB)

	if create {
		insert := `
            INSERT INTO stock_levels (id, variation_id, location_id, stock, updated_at)
            VALUES ($1, $2, $3, 0, NOW())
            ON CONFLICT (variation_id, location_id) DO NOTHING
        `
		if _, err := ex.ExecContext(ctx, insert, uuid.New().String(), variationID, locationID); err != nil {
			return nil, postgres.QueryError("create stock level", err)
		}
	}

	var level model.StockLevel
	query := `SELECT * FROM stock_levels WHERE variation_id = $1 AND location_id = $2 FOR UPDATE`
	err := sqlx.GetContext(ctx, ex, &level, query, variationID, locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("lock stock level", err)
	}
	return &level, nil
}

// LockStockLevelsByVariations locks in (variation, location) order so that
// concurrent multi-row deductions acquire locks in the same sequence.
func (r *PGRepository) LockStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error) {
	return r.selectByVariations(ctx, variationIDs, " FOR UPDATE")
}

func (r *PGRepository) selectByVariations(ctx context.Context, variationIDs []string, suffix string) ([]model.StockLevel, error) {
	levels := []model.StockLevel{}
	if len(variationIDs) == 0 {
		return levels, nil
	}

	query, args, err := sqlx.In(`
        SELECT * FROM stock_levels
        WHERE variation_id IN (?)
        ORDER BY variation_id, location_id`+suffix, variationIDs)
	if err != nil {
		return nil, err
	}

	ex := postgres.Executor(ctx, r.DB)
	if err := sqlx.SelectContext(ctx, ex, &levels, ex.Rebind(query), args...); err != nil {
		return nil, postgres.QueryError("select stock levels", err)
	}
	return levels, nil
}

func (r *PGRepository) UpdateStock(ctx context.Context, levelID string, expectedStock, newStock int) (bool, error) {
	query := `UPDATE stock_levels SET stock = $1, updated_at = NOW() WHERE id = $2 AND stock = $3`
	res, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, newStock, levelID, expectedStock)
	if err != nil {
		return false, postgres.QueryError("failed to update stock", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (r *PGRepository) InsertAdjustment(ctx context.Context, a *model.InventoryAdjustment) error {
	query := `
        INSERT INTO inventory_adjustments (
            id, item_id, variation_id, location_id, change_amount, reason, source,
            reference_id, stock_before, stock_after, adjusted_by, approved_by, approved, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        RETURNING seq
    `
	err := postgres.Executor(ctx, r.DB).QueryRowxContext(ctx, query,
		a.ID, a.ItemID, a.VariationID, a.LocationID, a.ChangeAmount, a.Reason, a.Source,
		a.ReferenceID, a.StockBefore, a.StockAfter, a.AdjustedBy, a.ApprovedBy, a.Approved, a.CreatedAt,
	).Scan(&a.Seq)
	if err != nil {
		return postgres.QueryError("failed to log adjustment", err)
	}
	return nil
}

func (r *PGRepository) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.InventoryAdjustment, int, error) {
	items := []model.InventoryAdjustment{}
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ItemID != "" {
		conditions = append(conditions, "item_id = :item_id")
		args["item_id"] = f.ItemID
	}
	if f.VariationID != "" {
		conditions = append(conditions, "variation_id = :variation_id")
		args["variation_id"] = f.VariationID
	}
	if f.LocationID != "" {
		conditions = append(conditions, "location_id = :location_id")
		args["location_id"] = f.LocationID
	}
	if f.Source != "" {
		conditions = append(conditions, "source = :source")
		args["source"] = f.Source
	}
	if f.ReferenceID != "" {
		conditions = append(conditions, "reference_id = :reference_id")
		args["reference_id"] = f.ReferenceID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	if err := r.namedGet(ctx, &count, "SELECT count(*) FROM inventory_adjustments"+whereClause, args); err != nil {
		return nil, 0, postgres.QueryError("count adjustments", err)
	}

	query := "SELECT * FROM inventory_adjustments" + whereClause + " ORDER BY seq DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	if err := r.namedSelect(ctx, &items, query, args); err != nil {
		return nil, 0, postgres.QueryError("list adjustments", err)
	}
	return items, count, nil
}

func (r *PGRepository) ListAdjustmentsForKey(ctx context.Context, variationID, locationID string) ([]model.InventoryAdjustment, error) {
	items := []model.InventoryAdjustment{}
	query := `SELECT * FROM inventory_adjustments WHERE variation_id = $1 AND location_id = $2 ORDER BY seq ASC`
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, query, variationID, locationID); err != nil {
		return nil, postgres.QueryError("list adjustments for key", err)
	}
	return items, nil
}

func (r *PGRepository) namedSelect(ctx context.Context, dest interface{}, query string, arg map[string]interface{}) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	ex := postgres.Executor(ctx, r.DB)
	return sqlx.SelectContext(ctx, ex, dest, ex.Rebind(q), args...)
}

func (r *PGRepository) namedGet(ctx context.Context, dest interface{}, query string, arg map[string]interface{}) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	ex := postgres.Executor(ctx, r.DB)
	return sqlx.GetContext(ctx, ex, dest, ex.Rebind(q), args...)
}
