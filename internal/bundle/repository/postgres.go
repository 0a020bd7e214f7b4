package repository

import (
	"context"

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

func (r *PGRepository) ListComponents(ctx context.Context, bundleItemID string) ([]model.BundleComponent, error) {
	components := []model.BundleComponent{}
	query := `
        SELECT * FROM bundle_components
        WHERE bundle_item_id = $1
        ORDER BY display_order ASC, component_variation_id ASC
    `
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &components, query, bundleItemID); err != nil {
		return nil, postgres.QueryError("list bundle components", err)
	}
	return components, nil
}

func (r *PGRepository) InsertComponent(ctx context.Context, c *model.BundleComponent) error {
	query := `
        INSERT INTO bundle_components (
            id, bundle_item_id, component_variation_id, quantity, display_order, is_highlight, created_at
        )
        VALUES (:id, :bundle_item_id, :component_variation_id, :quantity, :display_order, :is_highlight, :created_at)
    `
	if _, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, c); err != nil {
		return postgres.QueryError("failed to add bundle component", err)
	}
	return nil
}

func (r *PGRepository) DeleteComponent(ctx context.Context, bundleItemID, componentVariationID string) (bool, error) {
	query := `DELETE FROM bundle_components WHERE bundle_item_id = $1 AND component_variation_id = $2`
	res, err := postgres.Executor(ctx, r.DB).ExecContext(ctx, query, bundleItemID, componentVariationID)
	if err != nil {
		return false, postgres.QueryError("failed to remove bundle component", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
