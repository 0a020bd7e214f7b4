package repository

import (
	"context"
	"database/sql"
	"errors"

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

func (r *PGRepository) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &item, `SELECT * FROM items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get item", err)
	}
	return &item, nil
}

func (r *PGRepository) GetVariation(ctx context.Context, id string) (*model.Variation, error) {
	var v model.Variation
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &v, `SELECT * FROM variations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get variation", err)
	}
	return &v, nil
}

func (r *PGRepository) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	var loc model.Location
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &loc, `SELECT * FROM locations WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.QueryError("get location", err)
	}
	return &loc, nil
}

func (r *PGRepository) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	query := `SELECT * FROM locations`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name ASC`

	locations := []model.Location{}
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &locations, query); err != nil {
		return nil, postgres.QueryError("list locations", err)
	}
	return locations, nil
}
