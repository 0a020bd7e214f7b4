package usecase

import (
	"context"

	"github.com/fekuna/omnipos-stock-service/internal/apperr"
	"github.com/fekuna/omnipos-stock-service/internal/catalog"
	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type catalogUseCase struct {
	repo catalog.Repository
}

func NewCatalogUseCase(repo catalog.Repository) catalog.UseCase {
	return &catalogUseCase{repo: repo}
}

func (uc *catalogUseCase) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := uc.repo.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item %s not found", id)
	}
	return item, nil
}

func (uc *catalogUseCase) GetVariation(ctx context.Context, id string) (*model.Variation, error) {
	v, err := uc.repo.GetVariation(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.NotFound("variation %s not found", id)
	}
	return v, nil
}

func (uc *catalogUseCase) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	loc, err := uc.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, apperr.NotFound("location %s not found", id)
	}
	return loc, nil
}

func (uc *catalogUseCase) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	return uc.repo.ListLocations(ctx, activeOnly)
}

func (uc *catalogUseCase) ResolveVariation(ctx context.Context, variationID string) (*model.Variation, *model.Item, error) {
	v, err := uc.GetVariation(ctx, variationID)
	if err != nil {
		return nil, nil, err
	}
	item, err := uc.GetItem(ctx, v.ItemID)
	if err != nil {
		return nil, nil, err
	}
	return v, item, nil
}
