package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/fekuna/omnipos-stock-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
)

func (s *Store) GetStockLevel(ctx context.Context, variationID, locationID string) (*model.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	level, ok := s.stock[stockKey{variationID, locationID}]
	if !ok {
		return nil, nil
	}
	return &level, nil
}

func (s *Store) ListStockLevels(ctx context.Context, f *dto.StockFilters) ([]model.StockLevel, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.StockLevel{}
	for _, l := range s.stock {
		if f.VariationID != "" && l.VariationID != f.VariationID {
			continue
		}
		if f.LocationID != "" && l.LocationID != f.LocationID {
			continue
		}
		if f.MaxStock != nil && l.Stock > *f.MaxStock {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		if out[i].VariationID != out[j].VariationID {
			return out[i].VariationID < out[j].VariationID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (s *Store) ListStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.StockLevel{}
	for _, l := range s.stock {
		if slices.Contains(variationIDs, l.VariationID) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VariationID != out[j].VariationID {
			return out[i].VariationID < out[j].VariationID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, nil
}

// LockStockLevel needs no row lock here; WithTx already holds the store.
func (s *Store) LockStockLevel(ctx context.Context, variationID, locationID string, create bool) (*model.StockLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := stockKey{variationID, locationID}
	level, ok := s.stock[key]
	if !ok {
		if !create {
			return nil, nil
		}
		level = model.StockLevel{
			ID:          uuid.New().String(),
			VariationID: variationID,
			LocationID:  locationID,
			UpdatedAt:   s.now(),
		}
		s.stock[key] = level
	}
	return &level, nil
}

func (s *Store) LockStockLevelsByVariations(ctx context.Context, variationIDs []string) ([]model.StockLevel, error) {
	return s.ListStockLevelsByVariations(ctx, variationIDs)
}

func (s *Store) UpdateStock(ctx context.Context, levelID string, expectedStock, newStock int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, l := range s.stock {
		if l.ID != levelID {
			continue
		}
		if l.Stock != expectedStock {
			return false, nil
		}
		l.Stock = newStock
		l.UpdatedAt = s.now()
		s.stock[key] = l
		return true, nil
	}
	return false, nil
}

func (s *Store) InsertAdjustment(ctx context.Context, a *model.InventoryAdjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	a.Seq = s.seq
	s.adjustments = append(s.adjustments, *a)
	return nil
}

func (s *Store) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.InventoryAdjustment, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.InventoryAdjustment{}
	for i := len(s.adjustments) - 1; i >= 0; i-- {
		a := s.adjustments[i]
		if f.ItemID != "" && a.ItemID != f.ItemID {
			continue
		}
		if f.VariationID != "" && a.VariationID != f.VariationID {
			continue
		}
		if f.LocationID != "" && a.LocationID != f.LocationID {
			continue
		}
		if f.Source != "" && string(a.Source) != f.Source {
			continue
		}
		if f.ReferenceID != "" && (a.ReferenceID == nil || *a.ReferenceID != f.ReferenceID) {
			continue
		}
		if f.StartDate != nil && a.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !a.CreatedAt.Before(*f.EndDate) {
			continue
		}
		out = append(out, a)
	}
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

func (s *Store) ListAdjustmentsForKey(ctx context.Context, variationID, locationID string) ([]model.InventoryAdjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.InventoryAdjustment{}
	for _, a := range s.adjustments {
		if a.VariationID == variationID && a.LocationID == locationID {
			out = append(out, a)
		}
	}
	return out, nil
}
