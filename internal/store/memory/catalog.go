package memory

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (s *Store) GetVariation(ctx context.Context, id string) (*model.Variation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.variations[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *Store) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locations[id]
	if !ok {
		return nil, nil
	}
	return &loc, nil
}

func (s *Store) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Location{}
	for _, loc := range s.locations {
		if activeOnly && !loc.IsActive {
			continue
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
