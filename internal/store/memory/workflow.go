package memory

import (
	"context"
	"fmt"
	"sort"

	auditdto "github.com/fekuna/omnipos-stock-service/internal/audit/dto"
	"github.com/fekuna/omnipos-stock-service/internal/model"
	transferdto "github.com/fekuna/omnipos-stock-service/internal/transfer/dto"
)

// Audits

func (s *Store) CreateAudit(ctx context.Context, a *model.InventoryAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[a.ID]; ok {
		return fmt.Errorf("audit %s already exists", a.ID)
	}
	s.audits[a.ID] = *a
	return nil
}

func (s *Store) GetAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.audits[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *Store) LockAudit(ctx context.Context, id string) (*model.InventoryAudit, error) {
	return s.GetAudit(ctx, id)
}

func (s *Store) UpdateAudit(ctx context.Context, a *model.InventoryAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[a.ID]; !ok {
		return fmt.Errorf("audit %s does not exist", a.ID)
	}
	s.audits[a.ID] = *a
	return nil
}

func (s *Store) DeleteAudit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.audits, id)
	return nil
}

func (s *Store) ListAudits(ctx context.Context, f *auditdto.AuditFilters) ([]model.InventoryAudit, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.InventoryAudit{}
	for _, a := range s.audits {
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if f.VariationID != "" && a.VariationID != f.VariationID {
			continue
		}
		if f.LocationID != "" && a.LocationID != f.LocationID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

// Transfers

func (s *Store) CreateTransfer(ctx context.Context, t *model.InventoryTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; ok {
		return fmt.Errorf("transfer %s already exists", t.ID)
	}
	s.transfers[t.ID] = *t
	return nil
}

func (s *Store) GetTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (s *Store) LockTransfer(ctx context.Context, id string) (*model.InventoryTransfer, error) {
	return s.GetTransfer(ctx, id)
}

func (s *Store) UpdateTransfer(ctx context.Context, t *model.InventoryTransfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		return fmt.Errorf("transfer %s does not exist", t.ID)
	}
	s.transfers[t.ID] = *t
	return nil
}

func (s *Store) ListTransfers(ctx context.Context, f *transferdto.TransferFilters) ([]model.InventoryTransfer, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.InventoryTransfer{}
	for _, t := range s.transfers {
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.VariationID != "" && t.VariationID != f.VariationID {
			continue
		}
		if f.LocationID != "" && t.FromLocationID != f.LocationID && t.ToLocationID != f.LocationID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TransferDate.Equal(out[j].TransferDate) {
			return out[i].TransferDate.After(out[j].TransferDate)
		}
		return out[i].ID < out[j].ID
	})
	return paginate(out, f.Page, f.PageSize), len(out), nil
}

// Bundle components

func (s *Store) ListComponents(ctx context.Context, bundleItemID string) ([]model.BundleComponent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.BundleComponent{}
	for _, c := range s.components {
		if c.BundleItemID == bundleItemID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ComponentVariationID < out[j].ComponentVariationID
	})
	return out, nil
}

func (s *Store) InsertComponent(ctx context.Context, c *model.BundleComponent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.components {
		if existing.BundleItemID == c.BundleItemID && existing.ComponentVariationID == c.ComponentVariationID {
			return fmt.Errorf("component %s already in bundle %s", c.ComponentVariationID, c.BundleItemID)
		}
	}
	s.components[c.ID] = *c
	return nil
}

func (s *Store) DeleteComponent(ctx context.Context, bundleItemID, componentVariationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.components {
		if c.BundleItemID == bundleItemID && c.ComponentVariationID == componentVariationID {
			delete(s.components, id)
			return true, nil
		}
	}
	return false, nil
}
