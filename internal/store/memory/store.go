// Package memory is an in-process implementation of every repository and of
// database.TxManager. Transactions are serialized and roll back by restoring
// a snapshot, which keeps usecase tests free of a running Postgres.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
	"github.com/google/uuid"
)

type Store struct {
	// txMu serializes transactions; mu guards the maps below.
	txMu sync.Mutex
	mu   sync.RWMutex

	items       map[string]model.Item
	variations  map[string]model.Variation
	locations   map[string]model.Location
	stock       map[stockKey]model.StockLevel
	adjustments []model.InventoryAdjustment
	audits      map[string]model.InventoryAudit
	transfers   map[string]model.InventoryTransfer
	components  map[string]model.BundleComponent
	seq         int64

	now func() time.Time
}

type stockKey struct {
	variationID string
	locationID  string
}

func New() *Store {
	return &Store{
		items:      map[string]model.Item{},
		variations: map[string]model.Variation{},
		locations:  map[string]model.Location{},
		stock:      map[stockKey]model.StockLevel{},
		audits:     map[string]model.InventoryAudit{},
		transfers:  map[string]model.InventoryTransfer{},
		components: map[string]model.BundleComponent{},
		now:        time.Now,
	}
}

type txKey struct{}

// WithTx runs fn with exclusive access to the store. When fn fails, or ctx is
// cancelled before fn returns, every write made inside fn is undone.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(context.WithValue(ctx, txKey{}, true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	items       map[string]model.Item
	variations  map[string]model.Variation
	locations   map[string]model.Location
	stock       map[stockKey]model.StockLevel
	adjustments []model.InventoryAdjustment
	audits      map[string]model.InventoryAudit
	transfers   map[string]model.InventoryTransfer
	components  map[string]model.BundleComponent
	seq         int64
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		items:       maps.Clone(s.items),
		variations:  maps.Clone(s.variations),
		locations:   maps.Clone(s.locations),
		stock:       maps.Clone(s.stock),
		adjustments: slices.Clone(s.adjustments),
		audits:      maps.Clone(s.audits),
		transfers:   maps.Clone(s.transfers),
		components:  maps.Clone(s.components),
		seq:         s.seq,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = snap.items
	s.variations = snap.variations
	s.locations = snap.locations
	s.stock = snap.stock
	s.adjustments = snap.adjustments
	s.audits = snap.audits
	s.transfers = snap.transfers
	s.components = snap.components
	s.seq = snap.seq
}

// Seed helpers

func (s *Store) AddItem(id, name string, isBundle bool) model.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	item := model.Item{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		SKU:       id,
		Name:      name,
		IsBundle:  isBundle,
		IsActive:  true,
	}
	s.items[id] = item
	return item
}

func (s *Store) AddVariation(id, itemID, name string) model.Variation {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	v := model.Variation{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		ItemID:    itemID,
		SKU:       id,
		Name:      name,
		IsActive:  true,
	}
	s.variations[id] = v
	return v
}

func (s *Store) AddLocation(id, name string) model.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	loc := model.Location{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Code:      id,
		Name:      name,
		IsActive:  true,
	}
	s.locations[id] = loc
	return loc
}

// SetStock writes a stock row directly, bypassing the adjustment log. Tests
// use it to set opening balances.
func (s *Store) SetStock(variationID, locationID string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := stockKey{variationID, locationID}
	level, ok := s.stock[key]
	if !ok {
		level = model.StockLevel{ID: uuid.New().String(), VariationID: variationID, LocationID: locationID}
	}
	level.Stock = stock
	level.UpdatedAt = s.now()
	s.stock[key] = level
}

func paginate[T any](rows []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return rows
	}
	start := (max(page, 1) - 1) * pageSize
	if start >= len(rows) {
		return []T{}
	}
	end := min(start+pageSize, len(rows))
	return rows[start:end]
}
