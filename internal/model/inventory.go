package model

import (
	"math"
	"time"
)

// MaxStock bounds every stock count and quantity; the columns are INTEGER.
const MaxStock = math.MaxInt32

// InStockRange reports whether n fits a stock column in either direction.
func InStockRange(n int) bool {
	return n >= -MaxStock && n <= MaxStock
}

// StockLevel is the authoritative count for one (variation, location) pair.
type StockLevel struct {
	ID          string    `db:"id" json:"id"`
	VariationID string    `db:"variation_id" json:"variation_id"`
	LocationID  string    `db:"location_id" json:"location_id"`
	Stock       int       `db:"stock" json:"stock"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// AdjustmentSource records which mutation path produced an adjustment.
type AdjustmentSource string

const (
	AdjustmentSourceManual      AdjustmentSource = "manual"
	AdjustmentSourceAudit       AdjustmentSource = "audit"
	AdjustmentSourceTransferOut AdjustmentSource = "transfer_out"
	AdjustmentSourceTransferIn  AdjustmentSource = "transfer_in"
	AdjustmentSourceBundleSale  AdjustmentSource = "bundle_sale"
	AdjustmentSourceSale        AdjustmentSource = "sale"
)

// InventoryAdjustment is an immutable ledger entry. Rows are only ever inserted.
type InventoryAdjustment struct {
	ID           string           `db:"id" json:"id"`
	Seq          int64            `db:"seq" json:"seq"`
	ItemID       string           `db:"item_id" json:"item_id"`
	VariationID  string           `db:"variation_id" json:"variation_id"`
	LocationID   string           `db:"location_id" json:"location_id"`
	ChangeAmount int              `db:"change_amount" json:"change_amount"`
	Reason       string           `db:"reason" json:"reason"`
	Source       AdjustmentSource `db:"source" json:"source"`
	ReferenceID  *string          `db:"reference_id" json:"reference_id,omitempty"`
	StockBefore  int              `db:"stock_before" json:"stock_before"`
	StockAfter   int              `db:"stock_after" json:"stock_after"`
	AdjustedBy   string           `db:"adjusted_by" json:"adjusted_by"`
	ApprovedBy   *string          `db:"approved_by" json:"approved_by,omitempty"`
	Approved     bool             `db:"approved" json:"approved"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
}

// Balanced reports whether stock_after = stock_before + change_amount.
func (a *InventoryAdjustment) Balanced() bool {
	return a.StockAfter == a.StockBefore+a.ChangeAmount
}

// LedgerReport is the result of folding the adjustment log for one key.
type LedgerReport struct {
	VariationID  string `json:"variation_id"`
	LocationID   string `json:"location_id"`
	Stock        int    `json:"stock"`
	InitialStock int    `json:"initial_stock"`
	FoldedChange int    `json:"folded_change"`
	Adjustments  int    `json:"adjustments"`
	Consistent   bool   `json:"consistent"`
}
