package model

import "time"

type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusResolved AuditStatus = "resolved"
)

// AuditAction is a requested change to an audit.
type AuditAction string

const (
	AuditActionEdit    AuditAction = "edit"
	AuditActionResolve AuditAction = "resolve"
	AuditActionDelete  AuditAction = "delete"
)

// NextAuditStatus is the single place that decides which audit actions are
// legal. It returns the status the audit ends up in and whether the action is
// allowed from the current status.
func NextAuditStatus(current AuditStatus, action AuditAction) (AuditStatus, bool) {
	switch current {
	case AuditStatusPending:
		switch action {
		case AuditActionEdit, AuditActionDelete:
			return AuditStatusPending, true
		case AuditActionResolve:
			return AuditStatusResolved, true
		}
	case AuditStatusResolved:
		// terminal
		return AuditStatusResolved, false
	}
	return current, false
}

// InventoryAudit compares a recorded stock snapshot with a physical count.
type InventoryAudit struct {
	ID            string      `db:"id" json:"id"`
	ItemID        string      `db:"item_id" json:"item_id"`
	VariationID   string      `db:"variation_id" json:"variation_id"`
	LocationID    string      `db:"location_id" json:"location_id"`
	RecordedStock int         `db:"recorded_stock" json:"recorded_stock"`
	ActualStock   int         `db:"actual_stock" json:"actual_stock"`
	Discrepancy   int         `db:"discrepancy" json:"discrepancy"`
	Status        AuditStatus `db:"status" json:"status"`
	AuditedBy     string      `db:"audited_by" json:"audited_by"`
	ResolvedBy    *string     `db:"resolved_by" json:"resolved_by,omitempty"`
	AdjustmentID  *string     `db:"adjustment_id" json:"adjustment_id,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
	ResolvedAt    *time.Time  `db:"resolved_at" json:"resolved_at,omitempty"`
}

// Recount sets a new physical count; the recorded snapshot never moves.
func (a *InventoryAudit) Recount(actual int) {
	a.ActualStock = actual
	a.Discrepancy = actual - a.RecordedStock
}
