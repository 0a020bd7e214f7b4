package model

import "time"

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusCompleted TransferStatus = "completed"
)

func (s TransferStatus) Valid() bool {
	switch s {
	case TransferStatusPending, TransferStatusInTransit, TransferStatusCompleted:
		return true
	}
	return false
}

// Editable reports whether item, variation, locations or quantity may change.
func (s TransferStatus) Editable() bool {
	return s != TransferStatusCompleted
}

// CanTransitionTransfer lists every legal move of the transfer lifecycle.
// Completed is terminal; only entering Completed moves stock.
func CanTransitionTransfer(from, to TransferStatus) bool {
	switch from {
	case TransferStatusPending:
		switch to {
		case TransferStatusInTransit, TransferStatusCompleted:
			return true
		}
	case TransferStatusInTransit:
		switch to {
		case TransferStatusPending, TransferStatusCompleted:
			return true
		}
	case TransferStatusCompleted:
		return false
	}
	return false
}

type InventoryTransfer struct {
	ID             string         `db:"id" json:"id"`
	ItemID         string         `db:"item_id" json:"item_id"`
	VariationID    string         `db:"variation_id" json:"variation_id"`
	FromLocationID string         `db:"from_location_id" json:"from_location_id"`
	ToLocationID   string         `db:"to_location_id" json:"to_location_id"`
	Quantity       int            `db:"quantity" json:"quantity"`
	Status         TransferStatus `db:"status" json:"status"`
	Notes          string         `db:"notes" json:"notes"`
	TransferDate   time.Time      `db:"transfer_date" json:"transfer_date"`
	CreatedBy      string         `db:"created_by" json:"created_by"`
	CompletedBy    *string        `db:"completed_by" json:"completed_by,omitempty"`
	CompletedAt    *time.Time     `db:"completed_at" json:"completed_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}
