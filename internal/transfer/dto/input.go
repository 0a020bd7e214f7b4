package dto

import (
	"time"

	"github.com/fekuna/omnipos-stock-service/internal/model"
)

type CreateTransferInput struct {
	ItemID         string `validate:"required"`
	VariationID    string `validate:"required"`
	FromLocationID string `validate:"required"`
	ToLocationID   string `validate:"required"`
	Quantity       int    `validate:"gt=0,lte=2147483647"`
	Notes          string
	TransferDate   *time.Time
}

// UpdateTransferInput changes only the fields that are set.
type UpdateTransferInput struct {
	ID             string `validate:"required"`
	ItemID         *string
	VariationID    *string
	FromLocationID *string
	ToLocationID   *string
	Quantity       *int `validate:"omitempty,gt=0,lte=2147483647"`
	Notes          *string
	TransferDate   *time.Time
}

type TransitionTransferInput struct {
	ID     string               `validate:"required"`
	Status model.TransferStatus `validate:"required"`
}
