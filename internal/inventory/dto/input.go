package dto

import "github.com/fekuna/omnipos-stock-service/internal/model"

type ApplyAdjustmentInput struct {
	VariationID  string                 `validate:"required"`
	LocationID   string                 `validate:"required"`
	ChangeAmount int                    `validate:"gte=-2147483647,lte=2147483647"`
	Reason       string                 `validate:"required"`
	Source       model.AdjustmentSource `validate:"required"`
	ReferenceID  string
	// AllowNegative lets a correction leave the row below zero.
	AllowNegative bool
	// RequireExisting fails with NotFound instead of creating a zero row.
	RequireExisting bool
}

// DeductAcrossLocationsInput debits a variation from whichever locations hold
// it, largest stock first.
type DeductAcrossLocationsInput struct {
	VariationID string                 `validate:"required"`
	Quantity    int                    `validate:"gt=0,lte=2147483647"`
	Reason      string                 `validate:"required"`
	Source      model.AdjustmentSource `validate:"required"`
	ReferenceID string
}
