package dto

type OrderLine struct {
	VariationID string `validate:"required"`
	Quantity    int    `validate:"gt=0,lte=2147483647"`
}

// DeductOrderInput is a completed order. An empty LocationID lets each line
// draw from whichever locations hold stock.
type DeductOrderInput struct {
	OrderID    string      `validate:"required"`
	LocationID string
	Lines      []OrderLine `validate:"required,min=1,dive"`
}
