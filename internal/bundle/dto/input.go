package dto

type AddComponentInput struct {
	BundleItemID         string `validate:"required"`
	ComponentVariationID string `validate:"required"`
	Quantity             int    `validate:"gte=1,lte=2147483647"`
	DisplayOrder         int
	IsHighlight          bool
}

// DeductBundleInput sells Quantity units of a bundle. An empty LocationID
// draws every component from whichever locations hold it.
type DeductBundleInput struct {
	BundleVariationID string `validate:"required"`
	Quantity          int    `validate:"gt=0,lte=2147483647"`
	LocationID        string
	OrderID           string
}
