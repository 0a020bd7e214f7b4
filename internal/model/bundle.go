package model

import "time"

// BundleComponent links a bundle item to one component variation.
type BundleComponent struct {
	ID                   string    `db:"id" json:"id"`
	BundleItemID         string    `db:"bundle_item_id" json:"bundle_item_id"`
	ComponentVariationID string    `db:"component_variation_id" json:"component_variation_id"`
	Quantity             int       `db:"quantity" json:"quantity"`
	DisplayOrder         int       `db:"display_order" json:"display_order"`
	IsHighlight          bool      `db:"is_highlight" json:"is_highlight"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}
