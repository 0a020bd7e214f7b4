package dto

import "time"

type StockFilters struct {
	VariationID string
	LocationID  string
	// MaxStock keeps only rows with stock <= *MaxStock.
	MaxStock *int
	Page     int
	PageSize int
}

type AdjustmentFilters struct {
	ItemID      string
	VariationID string
	LocationID  string
	Source      string
	ReferenceID string
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}
