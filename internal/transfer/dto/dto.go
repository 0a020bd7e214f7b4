package dto

type TransferFilters struct {
	Status string
	// LocationID matches either end of the transfer.
	LocationID  string
	VariationID string
	Page        int
	PageSize    int
}
