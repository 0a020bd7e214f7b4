package dto

type AuditFilters struct {
	Status      string
	VariationID string
	LocationID  string
	Page        int
	PageSize    int
}
