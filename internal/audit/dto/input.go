package dto

type CreateAuditInput struct {
	ItemID      string `validate:"required"`
	VariationID string `validate:"required"`
	LocationID  string `validate:"required"`
	ActualStock int    `validate:"gte=0,lte=2147483647"`
	// RecordedStock is the snapshot the counter saw. When nil the live stock
	// level is read at creation time.
	RecordedStock *int `validate:"omitempty,gte=-2147483647,lte=2147483647"`
}

type UpdateAuditInput struct {
	ID          string `validate:"required"`
	ActualStock int    `validate:"gte=0,lte=2147483647"`
}
