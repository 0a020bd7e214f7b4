package model

import "time"

type BaseModel struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Item is a catalog entry. Bundle items carry no authoritative stock of their own.
type Item struct {
	BaseModel
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	IsBundle bool   `db:"is_bundle" json:"is_bundle"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

// Variation is a sellable SKU of an item.
type Variation struct {
	BaseModel
	ItemID   string `db:"item_id" json:"item_id"`
	SKU      string `db:"sku" json:"sku"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type Location struct {
	BaseModel
	Code     string `db:"code" json:"code"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
