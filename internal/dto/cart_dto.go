package dto

import "github.com/spicehut/storefront/internal/store"

type AddItemRequest struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Category  string  `json:"category"`
	ImageRef  string  `json:"image_ref"`
	Quantity  int     `json:"quantity"`
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Lines  []store.CartLine `json:"lines"`
	Count  int              `json:"count"`
	Totals store.Totals     `json:"totals"`
}
