package dto

import "github.com/spicehut/storefront/internal/store"

type CheckoutRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentMethod string `json:"payment_method"`
}

type CheckoutResponse struct {
	Order      store.Order `json:"order"`
	Summary    string      `json:"summary"`
	MessageURL string      `json:"message_url,omitempty"`
}

type OrdersResponse struct {
	Orders []store.Order `json:"orders"`
}
