package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/spicehut/storefront/internal/config"
	"github.com/spicehut/storefront/internal/dto"
	"github.com/spicehut/storefront/internal/store"
)

type OrderHandler struct {
	checkout *store.Checkout
	ledger   *store.OrderLedger
	cfg      *config.Config
}

func NewOrderHandler(checkout *store.Checkout, ledger *store.OrderLedger, cfg *config.Config) *OrderHandler {
	return &OrderHandler{checkout: checkout, ledger: ledger, cfg: cfg}
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	return c.JSON(dto.OrdersResponse{Orders: h.ledger.List()})
}

func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	details := store.DeliveryDetails{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	order, err := h.checkout.PlaceOrder(details, store.PaymentMethod(req.PaymentMethod))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyCart):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, store.ErrIncompleteDetails), errors.Is(err, store.ErrNoPaymentMethod):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, store.ErrWriteFailed):
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Order could not be recorded; your cart is unchanged",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Internal server error",
		})
	}

	summary := store.OrderSummary(order)
	resp := dto.CheckoutResponse{Order: order, Summary: summary}
	if h.cfg.OrderContactPhone != "" {
		resp.MessageURL = "https://wa.me/" + h.cfg.OrderContactPhone +
			"?text=" + url.QueryEscape(summary)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}
