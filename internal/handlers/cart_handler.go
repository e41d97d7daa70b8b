package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spicehut/storefront/internal/dto"
	"github.com/spicehut/storefront/internal/store"
)

type CartHandler struct {
	cart *store.CartStore
}

func NewCartHandler(cart *store.CartStore) *CartHandler {
	return &CartHandler{cart: cart}
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.cartResponse())
}

func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req dto.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.ItemID == "" || req.UnitPrice < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "item_id is required and unit_price must not be negative",
		})
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	item := store.Item{
		ItemID:    req.ItemID,
		Name:      req.Name,
		UnitPrice: req.UnitPrice,
		Category:  req.Category,
		ImageRef:  req.ImageRef,
	}
	if err := h.cart.AddItem(item, quantity); err != nil {
		return h.cartError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(h.cartResponse())
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var req dto.SetQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	if err := h.cart.SetQuantity(c.Params("id"), req.Quantity); err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(h.cartResponse())
}

func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	if err := h.cart.RemoveItem(c.Params("id")); err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(h.cartResponse())
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.cart.Clear(); err != nil {
		return h.cartError(c, err)
	}
	return c.JSON(h.cartResponse())
}

func (h *CartHandler) cartResponse() dto.CartResponse {
	return dto.CartResponse{
		Lines:  h.cart.Lines(),
		Count:  h.cart.Count(),
		Totals: h.cart.Totals(),
	}
}

func (h *CartHandler) cartError(c *fiber.Ctx, err error) error {
	if errors.Is(err, store.ErrWriteFailed) {
		// In-memory cart already holds the change; only the mirror
		// write failed.
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Cart updated but could not be persisted",
		})
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: err.Error(),
	})
}
