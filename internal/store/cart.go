package store

import (
	"errors"
	"sync"

	"github.com/spicehut/storefront/internal/config"
	"github.com/spicehut/storefront/internal/kvstore"
)

// Item identifies a product that can be added to the cart.
type Item struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Category  string  `json:"category"`
	ImageRef  string  `json:"image_ref"`
}

// CartLine is one distinct product entry with its quantity. Lines are
// unique by ItemID; adding an existing item merges quantities.
type CartLine struct {
	Item
	Quantity int `json:"quantity"`
}

// Pricing holds the derivation constants.
type Pricing struct {
	TaxRate          float64
	DeliveryFee      float64
	FreeDeliveryOver float64
}

func PricingFromConfig(cfg *config.Config) Pricing {
	return Pricing{
		TaxRate:          cfg.TaxRate,
		DeliveryFee:      cfg.DeliveryFee,
		FreeDeliveryOver: cfg.FreeDeliveryOver,
	}
}

// Totals is a consistent point-in-time pricing derivation.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Tax         float64 `json:"tax"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// CartStore owns the line items of the in-progress order. All pricing is
// derived from the live lines on every read; nothing is cached.
type CartStore struct {
	kv      kvstore.Store
	pricing Pricing

	mu    sync.Mutex
	lines []CartLine
}

func NewCartStore(kv kvstore.Store, pricing Pricing) *CartStore {
	c := &CartStore{kv: kv, pricing: pricing}
	loadSnapshot(kv, kvstore.KeyCartLines, &c.lines)
	return c
}

// AddItem merges quantity into an existing line for the same item, or
// appends a new line at the end so insertion order is preserved.
func (c *CartStore) AddItem(item Item, quantity int) error {
	if quantity < 1 {
		return errors.New("quantity must be a positive integer")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ItemID {
			c.lines[i].Quantity += quantity
			return c.persist()
		}
	}
	c.lines = append(c.lines, CartLine{Item: item, Quantity: quantity})
	return c.persist()
}

// RemoveItem drops the line for itemID. Absent items are a no-op.
func (c *CartStore) RemoveItem(itemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(itemID)
}

// SetQuantity overwrites the quantity on the matching line. A quantity
// of zero or less removes the line; the cart never holds one.
func (c *CartStore) SetQuantity(itemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.removeLocked(itemID)
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			return c.persist()
		}
	}
	return nil
}

// Clear empties the cart.
func (c *CartStore) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
	return c.persist()
}

func (c *CartStore) removeLocked(itemID string) error {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

func (c *CartStore) persist() error {
	return saveSnapshot(c.kv, kvstore.KeyCartLines, c.lines)
}

// Lines returns a snapshot copy of the current lines.
func (c *CartStore) Lines() []CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLinesLocked()
}

// Count is the total quantity across all lines.
func (c *CartStore) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, line := range c.lines {
		count += line.Quantity
	}
	return count
}

func (c *CartStore) Subtotal() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked()
}

func (c *CartStore) TaxAmount() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subtotalLocked() * c.pricing.TaxRate
}

func (c *CartStore) DeliveryFee() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deliveryFeeLocked()
}

func (c *CartStore) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	subtotal := c.subtotalLocked()
	return subtotal + subtotal*c.pricing.TaxRate + c.deliveryFeeLocked()
}

// Totals returns all four derivations computed from one view of the
// lines.
func (c *CartStore) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalsLocked()
}

// Snapshot returns the lines and their totals from a single consistent
// view, for checkout.
func (c *CartStore) Snapshot() ([]CartLine, Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyLinesLocked(), c.totalsLocked()
}

func (c *CartStore) subtotalLocked() float64 {
	subtotal := 0.0
	for _, line := range c.lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}
	return subtotal
}

func (c *CartStore) deliveryFeeLocked() float64 {
	if c.subtotalLocked() > c.pricing.FreeDeliveryOver {
		return 0
	}
	return c.pricing.DeliveryFee
}

func (c *CartStore) totalsLocked() Totals {
	subtotal := c.subtotalLocked()
	tax := subtotal * c.pricing.TaxRate
	fee := c.deliveryFeeLocked()
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Total:       subtotal + tax + fee,
	}
}

func (c *CartStore) copyLinesLocked() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}
