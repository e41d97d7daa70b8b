package store

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIncompleteDetails = errors.New("name, phone and delivery address are required")
	ErrNoPaymentMethod   = errors.New("a payment method must be selected")
)

// CheckoutState tracks where the orchestrator is in the
// Idle -> Validating -> Committed/Rejected cycle. Rejected permits
// retry; Committed means an order was recorded and the cart cleared.
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateValidating
	StateCommitted
	StateRejected
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateValidating:
		return "Validating"
	case StateCommitted:
		return "Committed"
	case StateRejected:
		return "Rejected"
	}
	return "Unknown"
}

// Checkout validates cart, delivery details and payment method, then
// appends the order and clears the cart. Append happens strictly before
// clear: a persistence failure on append leaves the cart intact.
type Checkout struct {
	cart   *CartStore
	ledger *OrderLedger

	mu    sync.Mutex
	state CheckoutState
}

func NewCheckout(cart *CartStore, ledger *OrderLedger) *Checkout {
	return &Checkout{cart: cart, ledger: ledger}
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// PlaceOrder runs one checkout attempt. On success the returned order
// carries its assigned id and the cart has been cleared.
func (c *Checkout) PlaceOrder(details DeliveryDetails, method PaymentMethod) (Order, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = StateValidating

	lines, totals := c.cart.Snapshot()
	if len(lines) == 0 {
		return c.reject(ErrEmptyCart)
	}
	if strings.TrimSpace(details.Name) == "" ||
		strings.TrimSpace(details.Phone) == "" ||
		strings.TrimSpace(details.Address) == "" {
		return c.reject(ErrIncompleteDetails)
	}
	if !method.Valid() {
		return c.reject(ErrNoPaymentMethod)
	}

	order := Order{
		Lines:         lines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		DeliveryFee:   totals.DeliveryFee,
		Total:         totals.Total,
		PaymentMethod: method,
		Delivery:      details,
	}

	recorded, err := c.ledger.Append(order)
	if err != nil {
		// The order was not recorded, so the cart must survive.
		return c.reject(err)
	}

	if err := c.cart.Clear(); err != nil {
		// The order is recorded and the in-memory cart is empty; only
		// the mirror write failed. Not worth failing the checkout.
		slog.Error("failed to persist cart clear after checkout", "order_id", recorded.ID, "error", err)
	}

	c.state = StateCommitted
	slog.Info("order committed", "order_id", recorded.ID, "total", recorded.Total, "payment_method", method)
	return recorded, nil
}

func (c *Checkout) reject(err error) (Order, error) {
	c.state = StateRejected
	return Order{}, err
}
