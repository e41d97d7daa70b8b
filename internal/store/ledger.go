package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/spicehut/storefront/internal/kvstore"
)

// PaymentMethod is the closed set of accepted payment options.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "cod"
	PaymentUPI            PaymentMethod = "upi"
	PaymentCard           PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// Label is the human-readable form used in the order summary.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCashOnDelivery:
		return "Cash on Delivery"
	case PaymentUPI:
		return "UPI"
	case PaymentCard:
		return "Card"
	}
	return string(m)
}

type OrderStatus string

// Confirmed is the only status an order can reach here; there is no
// fulfilment pipeline behind the ledger.
const OrderConfirmed OrderStatus = "Confirmed"

// DeliveryDetails is the contact snapshot taken at checkout time.
type DeliveryDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is an immutable record of a completed checkout. Lines and
// delivery details are copies, not references into the live stores.
type Order struct {
	ID            string          `json:"id"`
	Lines         []CartLine      `json:"lines"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	DeliveryFee   float64         `json:"delivery_fee"`
	Total         float64         `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Delivery      DeliveryDetails `json:"delivery"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderLedger is the append-only record of finalized orders. Stored
// most-recent-last, listed most-recent-first.
type OrderLedger struct {
	kv kvstore.Store

	mu     sync.Mutex
	orders []Order
	seq    int
}

func NewOrderLedger(kv kvstore.Store) *OrderLedger {
	l := &OrderLedger{kv: kv}
	loadSnapshot(kv, kvstore.KeyOrderLedger, &l.orders)
	// Restore the id sequence past everything already persisted, so ids
	// stay unique across restarts.
	l.seq = len(l.orders)
	return l
}

// Append assigns an order id, stamps creation time and status, and
// persists the ledger. It returns the stamped snapshot that was
// recorded. If the persist fails the in-memory append is rolled back so
// a failed checkout cannot half-commit.
func (l *OrderLedger) Append(order Order) (Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().UTC()
	l.seq++
	order.ID = fmt.Sprintf("ORD-%d-%d", now.UnixMilli(), l.seq)
	order.CreatedAt = now
	order.Status = OrderConfirmed
	order.Lines = copyLines(order.Lines)

	l.orders = append(l.orders, order)
	if err := saveSnapshot(l.kv, kvstore.KeyOrderLedger, l.orders); err != nil {
		l.orders = l.orders[:len(l.orders)-1]
		l.seq--
		return Order{}, err
	}
	return order, nil
}

// List returns all orders most-recent-first. The returned orders are
// snapshots; mutating them does not touch the ledger.
func (l *OrderLedger) List() []Order {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Order, 0, len(l.orders))
	for i := len(l.orders) - 1; i >= 0; i-- {
		order := l.orders[i]
		order.Lines = copyLines(order.Lines)
		out = append(out, order)
	}
	return out
}

// Len reports the number of recorded orders.
func (l *OrderLedger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.orders)
}

func copyLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
