package store

import (
	"fmt"
	"strconv"
	"strings"
)

const summaryDivider = "--------------------------------"

// OrderSummary encodes an order as the flat text block sent through the
// outbound messaging channel. Section order is fixed: customer details,
// itemized lines, totals, payment method. Tax and total always carry
// two decimals; subtotal, delivery and line amounts stay integer unless
// fractional.
func OrderSummary(order Order) string {
	var b strings.Builder

	b.WriteString("*New Order from Website*\n\n")

	b.WriteString("*Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", order.Delivery.Name)
	fmt.Fprintf(&b, "Phone: %s\n", order.Delivery.Phone)
	fmt.Fprintf(&b, "Address: %s\n\n", order.Delivery.Address)

	b.WriteString("*Order Summary:*\n")
	for _, line := range order.Lines {
		amount := line.UnitPrice * float64(line.Quantity)
		fmt.Fprintf(&b, "- %s x %d (₹%s)\n", line.Name, line.Quantity, formatAmount(amount))
	}
	b.WriteString("\n")

	b.WriteString(summaryDivider + "\n")
	fmt.Fprintf(&b, "Subtotal: ₹%s\n", formatAmount(order.Subtotal))
	fmt.Fprintf(&b, "Tax: ₹%.2f\n", order.Tax)
	if order.DeliveryFee == 0 {
		b.WriteString("Delivery: Free\n")
	} else {
		fmt.Fprintf(&b, "Delivery: ₹%s\n", formatAmount(order.DeliveryFee))
	}
	fmt.Fprintf(&b, "*Total Amount: ₹%.2f*\n", order.Total)
	b.WriteString(summaryDivider + "\n")

	fmt.Fprintf(&b, "Payment Method: %s\n", order.PaymentMethod.Label())

	b.WriteString("\nPlease confirm this order!")

	return b.String()
}

// formatAmount renders whole amounts without decimals and fractional
// ones with the shortest exact representation.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
