package purchasing

import "github.com/shopspring/decimal"

// QuantitySelector picks which quantity a line contributes when totalling.
type QuantitySelector func(LineItem) int64

// QuantityOrdered totals order context.
func QuantityOrdered(l LineItem) int64 { return l.QtyOrdered }

// QuantityReceived totals reception context.
func QuantityReceived(l LineItem) int64 { return l.QtyReceived }

// LineTotal sums quantity times unit price over lines. An empty list totals
// zero. Callers clamp quantities and prices to >= 0 before invoking; negative
// values are rejected upstream, not summed here.
func LineTotal(lines []LineItem, qty QuantitySelector) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(qty(line))))
	}
	return total
}
