package purchasing

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentResolution is the derived state of a payment.
type PaymentResolution struct {
	Status    PaymentStatus
	Remaining decimal.Decimal
}

// ResolvePayment derives a payment's status and remaining balance from the
// paid and due amounts. First match wins:
//
//	paid == 0          -> PENDING, or OVERDUE when the due date has lapsed
//	paid <  due        -> PARTIAL
//	paid >= due        -> PAID, remaining floored at 0
//
// Overdue is re-derived on every call rather than kept as a stored flag, so a
// PENDING payment whose due date lapses flips to OVERDUE the next time it is
// resolved. Over-payment is rejected with a ValidationError instead of being
// silently capped.
func ResolvePayment(paid, due decimal.Decimal, dueDate, today time.Time) (PaymentResolution, error) {
	if due.IsNegative() {
		return PaymentResolution{}, &ValidationError{Field: "dueAmount", Reason: "must not be negative"}
	}
	if paid.IsNegative() {
		return PaymentResolution{}, &ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	if paid.GreaterThan(due) {
		return PaymentResolution{}, &ValidationError{Field: "paidAmount", Reason: "exceeds due amount"}
	}

	remaining := due.Sub(paid)
	switch {
	case paid.IsZero() && due.GreaterThan(decimal.Zero):
		status := PaymentStatusPending
		if !dueDate.IsZero() && dueDate.Before(today) {
			status = PaymentStatusOverdue
		}
		return PaymentResolution{Status: status, Remaining: remaining}, nil
	case paid.LessThan(due):
		return PaymentResolution{Status: PaymentStatusPartial, Remaining: remaining}, nil
	default:
		return PaymentResolution{Status: PaymentStatusPaid, Remaining: decimal.Zero}, nil
	}
}

// PaymentEventInput is a single payment application.
type PaymentEventInput struct {
	Amount decimal.Decimal
	Date   time.Time
	Method string
}

// ApplyPayment applies an incremental payment event and re-runs the resolver.
// It returns a new Payment value; the input is never mutated. The event is
// rejected when the amount is non-positive, exceeds the remaining balance, or
// the payment is already settled.
func ApplyPayment(p Payment, event PaymentEventInput, today time.Time) (Payment, error) {
	if p.Status == PaymentStatusPaid {
		return Payment{}, ErrInvalidState
	}
	if !event.Amount.GreaterThan(decimal.Zero) {
		return Payment{}, &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if event.Amount.GreaterThan(p.RemainingAmount) {
		return Payment{}, &ValidationError{Field: "amount", Reason: "exceeds remaining balance"}
	}

	next := p
	next.PaidAmount = p.PaidAmount.Add(event.Amount)
	res, err := ResolvePayment(next.PaidAmount, next.DueAmount, next.DueDate, today)
	if err != nil {
		return Payment{}, err
	}
	next.Status = res.Status
	next.RemainingAmount = res.Remaining
	if res.Status == PaymentStatusPaid {
		paidAt := event.Date
		if paidAt.IsZero() {
			paidAt = today
		}
		next.PaidAt = &paidAt
	}
	return next, nil
}
