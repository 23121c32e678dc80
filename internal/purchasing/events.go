package purchasing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// OrderReceivedEvent captures a posted reception for downstream consumers.
type OrderReceivedEvent struct {
	ReceptionID int64
	Number      string
	OrderID     int64
	Status      ReceptionStatus
	Total       decimal.Decimal
	ReceivedAt  time.Time
}

// PaymentSettledEvent signals a payment reaching PAID.
type PaymentSettledEvent struct {
	PaymentID int64
	Number    string
	OrderID   int64
	Amount    decimal.Decimal
	PaidAt    time.Time
}

// IntegrationHandler receives purchasing domain events, e.g. for ledger
// postings or notification fan-out. Handlers must tolerate re-delivery.
type IntegrationHandler interface {
	HandleOrderReceived(ctx context.Context, evt OrderReceivedEvent) error
	HandlePaymentSettled(ctx context.Context, evt PaymentSettledEvent) error
}
