package purchasing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item kinds carried on order and reception lines.
type ItemKind string

const (
	ItemKindProduct     ItemKind = "PRODUCT"
	ItemKindRawMaterial ItemKind = "RAW_MATERIAL"
)

// Condition recorded per received line.
type LineCondition string

const (
	ConditionConforming LineCondition = "CONFORMING"
	ConditionPartial    LineCondition = "PARTIAL"
	ConditionDamaged    LineCondition = "DAMAGED"
	ConditionMissing    LineCondition = "MISSING"
)

// Purchase order lifecycle statuses.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusReceived  OrderStatus = "RECEIVED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order priorities.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "LOW"
	PriorityMedium OrderPriority = "MEDIUM"
	PriorityHigh   OrderPriority = "HIGH"
)

// Payment statuses derived by ResolvePayment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

// Reception statuses derived by Reconcile.
type ReceptionStatus string

const (
	ReceptionStatusReceived ReceptionStatus = "RECEIVED"
	ReceptionStatusProblem  ReceptionStatus = "PROBLEM"
)

// Shipment-level condition. Conforming and PartiallyConforming are derived
// from line conformity; NonConforming and Damaged are operator-entered and
// allowed to diverge from the per-line signal.
type OverallCondition string

const (
	OverallConforming          OverallCondition = "CONFORMING"
	OverallPartiallyConforming OverallCondition = "PARTIALLY_CONFORMING"
	OverallNonConforming       OverallCondition = "NON_CONFORMING"
	OverallDamaged             OverallCondition = "DAMAGED"
)

// LineItem is a single product or material entry inside an order or a
// reception. QtyReceived and Condition are only meaningful in reception
// context.
type LineItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Kind        ItemKind        `json:"kind"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	QtyOrdered  int64           `json:"qty_ordered"`
	QtyReceived int64           `json:"qty_received"`
	Condition   LineCondition   `json:"condition,omitempty"`
}

// PurchaseOrder domain model. TotalAmount is a cache of
// LineTotal(Lines, QuantityOrdered) and is re-derived on every line mutation,
// never hand-edited.
type PurchaseOrder struct {
	ID             int64           `json:"id"`
	Number         string          `json:"number"`
	SupplierID     int64           `json:"supplier_id"`
	Manager        string          `json:"manager"`
	Status         OrderStatus     `json:"status"`
	Priority       OrderPriority   `json:"priority"`
	ExpirationDate time.Time       `json:"expiration_date"`
	Lines          []LineItem      `json:"lines,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Payment domain model. Status and RemainingAmount are caches of the
// ResolvePayment derivation.
type Payment struct {
	ID              int64           `json:"id"`
	Number          string          `json:"number"`
	SupplierID      int64           `json:"supplier_id"`
	OrderID         int64           `json:"order_id"`
	InvoiceRef      string          `json:"invoice_ref"`
	DueAmount       decimal.Decimal `json:"due_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          PaymentStatus   `json:"status"`
	DueDate         time.Time       `json:"due_date"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentEvent is one applied payment against a Payment.
type PaymentEvent struct {
	ID        int64           `json:"id"`
	PaymentID int64           `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidAt    time.Time       `json:"paid_at"`
}

// Reception domain model, recorded against exactly one order. Historical
// record: edits re-run reconciliation but never change OrderID.
type Reception struct {
	ID               int64            `json:"id"`
	Number           string           `json:"number"`
	OrderID          int64            `json:"order_id"`
	Lines            []LineItem       `json:"lines,omitempty"`
	OverallCondition OverallCondition `json:"overall_condition"`
	Status           ReceptionStatus  `json:"status"`
	TotalReceived    decimal.Decimal  `json:"total_received"`
	ReceivedAt       time.Time        `json:"received_at"`
}

var (
	// ErrNotFound indicates record missing.
	ErrNotFound = errors.New("purchasing: not found")
	// ErrInvalidState occurs when action violates status workflow.
	ErrInvalidState = errors.New("purchasing: invalid state transition")
	// ErrValidation indicates malformed or out-of-range input.
	ErrValidation = errors.New("purchasing: invalid input")
	// ErrIntegrity indicates a cross-record data fault.
	ErrIntegrity = errors.New("purchasing: integrity fault")
)

// ValidationError carries field context for out-of-range input. It unwraps to
// ErrValidation so callers can match with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("purchasing: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// IntegrityError reports a reception line that references no order line.
type IntegrityError struct {
	LineID string
	Reason string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("purchasing: line %s: %s", e.LineID, e.Reason)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }
