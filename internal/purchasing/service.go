package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procura-erp/procura-erp/internal/shared"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetOrder(ctx context.Context, id int64) (PurchaseOrder, error)
	ListOrders(ctx context.Context, limit, offset int, filters OrderFilters) ([]PurchaseOrder, int, error)
	GetPayment(ctx context.Context, id int64) (Payment, error)
	ListPayments(ctx context.Context, limit, offset int, filters PaymentFilters) ([]Payment, int, error)
	ListPaymentEvents(ctx context.Context, paymentID int64) ([]PaymentEvent, error)
	ListOpenPayments(ctx context.Context) ([]Payment, error)
	GetReception(ctx context.Context, id int64) (Reception, error)
	ListReceptions(ctx context.Context, limit, offset int, filters ReceptionFilters) ([]Reception, int, error)
	SupplierExists(ctx context.Context, id int64) (bool, error)
}

// TxRepository exposes transactional operations.
type TxRepository interface {
	CreateOrder(ctx context.Context, order PurchaseOrder) (int64, error)
	InsertOrderLine(ctx context.Context, orderID int64, line LineItem) error
	DeleteOrderLines(ctx context.Context, orderID int64) error
	UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) error
	CreatePayment(ctx context.Context, payment Payment) (int64, error)
	UpdatePaymentState(ctx context.Context, payment Payment) error
	InsertPaymentEvent(ctx context.Context, event PaymentEvent) error
	CreateReception(ctx context.Context, rec Reception) (int64, error)
	InsertReceptionLine(ctx context.Context, receptionID int64, line LineItem) error
	DeleteReceptionLines(ctx context.Context, receptionID int64) error
	UpdateReceptionState(ctx context.Context, rec Reception) error
}

// IdempotencyPort reused from shared.
type IdempotencyPort interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Service orchestrates purchasing flows. All derived state (order totals,
// payment status, reception conformity) goes through the pure functions in
// totals.go, resolve.go and reconcile.go; stored fields are caches that are
// always re-derived, never hand-edited.
type Service struct {
	repo        RepositoryPort
	idempotency IdempotencyPort
	events      IntegrationHandler
	summaries   *SummaryCache
}

// NewService constructs the purchasing service.
func NewService(repo RepositoryPort, idem IdempotencyPort, events IntegrationHandler, summaries *SummaryCache) *Service {
	return &Service{repo: repo, idempotency: idem, events: events, summaries: summaries}
}

// OrderLineInput describes one ordered line.
type OrderLineInput struct {
	LineID    string
	Name      string
	Kind      ItemKind
	UnitPrice decimal.Decimal
	Qty       int64
}

// CreateOrderInput describes order creation payload.
type CreateOrderInput struct {
	Number         string
	SupplierID     int64
	Manager        string
	Priority       OrderPriority
	ExpirationDate time.Time
	Lines          []OrderLineInput
}

// OrderFilters narrows order listings.
type OrderFilters struct {
	Status     OrderStatus
	Priority   OrderPriority
	SupplierID int64
	Search     string
}

// PaymentFilters narrows payment listings.
type PaymentFilters struct {
	Status     PaymentStatus
	SupplierID int64
}

// ReceptionFilters narrows reception listings.
type ReceptionFilters struct {
	Status  ReceptionStatus
	OrderID int64
}

func validateOrderLines(lines []OrderLineInput) ([]LineItem, error) {
	if len(lines) == 0 {
		return nil, &ValidationError{Field: "lines", Reason: "at least one line required"}
	}
	seen := make(map[string]struct{}, len(lines))
	items := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		if line.LineID == "" {
			line.LineID = uuid.NewString()
		}
		if _, dup := seen[line.LineID]; dup {
			return nil, &ValidationError{Field: "lines", Reason: fmt.Sprintf("duplicate line id %s", line.LineID)}
		}
		seen[line.LineID] = struct{}{}
		if line.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "required"}
		}
		if line.Kind != ItemKindProduct && line.Kind != ItemKindRawMaterial {
			return nil, &ValidationError{Field: "kind", Reason: "must be PRODUCT or RAW_MATERIAL"}
		}
		if line.UnitPrice.IsNegative() {
			return nil, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
		}
		if line.Qty < 0 {
			return nil, &ValidationError{Field: "qty", Reason: "must not be negative"}
		}
		items = append(items, LineItem{
			ID:         line.LineID,
			Name:       line.Name,
			Kind:       line.Kind,
			UnitPrice:  line.UnitPrice,
			QtyOrdered: line.Qty,
		})
	}
	return items, nil
}

// CreateOrder persists the order header and lines. The total is derived from
// the lines, never taken from the caller.
func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (PurchaseOrder, error) {
	items, err := validateOrderLines(input.Lines)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if input.SupplierID == 0 {
		return PurchaseOrder{}, &ValidationError{Field: "supplierId", Reason: "required"}
	}
	ok, err := s.repo.SupplierExists(ctx, input.SupplierID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if !ok {
		return PurchaseOrder{}, &ValidationError{Field: "supplierId", Reason: "unknown supplier"}
	}
	if input.Number == "" {
		input.Number = generateNumber("PO")
	}
	order := PurchaseOrder{
		Number:         input.Number,
		SupplierID:     input.SupplierID,
		Manager:        input.Manager,
		Status:         OrderStatusPending,
		Priority:       defaultPriority(input.Priority),
		ExpirationDate: input.ExpirationDate,
		Lines:          items,
		TotalAmount:    LineTotal(items, QuantityOrdered),
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id
		for _, line := range items {
			if err := tx.InsertOrderLine(ctx, id, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.invalidateSummary(ctx)
	return order, nil
}

// UpdateOrderLines replaces the lines of a pending order and re-derives the
// total. Quantities are fixed after submission; prices are mutable only while
// the order is still PENDING.
func (s *Service) UpdateOrderLines(ctx context.Context, orderID int64, lines []OrderLineInput) (PurchaseOrder, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	if order.Status != OrderStatusPending {
		return PurchaseOrder{}, ErrInvalidState
	}
	items, err := validateOrderLines(lines)
	if err != nil {
		return PurchaseOrder{}, err
	}
	order.Lines = items
	order.TotalAmount = LineTotal(items, QuantityOrdered)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteOrderLines(ctx, orderID); err != nil {
			return err
		}
		for _, line := range items {
			if err := tx.InsertOrderLine(ctx, orderID, line); err != nil {
				return err
			}
		}
		return tx.UpdateOrderTotal(ctx, orderID, order.TotalAmount)
	})
	if err != nil {
		return PurchaseOrder{}, err
	}
	s.invalidateSummary(ctx)
	return order, nil
}

// SubmitOrder transitions PENDING to ORDERED. Prices freeze here.
func (s *Service) SubmitOrder(ctx context.Context, orderID int64) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status != OrderStatusPending {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateOrderStatus(ctx, orderID, OrderStatusOrdered)
	})
	if err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// CancelOrder cancels an order that has not been received yet.
func (s *Service) CancelOrder(ctx context.Context, orderID int64) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == OrderStatusReceived || order.Status == OrderStatusCancelled {
		return ErrInvalidState
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		return tx.UpdateOrderStatus(ctx, orderID, OrderStatusCancelled)
	})
	if err != nil {
		return err
	}
	s.invalidateSummary(ctx)
	return nil
}

// InvoiceOrderInput describes invoicing payload.
type InvoiceOrderInput struct {
	OrderID    int64
	InvoiceRef string
	Number     string
	DueDate    time.Time
	AsOf       time.Time
}

// InvoiceOrder opens a supplier payment for an ordered PO. The due amount is
// the order total; the initial status comes from the resolver, so an invoice
// created with a past due date starts OVERDUE.
func (s *Service) InvoiceOrder(ctx context.Context, input InvoiceOrderInput) (Payment, error) {
	order, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return Payment{}, err
	}
	if order.Status != OrderStatusOrdered && order.Status != OrderStatusReceived {
		return Payment{}, ErrInvalidState
	}
	if input.DueDate.IsZero() {
		input.DueDate = defaultTime(input.AsOf).AddDate(0, 0, 30)
	}
	asOf := defaultTime(input.AsOf)
	res, err := ResolvePayment(decimal.Zero, order.TotalAmount, input.DueDate, asOf)
	if err != nil {
		return Payment{}, err
	}
	payment := Payment{
		Number:          defaultString(input.Number, generateNumber("PAY")),
		SupplierID:      order.SupplierID,
		OrderID:         order.ID,
		InvoiceRef:      input.InvoiceRef,
		DueAmount:       order.TotalAmount,
		PaidAmount:      decimal.Zero,
		RemainingAmount: res.Remaining,
		Status:          res.Status,
		DueDate:         input.DueDate,
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreatePayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		return nil
	})
	if err != nil {
		return Payment{}, err
	}
	s.invalidateSummary(ctx)
	return payment, nil
}

// RegisterPaymentInput describes an incremental payment application.
type RegisterPaymentInput struct {
	PaymentID int64
	Amount    decimal.Decimal
	Date      time.Time
	Method    string
	AsOf      time.Time
}

// RegisterPayment applies a payment event and persists the re-derived state
// together with the event row.
func (s *Service) RegisterPayment(ctx context.Context, input RegisterPaymentInput) (Payment, error) {
	current, err := s.repo.GetPayment(ctx, input.PaymentID)
	if err != nil {
		return Payment{}, err
	}
	asOf := defaultTime(input.AsOf)
	next, err := ApplyPayment(current, PaymentEventInput{Amount: input.Amount, Date: input.Date, Method: input.Method}, asOf)
	if err != nil {
		return Payment{}, err
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.InsertPaymentEvent(ctx, PaymentEvent{
			PaymentID: current.ID,
			Amount:    input.Amount,
			Method:    input.Method,
			PaidAt:    defaultTime(input.Date),
		}); err != nil {
			return err
		}
		return tx.UpdatePaymentState(ctx, next)
	})
	if err != nil {
		return Payment{}, err
	}
	if next.Status == PaymentStatusPaid && s.events != nil {
		_ = s.events.HandlePaymentSettled(ctx, PaymentSettledEvent{
			PaymentID: next.ID,
			Number:    next.Number,
			OrderID:   next.OrderID,
			Amount:    next.DueAmount,
			PaidAt:    defaultTime(input.Date),
		})
	}
	s.invalidateSummary(ctx)
	return next, nil
}

// ReceptionLineInput reports one received line.
type ReceptionLineInput struct {
	LineID    string
	Qty       int64
	Condition LineCondition
	UnitPrice decimal.Decimal
}

// RecordReceptionInput describes reception payload.
type RecordReceptionInput struct {
	OrderID    int64
	Number     string
	ReceivedAt time.Time
	// Condition optionally records the operator's shipment-level verdict
	// (NON_CONFORMING or DAMAGED). Left empty, the derived summary is used.
	Condition OverallCondition
	Lines     []ReceptionLineInput
}

// RecordReception reconciles received lines against the order and persists
// the reception as a historical record. A fully conforming reception closes
// the order as RECEIVED.
func (s *Service) RecordReception(ctx context.Context, input RecordReceptionInput) (Reception, ReconcileResult, error) {
	order, err := s.repo.GetOrder(ctx, input.OrderID)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	if order.Status != OrderStatusOrdered {
		return Reception{}, ReconcileResult{}, ErrInvalidState
	}
	receivedLines, err := buildReceptionLines(order.Lines, input.Lines)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	result, err := Reconcile(order.Lines, receivedLines)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	if input.Number == "" {
		input.Number = generateNumber("REC")
	}

	rec := Reception{
		Number:           input.Number,
		OrderID:          order.ID,
		Lines:            receivedLines,
		OverallCondition: overallFrom(input.Condition, result.DerivedCondition),
		Status:           result.Status,
		TotalReceived:    result.TotalReceived,
		ReceivedAt:       defaultTime(input.ReceivedAt),
	}

	key := fmt.Sprintf("REC:%s", uuid.NewSHA1(uuid.Nil, []byte(fmt.Sprintf("%d:%s", order.ID, rec.Number))))
	inserted := false
	if s.idempotency != nil {
		if err := s.idempotency.CheckAndInsert(ctx, key, "purchasing.reception"); err != nil {
			return Reception{}, ReconcileResult{}, err
		}
		inserted = true
	}
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		id, err := tx.CreateReception(ctx, rec)
		if err != nil {
			return err
		}
		rec.ID = id
		for _, line := range receivedLines {
			if err := tx.InsertReceptionLine(ctx, id, line); err != nil {
				return err
			}
		}
		if result.Status == ReceptionStatusReceived {
			return tx.UpdateOrderStatus(ctx, order.ID, OrderStatusReceived)
		}
		return nil
	})
	if err != nil {
		if inserted {
			_ = s.idempotency.Delete(ctx, key)
		}
		return Reception{}, ReconcileResult{}, err
	}
	if s.events != nil {
		_ = s.events.HandleOrderReceived(ctx, OrderReceivedEvent{
			ReceptionID: rec.ID,
			Number:      rec.Number,
			OrderID:     order.ID,
			Status:      rec.Status,
			Total:       rec.TotalReceived,
			ReceivedAt:  rec.ReceivedAt,
		})
	}
	s.invalidateSummary(ctx)
	return rec, result, nil
}

// EditReception replaces the lines of an existing reception and re-runs the
// reconciliation. The order reference never changes.
func (s *Service) EditReception(ctx context.Context, receptionID int64, condition OverallCondition, lines []ReceptionLineInput) (Reception, ReconcileResult, error) {
	rec, err := s.repo.GetReception(ctx, receptionID)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	order, err := s.repo.GetOrder(ctx, rec.OrderID)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	receivedLines, err := buildReceptionLines(order.Lines, lines)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	result, err := Reconcile(order.Lines, receivedLines)
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	rec.Lines = receivedLines
	rec.Status = result.Status
	rec.TotalReceived = result.TotalReceived
	rec.OverallCondition = overallFrom(condition, result.DerivedCondition)
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		if err := tx.DeleteReceptionLines(ctx, receptionID); err != nil {
			return err
		}
		for _, line := range receivedLines {
			if err := tx.InsertReceptionLine(ctx, receptionID, line); err != nil {
				return err
			}
		}
		return tx.UpdateReceptionState(ctx, rec)
	})
	if err != nil {
		return Reception{}, ReconcileResult{}, err
	}
	s.invalidateSummary(ctx)
	return rec, result, nil
}

// buildReceptionLines merges reported quantities into the order's line
// identities so name, kind and price travel with the reception record.
func buildReceptionLines(orderLines []LineItem, inputs []ReceptionLineInput) ([]LineItem, error) {
	byID := make(map[string]LineItem, len(orderLines))
	for _, ol := range orderLines {
		byID[ol.ID] = ol
	}
	lines := make([]LineItem, 0, len(inputs))
	for _, in := range inputs {
		ol, ok := byID[in.LineID]
		if !ok {
			return nil, &IntegrityError{LineID: in.LineID, Reason: "reception references no matching order line"}
		}
		if in.Qty < 0 {
			return nil, &ValidationError{Field: "qtyReceived", Reason: "must not be negative"}
		}
		switch in.Condition {
		case ConditionConforming, ConditionPartial, ConditionDamaged, ConditionMissing:
		default:
			return nil, &ValidationError{Field: "condition", Reason: "unknown condition"}
		}
		price := ol.UnitPrice
		if !in.UnitPrice.IsZero() {
			if in.UnitPrice.IsNegative() {
				return nil, &ValidationError{Field: "unitPrice", Reason: "must not be negative"}
			}
			price = in.UnitPrice
		}
		lines = append(lines, LineItem{
			ID:          ol.ID,
			Name:        ol.Name,
			Kind:        ol.Kind,
			UnitPrice:   price,
			QtyOrdered:  ol.QtyOrdered,
			QtyReceived: in.Qty,
			Condition:   in.Condition,
		})
	}
	return lines, nil
}

func overallFrom(operator, derived OverallCondition) OverallCondition {
	if operator == OverallNonConforming || operator == OverallDamaged {
		return operator
	}
	return derived
}

// GetOrder loads an order with its lines.
func (s *Service) GetOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	return s.repo.GetOrder(ctx, id)
}

// ListOrders returns a page of orders plus the total count.
func (s *Service) ListOrders(ctx context.Context, limit, offset int, filters OrderFilters) ([]PurchaseOrder, int, error) {
	limit, offset = shared.ClampPage(limit, offset)
	return s.repo.ListOrders(ctx, limit, offset, filters)
}

// GetPayment loads one payment.
func (s *Service) GetPayment(ctx context.Context, id int64) (Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// ListPayments returns a page of payments plus the total count.
func (s *Service) ListPayments(ctx context.Context, limit, offset int, filters PaymentFilters) ([]Payment, int, error) {
	limit, offset = shared.ClampPage(limit, offset)
	return s.repo.ListPayments(ctx, limit, offset, filters)
}

// ListPaymentEvents returns the applied events of one payment.
func (s *Service) ListPaymentEvents(ctx context.Context, paymentID int64) ([]PaymentEvent, error) {
	return s.repo.ListPaymentEvents(ctx, paymentID)
}

// GetReception loads one reception with its lines.
func (s *Service) GetReception(ctx context.Context, id int64) (Reception, error) {
	return s.repo.GetReception(ctx, id)
}

// ListReceptions returns a page of receptions plus the total count.
func (s *Service) ListReceptions(ctx context.Context, limit, offset int, filters ReceptionFilters) ([]Reception, int, error) {
	limit, offset = shared.ClampPage(limit, offset)
	return s.repo.ListReceptions(ctx, limit, offset, filters)
}

// RefreshOverdue re-derives the stored status of open payments so SQL-sorted
// list views agree with the resolver. Returns the number of payments flipped
// to OVERDUE.
func (s *Service) RefreshOverdue(ctx context.Context, asOf time.Time) (int, error) {
	asOf = defaultTime(asOf)
	payments, err := s.repo.ListOpenPayments(ctx)
	if err != nil {
		return 0, err
	}
	flipped := 0
	for _, p := range payments {
		res, err := ResolvePayment(p.PaidAmount, p.DueAmount, p.DueDate, asOf)
		if err != nil {
			return flipped, err
		}
		if res.Status == p.Status {
			continue
		}
		p.Status = res.Status
		p.RemainingAmount = res.Remaining
		update := p
		err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
			return tx.UpdatePaymentState(ctx, update)
		})
		if err != nil {
			return flipped, err
		}
		flipped++
	}
	if flipped > 0 {
		s.invalidateSummary(ctx)
	}
	return flipped, nil
}

// Summary aggregates dashboard counters.
type Summary struct {
	OrdersByStatus   map[OrderStatus]int   `json:"orders_by_status"`
	PaymentsByStatus map[PaymentStatus]int `json:"payments_by_status"`
	Outstanding      decimal.Decimal       `json:"outstanding"`
	Overdue          decimal.Decimal       `json:"overdue"`
	ProblemsOpen     int                   `json:"problems_open"`
	AsOf             time.Time             `json:"as_of"`
}

// OutstandingSummary computes dashboard counters, cached in Redis when a
// summary cache is configured.
func (s *Service) OutstandingSummary(ctx context.Context, asOf time.Time) (Summary, error) {
	asOf = defaultTime(asOf)
	if s.summaries != nil {
		if cached, ok := s.summaries.Get(ctx); ok {
			return cached, nil
		}
	}
	summary, err := s.computeSummary(ctx, asOf)
	if err != nil {
		return Summary{}, err
	}
	if s.summaries != nil {
		s.summaries.Put(ctx, summary)
	}
	return summary, nil
}

func (s *Service) computeSummary(ctx context.Context, asOf time.Time) (Summary, error) {
	summary := Summary{
		OrdersByStatus:   make(map[OrderStatus]int),
		PaymentsByStatus: make(map[PaymentStatus]int),
		Outstanding:      decimal.Zero,
		Overdue:          decimal.Zero,
		AsOf:             asOf,
	}
	orders, _, err := s.repo.ListOrders(ctx, shared.MaxPageSize, 0, OrderFilters{})
	if err != nil {
		return Summary{}, err
	}
	for _, o := range orders {
		summary.OrdersByStatus[o.Status]++
	}
	payments, err := s.repo.ListOpenPayments(ctx)
	if err != nil {
		return Summary{}, err
	}
	for _, p := range payments {
		res, err := ResolvePayment(p.PaidAmount, p.DueAmount, p.DueDate, asOf)
		if err != nil {
			return Summary{}, err
		}
		summary.PaymentsByStatus[res.Status]++
		summary.Outstanding = summary.Outstanding.Add(res.Remaining)
		if res.Status == PaymentStatusOverdue {
			summary.Overdue = summary.Overdue.Add(res.Remaining)
		}
	}
	receptions, _, err := s.repo.ListReceptions(ctx, shared.MaxPageSize, 0, ReceptionFilters{Status: ReceptionStatusProblem})
	if err != nil {
		return Summary{}, err
	}
	summary.ProblemsOpen = len(receptions)
	return summary, nil
}

func (s *Service) invalidateSummary(ctx context.Context) {
	if s.summaries != nil {
		s.summaries.Invalidate(ctx)
	}
}

func generateNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func defaultPriority(p OrderPriority) OrderPriority {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

func defaultString(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultTime(value time.Time) time.Time {
	if value.IsZero() {
		return time.Now()
	}
	return value
}
