package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/procura-erp/procura-erp/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx wraps the callback in a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// numeric conversion helpers: amounts are NUMERIC in PostgreSQL and
// decimal.Decimal in the domain.

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.String())
	return n
}

func fromNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(val.(string))
}

// SupplierExists reports whether the supplier reference is known.
func (r *Repository) SupplierExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// GetOrder retrieves an order with its lines.
func (r *Repository) GetOrder(ctx context.Context, id int64) (PurchaseOrder, error) {
	const query = `
		SELECT id, number, supplier_id, manager, status, priority, expiration_date, total_amount, created_at, updated_at
		FROM purchase_orders
		WHERE id = $1`
	var (
		order PurchaseOrder
		total pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID, &order.Number, &order.SupplierID, &order.Manager, &order.Status,
		&order.Priority, &order.ExpirationDate, &total, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PurchaseOrder{}, ErrNotFound
		}
		return PurchaseOrder{}, err
	}
	if order.TotalAmount, err = fromNumeric(total); err != nil {
		return PurchaseOrder{}, err
	}
	order.Lines, err = r.orderLines(ctx, id)
	if err != nil {
		return PurchaseOrder{}, err
	}
	return order, nil
}

func (r *Repository) orderLines(ctx context.Context, orderID int64) ([]LineItem, error) {
	const query = `
		SELECT line_id, name, kind, unit_price, qty_ordered
		FROM purchase_order_lines
		WHERE order_id = $1
		ORDER BY position`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var (
			line  LineItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&line.ID, &line.Name, &line.Kind, &price, &line.QtyOrdered); err != nil {
			return nil, err
		}
		if line.UnitPrice, err = fromNumeric(price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListOrders returns a page of orders with lines, plus the unpaged count.
func (r *Repository) ListOrders(ctx context.Context, limit, offset int, filters OrderFilters) ([]PurchaseOrder, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	idx := 1
	if filters.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", idx))
		args = append(args, filters.Status)
		idx++
	}
	if filters.Priority != "" {
		conds = append(conds, fmt.Sprintf("priority = $%d", idx))
		args = append(args, filters.Priority)
		idx++
	}
	if filters.SupplierID != 0 {
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", idx))
		args = append(args, filters.SupplierID)
		idx++
	}
	if filters.Search != "" {
		conds = append(conds, fmt.Sprintf("(number ILIKE $%d OR manager ILIKE $%d)", idx, idx))
		args = append(args, "%"+filters.Search+"%")
		idx++
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, number, supplier_id, manager, status, priority, expiration_date, total_amount, created_at, updated_at
		FROM purchase_orders
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		var (
			order    PurchaseOrder
			totalAmt pgtype.Numeric
		)
		if err := rows.Scan(
			&order.ID, &order.Number, &order.SupplierID, &order.Manager, &order.Status,
			&order.Priority, &order.ExpirationDate, &totalAmt, &order.CreatedAt, &order.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		if order.TotalAmount, err = fromNumeric(totalAmt); err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range orders {
		if orders[i].Lines, err = r.orderLines(ctx, orders[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *Repository) scanPayment(row pgx.Row) (Payment, error) {
	var (
		p         Payment
		due       pgtype.Numeric
		paid      pgtype.Numeric
		remaining pgtype.Numeric
	)
	err := row.Scan(
		&p.ID, &p.Number, &p.SupplierID, &p.OrderID, &p.InvoiceRef,
		&due, &paid, &remaining, &p.Status, &p.DueDate, &p.PaidAt, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Payment{}, ErrNotFound
		}
		return Payment{}, err
	}
	if p.DueAmount, err = fromNumeric(due); err != nil {
		return Payment{}, err
	}
	if p.PaidAmount, err = fromNumeric(paid); err != nil {
		return Payment{}, err
	}
	if p.RemainingAmount, err = fromNumeric(remaining); err != nil {
		return Payment{}, err
	}
	return p, nil
}

const paymentColumns = `id, number, supplier_id, order_id, invoice_ref, due_amount, paid_amount, remaining_amount, status, due_date, paid_at, created_at`

// GetPayment retrieves one payment.
func (r *Repository) GetPayment(ctx context.Context, id int64) (Payment, error) {
	return r.scanPayment(r.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
}

// ListPayments returns a page of payments plus the unpaged count.
func (r *Repository) ListPayments(ctx context.Context, limit, offset int, filters PaymentFilters) ([]Payment, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	idx := 1
	if filters.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", idx))
		args = append(args, filters.Status)
		idx++
	}
	if filters.SupplierID != 0 {
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", idx))
		args = append(args, filters.SupplierID)
		idx++
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM payments WHERE %s ORDER BY due_date ASC LIMIT $%d OFFSET $%d`, paymentColumns, where, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// ListOpenPayments returns every payment not yet settled.
func (r *Repository) ListOpenPayments(ctx context.Context) ([]Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE status <> $1 ORDER BY due_date ASC`
	rows, err := r.pool.Query(ctx, query, PaymentStatusPaid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ListPaymentEvents returns applied events, oldest first.
func (r *Repository) ListPaymentEvents(ctx context.Context, paymentID int64) ([]PaymentEvent, error) {
	const query = `
		SELECT id, payment_id, amount, method, paid_at
		FROM payment_events
		WHERE payment_id = $1
		ORDER BY paid_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []PaymentEvent
	for rows.Next() {
		var (
			ev     PaymentEvent
			amount pgtype.Numeric
		)
		if err := rows.Scan(&ev.ID, &ev.PaymentID, &amount, &ev.Method, &ev.PaidAt); err != nil {
			return nil, err
		}
		if ev.Amount, err = fromNumeric(amount); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetReception retrieves one reception with its lines.
func (r *Repository) GetReception(ctx context.Context, id int64) (Reception, error) {
	const query = `
		SELECT id, number, order_id, overall_condition, status, total_received, received_at
		FROM receptions
		WHERE id = $1`
	var (
		rec   Reception
		total pgtype.Numeric
	)
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID, &rec.Number, &rec.OrderID, &rec.OverallCondition, &rec.Status, &total, &rec.ReceivedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Reception{}, ErrNotFound
		}
		return Reception{}, err
	}
	if rec.TotalReceived, err = fromNumeric(total); err != nil {
		return Reception{}, err
	}
	rec.Lines, err = r.receptionLines(ctx, id)
	if err != nil {
		return Reception{}, err
	}
	return rec, nil
}

func (r *Repository) receptionLines(ctx context.Context, receptionID int64) ([]LineItem, error) {
	const query = `
		SELECT line_id, name, kind, unit_price, qty_ordered, qty_received, condition
		FROM reception_lines
		WHERE reception_id = $1
		ORDER BY position`
	rows, err := r.pool.Query(ctx, query, receptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []LineItem
	for rows.Next() {
		var (
			line  LineItem
			price pgtype.Numeric
		)
		if err := rows.Scan(&line.ID, &line.Name, &line.Kind, &price, &line.QtyOrdered, &line.QtyReceived, &line.Condition); err != nil {
			return nil, err
		}
		if line.UnitPrice, err = fromNumeric(price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// ListReceptions returns a page of receptions plus the unpaged count.
func (r *Repository) ListReceptions(ctx context.Context, limit, offset int, filters ReceptionFilters) ([]Reception, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	idx := 1
	if filters.Status != "" {
		conds = append(conds, fmt.Sprintf("status = $%d", idx))
		args = append(args, filters.Status)
		idx++
	}
	if filters.OrderID != 0 {
		conds = append(conds, fmt.Sprintf("order_id = $%d", idx))
		args = append(args, filters.OrderID)
		idx++
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM receptions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, number, order_id, overall_condition, status, total_received, received_at
		FROM receptions
		WHERE %s
		ORDER BY received_at DESC
		LIMIT $%d OFFSET $%d`, where, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var receptions []Reception
	for rows.Next() {
		var (
			rec      Reception
			totalAmt pgtype.Numeric
		)
		if err := rows.Scan(&rec.ID, &rec.Number, &rec.OrderID, &rec.OverallCondition, &rec.Status, &totalAmt, &rec.ReceivedAt); err != nil {
			return nil, 0, err
		}
		if rec.TotalReceived, err = fromNumeric(totalAmt); err != nil {
			return nil, 0, err
		}
		receptions = append(receptions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for i := range receptions {
		if receptions[i].Lines, err = r.receptionLines(ctx, receptions[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return receptions, total, nil
}

// Transactional writes.

func (t *txRepo) CreateOrder(ctx context.Context, order PurchaseOrder) (int64, error) {
	const query = `
		INSERT INTO purchase_orders (number, supplier_id, manager, status, priority, expiration_date, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		order.Number, order.SupplierID, order.Manager, order.Status, order.Priority,
		order.ExpirationDate, toNumeric(order.TotalAmount),
	).Scan(&id)
	return id, err
}

func (t *txRepo) InsertOrderLine(ctx context.Context, orderID int64, line LineItem) error {
	const query = `
		INSERT INTO purchase_order_lines (order_id, line_id, name, kind, unit_price, qty_ordered, position)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE((SELECT MAX(position)+1 FROM purchase_order_lines WHERE order_id = $1), 0))`
	_, err := t.tx.Exec(ctx, query, orderID, line.ID, line.Name, line.Kind, toNumeric(line.UnitPrice), line.QtyOrdered)
	return err
}

func (t *txRepo) DeleteOrderLines(ctx context.Context, orderID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, orderID)
	return err
}

func (t *txRepo) UpdateOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET total_amount = $2, updated_at = NOW() WHERE id = $1`, orderID, toNumeric(total))
	return err
}

func (t *txRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status OrderStatus) error {
	tag, err := t.tx.Exec(ctx, `UPDATE purchase_orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) CreatePayment(ctx context.Context, p Payment) (int64, error) {
	const query = `
		INSERT INTO payments (number, supplier_id, order_id, invoice_ref, due_amount, paid_amount, remaining_amount, status, due_date, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		p.Number, p.SupplierID, p.OrderID, p.InvoiceRef,
		toNumeric(p.DueAmount), toNumeric(p.PaidAmount), toNumeric(p.RemainingAmount),
		p.Status, p.DueDate, p.PaidAt,
	).Scan(&id)
	return id, err
}

func (t *txRepo) UpdatePaymentState(ctx context.Context, p Payment) error {
	const query = `
		UPDATE payments
		SET paid_amount = $2, remaining_amount = $3, status = $4, paid_at = $5
		WHERE id = $1`
	tag, err := t.tx.Exec(ctx, query, p.ID, toNumeric(p.PaidAmount), toNumeric(p.RemainingAmount), p.Status, p.PaidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *txRepo) InsertPaymentEvent(ctx context.Context, ev PaymentEvent) error {
	const query = `
		INSERT INTO payment_events (payment_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4)`
	_, err := t.tx.Exec(ctx, query, ev.PaymentID, toNumeric(ev.Amount), ev.Method, ev.PaidAt)
	return err
}

func (t *txRepo) CreateReception(ctx context.Context, rec Reception) (int64, error) {
	const query = `
		INSERT INTO receptions (number, order_id, overall_condition, status, total_received, received_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int64
	err := t.tx.QueryRow(ctx, query,
		rec.Number, rec.OrderID, rec.OverallCondition, rec.Status, toNumeric(rec.TotalReceived), rec.ReceivedAt,
	).Scan(&id)
	return id, err
}

func (t *txRepo) InsertReceptionLine(ctx context.Context, receptionID int64, line LineItem) error {
	const query = `
		INSERT INTO reception_lines (reception_id, line_id, name, kind, unit_price, qty_ordered, qty_received, condition, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE((SELECT MAX(position)+1 FROM reception_lines WHERE reception_id = $1), 0))`
	_, err := t.tx.Exec(ctx, query, receptionID, line.ID, line.Name, line.Kind, toNumeric(line.UnitPrice), line.QtyOrdered, line.QtyReceived, line.Condition)
	return err
}

func (t *txRepo) DeleteReceptionLines(ctx context.Context, receptionID int64) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM reception_lines WHERE reception_id = $1`, receptionID)
	return err
}

func (t *txRepo) UpdateReceptionState(ctx context.Context, rec Reception) error {
	const query = `
		UPDATE receptions
		SET overall_condition = $2, status = $3, total_received = $4
		WHERE id = $1`
	tag, err := t.tx.Exec(ctx, query, rec.ID, rec.OverallCondition, rec.Status, toNumeric(rec.TotalReceived))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
