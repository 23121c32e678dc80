package purchasing

import (
	"github.com/shopspring/decimal"
)

// LineConformity is the per-line outcome of a reconciliation.
type LineConformity struct {
	LineID      string `json:"line_id"`
	Name        string `json:"name"`
	QtyOrdered  int64  `json:"qty_ordered"`
	QtyReceived int64  `json:"qty_received"`
	// Delta is signed: positive means over-delivery, negative under-delivery.
	Delta      int64         `json:"delta"`
	Condition  LineCondition `json:"condition"`
	Conforming bool          `json:"conforming"`
}

// ReconcileResult is the outcome of comparing a reception against its order.
type ReconcileResult struct {
	PerLine []LineConformity `json:"per_line"`
	Status  ReceptionStatus  `json:"status"`
	// DerivedCondition summarises line conformity. The operator may still
	// record a coarser shipment-level condition (NON_CONFORMING, DAMAGED)
	// that diverges from this value.
	DerivedCondition OverallCondition `json:"derived_condition"`
	TotalReceived    decimal.Decimal  `json:"total_received"`
}

// Reconcile compares received quantities and condition per line against the
// ordered quantities, matching lines by ID. An order line absent from the
// reception is treated as received 0 with condition MISSING. A reception line
// that references no order line is a data-integrity fault and is reported,
// never dropped.
func Reconcile(orderLines, receivedLines []LineItem) (ReconcileResult, error) {
	received := make(map[string]LineItem, len(receivedLines))
	for _, rl := range receivedLines {
		received[rl.ID] = rl
	}

	ordered := make(map[string]struct{}, len(orderLines))
	for _, ol := range orderLines {
		ordered[ol.ID] = struct{}{}
	}
	for _, rl := range receivedLines {
		if _, ok := ordered[rl.ID]; !ok {
			return ReconcileResult{}, &IntegrityError{LineID: rl.ID, Reason: "reception references no matching order line"}
		}
	}

	result := ReconcileResult{
		PerLine:       make([]LineConformity, 0, len(orderLines)),
		TotalReceived: decimal.Zero,
	}
	conformingCount := 0
	for _, ol := range orderLines {
		qtyReceived := int64(0)
		condition := ConditionMissing
		price := ol.UnitPrice
		if rl, ok := received[ol.ID]; ok {
			qtyReceived = rl.QtyReceived
			condition = rl.Condition
			if !rl.UnitPrice.IsZero() {
				price = rl.UnitPrice
			}
		}
		conforming := qtyReceived == ol.QtyOrdered && condition == ConditionConforming
		if conforming {
			conformingCount++
		}
		result.PerLine = append(result.PerLine, LineConformity{
			LineID:      ol.ID,
			Name:        ol.Name,
			QtyOrdered:  ol.QtyOrdered,
			QtyReceived: qtyReceived,
			Delta:       qtyReceived - ol.QtyOrdered,
			Condition:   condition,
			Conforming:  conforming,
		})
		result.TotalReceived = result.TotalReceived.Add(price.Mul(decimal.NewFromInt(qtyReceived)))
	}

	switch {
	case conformingCount == len(orderLines):
		result.Status = ReceptionStatusReceived
		result.DerivedCondition = OverallConforming
	case conformingCount > 0:
		result.Status = ReceptionStatusProblem
		result.DerivedCondition = OverallPartiallyConforming
	default:
		result.Status = ReceptionStatusProblem
		result.DerivedCondition = OverallNonConforming
	}
	return result, nil
}
