package purchasing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*chi.Mux, *Service) {
	t.Helper()
	svc, _ := newTestService()
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
	r := chi.NewRouter()
	r.Route("/purchasing", h.MountRoutes)
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateOrder(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/purchasing/orders", map[string]any{
		"supplier_id": 1,
		"manager":     "dewi",
		"priority":    "HIGH",
		"lines": []map[string]any{
			{"line_id": "P1", "name": "Pump unit", "kind": "PRODUCT", "unit_price": "2500", "qty": 2},
			{"line_id": "M1", "name": "Steel rod", "kind": "RAW_MATERIAL", "unit_price": "15", "qty": 10},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order PurchaseOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, OrderStatusPending, order.Status)
	require.Equal(t, "5150", order.TotalAmount.String())
}

func TestHandlerCreateOrderValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// Missing manager and empty lines.
	rec := doJSON(t, router, http.MethodPost, "/purchasing/orders", map[string]any{
		"supplier_id": 1,
		"lines":       []map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")

	// Unknown field rejected.
	rec = doJSON(t, router, http.MethodPost, "/purchasing/orders", map[string]any{
		"manager": "dewi",
		"total":   999,
		"lines":   []map[string]any{{"line_id": "P1", "name": "x", "kind": "PRODUCT", "unit_price": "1", "qty": 1}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerOrderLifecycle(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, defaultOrderInput())
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/purchasing/orders/%d/submit", order.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Second submit hits the state guard.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/purchasing/orders/%d/submit", order.ID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/purchasing/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/purchasing/orders/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerReceptionFlow(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, defaultOrderInput())
	require.NoError(t, err)
	require.NoError(t, svc.SubmitOrder(ctx, order.ID))

	rec := doJSON(t, router, http.MethodPost, "/purchasing/receptions", map[string]any{
		"order_id": order.ID,
		"lines": []map[string]any{
			{"line_id": "P1", "qty": 2, "condition": "CONFORMING"},
			{"line_id": "M1", "qty": 8, "condition": "PARTIAL"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Reception      Reception       `json:"reception"`
		Reconciliation ReconcileResult `json:"reconciliation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, ReceptionStatusProblem, resp.Reception.Status)
	require.Equal(t, "5120", resp.Reception.TotalReceived.String())
	require.Len(t, resp.Reconciliation.PerLine, 2)

	// Reception line without a matching order line.
	rec = doJSON(t, router, http.MethodPost, "/purchasing/receptions", map[string]any{
		"order_id": order.ID,
		"lines":    []map[string]any{{"line_id": "X9", "qty": 1, "condition": "CONFORMING"}},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandlerApplyPayment(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, defaultOrderInput())
	require.NoError(t, err)
	require.NoError(t, svc.SubmitOrder(ctx, order.ID))
	payment, err := svc.InvoiceOrder(ctx, InvoiceOrderInput{OrderID: order.ID, InvoiceRef: "INV-9"})
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/purchasing/payments/%d/apply", payment.ID), map[string]any{
		"amount": "150",
		"method": "TRANSFER",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var got Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, PaymentStatusPartial, got.Status)
	require.Equal(t, "5000", got.RemainingAmount.String())

	// Over-remaining application maps to 400.
	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/purchasing/payments/%d/apply", payment.ID), map[string]any{
		"amount": "99999",
		"method": "TRANSFER",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerSummary(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, defaultOrderInput())
	require.NoError(t, err)
	require.NoError(t, svc.SubmitOrder(ctx, order.ID))

	rec := doJSON(t, router, http.MethodGet, "/purchasing/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.OrdersByStatus[OrderStatusOrdered])
}
