package purchasing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/procura-erp/procura-erp/internal/platform/httpx"
	"github.com/procura-erp/procura-erp/internal/shared"
)

// Handler manages purchasing endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	inflight singleflight.Group
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validate: validator.New()}
}

// MountRoutes registers purchasing routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listOrders)
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/lines", h.updateOrderLines)
		r.Post("/{id}/submit", h.submitOrder)
		r.Post("/{id}/cancel", h.cancelOrder)
		r.Post("/{id}/invoice", h.invoiceOrder)
	})
	r.Route("/payments", func(r chi.Router) {
		r.Get("/", h.listPayments)
		r.Get("/{id}", h.getPayment)
		r.Get("/{id}/events", h.listPaymentEvents)
		r.Post("/{id}/apply", h.applyPayment)
	})
	r.Route("/receptions", func(r chi.Router) {
		r.Get("/", h.listReceptions)
		r.Post("/", h.recordReception)
		r.Get("/{id}", h.getReception)
		r.Put("/{id}", h.editReception)
	})
	r.Get("/summary", h.summary)
}

type orderLinePayload struct {
	LineID    string          `json:"line_id"`
	Name      string          `json:"name" validate:"required"`
	Kind      string          `json:"kind" validate:"required,oneof=PRODUCT RAW_MATERIAL"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Qty       int64           `json:"qty" validate:"min=0"`
}

type createOrderPayload struct {
	Number         string             `json:"number"`
	SupplierID     int64              `json:"supplier_id" validate:"required"`
	Manager        string             `json:"manager" validate:"required"`
	Priority       string             `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	ExpirationDate time.Time          `json:"expiration_date"`
	Lines          []orderLinePayload `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var payload createOrderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input := CreateOrderInput{
		Number:         payload.Number,
		SupplierID:     payload.SupplierID,
		Manager:        payload.Manager,
		Priority:       OrderPriority(payload.Priority),
		ExpirationDate: payload.ExpirationDate,
		Lines:          toLineInputs(payload.Lines),
	}
	order, err := h.service.CreateOrder(r.Context(), input)
	if err != nil {
		h.logger.Warn("create order", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func toLineInputs(payload []orderLinePayload) []OrderLineInput {
	lines := make([]OrderLineInput, 0, len(payload))
	for _, l := range payload {
		lines = append(lines, OrderLineInput{
			LineID:    l.LineID,
			Name:      l.Name,
			Kind:      ItemKind(l.Kind),
			UnitPrice: l.UnitPrice,
			Qty:       l.Qty,
		})
	}
	return lines
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPage(r)
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	filters := OrderFilters{
		Status:     OrderStatus(r.URL.Query().Get("status")),
		Priority:   OrderPriority(r.URL.Query().Get("priority")),
		SupplierID: supplierID,
		Search:     r.URL.Query().Get("search"),
	}
	orders, total, err := h.service.ListOrders(r.Context(), limit, offset, filters)
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": total, "limit": limit, "offset": offset})
}

type updateLinesPayload struct {
	Lines []orderLinePayload `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) updateOrderLines(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	var payload updateLinesPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	order, err := h.service.UpdateOrderLines(r.Context(), id, toLineInputs(payload.Lines))
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, h.service.SubmitOrder)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	h.transitionOrder(w, r, h.service.CancelOrder)
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id int64) error) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	if err := fn(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type invoiceOrderPayload struct {
	InvoiceRef string    `json:"invoice_ref" validate:"required"`
	Number     string    `json:"number"`
	DueDate    time.Time `json:"due_date"`
}

func (h *Handler) invoiceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	var payload invoiceOrderPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment, err := h.service.InvoiceOrder(r.Context(), InvoiceOrderInput{
		OrderID:    id,
		InvoiceRef: payload.InvoiceRef,
		Number:     payload.Number,
		DueDate:    payload.DueDate,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) getPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	payment, err := h.service.GetPayment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPage(r)
	supplierID, _ := strconv.ParseInt(r.URL.Query().Get("supplier_id"), 10, 64)
	filters := PaymentFilters{
		Status:     PaymentStatus(r.URL.Query().Get("status")),
		SupplierID: supplierID,
	}
	payments, total, err := h.service.ListPayments(r.Context(), limit, offset, filters)
	if err != nil {
		h.logger.Error("list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": payments, "total": total, "limit": limit, "offset": offset})
}

func (h *Handler) listPaymentEvents(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	events, err := h.service.ListPaymentEvents(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": events})
}

type applyPaymentPayload struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Method string          `json:"method" validate:"required"`
}

func (h *Handler) applyPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	var payload applyPaymentPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	payment, err := h.service.RegisterPayment(r.Context(), RegisterPaymentInput{
		PaymentID: id,
		Amount:    payload.Amount,
		Date:      payload.Date,
		Method:    payload.Method,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, payment)
}

type receptionLinePayload struct {
	LineID    string          `json:"line_id" validate:"required"`
	Qty       int64           `json:"qty" validate:"min=0"`
	Condition string          `json:"condition" validate:"required,oneof=CONFORMING PARTIAL DAMAGED MISSING"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type recordReceptionPayload struct {
	OrderID    int64                  `json:"order_id" validate:"required"`
	Number     string                 `json:"number"`
	ReceivedAt time.Time              `json:"received_at"`
	Condition  string                 `json:"condition" validate:"omitempty,oneof=NON_CONFORMING DAMAGED"`
	Lines      []receptionLinePayload `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) recordReception(w http.ResponseWriter, r *http.Request) {
	var payload recordReceptionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rec, result, err := h.service.RecordReception(r.Context(), RecordReceptionInput{
		OrderID:    payload.OrderID,
		Number:     payload.Number,
		ReceivedAt: payload.ReceivedAt,
		Condition:  OverallCondition(payload.Condition),
		Lines:      toReceptionInputs(payload.Lines),
	})
	if err != nil {
		h.logger.Warn("record reception", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"reception": rec, "reconciliation": result})
}

func toReceptionInputs(payload []receptionLinePayload) []ReceptionLineInput {
	lines := make([]ReceptionLineInput, 0, len(payload))
	for _, l := range payload {
		lines = append(lines, ReceptionLineInput{
			LineID:    l.LineID,
			Qty:       l.Qty,
			Condition: LineCondition(l.Condition),
			UnitPrice: l.UnitPrice,
		})
	}
	return lines
}

type editReceptionPayload struct {
	Condition string                 `json:"condition" validate:"omitempty,oneof=NON_CONFORMING DAMAGED"`
	Lines     []receptionLinePayload `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) editReception(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	var payload editReceptionPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Body", err.Error())
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	rec, result, err := h.service.EditReception(r.Context(), id, OverallCondition(payload.Condition), toReceptionInputs(payload.Lines))
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"reception": rec, "reconciliation": result})
}

func (h *Handler) getReception(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad ID", err.Error())
		return
	}
	rec, err := h.service.GetReception(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) listReceptions(w http.ResponseWriter, r *http.Request) {
	limit, offset := queryPage(r)
	orderID, _ := strconv.ParseInt(r.URL.Query().Get("order_id"), 10, 64)
	filters := ReceptionFilters{
		Status:  ReceptionStatus(r.URL.Query().Get("status")),
		OrderID: orderID,
	}
	receptions, total, err := h.service.ListReceptions(r.Context(), limit, offset, filters)
	if err != nil {
		h.logger.Error("list receptions", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": receptions, "total": total, "limit": limit, "offset": offset})
}

// summary collapses concurrent recomputes into one flight; the dashboard
// polls this endpoint.
func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	value, err, _ := h.inflight.Do("summary", func() (any, error) {
		return h.service.OutstandingSummary(r.Context(), time.Time{})
	})
	if err != nil {
		h.logger.Error("summary", slog.Any("error", err))
		respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, value)
}

// respondError maps domain errors to RFC7807 responses. Validation faults are
// the caller's to correct (400); integrity faults mean the records disagree
// with each other (422); state-machine violations are conflicts (409).
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrIntegrity):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Integrity Fault", err.Error())
	case errors.Is(err, ErrInvalidState):
		httpx.Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case errors.Is(err, shared.ErrIdempotencyConflict):
		httpx.Problem(w, http.StatusConflict, "Duplicate", err.Error())
	default:
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func queryPage(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return shared.ClampPage(limit, offset)
}
