package integration

import (
	"context"
	"log/slog"

	"github.com/procura-erp/procura-erp/internal/observability"
	"github.com/procura-erp/procura-erp/internal/purchasing"
)

// Enqueuer submits warmup work after a purchasing event.
type Enqueuer interface {
	EnqueueSummaryWarmup(ctx context.Context) error
}

// Hooks fans purchasing domain events out to metrics and background work.
// Event delivery is best effort; the triggering transaction has already
// committed.
type Hooks struct {
	logger   *slog.Logger
	metrics  *observability.Metrics
	enqueuer Enqueuer
}

// NewHooks constructs integration hooks.
func NewHooks(logger *slog.Logger, metrics *observability.Metrics, enqueuer Enqueuer) *Hooks {
	return &Hooks{logger: logger, metrics: metrics, enqueuer: enqueuer}
}

// HandleOrderReceived reacts to a posted reception.
func (h *Hooks) HandleOrderReceived(ctx context.Context, evt purchasing.OrderReceivedEvent) error {
	if h == nil {
		return nil
	}
	h.metrics.ObserveReception(string(evt.Status))
	if h.logger != nil {
		h.logger.Info("reception posted",
			slog.Int64("reception_id", evt.ReceptionID),
			slog.Int64("order_id", evt.OrderID),
			slog.String("status", string(evt.Status)),
			slog.String("total", evt.Total.String()),
		)
	}
	h.warmup(ctx)
	return nil
}

// HandlePaymentSettled reacts to a payment reaching PAID.
func (h *Hooks) HandlePaymentSettled(ctx context.Context, evt purchasing.PaymentSettledEvent) error {
	if h == nil {
		return nil
	}
	h.metrics.ObservePaymentApplied(string(purchasing.PaymentStatusPaid))
	if h.logger != nil {
		h.logger.Info("payment settled",
			slog.Int64("payment_id", evt.PaymentID),
			slog.Int64("order_id", evt.OrderID),
			slog.String("amount", evt.Amount.String()),
		)
	}
	h.warmup(ctx)
	return nil
}

func (h *Hooks) warmup(ctx context.Context) {
	if h.enqueuer == nil {
		return
	}
	if err := h.enqueuer.EnqueueSummaryWarmup(ctx); err != nil && h.logger != nil {
		h.logger.Warn("enqueue summary warmup", slog.Any("error", err))
	}
}
