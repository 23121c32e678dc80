package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/procura-erp/procura-erp/internal/observability"
	"github.com/procura-erp/procura-erp/internal/purchasing"
)

// OverdueScanJob walks open payments and flips lapsed ones to OVERDUE so
// SQL-sorted list views agree with the resolver without waiting for the next
// per-payment mutation.
type OverdueScanJob struct {
	Service *purchasing.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
	clock   func() time.Time
}

// NewOverdueScanJob initialises the overdue scan handler.
func NewOverdueScanJob(service *purchasing.Service, logger *slog.Logger, metrics *observability.Metrics) *OverdueScanJob {
	return &OverdueScanJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the scan.
func (j *OverdueScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("overdue scan: handler not configured")
	}
	var payload OverdueScanPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	asOf := payload.AsOf
	if asOf.IsZero() {
		asOf = j.now()
	}

	logger := j.logger().With(slog.Time("as_of", asOf))
	logger.Info("starting overdue scan")

	start := j.now()
	flipped, err := j.Service.RefreshOverdue(ctx, asOf)
	if err != nil {
		j.Metrics.ObserveJob(TaskPaymentsOverdueScan, "error")
		logger.Error("overdue scan failed", slog.Any("error", err))
		return err
	}
	j.Metrics.ObserveJob(TaskPaymentsOverdueScan, "success")
	logger.Info("completed overdue scan",
		slog.Int("flipped", flipped),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (j *OverdueScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPaymentsOverdueScan))
	}
	return slog.Default().With(slog.String("job", TaskPaymentsOverdueScan))
}

func (j *OverdueScanJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
