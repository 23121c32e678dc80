package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/procura-erp/procura-erp/internal/observability"
	"github.com/procura-erp/procura-erp/internal/purchasing"
)

// SummaryWarmupJob recomputes the dashboard summary ahead of demand so the
// first poll after an invalidation does not pay the aggregation cost.
type SummaryWarmupJob struct {
	Service *purchasing.Service
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewSummaryWarmupJob initialises the warmup handler.
func NewSummaryWarmupJob(service *purchasing.Service, logger *slog.Logger, metrics *observability.Metrics) *SummaryWarmupJob {
	return &SummaryWarmupJob{Service: service, Logger: logger, Metrics: metrics}
}

// Handle executes the warmup.
func (j *SummaryWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("summary warmup: handler not configured")
	}
	logger := j.logger()
	summary, err := j.Service.OutstandingSummary(ctx, time.Now().UTC())
	if err != nil {
		j.Metrics.ObserveJob(TaskSummaryWarmup, "error")
		logger.Error("summary warmup failed", slog.Any("error", err))
		return err
	}
	j.Metrics.ObserveJob(TaskSummaryWarmup, "success")
	logger.Info("summary warmed",
		slog.Int("problems_open", summary.ProblemsOpen),
		slog.String("outstanding", summary.Outstanding.String()),
	)
	return nil
}

func (j *SummaryWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskSummaryWarmup))
	}
	return slog.Default().With(slog.String("job", TaskSummaryWarmup))
}
