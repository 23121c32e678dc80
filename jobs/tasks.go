package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPaymentsOverdueScan re-derives stored payment statuses.
	TaskPaymentsOverdueScan = "payments:overdue_scan"
	// TaskSummaryWarmup precomputes the dashboard summary.
	TaskSummaryWarmup = "purchasing:summary_warmup"
)

// OverdueScanPayload controls the reference date of the scan. A zero AsOf
// means "now".
type OverdueScanPayload struct {
	AsOf time.Time `json:"as_of"`
}

// NewOverdueScanTask builds an overdue scan task.
func NewOverdueScanTask(asOf time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(OverdueScanPayload{AsOf: asOf})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPaymentsOverdueScan, body, asynq.Queue(QueueDefault)), nil
}

// NewSummaryWarmupTask builds a summary warmup task.
func NewSummaryWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskSummaryWarmup, nil, asynq.Queue(QueueDefault))
}
