package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportWarmup pre-computes the heavy period reports into the cache.
	TaskReportWarmup = "reports:warmup"
	// TaskCacheInvalidate bumps the report cache version after postings.
	TaskCacheInvalidate = "reports:cache:invalidate"
	// TaskBooksIntegrity revalidates voucher balance invariants over a window.
	TaskBooksIntegrity = "books:integrity"
)

// ReportWarmupPayload selects the reporting window to warm. An empty preset
// warms the current financial year.
type ReportWarmupPayload struct {
	Preset string `json:"preset,omitempty"`
}

// NewReportWarmupTask constructs an Asynq task for report cache warmup.
func NewReportWarmupTask(payload ReportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportWarmup, data), nil
}

// NewCacheInvalidateTask constructs an Asynq task that rotates the report
// cache version.
func NewCacheInvalidateTask() *asynq.Task {
	return asynq.NewTask(TaskCacheInvalidate, nil)
}

// BooksIntegrityPayload bounds the voucher window to revalidate. Empty dates
// cover the current financial year.
type BooksIntegrityPayload struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// NewBooksIntegrityTask constructs an Asynq task for the integrity sweep.
func NewBooksIntegrityTask(payload BooksIntegrityPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBooksIntegrity, data), nil
}
