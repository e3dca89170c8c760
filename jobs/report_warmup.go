package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata-erp/bahikhata/internal/reports"
)

// ReportWarmupJob pre-populates the report cache with the batch reports that
// are expensive to compute on first request.
type ReportWarmupJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handler.
func NewReportWarmupJob(svc *reports.Service, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Reports: svc,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes report warmup tasks. Individual report failures are
// logged and do not abort the remaining warmups.
func (j *ReportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload ReportWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	preset := reports.Preset(payload.Preset)
	if preset == "" {
		preset = reports.PresetFinancialYear
	}
	rng, err := j.Reports.Resolve(preset, "", "")
	if err != nil {
		return asynq.SkipRetry
	}

	logger := j.logger().With(slog.String("preset", string(preset)))
	started := j.clock()

	warmups := []struct {
		name string
		run  func(context.Context) error
	}{
		{"trial balance", func(ctx context.Context) error {
			_, err := j.Reports.TrialBalance(ctx, rng)
			return err
		}},
		{"ledger abstract", func(ctx context.Context) error {
			_, err := j.Reports.LedgerAbstract(ctx, rng)
			return err
		}},
		{"cash book", func(ctx context.Context) error {
			_, err := j.Reports.CashBook(ctx, rng)
			return err
		}},
		{"receipts ledger-wise", func(ctx context.Context) error {
			_, err := j.Reports.ReceiptsLedgerWise(ctx, rng)
			return err
		}},
		{"gst summary", func(ctx context.Context) error {
			_, err := j.Reports.GSTSummary(ctx, rng)
			return err
		}},
	}

	var failed int
	for _, w := range warmups {
		if err := w.run(ctx); err != nil {
			failed++
			logger.Warn("report warmup failed", slog.String("report", w.name), slog.Any("error", err))
		}
	}
	logger.Info("report warmup finished",
		slog.Int("reports", len(warmups)),
		slog.Int("failed", failed),
		slog.Duration("elapsed", j.clock().Sub(started)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
