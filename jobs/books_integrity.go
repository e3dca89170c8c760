package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/bahikhata-erp/bahikhata/internal/books"
)

// VoucherSource lists vouchers for the integrity sweep.
type VoucherSource interface {
	Vouchers(ctx context.Context, filter books.VoucherFilter) ([]books.Voucher, error)
}

// BooksIntegrityJob revalidates the voucher balance invariant over a window.
// Corrupt vouchers are reported through the log so the posting side can be
// repaired before the drift reaches a report.
type BooksIntegrityJob struct {
	Vouchers VoucherSource
	Logger   *slog.Logger
	clock    func() time.Time
}

// NewBooksIntegrityJob wires dependencies for the integrity handler.
func NewBooksIntegrityJob(src VoucherSource, logger *slog.Logger) *BooksIntegrityJob {
	return &BooksIntegrityJob{
		Vouchers: src,
		Logger:   logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (j *BooksIntegrityJob) window(payload BooksIntegrityPayload) (time.Time, time.Time, error) {
	now := j.clock()
	year := now.Year()
	if now.Month() < time.April {
		year--
	}
	from := time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Millisecond)
	if payload.From != "" {
		parsed, err := time.Parse("2006-01-02", payload.From)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if payload.To != "" {
		parsed, err := time.Parse("2006-01-02", payload.To)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999000000, time.UTC)
	}
	return from, to, nil
}

// Handle processes integrity sweep tasks.
func (j *BooksIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Vouchers == nil {
		return errors.New("books integrity: handler not configured")
	}
	var payload BooksIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	from, to, err := j.window(payload)
	if err != nil {
		return asynq.SkipRetry
	}

	vouchers, err := j.Vouchers.Vouchers(ctx, books.VoucherFilter{From: from, To: to})
	if err != nil {
		return err
	}
	var corrupt int
	for _, v := range vouchers {
		if err := v.Validate(); err != nil {
			corrupt++
			j.logger().Error("voucher failed integrity check",
				slog.Int64("voucher_id", v.ID),
				slog.Int64("voucher_number", v.Number),
				slog.Any("error", err))
		}
	}
	j.logger().Info("books integrity sweep finished",
		slog.Int("vouchers", len(vouchers)),
		slog.Int("corrupt", corrupt))
	return nil
}

func (j *BooksIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
