package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/monowai/beancounter-sub001/internal/domain/port"
)

// RevaluationJob values every portfolio as at today. It is run on a schedule.
type RevaluationJob struct {
	portfolios port.PortfolioRepository
	value      *ValuePositions
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewRevaluationJob creates a RevaluationJob. timeout bounds a whole run.
func NewRevaluationJob(portfolios port.PortfolioRepository, value *ValuePositions, timeout time.Duration, logger *slog.Logger) *RevaluationJob {
	return &RevaluationJob{portfolios: portfolios, value: value, timeout: timeout, logger: logger, now: time.Now}
}

// Name identifies the job in scheduler logs.
func (j *RevaluationJob) Name() string { return "revaluation" }

// Run values each portfolio in turn. One portfolio failing does not stop the
// others; all failures are returned joined.
func (j *RevaluationJob) Run() error {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	portfolios, err := j.portfolios.List(ctx)
	if err != nil {
		return fmt.Errorf("list portfolios: %w", err)
	}

	asAt := asAtOrToday(time.Time{}, j.now)
	var errs []error
	valued := 0
	for _, p := range portfolios {
		if _, err := j.value.Value(ctx, p, asAt); err != nil {
			j.logger.Error("revaluation failed", "portfolio", p.Code(), "error", err)
			errs = append(errs, err)
			continue
		}
		valued++
	}
	j.logger.Info("revaluation complete", "valued", valued, "failed", len(errs))
	return errors.Join(errs...)
}
