package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
)

// Rejection is a transaction skipped during accumulation.
type Rejection struct {
	Trn model.Trn
	Err error
}

// Built is the result of folding a portfolio's transactions.
type Built struct {
	Positions *model.Positions
	Rejected  []Rejection
}

// BuildPositions folds stored transactions into positions. Assets are
// independent, so each asset's transactions are folded on its own goroutine
// in trade-date order.
type BuildPositions struct {
	trns        port.TransactionRepository
	accumulator *service.Accumulator
	metrics     *Metrics
	logger      *slog.Logger
}

// NewBuildPositions creates a new BuildPositions use case.
func NewBuildPositions(
	trns port.TransactionRepository,
	accumulator *service.Accumulator,
	metrics *Metrics,
	logger *slog.Logger,
) *BuildPositions {
	return &BuildPositions{trns: trns, accumulator: accumulator, metrics: metrics, logger: logger}
}

// Execute loads the transactions of portfolio traded on or before asAt and
// accumulates them. A transaction breaking a business rule is reported in
// Rejected and the fold carries on with the next one.
func (uc *BuildPositions) Execute(ctx context.Context, portfolio model.Portfolio, asAt time.Time) (Built, error) {
	ctx, span := tracer.Start(ctx, "BuildPositions")
	defer span.End()

	trns, err := uc.trns.FindByPortfolio(ctx, portfolio, asAt)
	if err != nil {
		return Built{}, fmt.Errorf("load transactions: %w", err)
	}

	positions := model.NewPositions(portfolio, asAt)
	groups := groupByAsset(trns)
	rejected := make([][]Rejection, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, group := range groups {
		g.Go(func() error {
			position := positions.Get(group[0].Asset())
			for _, trn := range group {
				if err := gctx.Err(); err != nil {
					return err
				}
				if _, err := uc.accumulator.Accumulate(trn, portfolio, position); err != nil {
					if !service.IsBusinessRule(err) {
						return fmt.Errorf("accumulate %s: %w", trn.ID(), err)
					}
					uc.logger.Warn("transaction skipped",
						"portfolio", portfolio.Code(), "trn_id", trn.ID(), "error", err)
					rejected[i] = append(rejected[i], Rejection{Trn: trn, Err: err})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Built{}, err
	}

	built := Built{Positions: positions}
	for _, r := range rejected {
		built.Rejected = append(built.Rejected, r...)
	}
	uc.metrics.folded(ctx, portfolio.Code(), len(trns)-len(built.Rejected), len(built.Rejected))
	return built, nil
}

// groupByAsset splits trns by asset key, keeping the repository's order
// within each group and first-seen order across groups.
func groupByAsset(trns []model.Trn) [][]model.Trn {
	index := make(map[string]int)
	var groups [][]model.Trn
	for _, trn := range trns {
		key := trn.Asset().Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], trn)
	}
	return groups
}
