package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/domain/event"
	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

// TopicPositionsValued carries positions.valued events.
const TopicPositionsValued = "portfolio.positions.valued"

// ValuePositions builds and marks a portfolio's positions to market.
type ValuePositions struct {
	portfolios port.PortfolioRepository
	build      *BuildPositions
	engine     *service.ValuationEngine
	fx         *service.FxCalculator
	prices     port.PriceProvider
	rates      port.RateProvider
	publisher  port.EventPublisher
	timeout    time.Duration
	metrics    *Metrics
	logger     *slog.Logger
	now        func() time.Time
}

// ValuePositionsDeps groups the collaborators of ValuePositions.
type ValuePositionsDeps struct {
	Portfolios port.PortfolioRepository
	Build      *BuildPositions
	Engine     *service.ValuationEngine
	Fx         *service.FxCalculator
	Prices     port.PriceProvider
	Rates      port.RateProvider
	Publisher  port.EventPublisher
	Timeout    time.Duration
	Metrics    *Metrics
	Logger     *slog.Logger
}

// NewValuePositions creates a new ValuePositions use case.
func NewValuePositions(deps ValuePositionsDeps) *ValuePositions {
	return &ValuePositions{
		portfolios: deps.Portfolios,
		build:      deps.Build,
		engine:     deps.Engine,
		fx:         deps.Fx,
		prices:     deps.Prices,
		rates:      deps.Rates,
		publisher:  deps.Publisher,
		timeout:    deps.Timeout,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Execute values req.PortfolioCode as at req.AsAt.
func (uc *ValuePositions) Execute(ctx context.Context, req dto.PositionsRequest) (dto.PositionsResponse, error) {
	portfolio, err := uc.portfolios.FindByCode(ctx, req.PortfolioCode)
	if err != nil {
		return dto.PositionsResponse{}, fmt.Errorf("find portfolio %q: %w", req.PortfolioCode, err)
	}

	built, err := uc.Value(ctx, portfolio, asAtOrToday(req.AsAt, uc.now))
	if err != nil {
		return dto.PositionsResponse{}, err
	}
	return toPositionsResponse(built), nil
}

// Value builds the positions of portfolio and marks them to market. Prices
// and rates are fetched concurrently under the configured timeout. A fetch
// failure, or a price or rate missing from what was fetched, returns a
// *service.ValuationError and leaves nothing published.
func (uc *ValuePositions) Value(ctx context.Context, portfolio model.Portfolio, asAt time.Time) (built Built, err error) {
	ctx, span := tracer.Start(ctx, "ValuePositions",
		trace.WithAttributes(attribute.String("portfolio", portfolio.Code())))
	started := time.Now()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		uc.metrics.valued(ctx, portfolio.Code(), started, err)
	}()

	built, err = uc.build.Execute(ctx, portfolio, asAt)
	if err != nil {
		return Built{}, err
	}
	positions := built.Positions

	prices, rates, err := uc.marketData(ctx, positions)
	if err != nil {
		return Built{}, err
	}
	if err := uc.engine.Value(positions, prices, rates); err != nil {
		return Built{}, &service.ValuationError{Portfolio: portfolio.Code(), Err: err}
	}

	uc.announce(ctx, positions)
	return built, nil
}

// marketData fetches prices for the open assets and resolves every FX pair
// the valuation needs.
func (uc *ValuePositions) marketData(
	ctx context.Context,
	positions *model.Positions,
) (map[string]valueobject.MarketData, map[valueobject.CurrencyPair]valueobject.FxRate, error) {
	assets := uc.engine.OpenAssets(positions)
	if len(assets) == 0 {
		return nil, nil, nil
	}
	pairs := uc.engine.RequiredPairs(positions)
	asAt := positions.AsAt()
	code := positions.Portfolio().Code()

	fetchCtx := ctx
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	var (
		prices map[string]valueobject.MarketData
		table  valueobject.RateTable
	)
	g, gctx := errgroup.WithContext(fetchCtx)
	g.Go(func() error {
		p, err := uc.prices.LatestPrices(gctx, assets, asAt)
		if err != nil {
			return fmt.Errorf("fetch prices: %w", err)
		}
		prices = p
		return nil
	})
	g.Go(func() error {
		t, err := uc.rates.RateTable(gctx, asAt)
		if err != nil {
			return fmt.Errorf("fetch rates: %w", err)
		}
		table = t
		return nil
	})
	if err := g.Wait(); err != nil {
		if errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s: %w", service.ErrValuationTimeout, uc.timeout, err)
		}
		return nil, nil, &service.ValuationError{Portfolio: code, Err: err}
	}

	rates, err := uc.fx.Compute(asAt, pairs, table)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve rates for %s: %w", code, err)
	}
	return prices, rates, nil
}

// announce publishes the portfolio-context totals. A broker outage does not
// fail a valuation that has already been computed.
func (uc *ValuePositions) announce(ctx context.Context, positions *model.Positions) {
	portfolio := positions.Portfolio()
	totals, ok := positions.Totals(valueobject.ContextPortfolio)
	if !ok {
		return
	}
	evt := event.NewPositionsValued(
		portfolio.ID(),
		portfolio.Code(),
		positions.AsAt().Format(time.DateOnly),
		totals.Currency.Code(),
		totals.MarketValueMoney().Amount().String(),
		totals.TotalGainMoney().Amount().String(),
		positions.Len(),
	)
	if err := uc.publisher.Publish(ctx, TopicPositionsValued, evt); err != nil {
		uc.logger.Error("failed to publish valuation", "portfolio", portfolio.Code(), "error", err)
		return
	}
	uc.logger.Info("portfolio valued",
		"portfolio", portfolio.Code(),
		"as_at", positions.AsAt().Format(time.DateOnly),
		"market_value", totals.MarketValueMoney().String())
}
