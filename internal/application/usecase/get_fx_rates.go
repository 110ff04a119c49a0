package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

// GetFxRates resolves cross rates for arbitrary currency pairs.
type GetFxRates struct {
	rates port.RateProvider
	fx    *service.FxCalculator
	now   func() time.Time
}

// NewGetFxRates creates a new GetFxRates use case.
func NewGetFxRates(rates port.RateProvider, fx *service.FxCalculator) *GetFxRates {
	return &GetFxRates{rates: rates, fx: fx, now: time.Now}
}

// Execute returns a rate for every requested pair, in request order.
func (uc *GetFxRates) Execute(ctx context.Context, req dto.FxRatesRequest) (dto.FxRatesResponse, error) {
	ctx, span := tracer.Start(ctx, "GetFxRates")
	defer span.End()

	if len(req.Pairs) == 0 {
		return dto.FxRatesResponse{}, fmt.Errorf("%w: at least one pair is required", ErrInvalidRequest)
	}
	pairs := make([]valueobject.CurrencyPair, 0, len(req.Pairs))
	for _, raw := range req.Pairs {
		pair, err := parsePair(raw)
		if err != nil {
			return dto.FxRatesResponse{}, err
		}
		pairs = append(pairs, pair)
	}

	asOf := asAtOrToday(req.AsOf, uc.now)
	table, err := uc.rates.RateTable(ctx, asOf)
	if err != nil {
		return dto.FxRatesResponse{}, fmt.Errorf("fetch rates: %w", err)
	}
	rates, err := uc.fx.Compute(asOf, pairs, table)
	if err != nil {
		return dto.FxRatesResponse{}, err
	}

	resp := dto.FxRatesResponse{AsOf: asOf, Rates: make([]dto.FxRateDTO, 0, len(pairs))}
	for _, pair := range pairs {
		rate := rates[pair]
		resp.Rates = append(resp.Rates, dto.FxRateDTO{
			From: pair.From(),
			To:   pair.To(),
			Rate: rate.Rate(),
			Date: rate.Date(),
		})
	}
	return resp, nil
}

func parsePair(raw string) (valueobject.CurrencyPair, error) {
	from, to, ok := strings.Cut(raw, "/")
	if !ok {
		from, to, ok = strings.Cut(raw, ":")
	}
	if !ok {
		return valueobject.CurrencyPair{}, fmt.Errorf("%w: pair %q must be FROM/TO", ErrInvalidRequest, raw)
	}
	pair, err := valueobject.NewCurrencyPair(from, to)
	if err != nil {
		return valueobject.CurrencyPair{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return pair, nil
}
