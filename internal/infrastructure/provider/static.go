package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Compile-time interface checks.
var (
	_ port.RateProvider  = (*StaticRateProvider)(nil)
	_ port.PriceProvider = (*StaticPriceProvider)(nil)
)

// staticRates are units of currency per 1 USD.
var staticRates = map[string]string{
	"USD": "1",
	"EUR": "0.9217",
	"GBP": "0.7905",
	"NZD": "1.6447",
	"AUD": "1.5337",
	"SGD": "1.3450",
	"JPY": "149.50",
	"CAD": "1.3580",
	"CHF": "0.8820",
}

// staticCloses are closing prices keyed by asset key.
var staticCloses = map[string]string{
	"MSFT:NASDAQ": "415.50",
	"AAPL:NASDAQ": "189.30",
	"IBM:NYSE":    "167.80",
	"BHP:ASX":     "44.12",
	"VOD:LSE":     "0.7125",
}

// StaticRateProvider returns a fixed USD-pivot rate table for any date.
// It is intended for development, testing, and CI environments.
type StaticRateProvider struct {
	rates map[string]decimal.Decimal
}

// NewStaticRateProvider creates a StaticRateProvider. Extra rates, quoted as
// units per USD, override or extend the built-in set.
func NewStaticRateProvider(extra map[string]decimal.Decimal) *StaticRateProvider {
	rates := make(map[string]decimal.Decimal, len(staticRates)+len(extra))
	for code, s := range staticRates {
		rates[code] = decimal.RequireFromString(s)
	}
	for code, r := range extra {
		rates[code] = r
	}
	return &StaticRateProvider{rates: rates}
}

// RateTable returns the static table dated asOf.
func (p *StaticRateProvider) RateTable(_ context.Context, asOf time.Time) (valueobject.RateTable, error) {
	fx := make([]valueobject.FxRate, 0, len(p.rates))
	for code, rate := range p.rates {
		ccy, err := money.NewCurrency(code)
		if err != nil {
			return valueobject.RateTable{}, fmt.Errorf("static rate %s: %w", code, err)
		}
		r, err := valueobject.NewFxRate(money.USD, ccy, rate, asOf)
		if err != nil {
			return valueobject.RateTable{}, err
		}
		fx = append(fx, r)
	}
	return valueobject.NewRateTable(asOf, money.USD, fx)
}

// StaticPriceProvider returns fixed closing prices dated at the requested day.
type StaticPriceProvider struct {
	closes map[string]decimal.Decimal
}

// NewStaticPriceProvider creates a StaticPriceProvider. Extra closes, keyed
// by asset key, override or extend the built-in set.
func NewStaticPriceProvider(extra map[string]decimal.Decimal) *StaticPriceProvider {
	closes := make(map[string]decimal.Decimal, len(staticCloses)+len(extra))
	for key, s := range staticCloses {
		closes[key] = decimal.RequireFromString(s)
	}
	for key, c := range extra {
		closes[key] = c
	}
	return &StaticPriceProvider{closes: closes}
}

// LatestPrices returns a price for every known asset. Unknown assets are absent.
func (p *StaticPriceProvider) LatestPrices(_ context.Context, assets []valueobject.Asset, asAt time.Time) (map[string]valueobject.MarketData, error) {
	out := make(map[string]valueobject.MarketData, len(assets))
	for _, a := range assets {
		c, ok := p.closes[a.Key()]
		if !ok {
			continue
		}
		out[a.Key()] = valueobject.MarketData{Asset: a, PriceDate: asAt, Open: c, Close: c, High: c, Low: c}
	}
	return out, nil
}
