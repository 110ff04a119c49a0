package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Gains derives unrealised and total gain from accumulated values.
type Gains struct{}

// Apply sets UnrealisedGain and TotalGain on mv. Unrealised gain is only
// carried while quantity is held.
func (Gains) Apply(mv *model.MoneyValues, total decimal.Decimal) {
	if total.IsZero() {
		mv.UnrealisedGain = decimal.Zero
	} else {
		mv.UnrealisedGain = mv.MarketValue.Sub(mv.CostValue)
	}
	mv.TotalGain = mv.UnrealisedGain.Add(mv.Dividends).Add(mv.RealisedGain)
}

// ValuationEngine marks open positions to market.
type ValuationEngine struct {
	math     MoneyMath
	resolver CurrencyResolver
	gains    Gains
}

// NewValuationEngine creates a ValuationEngine.
func NewValuationEngine(m MoneyMath) *ValuationEngine {
	return &ValuationEngine{math: m}
}

// OpenAssets returns the assets of positions with a non-zero quantity, in
// key order. Only these need prices.
func (e *ValuationEngine) OpenAssets(positions *model.Positions) []valueobject.Asset {
	var assets []valueobject.Asset
	for _, p := range positions.All() {
		if p.IsOpen() {
			assets = append(assets, p.Asset)
		}
	}
	return assets
}

// RequiredPairs returns the FX pairs needed to value the open positions.
// Closes are quoted in the asset's currency, so every context currency is
// paired with it: base/asset, portfolio/asset and, when the position was
// traded in another currency, trade/asset.
func (e *ValuationEngine) RequiredPairs(positions *model.Positions) []valueobject.CurrencyPair {
	portfolio := positions.Portfolio()
	seen := make(map[valueobject.CurrencyPair]struct{})
	for _, p := range positions.All() {
		if !p.IsOpen() {
			continue
		}
		quoted := p.Asset.Currency()
		seen[valueobject.MustCurrencyPair(portfolio.Base().Code(), quoted.Code())] = struct{}{}
		seen[valueobject.MustCurrencyPair(portfolio.Currency().Code(), quoted.Code())] = struct{}{}
		if trade := tradeCurrency(p); !trade.Equal(quoted) {
			seen[valueobject.MustCurrencyPair(trade.Code(), quoted.Code())] = struct{}{}
		}
	}
	pairs := make([]valueobject.CurrencyPair, 0, len(seen))
	for p := range seen {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].String() < pairs[j].String() })
	return pairs
}

// tradeCurrency is the currency the Trade context was accumulated in.
func tradeCurrency(p *model.Position) money.Currency {
	if c := p.Values(valueobject.ContextTrade).Currency; !c.IsZero() {
		return c
	}
	return p.Asset.Currency()
}

type mark struct {
	price       decimal.Decimal
	marketValue decimal.Decimal
	priceDate   time.Time
	currency    money.Currency
}

// Value marks every open position using prices keyed by asset key and the
// resolved rates, then computes gains and per-context totals. A missing price
// or rate fails the call before any position is changed.
func (e *ValuationEngine) Value(
	positions *model.Positions,
	prices map[string]valueobject.MarketData,
	rates map[valueobject.CurrencyPair]valueobject.FxRate,
) error {
	portfolio := positions.Portfolio()
	marks := make(map[string][valueobject.ContextCount]mark)

	for key, p := range positions.All() {
		if !p.IsOpen() {
			continue
		}
		md, ok := prices[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPriceNotFound, key)
		}
		quoted := p.Asset.Currency()
		var m [valueobject.ContextCount]mark
		for _, ctx := range valueobject.Contexts {
			currency := e.resolver.Resolve(ctx, portfolio, tradeCurrency(p))
			rate := decimal.NewFromInt(1)
			if !currency.Equal(quoted) {
				pair := valueobject.MustCurrencyPair(currency.Code(), quoted.Code())
				fx, ok := rates[pair]
				if !ok {
					return fmt.Errorf("%w: %s for %s", ErrRateNotFound, pair, key)
				}
				rate = fx.Rate()
			}
			price := md.Close.Mul(rate).Round(e.math.Config().RateScale)
			m[ctx] = mark{
				price:       price,
				marketValue: e.math.Value(price, p.Quantity.Total()),
				priceDate:   md.PriceDate,
				currency:    currency,
			}
		}
		marks[key] = m
	}

	for key, p := range positions.All() {
		m, marked := marks[key]
		for _, ctx := range valueobject.Contexts {
			var mv *model.MoneyValues
			if marked {
				mv = p.MoneyValues(ctx, m[ctx].currency)
				mv.Price = m[ctx].price
				mv.PriceDate = m[ctx].priceDate
				mv.MarketValue = m[ctx].marketValue
			} else {
				mv = p.Values(ctx)
			}
			e.gains.Apply(mv, p.Quantity.Total())
		}
	}

	e.Totals(positions)
	return nil
}

// Totals sums the Base and Portfolio context values of every position.
func (e *ValuationEngine) Totals(positions *model.Positions) {
	portfolio := positions.Portfolio()
	for _, ctx := range []valueobject.Context{valueobject.ContextBase, valueobject.ContextPortfolio} {
		t := &model.Totals{Currency: e.resolver.Resolve(ctx, portfolio, money.Currency{})}
		for _, p := range positions.All() {
			t.Add(p.Values(ctx))
		}
		positions.SetTotals(ctx, t)
	}
}
