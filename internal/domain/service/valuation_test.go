package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

type valuationFixture struct {
	positions *model.Positions
	msft      valueobject.Asset
	bhp       valueobject.Asset
	closed    valueobject.Asset
	table     valueobject.RateTable
}

func newValuationFixture(t *testing.T) valuationFixture {
	t.Helper()
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	f := valuationFixture{
		positions: model.NewPositions(pf, day(20)),
		msft:      asset(t, "MSFT", money.USD),
		bhp:       asset(t, "BHP", money.AUD),
		closed:    asset(t, "IBM", money.USD),
		table:     rateTable(t, day(20), map[string]string{"USD": "1", "NZD": "1.6", "AUD": "1.25"}),
	}

	fold := []model.Trn{
		trn(t, valueobject.TrnTypeBuy, f.msft, day(1), "10", "1000", rates("1", "1.6")),
		trn(t, valueobject.TrnTypeDividend, f.msft, day(2), "0", "20", rates("1", "1.6")),
		trn(t, valueobject.TrnTypeBuy, f.bhp, day(1), "100", "3000", rates("0.8", "1.28")),
		trn(t, valueobject.TrnTypeBuy, f.closed, day(1), "5", "500", rates("1", "1.6")),
		trn(t, valueobject.TrnTypeSell, f.closed, day(2), "5", "600", rates("1", "1.6")),
	}
	for _, tr := range fold {
		_, err := acc.Accumulate(tr, pf, f.positions.Get(tr.Asset()))
		require.NoError(t, err)
	}
	return f
}

func (f valuationFixture) prices() map[string]valueobject.MarketData {
	return map[string]valueobject.MarketData{
		f.msft.Key(): {Asset: f.msft, PriceDate: day(19), Close: d("120")},
		f.bhp.Key():  {Asset: f.bhp, PriceDate: day(19), Close: d("40")},
	}
}

func TestValuationEngine_OpenAssetsAndPairs(t *testing.T) {
	f := newValuationFixture(t)
	engine := service.NewValuationEngine(mm)

	open := engine.OpenAssets(f.positions)
	require.Len(t, open, 2)
	assert.Equal(t, "BHP:NYSE", open[0].Key())
	assert.Equal(t, "MSFT:NYSE", open[1].Key())

	var got []string
	for _, p := range engine.RequiredPairs(f.positions) {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"NZD/AUD", "NZD/USD", "USD/AUD", "USD/USD"}, got)
}

func TestValuationEngine_Value(t *testing.T) {
	f := newValuationFixture(t)
	engine := service.NewValuationEngine(mm)

	rates, err := service.NewFxCalculator(mm).Compute(day(20), engine.RequiredPairs(f.positions), f.table)
	require.NoError(t, err)
	require.NoError(t, engine.Value(f.positions, f.prices(), rates))

	msft, ok := f.positions.Lookup(f.msft.Key())
	require.True(t, ok)

	trade := msft.Values(valueobject.ContextTrade)
	assert.True(t, d("120").Equal(trade.Price))
	assert.True(t, d("1200").Equal(trade.MarketValue))
	assert.True(t, d("200").Equal(trade.UnrealisedGain))
	assert.True(t, d("220").Equal(trade.TotalGain))
	assert.Equal(t, day(19), trade.PriceDate)

	pf := msft.Values(valueobject.ContextPortfolio)
	assert.True(t, d("192").Equal(pf.Price))
	assert.True(t, d("1920").Equal(pf.MarketValue))
	assert.True(t, d("320").Equal(pf.UnrealisedGain))

	bhp, _ := f.positions.Lookup(f.bhp.Key())
	base := bhp.Values(valueobject.ContextBase)
	assert.True(t, base.Currency.Equal(money.USD))
	assert.True(t, d("32").Equal(base.Price))
	assert.True(t, d("3200").Equal(base.MarketValue))

	closed, _ := f.positions.Lookup(f.closed.Key())
	ct := closed.Values(valueobject.ContextTrade)
	assert.True(t, ct.MarketValue.IsZero())
	assert.True(t, ct.UnrealisedGain.IsZero())
	assert.True(t, d("100").Equal(ct.TotalGain))

	totals, ok := f.positions.Totals(valueobject.ContextBase)
	require.True(t, ok)
	assert.True(t, totals.Currency.Equal(money.USD))
	assert.True(t, d("4400").Equal(totals.MarketValue))

	pfTotals, ok := f.positions.Totals(valueobject.ContextPortfolio)
	require.True(t, ok)
	assert.True(t, pfTotals.Currency.Equal(money.NZD))
}

func TestValuationEngine_MissingPriceMutatesNothing(t *testing.T) {
	f := newValuationFixture(t)
	engine := service.NewValuationEngine(mm)
	rates, err := service.NewFxCalculator(mm).Compute(day(20), engine.RequiredPairs(f.positions), f.table)
	require.NoError(t, err)

	prices := f.prices()
	delete(prices, f.bhp.Key())

	err = engine.Value(f.positions, prices, rates)
	assert.True(t, errors.Is(err, service.ErrPriceNotFound))

	msft, _ := f.positions.Lookup(f.msft.Key())
	assert.True(t, msft.Values(valueobject.ContextTrade).MarketValue.IsZero())
	_, ok := f.positions.Totals(valueobject.ContextBase)
	assert.False(t, ok)
}

func TestValuationEngine_MissingRate(t *testing.T) {
	f := newValuationFixture(t)
	engine := service.NewValuationEngine(mm)

	err := engine.Value(f.positions, f.prices(), map[valueobject.CurrencyPair]valueobject.FxRate{})
	assert.True(t, errors.Is(err, service.ErrRateNotFound))
}

func TestGains_Apply(t *testing.T) {
	mv := &model.MoneyValues{
		MarketValue:  d("150"),
		CostValue:    d("100"),
		Dividends:    d("5"),
		RealisedGain: d("-2"),
	}
	service.Gains{}.Apply(mv, d("10"))
	assert.True(t, d("50").Equal(mv.UnrealisedGain))
	assert.True(t, d("53").Equal(mv.TotalGain))

	service.Gains{}.Apply(mv, d("0"))
	assert.True(t, mv.UnrealisedGain.IsZero())
	assert.True(t, d("3").Equal(mv.TotalGain))
}

func TestValuationEngine_TradeCurrencyDiffersFromQuote(t *testing.T) {
	acc := service.NewAccumulator(mm)
	engine := service.NewValuationEngine(mm)
	pf := portfolio(t)
	msft := asset(t, "MSFT", money.USD)
	positions := model.NewPositions(pf, day(20))

	buy := trn(t, valueobject.TrnTypeBuy, msft, day(1), "10", "1000", tradedIn(money.GBP), rates("1.25", "2"))
	_, err := acc.Accumulate(buy, pf, positions.Get(msft))
	require.NoError(t, err)

	var pairs []string
	for _, p := range engine.RequiredPairs(positions) {
		pairs = append(pairs, p.String())
	}
	assert.Equal(t, []string{"GBP/USD", "NZD/USD", "USD/USD"}, pairs)

	table := rateTable(t, day(20), map[string]string{"USD": "1", "NZD": "1.6", "GBP": "0.8"})
	fx, err := service.NewFxCalculator(mm).Compute(day(20), engine.RequiredPairs(positions), table)
	require.NoError(t, err)
	prices := map[string]valueobject.MarketData{
		msft.Key(): {Asset: msft, PriceDate: day(19), Close: d("120")},
	}
	require.NoError(t, engine.Value(positions, prices, fx))

	pos, _ := positions.Lookup(msft.Key())
	trade := pos.Values(valueobject.ContextTrade)
	assert.True(t, trade.Currency.Equal(money.GBP))
	assert.True(t, d("1000").Equal(trade.CostValue))
	assert.True(t, d("96").Equal(trade.Price), "close converted into the trade currency")
	assert.True(t, d("960").Equal(trade.MarketValue))
	assert.True(t, d("-40").Equal(trade.UnrealisedGain))

	base := pos.Values(valueobject.ContextBase)
	assert.True(t, base.Currency.Equal(money.USD))
	assert.True(t, d("1250").Equal(base.CostValue))
	assert.True(t, d("1200").Equal(base.MarketValue))
	assert.True(t, d("-50").Equal(base.UnrealisedGain))

	pfv := pos.Values(valueobject.ContextPortfolio)
	assert.True(t, d("1920").Equal(pfv.MarketValue))
	assert.True(t, d("-80").Equal(pfv.UnrealisedGain))
}

func TestValuationEngine_MissingTradeCurrencyRate(t *testing.T) {
	acc := service.NewAccumulator(mm)
	engine := service.NewValuationEngine(mm)
	pf := portfolio(t)
	msft := asset(t, "MSFT", money.USD)
	positions := model.NewPositions(pf, day(20))

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, msft, day(1), "10", "1000", tradedIn(money.GBP)), pf, positions.Get(msft))
	require.NoError(t, err)

	table := rateTable(t, day(20), map[string]string{"USD": "1", "NZD": "1.6", "GBP": "0.8"})
	fx, err := service.NewFxCalculator(mm).Compute(day(20),
		[]valueobject.CurrencyPair{valueobject.MustCurrencyPair("NZD", "USD"), valueobject.MustCurrencyPair("USD", "USD")}, table)
	require.NoError(t, err)

	err = engine.Value(positions, map[string]valueobject.MarketData{
		msft.Key(): {Asset: msft, PriceDate: day(19), Close: d("120")},
	}, fx)
	require.ErrorIs(t, err, service.ErrRateNotFound)
	assert.ErrorContains(t, err, "GBP/USD")
}
