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

func TestAccumulator_BuyThenSell(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	msft := asset(t, "MSFT", money.USD)
	pos := model.NewPosition(msft)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, msft, day(1), "100", "1000"), pf, pos)
	require.NoError(t, err)

	trade := pos.Values(valueobject.ContextTrade)
	assert.True(t, d("100").Equal(pos.Quantity.Total()))
	assert.True(t, d("1000").Equal(trade.CostBasis))
	assert.True(t, d("10").Equal(trade.AverageCost))
	assert.True(t, d("1000").Equal(trade.CostValue))
	assert.True(t, d("1000").Equal(trade.Purchases))

	_, err = acc.Accumulate(trn(t, valueobject.TrnTypeSell, msft, day(2), "40", "500"), pf, pos)
	require.NoError(t, err)

	assert.True(t, d("-40").Equal(pos.Quantity.Sold))
	assert.True(t, d("60").Equal(pos.Quantity.Total()))
	assert.True(t, d("100").Equal(trade.RealisedGain))
	assert.True(t, d("600").Equal(trade.CostValue))
	assert.True(t, d("10").Equal(trade.AverageCost))
	assert.True(t, d("500").Equal(trade.Sales))
	assert.Equal(t, day(2), pos.Dates.Last)
	assert.Equal(t, day(1), pos.Dates.Opened)
	assert.True(t, pos.Dates.Closed.IsZero())
}

func TestAccumulator_BuyAfterPartialSellAveragesRemainingCost(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	msft := asset(t, "MSFT", money.USD)
	pos := model.NewPosition(msft)

	for _, tr := range []model.Trn{
		trn(t, valueobject.TrnTypeBuy, msft, day(1), "100", "1000"),
		trn(t, valueobject.TrnTypeSell, msft, day(2), "40", "500"),
	} {
		_, err := acc.Accumulate(tr, pf, pos)
		require.NoError(t, err)
	}
	trade := pos.Values(valueobject.ContextTrade)
	assert.True(t, d("600").Equal(trade.CostBasis), "cost basis follows the 60 units still held")

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, msft, day(3), "40", "600"), pf, pos)
	require.NoError(t, err)

	// (600 + 600) / 100, not (1000 + 600) / 100.
	assert.True(t, d("100").Equal(pos.Quantity.Total()))
	assert.True(t, d("1200").Equal(trade.CostBasis))
	assert.True(t, d("12").Equal(trade.AverageCost))
	assert.True(t, d("1200").Equal(trade.CostValue))
	assert.True(t, d("1600").Equal(trade.Purchases))
	assert.True(t, d("100").Equal(trade.RealisedGain))
}

func TestAccumulator_BuyOnlyAverageCostInvariant(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	buys := []struct{ qty, amount string }{
		{"10", "1000"}, {"5", "550.55"}, {"7", "1234.56"}, {"3", "1"},
	}
	purchased := d("0")
	for i, b := range buys {
		_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(i+1), b.qty, b.amount, rates("0.6", "1.5")), pf, pos)
		require.NoError(t, err)
		purchased = purchased.Add(d(b.qty))

		assert.True(t, purchased.Equal(pos.Quantity.Total()))
		for _, ctx := range valueobject.Contexts {
			mv := pos.Values(ctx)
			assert.True(t, mm.Divide(mv.CostBasis, pos.Quantity.Total()).Equal(mv.AverageCost), "%s step %d", ctx, i)
		}
	}
}

func TestAccumulator_ContextsUseTheirRates(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100", rates("1", "1.5")), pf, pos)
	require.NoError(t, err)

	assert.True(t, pos.Values(valueobject.ContextTrade).Currency.Equal(money.USD))
	assert.True(t, pos.Values(valueobject.ContextBase).Currency.Equal(money.USD))
	assert.True(t, pos.Values(valueobject.ContextPortfolio).Currency.Equal(money.NZD))
	assert.True(t, d("100").Equal(pos.Values(valueobject.ContextTrade).CostBasis))
	assert.True(t, d("150").Equal(pos.Values(valueobject.ContextPortfolio).CostBasis))
	assert.True(t, d("15").Equal(pos.Values(valueobject.ContextPortfolio).AverageCost))
}

func TestAccumulator_FullCloseResetsCost(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100", rates("1", "1.5")), pf, pos)
	require.NoError(t, err)
	pos.Values(valueobject.ContextPortfolio).MarketValue = d("200")

	_, err = acc.Accumulate(trn(t, valueobject.TrnTypeSell, a, day(3), "-10", "120", rates("1", "1.5")), pf, pos)
	require.NoError(t, err)

	assert.True(t, pos.Quantity.Total().IsZero())
	for _, ctx := range valueobject.Contexts {
		mv := pos.Values(ctx)
		assert.True(t, mv.CostBasis.IsZero(), ctx.String())
		assert.True(t, mv.CostValue.IsZero(), ctx.String())
		assert.True(t, mv.AverageCost.IsZero(), ctx.String())
		assert.True(t, mv.MarketValue.IsZero(), ctx.String())
	}
	assert.True(t, d("20").Equal(pos.Values(valueobject.ContextTrade).RealisedGain))
	assert.True(t, d("30").Equal(pos.Values(valueobject.ContextPortfolio).RealisedGain))
	assert.Equal(t, day(3), pos.Dates.Closed)
}

func TestAccumulator_SellAtLossRealisesNegativeGain(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100"), pf, pos)
	require.NoError(t, err)
	_, err = acc.Accumulate(trn(t, valueobject.TrnTypeSell, a, day(2), "5", "40"), pf, pos)
	require.NoError(t, err)

	assert.True(t, d("-10").Equal(pos.Values(valueobject.ContextTrade).RealisedGain))
}

func TestAccumulator_Dividend(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(5), "100", "1000"), pf, pos)
	require.NoError(t, err)

	// dividends are not sequenced
	for i := 0; i < 2; i++ {
		_, err = acc.Accumulate(trn(t, valueobject.TrnTypeDividend, a, day(1), "0", "50", rates("1", "2")), pf, pos)
		require.NoError(t, err)
	}

	assert.True(t, d("100").Equal(pos.Quantity.Total()))
	assert.True(t, d("100").Equal(pos.Values(valueobject.ContextTrade).Dividends))
	assert.True(t, d("200").Equal(pos.Values(valueobject.ContextPortfolio).Dividends))
	assert.Equal(t, day(5), pos.Dates.Last)
}

func TestAccumulator_Split(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "100", "1000"), pf, pos)
	require.NoError(t, err)
	_, err = acc.Accumulate(trn(t, valueobject.TrnTypeSplit, a, day(2), "4", "0"), pf, pos)
	require.NoError(t, err)

	trade := pos.Values(valueobject.ContextTrade)
	assert.True(t, d("400").Equal(pos.Quantity.Total()))
	assert.True(t, d("100").Equal(pos.Quantity.Purchased))
	assert.True(t, d("300").Equal(pos.Quantity.Adjustment))
	assert.True(t, d("2.5").Equal(trade.AverageCost))
	assert.True(t, d("1000").Equal(trade.CostValue))
	assert.True(t, mm.Divide(trade.CostBasis, d("4").Mul(d("100"))).Equal(trade.AverageCost))
}

func TestAccumulator_OutOfSequenceLeavesPositionUntouched(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(10), "10", "100"), pf, pos)
	require.NoError(t, err)
	before := *pos

	for _, typ := range []valueobject.TrnType{valueobject.TrnTypeBuy, valueobject.TrnTypeSell, valueobject.TrnTypeSplit} {
		late := trn(t, typ, a, day(9), "2", "30")
		_, err = acc.Accumulate(late, pf, pos)

		var seq *service.SequenceError
		require.True(t, errors.As(err, &seq), typ.String())
		assert.Equal(t, late.ID(), seq.Trn.ID())
		assert.Equal(t, day(10), seq.Last)
		assert.Equal(t, before, *pos)
	}
}

func TestAccumulator_SameDayIsInSequence(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	_, err := acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100"), pf, pos)
	require.NoError(t, err)
	_, err = acc.Accumulate(trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100"), pf, pos)
	require.NoError(t, err)
	assert.True(t, d("20").Equal(pos.Quantity.Total()))
}

func TestAccumulator_UnsupportedType(t *testing.T) {
	acc := service.NewAccumulator(mm)
	a := asset(t, "AAPL", money.USD)
	bad := trn(t, valueobject.TrnType(42), a, day(1), "1", "1")

	_, err := acc.Accumulate(bad, portfolio(t), model.NewPosition(a))
	var typErr *service.UnsupportedTrnTypeError
	require.True(t, errors.As(err, &typErr))
	assert.Equal(t, valueobject.TrnType(42), typErr.Type)
}

func TestAccumulator_ReopenClearsClosed(t *testing.T) {
	acc := service.NewAccumulator(mm)
	pf := portfolio(t)
	a := asset(t, "AAPL", money.USD)
	pos := model.NewPosition(a)

	steps := []model.Trn{
		trn(t, valueobject.TrnTypeBuy, a, day(1), "10", "100"),
		trn(t, valueobject.TrnTypeSell, a, day(2), "10", "110"),
		trn(t, valueobject.TrnTypeBuy, a, day(3), "5", "60"),
	}
	for _, s := range steps {
		_, err := acc.Accumulate(s, pf, pos)
		require.NoError(t, err)
	}
	assert.Equal(t, day(3), pos.Dates.Opened)
	assert.True(t, pos.Dates.Closed.IsZero())
	assert.True(t, d("12").Equal(pos.Values(valueobject.ContextTrade).AverageCost))
}
