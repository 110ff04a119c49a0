package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

var mm = service.NewMoneyMath(service.DefaultMathConfig())

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC) }

func portfolio(t *testing.T) model.Portfolio {
	t.Helper()
	p, err := model.NewPortfolio("TEST", "Test", money.NZD, money.USD)
	require.NoError(t, err)
	return p
}

func asset(t *testing.T, code string, ccy money.Currency) valueobject.Asset {
	t.Helper()
	a, err := valueobject.NewAsset(code, "NYSE", code, ccy)
	require.NoError(t, err)
	return a
}

type trnOpt func(*model.TrnParams)

func rates(base, pf string) trnOpt {
	return func(p *model.TrnParams) {
		p.TradeBaseRate = d(base)
		p.TradePortfolioRate = d(pf)
	}
}

func trn(t *testing.T, typ valueobject.TrnType, a valueobject.Asset, date time.Time, qty, amount string, opts ...trnOpt) model.Trn {
	t.Helper()
	p := model.TrnParams{
		Type:        typ,
		Asset:       a,
		TradeDate:   date,
		Quantity:    d(qty),
		TradeAmount: d(amount),
	}
	for _, o := range opts {
		o(&p)
	}
	out, err := model.NewTrn(p)
	require.NoError(t, err)
	return out
}

func rateTable(t *testing.T, asOf time.Time, quotes map[string]string) valueobject.RateTable {
	t.Helper()
	var fx []valueobject.FxRate
	for code, rate := range quotes {
		r, err := valueobject.NewFxRate(money.USD, money.MustCurrency(code), d(rate), asOf)
		require.NoError(t, err)
		fx = append(fx, r)
	}
	table, err := valueobject.NewRateTable(asOf, money.USD, fx)
	require.NoError(t, err)
	return table
}

func tradedIn(c money.Currency) trnOpt {
	return func(p *model.TrnParams) { p.TradeCurrency = c }
}
