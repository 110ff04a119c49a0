package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Fixed UUIDs for deterministic testing
var (
	TestPortfolioID = uuid.MustParse("00000000-0000-0000-0000-000000000010")
	TestTrnID1      = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	TestTrnID2      = uuid.MustParse("00000000-0000-0000-0000-000000000102")
)

// D parses a decimal literal and panics on malformed input.
func D(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Portfolio returns a portfolio reporting in NZD with a USD base, using
// TestPortfolioID.
func Portfolio(t *testing.T, code string) model.Portfolio {
	t.Helper()
	p, err := model.ReconstructPortfolio(TestPortfolioID, code, code+" test portfolio", money.NZD, money.USD)
	require.NoError(t, err)
	return p
}

// Asset returns an asset listed on market and traded in ccy.
func Asset(t *testing.T, code, market string, ccy money.Currency) valueobject.Asset {
	t.Helper()
	a, err := valueobject.NewAsset(code, market, code, ccy)
	require.NoError(t, err)
	return a
}

// Trn builds a transaction for portfolio p with base rate 1 and portfolio rate 1.6.
func Trn(t *testing.T, id uuid.UUID, p model.Portfolio, typ valueobject.TrnType, a valueobject.Asset, date time.Time, qty, amount string) model.Trn {
	t.Helper()
	trn, err := model.NewTrn(model.TrnParams{
		ID:                 id,
		PortfolioID:        p.ID(),
		Type:               typ,
		Asset:              a,
		TradeDate:          date,
		Quantity:           D(qty),
		TradeAmount:        D(amount),
		TradeBaseRate:      D("1"),
		TradePortfolioRate: D("1.6"),
	})
	require.NoError(t, err)
	return trn
}
