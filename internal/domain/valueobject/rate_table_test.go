package valueobject_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

func mustFxRate(t *testing.T, to money.Currency, rate string) valueobject.FxRate {
	t.Helper()
	r, err := valueobject.NewFxRate(money.USD, to, decimal.RequireFromString(rate), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return r
}

func TestNewFxRate_RejectsNegative(t *testing.T) {
	_, err := valueobject.NewFxRate(money.USD, money.NZD, decimal.NewFromInt(-1), time.Now())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}

func TestNewFxRate_Pair(t *testing.T) {
	r := mustFxRate(t, money.NZD, "1.5")

	assert.True(t, r.Pair().Equal(valueobject.MustCurrencyPair("USD", "NZD")))
	assert.Equal(t, "USD/NZD 1.50000000", r.String())
}

func TestNewRateTable_Lookup(t *testing.T) {
	asOf := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	table, err := valueobject.NewRateTable(asOf, money.USD, []valueobject.FxRate{
		mustFxRate(t, money.USD, "1"),
		mustFxRate(t, money.NZD, "1.5"),
		mustFxRate(t, money.GBP, "0.8"),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"GBP", "NZD", "USD"}, table.Codes())
	assert.Equal(t, asOf, table.AsOf())

	nzd, ok := table.Lookup("NZD")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("1.5").Equal(nzd.Rate()))

	_, ok = table.Lookup("JPY")
	assert.False(t, ok)
}

func TestNewRateTable_RejectsNonPivotRate(t *testing.T) {
	eurNzd, err := valueobject.NewFxRate(money.EUR, money.NZD, decimal.NewFromInt(2), time.Now())
	require.NoError(t, err)

	_, err = valueobject.NewRateTable(time.Now(), money.USD, []valueobject.FxRate{eurNzd})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not quoted from pivot")
}

func TestNewRateTable_RejectsDuplicates(t *testing.T) {
	_, err := valueobject.NewRateTable(time.Now(), money.USD, []valueobject.FxRate{
		mustFxRate(t, money.NZD, "1.5"),
		mustFxRate(t, money.NZD, "1.6"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate rate for NZD")
}
