package service_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

func TestFxCalculator_IdentityPair(t *testing.T) {
	calc := service.NewFxCalculator(mm)
	table := rateTable(t, day(1), map[string]string{"USD": "1", "NZD": "1.5", "GBP": "0.8"})

	for _, code := range []string{"USD", "NZD", "GBP"} {
		pair := valueobject.MustCurrencyPair(code, code)
		got, err := calc.Compute(day(2), []valueobject.CurrencyPair{pair}, table)
		require.NoError(t, err)
		assert.True(t, d("1").Equal(got[pair].Rate()), code)
		assert.Equal(t, code, got[pair].From().Code())
		assert.Equal(t, day(2), got[pair].Date())
	}
}

func TestFxCalculator_CrossRate(t *testing.T) {
	calc := service.NewFxCalculator(mm)
	table := rateTable(t, day(1), map[string]string{"USD": "1", "NZD": "1.5", "GBP": "0.8"})

	nzdGbp := valueobject.MustCurrencyPair("NZD", "GBP")
	usdNzd := valueobject.MustCurrencyPair("usd", "nzd")
	got, err := calc.Compute(day(1), []valueobject.CurrencyPair{nzdGbp, usdNzd}, table)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, d("1.875").Equal(got[nzdGbp].Rate()))
	assert.True(t, d("0.66666667").Equal(got[usdNzd].Rate()))
	assert.Equal(t, "NZD/GBP 1.87500000", got[nzdGbp].String())
}

func TestFxCalculator_InverseConsistency(t *testing.T) {
	calc := service.NewFxCalculator(mm)
	table := rateTable(t, day(1), map[string]string{"USD": "1", "NZD": "1.6234", "EUR": "0.9123", "SGD": "1.3456"})
	tolerance := d("0.000001")

	codes := []string{"USD", "NZD", "EUR", "SGD"}
	for _, a := range codes {
		for _, b := range codes {
			ab := valueobject.MustCurrencyPair(a, b)
			got, err := calc.Compute(day(1), []valueobject.CurrencyPair{ab, ab.Inverse()}, table)
			require.NoError(t, err)

			inverse := d("1").DivRound(got[ab.Inverse()].Rate(), 10)
			diff := got[ab].Rate().Sub(inverse).Abs()
			assert.True(t, diff.LessThan(tolerance), "%s: %s vs %s", ab, got[ab].Rate(), inverse)
		}
	}
}

func TestFxCalculator_UnsupportedCurrencyListsAll(t *testing.T) {
	calc := service.NewFxCalculator(mm)
	table := rateTable(t, day(1), map[string]string{"USD": "1", "NZD": "1.5"})

	pairs := []valueobject.CurrencyPair{
		valueobject.MustCurrencyPair("USD", "NZD"),
		valueobject.MustCurrencyPair("XXX", "NZD"),
		valueobject.MustCurrencyPair("USD", "AAA"),
	}
	got, err := calc.Compute(day(1), pairs, table)
	assert.Nil(t, got)

	var ccyErr *service.UnsupportedCurrencyError
	require.True(t, errors.As(err, &ccyErr))
	assert.Equal(t, []string{"AAA", "XXX"}, ccyErr.Codes)
	assert.True(t, service.IsBusinessRule(err))
}

func TestFxCalculator_ZeroDivisorIsGuarded(t *testing.T) {
	calc := service.NewFxCalculator(mm)
	table := rateTable(t, day(1), map[string]string{"USD": "1", "NZD": "0"})

	pair := valueobject.MustCurrencyPair("USD", "NZD")
	got, err := calc.Compute(day(1), []valueobject.CurrencyPair{pair}, table)
	require.NoError(t, err)
	assert.True(t, d("1").Equal(got[pair].Rate()))
}
