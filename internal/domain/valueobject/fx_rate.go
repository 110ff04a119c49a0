package valueobject

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// FxRate is a resolved exchange rate for one currency pair on one date.
type FxRate struct {
	from money.Currency
	to   money.Currency
	rate decimal.Decimal
	date time.Time
}

// NewFxRate creates an FxRate. A negative rate is rejected; a zero rate is
// allowed and is treated as "unset" by the arithmetic helpers.
func NewFxRate(from, to money.Currency, rate decimal.Decimal, date time.Time) (FxRate, error) {
	if from.IsZero() || to.IsZero() {
		return FxRate{}, fmt.Errorf("fx rate requires both currencies")
	}
	if rate.IsNegative() {
		return FxRate{}, fmt.Errorf("fx rate must not be negative, got %s", rate.String())
	}
	return FxRate{from: from, to: to, rate: rate, date: date}, nil
}

// From returns the from currency.
func (r FxRate) From() money.Currency { return r.from }

// To returns the to currency.
func (r FxRate) To() money.Currency { return r.to }

// Rate returns the decimal rate.
func (r FxRate) Rate() decimal.Decimal { return r.rate }

// Date returns the as-of date of the rate.
func (r FxRate) Date() time.Time { return r.date }

// Pair returns the currency pair this rate resolves.
func (r FxRate) Pair() CurrencyPair {
	return CurrencyPair{from: r.from.Code(), to: r.to.Code()}
}

// String returns the rate formatted as "USD/NZD 1.50000000".
func (r FxRate) String() string {
	return fmt.Sprintf("%s/%s %s", r.from.Code(), r.to.Code(), r.rate.StringFixed(8))
}
