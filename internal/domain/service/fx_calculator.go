package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

// FxCalculator derives cross rates from a pivot-relative RateTable.
type FxCalculator struct {
	math MoneyMath
}

// NewFxCalculator creates an FxCalculator.
func NewFxCalculator(m MoneyMath) *FxCalculator {
	return &FxCalculator{math: m}
}

// Compute resolves one FxRate per requested pair. Every pair is checked
// against the table before any rate is computed; missing codes are reported
// together in an *UnsupportedCurrencyError.
//
// rate(from, to) = table[from] / table[to], rounded to rate scale. An
// identity pair resolves to one, dated asOf.
func (c *FxCalculator) Compute(
	asOf time.Time,
	pairs []valueobject.CurrencyPair,
	table valueobject.RateTable,
) (map[valueobject.CurrencyPair]valueobject.FxRate, error) {
	if err := c.validate(pairs, table); err != nil {
		return nil, err
	}

	result := make(map[valueobject.CurrencyPair]valueobject.FxRate, len(pairs))
	for _, pair := range pairs {
		from, _ := table.Lookup(pair.From())
		to, _ := table.Lookup(pair.To())

		var (
			rate valueobject.FxRate
			err  error
		)
		if pair.IsIdentity() {
			rate, err = valueobject.NewFxRate(from.To(), from.To(), decimal.NewFromInt(1), asOf)
		} else {
			cross := c.math.CrossRate(from.Rate(), to.Rate())
			rate, err = valueobject.NewFxRate(from.To(), to.To(), cross, table.AsOf())
		}
		if err != nil {
			return nil, err
		}
		result[pair] = rate
	}
	return result, nil
}

func (c *FxCalculator) validate(pairs []valueobject.CurrencyPair, table valueobject.RateTable) error {
	missing := make(map[string]struct{})
	for _, pair := range pairs {
		for _, code := range []string{pair.From(), pair.To()} {
			if _, ok := table.Lookup(code); !ok {
				missing[code] = struct{}{}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	codes := make([]string, 0, len(missing))
	for code := range missing {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return &UnsupportedCurrencyError{Codes: codes}
}
