package valueobject

import (
	"fmt"
	"sort"
	"time"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// RateTable is an immutable set of exchange rates quoted against a single
// pivot currency for one as-of date. Entries are keyed by the quoted currency
// code; each entry's To currency is the display currency for that code.
type RateTable struct {
	asOf  time.Time
	pivot money.Currency
	rates map[string]FxRate
}

// NewRateTable builds a RateTable from pivot-relative rates. Every rate must
// be quoted from the pivot currency and each quoted currency may appear once.
func NewRateTable(asOf time.Time, pivot money.Currency, rates []FxRate) (RateTable, error) {
	byCode := make(map[string]FxRate, len(rates))
	for _, r := range rates {
		if !r.From().Equal(pivot) {
			return RateTable{}, fmt.Errorf("rate %s is not quoted from pivot %s", r, pivot)
		}
		code := r.To().Code()
		if _, dup := byCode[code]; dup {
			return RateTable{}, fmt.Errorf("duplicate rate for %s", code)
		}
		byCode[code] = r
	}
	return RateTable{asOf: asOf, pivot: pivot, rates: byCode}, nil
}

// AsOf returns the date the table was resolved for.
func (t RateTable) AsOf() time.Time { return t.asOf }

// Pivot returns the currency every rate is quoted against.
func (t RateTable) Pivot() money.Currency { return t.pivot }

// Lookup returns the pivot-relative rate for a currency code.
func (t RateTable) Lookup(code string) (FxRate, bool) {
	r, ok := t.rates[code]
	return r, ok
}

// Len returns the number of quoted currencies.
func (t RateTable) Len() int { return len(t.rates) }

// Codes returns the quoted currency codes in sorted order.
func (t RateTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
