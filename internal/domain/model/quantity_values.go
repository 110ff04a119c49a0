package model

import "github.com/shopspring/decimal"

// QuantityValues tracks the units held of an asset. Sold accumulates as a
// negative number; Adjustment absorbs split changes.
type QuantityValues struct {
	Purchased  decimal.Decimal `json:"purchased"`
	Sold       decimal.Decimal `json:"sold"`
	Adjustment decimal.Decimal `json:"adjustment"`
}

// Total is Purchased + Sold + Adjustment.
func (q QuantityValues) Total() decimal.Decimal {
	return q.Purchased.Add(q.Sold).Add(q.Adjustment)
}

// Precision returns 0 when Total is a whole number, otherwise fractional.
func (q QuantityValues) Precision(fractional int32) int32 {
	total := q.Total()
	if total.Equal(total.Truncate(0)) {
		return 0
	}
	return fractional
}
