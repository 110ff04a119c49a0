package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// MoneyValues is the monetary state of a position in one currency context.
// Deltas are accumulated as non-negative magnitudes; the sign of a trade lives
// in the quantity.
type MoneyValues struct {
	Currency       money.Currency  `json:"-"`
	Dividends      decimal.Decimal `json:"dividends"`
	Purchases      decimal.Decimal `json:"purchases"`
	Sales          decimal.Decimal `json:"sales"`
	Fees           decimal.Decimal `json:"fees"`
	CostBasis      decimal.Decimal `json:"costBasis"`
	CostValue      decimal.Decimal `json:"costValue"`
	AverageCost    decimal.Decimal `json:"averageCost"`
	MarketValue    decimal.Decimal `json:"marketValue"`
	RealisedGain   decimal.Decimal `json:"realisedGain"`
	UnrealisedGain decimal.Decimal `json:"unrealisedGain"`
	TotalGain      decimal.Decimal `json:"totalGain"`
	Price          decimal.Decimal `json:"price"`
	PriceDate      time.Time       `json:"priceDate"`
}

// resetCost zeroes the cost fields once a position is flat.
func (m *MoneyValues) resetCost() {
	m.CostBasis = decimal.Zero
	m.CostValue = decimal.Zero
	m.AverageCost = decimal.Zero
}

// Close zeroes cost and mark-to-market fields of a fully closed position.
func (m *MoneyValues) Close() {
	m.resetCost()
	m.MarketValue = decimal.Zero
	m.UnrealisedGain = decimal.Zero
}

// ResetCost zeroes CostBasis, CostValue and AverageCost.
func (m *MoneyValues) ResetCost() { m.resetCost() }
