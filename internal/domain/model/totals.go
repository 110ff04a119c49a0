package model

import (
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Totals aggregates the money values of every position in one context.
type Totals struct {
	Currency       money.Currency
	Purchases      decimal.Decimal
	Sales          decimal.Decimal
	CostValue      decimal.Decimal
	MarketValue    decimal.Decimal
	Dividends      decimal.Decimal
	RealisedGain   decimal.Decimal
	UnrealisedGain decimal.Decimal
	TotalGain      decimal.Decimal
}

// Add folds one position's values into the totals.
func (t *Totals) Add(mv *MoneyValues) {
	t.Purchases = t.Purchases.Add(mv.Purchases)
	t.Sales = t.Sales.Add(mv.Sales)
	t.CostValue = t.CostValue.Add(mv.CostValue)
	t.MarketValue = t.MarketValue.Add(mv.MarketValue)
	t.Dividends = t.Dividends.Add(mv.Dividends)
	t.RealisedGain = t.RealisedGain.Add(mv.RealisedGain)
	t.UnrealisedGain = t.UnrealisedGain.Add(mv.UnrealisedGain)
	t.TotalGain = t.TotalGain.Add(mv.TotalGain)
}

// MarketValueMoney returns the market value as Money in the totals currency.
func (t *Totals) MarketValueMoney() money.Money {
	return money.New(t.MarketValue, t.Currency).Round()
}

// TotalGainMoney returns the total gain as Money in the totals currency.
func (t *Totals) TotalGainMoney() money.Money {
	return money.New(t.TotalGain, t.Currency).Round()
}
