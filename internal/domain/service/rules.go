package service

import (
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
)

type buyRule struct{ contextual }

func (r buyRule) apply(trn model.Trn, portfolio model.Portfolio, position *model.Position) {
	position.Quantity.Purchased = position.Quantity.Purchased.Add(trn.Quantity().Abs())
	total := position.Quantity.Total()

	r.each(trn, portfolio, position, func(mv *model.MoneyValues, rate decimal.Decimal) {
		amount := r.math.Multiply(trn.TradeAmount(), rate)
		mv.Purchases = mv.Purchases.Add(amount)
		mv.CostBasis = mv.CostBasis.Add(amount)
		mv.Fees = mv.Fees.Add(r.math.Multiply(trn.Fees(), rate))
		if !mv.CostBasis.IsZero() && !total.IsZero() {
			mv.AverageCost = r.math.Divide(mv.CostBasis, total)
		}
		mv.CostValue = r.math.Value(mv.AverageCost, total)
	})
}

type sellRule struct{ contextual }

// apply books the proceeds and realises the gain against average cost. Cost
// basis follows the remaining quantity at average cost.
func (r sellRule) apply(trn model.Trn, portfolio model.Portfolio, position *model.Position) {
	qty := trn.Quantity()
	if qty.IsPositive() {
		qty = qty.Neg()
	}
	position.Quantity.Sold = position.Quantity.Sold.Add(qty)
	total := position.Quantity.Total()
	sold := qty.Abs()

	r.each(trn, portfolio, position, func(mv *model.MoneyValues, rate decimal.Decimal) {
		amount := r.math.Multiply(trn.TradeAmount(), rate)
		mv.Sales = mv.Sales.Add(amount)
		mv.Fees = mv.Fees.Add(r.math.Multiply(trn.Fees(), rate))
		if !trn.TradeAmount().IsZero() && !sold.IsZero() {
			unitCost := r.math.Divide(amount, sold)
			unitProfit := unitCost.Sub(mv.AverageCost)
			mv.RealisedGain = mv.RealisedGain.Add(r.math.Value(unitProfit, sold))
		}
		if total.IsZero() {
			mv.Close()
			return
		}
		mv.CostValue = r.math.Value(mv.AverageCost, total)
		mv.CostBasis = mv.CostValue
	})
}

type dividendRule struct{ contextual }

func (r dividendRule) apply(trn model.Trn, portfolio model.Portfolio, position *model.Position) {
	r.each(trn, portfolio, position, func(mv *model.MoneyValues, rate decimal.Decimal) {
		mv.Dividends = mv.Dividends.Add(r.math.Multiply(trn.TradeAmount(), rate))
	})
}

type splitRule struct{ contextual }

// apply scales the held quantity by the split factor through Adjustment,
// leaving Purchased and Sold as traded.
func (r splitRule) apply(trn model.Trn, portfolio model.Portfolio, position *model.Position) {
	before := position.Quantity.Total()
	after := trn.Quantity().Mul(before)
	position.Quantity.Adjustment = position.Quantity.Adjustment.Add(after.Sub(before))

	r.each(trn, portfolio, position, func(mv *model.MoneyValues, _ decimal.Decimal) {
		if mv.CostBasis.IsZero() || after.IsZero() {
			return
		}
		mv.AverageCost = r.math.Divide(mv.CostBasis, after)
		mv.CostValue = r.math.Value(mv.AverageCost, after)
	})
}
