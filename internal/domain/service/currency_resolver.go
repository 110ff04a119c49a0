package service

import (
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// CurrencyResolver maps a currency context to a concrete currency.
type CurrencyResolver struct{}

// Resolve returns the currency ctx is valued in for a portfolio and trade currency.
func (CurrencyResolver) Resolve(ctx valueobject.Context, portfolio model.Portfolio, trade money.Currency) money.Currency {
	switch ctx {
	case valueobject.ContextBase:
		return portfolio.Base()
	case valueobject.ContextPortfolio:
		return portfolio.Currency()
	default:
		return trade
	}
}

// Rate returns the rate that converts trn's trade amounts into ctx.
func (CurrencyResolver) Rate(ctx valueobject.Context, trn model.Trn) decimal.Decimal {
	switch ctx {
	case valueobject.ContextBase:
		return trn.TradeBaseRate()
	case valueobject.ContextPortfolio:
		return trn.TradePortfolioRate()
	default:
		return decimal.NewFromInt(1)
	}
}
