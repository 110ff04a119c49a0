package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// TrnParams carries the raw fields of a transaction.
type TrnParams struct {
	ID            uuid.UUID
	PortfolioID   uuid.UUID
	Type          valueobject.TrnType
	Asset         valueobject.Asset
	TradeDate     time.Time
	SettleDate    time.Time
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	Fees          decimal.Decimal
	Tax           decimal.Decimal
	TradeAmount   decimal.Decimal
	CashAmount    decimal.Decimal
	TradeCurrency money.Currency
	CashCurrency  money.Currency

	// Rates from the trade currency. Zero means unset.
	TradeCashRate      decimal.Decimal
	TradeBaseRate      decimal.Decimal
	TradePortfolioRate decimal.Decimal
}

// Trn is an immutable financial transaction against one asset.
type Trn struct {
	p TrnParams
}

// NewTrn validates params and returns a Trn. A missing ID is generated and a
// missing trade currency defaults to the asset's currency.
func NewTrn(p TrnParams) (Trn, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Asset.Key() == ":" {
		return Trn{}, fmt.Errorf("transaction %s: asset is required", p.ID)
	}
	if p.TradeDate.IsZero() {
		return Trn{}, fmt.Errorf("transaction %s: trade date is required", p.ID)
	}
	if p.SettleDate.IsZero() {
		p.SettleDate = p.TradeDate
	}
	if p.TradeCurrency.IsZero() {
		p.TradeCurrency = p.Asset.Currency()
	}
	if p.CashCurrency.IsZero() {
		p.CashCurrency = p.TradeCurrency
	}
	if p.Type == valueobject.TrnTypeSplit && !p.Quantity.IsPositive() {
		return Trn{}, fmt.Errorf("transaction %s: split factor must be positive", p.ID)
	}
	for name, r := range map[string]decimal.Decimal{
		"trade cash":      p.TradeCashRate,
		"trade base":      p.TradeBaseRate,
		"trade portfolio": p.TradePortfolioRate,
	} {
		if r.IsNegative() {
			return Trn{}, fmt.Errorf("transaction %s: %s rate must not be negative", p.ID, name)
		}
	}
	return Trn{p: p}, nil
}

// WithRates returns a copy of t with the three trade rates attached.
func (t Trn) WithRates(tradeCash, tradeBase, tradePortfolio decimal.Decimal) (Trn, error) {
	p := t.p
	p.TradeCashRate = tradeCash
	p.TradeBaseRate = tradeBase
	p.TradePortfolioRate = tradePortfolio
	return NewTrn(p)
}

func (t Trn) ID() uuid.UUID                      { return t.p.ID }
func (t Trn) PortfolioID() uuid.UUID             { return t.p.PortfolioID }
func (t Trn) Type() valueobject.TrnType          { return t.p.Type }
func (t Trn) Asset() valueobject.Asset           { return t.p.Asset }
func (t Trn) TradeDate() time.Time               { return t.p.TradeDate }
func (t Trn) SettleDate() time.Time              { return t.p.SettleDate }
func (t Trn) Quantity() decimal.Decimal          { return t.p.Quantity }
func (t Trn) Price() decimal.Decimal             { return t.p.Price }
func (t Trn) Fees() decimal.Decimal              { return t.p.Fees }
func (t Trn) Tax() decimal.Decimal               { return t.p.Tax }
func (t Trn) TradeAmount() decimal.Decimal       { return t.p.TradeAmount }
func (t Trn) CashAmount() decimal.Decimal        { return t.p.CashAmount }
func (t Trn) TradeCurrency() money.Currency      { return t.p.TradeCurrency }
func (t Trn) CashCurrency() money.Currency       { return t.p.CashCurrency }
func (t Trn) TradeCashRate() decimal.Decimal     { return t.p.TradeCashRate }
func (t Trn) TradeBaseRate() decimal.Decimal     { return t.p.TradeBaseRate }
func (t Trn) TradePortfolioRate() decimal.Decimal { return t.p.TradePortfolioRate }

// Params returns a copy of the transaction's fields.
func (t Trn) Params() TrnParams { return t.p }

func (t Trn) String() string {
	return fmt.Sprintf("%s %s %s qty=%s on %s", t.p.ID, t.p.Type, t.p.Asset.Key(), t.p.Quantity, t.p.TradeDate.Format(time.DateOnly))
}
