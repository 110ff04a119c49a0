package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Transaction DTOs ---

// TransactionInput is a transaction as delivered by an upstream producer.
// Dates are ISO dates (2006-01-02). Unset rates are zero.
type TransactionInput struct {
	ID                 uuid.UUID       `json:"id"`
	Portfolio          string          `json:"portfolio"`
	AssetCode          string          `json:"assetCode"`
	Market             string          `json:"market"`
	AssetName          string          `json:"assetName,omitempty"`
	AssetCurrency      string          `json:"assetCurrency"`
	Type               string          `json:"type"`
	TradeDate          string          `json:"tradeDate"`
	SettleDate         string          `json:"settleDate,omitempty"`
	Quantity           decimal.Decimal `json:"quantity"`
	Price              decimal.Decimal `json:"price"`
	Fees               decimal.Decimal `json:"fees"`
	Tax                decimal.Decimal `json:"tax"`
	TradeAmount        decimal.Decimal `json:"tradeAmount"`
	CashAmount         decimal.Decimal `json:"cashAmount"`
	TradeCurrency      string          `json:"tradeCurrency,omitempty"`
	CashCurrency       string          `json:"cashCurrency,omitempty"`
	TradeCashRate      decimal.Decimal `json:"tradeCashRate"`
	TradeBaseRate      decimal.Decimal `json:"tradeBaseRate"`
	TradePortfolioRate decimal.Decimal `json:"tradePortfolioRate"`
}

// RecordTransactionResponse is the output of RecordTransaction.
type RecordTransactionResponse struct {
	ID          uuid.UUID
	PortfolioID uuid.UUID
	AssetKey    string
}

// --- Position DTOs ---

// PositionsRequest asks for the positions of a portfolio as at a date. A
// zero AsAt means today.
type PositionsRequest struct {
	PortfolioCode string
	AsAt          time.Time
}

// PortfolioDTO transfers portfolio identity.
type PortfolioDTO struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
	Base     string    `json:"base"`
}

// QuantityDTO transfers QuantityValues.
type QuantityDTO struct {
	Purchased  decimal.Decimal `json:"purchased"`
	Sold       decimal.Decimal `json:"sold"`
	Adjustment decimal.Decimal `json:"adjustment"`
	Total      decimal.Decimal `json:"total"`
	Precision  int32           `json:"precision"`
}

// MoneyValuesDTO transfers one currency context of a position.
type MoneyValuesDTO struct {
	Currency       string          `json:"currency"`
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
	PriceDate      *time.Time      `json:"priceDate,omitempty"`
}

// DatesDTO transfers DateValues. Unset dates are nil.
type DatesDTO struct {
	Opened *time.Time `json:"opened,omitempty"`
	Last   *time.Time `json:"last,omitempty"`
	Closed *time.Time `json:"closed,omitempty"`
}

// PositionDTO transfers one position.
type PositionDTO struct {
	AssetKey    string                    `json:"assetKey"`
	AssetCode   string                    `json:"assetCode"`
	Market      string                    `json:"market"`
	Quantity    QuantityDTO               `json:"quantity"`
	MoneyValues map[string]MoneyValuesDTO `json:"moneyValues"`
	Dates       DatesDTO                  `json:"dates"`
}

// TotalsDTO transfers per-context totals.
type TotalsDTO struct {
	Currency       string          `json:"currency"`
	Purchases      decimal.Decimal `json:"purchases"`
	Sales          decimal.Decimal `json:"sales"`
	CostValue      decimal.Decimal `json:"costValue"`
	MarketValue    decimal.Decimal `json:"marketValue"`
	Dividends      decimal.Decimal `json:"dividends"`
	RealisedGain   decimal.Decimal `json:"realisedGain"`
	UnrealisedGain decimal.Decimal `json:"unrealisedGain"`
	TotalGain      decimal.Decimal `json:"totalGain"`
}

// RejectionDTO reports a transaction skipped during accumulation.
type RejectionDTO struct {
	TrnID    uuid.UUID `json:"trnId"`
	AssetKey string    `json:"assetKey"`
	Reason   string    `json:"reason"`
}

// PositionsResponse is the output of GetPositions and ValuePositions.
// Positions are ordered by asset key.
type PositionsResponse struct {
	Portfolio PortfolioDTO         `json:"portfolio"`
	AsAt      time.Time            `json:"asAt"`
	Positions []PositionDTO        `json:"positions"`
	Totals    map[string]TotalsDTO `json:"totals,omitempty"`
	Rejected  []RejectionDTO       `json:"rejected,omitempty"`
}

// --- FX DTOs ---

// FxRatesRequest asks for cross rates of pairs written "FROM/TO".
type FxRatesRequest struct {
	AsOf  time.Time
	Pairs []string
}

// FxRateDTO transfers one resolved rate.
type FxRateDTO struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date time.Time       `json:"date"`
}

// FxRatesResponse is the output of GetFxRates, in request order.
type FxRatesResponse struct {
	AsOf  time.Time   `json:"asOf"`
	Rates []FxRateDTO `json:"rates"`
}
