package event

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/monowai/beancounter-sub001/pkg/events"
)

const (
	AggregateTypeTransaction = "Transaction"
	AggregateTypePortfolio   = "Portfolio"
)

// TransactionRecorded is emitted when an ingested transaction is stored.
type TransactionRecorded struct {
	events.BaseEvent
	TrnID       uuid.UUID `json:"trn_id"`
	PortfolioID uuid.UUID `json:"portfolio_id"`
	AssetKey    string    `json:"asset_key"`
	TrnType     string    `json:"trn_type"`
	TradeDate   string    `json:"trade_date"`
}

// NewTransactionRecorded creates a TransactionRecorded domain event.
func NewTransactionRecorded(trnID, portfolioID uuid.UUID, assetKey, trnType, tradeDate string) TransactionRecorded {
	payload, _ := json.Marshal(struct {
		TrnID       uuid.UUID `json:"trn_id"`
		PortfolioID uuid.UUID `json:"portfolio_id"`
		AssetKey    string    `json:"asset_key"`
		TrnType     string    `json:"trn_type"`
		TradeDate   string    `json:"trade_date"`
	}{trnID, portfolioID, assetKey, trnType, tradeDate})

	return TransactionRecorded{
		BaseEvent:   events.NewBaseEvent("trn.recorded", trnID, AggregateTypeTransaction, payload),
		TrnID:       trnID,
		PortfolioID: portfolioID,
		AssetKey:    assetKey,
		TrnType:     trnType,
		TradeDate:   tradeDate,
	}
}

// TransactionRejected is emitted when a transaction fails validation or a
// business rule. TrnID may be nil when the input never parsed.
type TransactionRejected struct {
	events.BaseEvent
	TrnID     uuid.UUID `json:"trn_id"`
	Portfolio string    `json:"portfolio"`
	Reason    string    `json:"reason"`
}

// NewTransactionRejected creates a TransactionRejected domain event.
func NewTransactionRejected(trnID uuid.UUID, portfolio, reason string) TransactionRejected {
	payload, _ := json.Marshal(struct {
		TrnID     uuid.UUID `json:"trn_id"`
		Portfolio string    `json:"portfolio"`
		Reason    string    `json:"reason"`
	}{trnID, portfolio, reason})

	return TransactionRejected{
		BaseEvent: events.NewBaseEvent("trn.rejected", trnID, AggregateTypeTransaction, payload),
		TrnID:     trnID,
		Portfolio: portfolio,
		Reason:    reason,
	}
}

// PositionsValued is emitted when a portfolio has been marked to market.
type PositionsValued struct {
	events.BaseEvent
	PortfolioID   uuid.UUID `json:"portfolio_id"`
	Portfolio     string    `json:"portfolio"`
	AsAt          string    `json:"as_at"`
	Currency      string    `json:"currency"`
	MarketValue   string    `json:"market_value"`
	TotalGain     string    `json:"total_gain"`
	PositionCount int       `json:"position_count"`
}

// NewPositionsValued creates a PositionsValued domain event.
func NewPositionsValued(portfolioID uuid.UUID, portfolio, asAt, currency, marketValue, totalGain string, positions int) PositionsValued {
	payload, _ := json.Marshal(struct {
		PortfolioID   uuid.UUID `json:"portfolio_id"`
		Portfolio     string    `json:"portfolio"`
		AsAt          string    `json:"as_at"`
		Currency      string    `json:"currency"`
		MarketValue   string    `json:"market_value"`
		TotalGain     string    `json:"total_gain"`
		PositionCount int       `json:"position_count"`
	}{portfolioID, portfolio, asAt, currency, marketValue, totalGain, positions})

	return PositionsValued{
		BaseEvent:     events.NewBaseEvent("positions.valued", portfolioID, AggregateTypePortfolio, payload),
		PortfolioID:   portfolioID,
		Portfolio:     portfolio,
		AsAt:          asAt,
		Currency:      currency,
		MarketValue:   marketValue,
		TotalGain:     totalGain,
		PositionCount: positions,
	}
}
