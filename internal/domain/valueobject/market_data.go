package valueobject

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketData is one price observation for an asset.
type MarketData struct {
	Asset     Asset
	PriceDate time.Time
	Open      decimal.Decimal
	Close     decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Volume    decimal.Decimal
}
