package model

import (
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Position is the accumulated holding of one asset. It carries one shared
// QuantityValues and an independent MoneyValues per currency context.
type Position struct {
	Asset    valueobject.Asset
	Quantity QuantityValues
	Dates    DateValues

	money [valueobject.ContextCount]MoneyValues
}

// NewPosition returns an empty position for asset.
func NewPosition(asset valueobject.Asset) *Position {
	return &Position{Asset: asset}
}

// MoneyValues returns the values for ctx, stamping currency on first use.
func (p *Position) MoneyValues(ctx valueobject.Context, currency money.Currency) *MoneyValues {
	mv := &p.money[ctx]
	if mv.Currency.IsZero() {
		mv.Currency = currency
	}
	return mv
}

// Values returns the values for ctx without touching its currency.
func (p *Position) Values(ctx valueobject.Context) *MoneyValues {
	return &p.money[ctx]
}

// IsOpen reports whether any quantity is held.
func (p *Position) IsOpen() bool {
	return !p.Quantity.Total().IsZero()
}
