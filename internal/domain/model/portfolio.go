package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Portfolio groups transactions that are reported together. Currency is the
// reporting currency; Base is the system base currency and defaults to USD.
type Portfolio struct {
	id       uuid.UUID
	code     string
	name     string
	currency money.Currency
	base     money.Currency
}

// NewPortfolio creates a Portfolio with a generated ID.
func NewPortfolio(code, name string, currency, base money.Currency) (Portfolio, error) {
	return ReconstructPortfolio(uuid.New(), code, name, currency, base)
}

// ReconstructPortfolio recreates a Portfolio from persistence.
func ReconstructPortfolio(id uuid.UUID, code, name string, currency, base money.Currency) (Portfolio, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if id == uuid.Nil {
		return Portfolio{}, fmt.Errorf("portfolio ID is required")
	}
	if code == "" {
		return Portfolio{}, fmt.Errorf("portfolio code is required")
	}
	if currency.IsZero() {
		return Portfolio{}, fmt.Errorf("portfolio %s requires a reporting currency", code)
	}
	if base.IsZero() {
		base = money.USD
	}
	return Portfolio{id: id, code: code, name: name, currency: currency, base: base}, nil
}

func (p Portfolio) ID() uuid.UUID            { return p.id }
func (p Portfolio) Code() string             { return p.code }
func (p Portfolio) Name() string             { return p.name }
func (p Portfolio) Currency() money.Currency { return p.currency }
func (p Portfolio) Base() money.Currency     { return p.base }
