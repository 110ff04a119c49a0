package valueobject

import (
	"fmt"
	"strings"

	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Asset identifies a tradeable instrument on a market. Its Key is
// "<assetCode>:<marketCode>" and is what positions are indexed by.
type Asset struct {
	code     string
	market   string
	name     string
	currency money.Currency
}

// NewAsset creates an Asset. Code and market are stored upper case.
func NewAsset(code, market, name string, currency money.Currency) (Asset, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	market = strings.ToUpper(strings.TrimSpace(market))
	if code == "" {
		return Asset{}, fmt.Errorf("asset code is required")
	}
	if market == "" {
		return Asset{}, fmt.Errorf("market code is required for asset %s", code)
	}
	if currency.IsZero() {
		return Asset{}, fmt.Errorf("currency is required for asset %s:%s", code, market)
	}
	return Asset{code: code, market: market, name: name, currency: currency}, nil
}

// Code returns the asset code.
func (a Asset) Code() string { return a.code }

// Market returns the market code.
func (a Asset) Market() string { return a.market }

// Name returns the display name.
func (a Asset) Name() string { return a.name }

// Currency returns the currency the asset trades and is priced in.
func (a Asset) Currency() money.Currency { return a.currency }

// Key returns "<assetCode>:<marketCode>".
func (a Asset) Key() string { return a.code + ":" + a.market }

// String returns the asset key.
func (a Asset) String() string { return a.Key() }
