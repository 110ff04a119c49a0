package valueobject

import (
	"fmt"
	"regexp"
	"strings"
)

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// CurrencyPair is an immutable, ordered from/to currency pair following ISO 4217
// conventions (e.g., USD/NZD). Pairs are comparable and can be used as map keys.
// A pair whose from and to are the same currency is valid and trivially has a
// rate of one.
type CurrencyPair struct {
	from string
	to   string
}

// NewCurrencyPair creates a CurrencyPair after validating both currencies are 3-letter
// ISO 4217 codes. Codes are matched case-insensitively and stored upper case.
func NewCurrencyPair(from, to string) (CurrencyPair, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if !currencyCodePattern.MatchString(from) {
		return CurrencyPair{}, fmt.Errorf("invalid from currency %q: must be exactly 3 letters", from)
	}
	if !currencyCodePattern.MatchString(to) {
		return CurrencyPair{}, fmt.Errorf("invalid to currency %q: must be exactly 3 letters", to)
	}
	return CurrencyPair{from: from, to: to}, nil
}

// MustCurrencyPair creates a CurrencyPair and panics on error.
func MustCurrencyPair(from, to string) CurrencyPair {
	p, err := NewCurrencyPair(from, to)
	if err != nil {
		panic(err)
	}
	return p
}

// From returns the from currency code.
func (cp CurrencyPair) From() string {
	return cp.from
}

// To returns the to currency code.
func (cp CurrencyPair) To() string {
	return cp.to
}

// IsIdentity returns true when from and to are the same currency.
func (cp CurrencyPair) IsIdentity() bool {
	return cp.from == cp.to
}

// String returns the pair formatted as "FROM/TO" (e.g., "USD/NZD").
func (cp CurrencyPair) String() string {
	return fmt.Sprintf("%s/%s", cp.from, cp.to)
}

// Inverse returns the inverted pair (e.g., USD/NZD becomes NZD/USD).
func (cp CurrencyPair) Inverse() CurrencyPair {
	return CurrencyPair{from: cp.to, to: cp.from}
}

// Equal returns true if both pairs have the same from and to.
func (cp CurrencyPair) Equal(other CurrencyPair) bool {
	return cp.from == other.from && cp.to == other.to
}
