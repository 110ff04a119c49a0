package money

import (
	"fmt"
	"regexp"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Currency is an ISO 4217 currency. Identity is the code; codes are
// normalised to upper case so "usd" and "USD" are the same currency.
type Currency struct {
	code   string
	name   string
	symbol string
}

// NewCurrency creates a Currency after validating the code is exactly 3 letters.
// The display symbol is taken from the ISO table shipped with go-money and
// falls back to the code for unknown currencies.
func NewCurrency(code string) (Currency, error) {
	upper := strings.ToUpper(strings.TrimSpace(code))
	if !currencyCodeRe.MatchString(upper) {
		return Currency{}, fmt.Errorf("invalid currency code %q: must be exactly 3 letters", code)
	}
	return Currency{code: upper, symbol: lookupSymbol(upper)}, nil
}

// MustCurrency creates a Currency and panics on error. Intended for package-level variable
// initialization only.
func MustCurrency(code string) Currency {
	c, err := NewCurrency(code)
	if err != nil {
		panic(err)
	}
	return c
}

// WithName returns a copy of c carrying a display name.
func (c Currency) WithName(name string) Currency {
	c.name = name
	return c
}

// Code returns the ISO 4217 currency code.
func (c Currency) Code() string {
	return c.code
}

// Name returns the display name, or the code when no name was attached.
func (c Currency) Name() string {
	if c.name == "" {
		return c.code
	}
	return c.name
}

// Symbol returns the display symbol (e.g. "$", "€").
func (c Currency) Symbol() string {
	return c.symbol
}

// IsZero reports whether c is the zero Currency.
func (c Currency) IsZero() bool {
	return c.code == ""
}

// Equal compares currencies by code only.
func (c Currency) Equal(other Currency) bool {
	return c.code == other.code
}

// Fraction returns the number of minor-unit digits for the currency.
func (c Currency) Fraction() int {
	return gomoney.New(0, c.code).Currency().Fraction
}

// String returns the currency code.
func (c Currency) String() string {
	return c.code
}

// to get a never nil currency go-money's constructor has to be called.
func lookupSymbol(code string) string {
	cur := gomoney.New(0, code).Currency()
	if cur.Grapheme == "" {
		return code
	}
	return cur.Grapheme
}

// Common currencies.
var (
	USD = MustCurrency("USD").WithName("US Dollar")
	EUR = MustCurrency("EUR").WithName("Euro")
	GBP = MustCurrency("GBP").WithName("Pound Sterling")
	NZD = MustCurrency("NZD").WithName("New Zealand Dollar")
	AUD = MustCurrency("AUD").WithName("Australian Dollar")
	SGD = MustCurrency("SGD").WithName("Singapore Dollar")
)

// Money represents an immutable monetary amount with currency.
// Fields are unexported to enforce immutability.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// New creates a Money value from a decimal amount and currency.
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{amount: amount, currency: currency}
}

// NewFromString parses an amount string and currency code into a Money value.
func NewFromString(amount string, currency string) (Money, error) {
	cur, err := NewCurrency(currency)
	if err != nil {
		return Money{}, fmt.Errorf("invalid currency: %w", err)
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return Money{amount: d, currency: cur}, nil
}

// Zero returns a Money value of zero in the given currency.
func Zero(currency Currency) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount returns the decimal amount.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency.
func (m Money) Currency() Currency {
	return m.currency
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsNegative returns true if the amount is strictly less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Add returns the sum of m and other. Returns an error if the currencies do not match.
func (m Money) Add(other Money) (Money, error) {
	if !m.currency.Equal(other.currency) {
		return Money{}, fmt.Errorf("currency mismatch: cannot add %s to %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Add(other.amount), currency: m.currency}, nil
}

// Subtract returns the difference of m minus other. Returns an error if the currencies do not match.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.currency.Equal(other.currency) {
		return Money{}, fmt.Errorf("currency mismatch: cannot subtract %s from %s", other.currency, m.currency)
	}
	return Money{amount: m.amount.Sub(other.amount), currency: m.currency}, nil
}

// Round returns m rounded to the currency's minor units.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(int32(m.currency.Fraction())), currency: m.currency}
}

// Equal returns true if both the amount and currency of m and other are equal.
func (m Money) Equal(other Money) bool {
	return m.currency.Equal(other.currency) && m.amount.Equal(other.amount)
}

// String formats the Money value as "<amount> <currency>", for example "100.00 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(int32(m.currency.Fraction())), m.currency.Code())
}

// Display formats the Money value with the currency symbol, for example "$100.00".
func (m Money) Display() string {
	return m.currency.Symbol() + m.amount.StringFixed(int32(m.currency.Fraction()))
}
