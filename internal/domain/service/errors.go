package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

var (
	// ErrPriceNotFound is returned when an open position has no price.
	ErrPriceNotFound = errors.New("price not found")
	// ErrRateNotFound is returned when a required FX pair was not resolved.
	ErrRateNotFound = errors.New("fx rate not found")
	// ErrValuationTimeout is returned when market data is not fetched in time.
	ErrValuationTimeout = errors.New("valuation timed out")
)

// SequenceError rejects a transaction dated before the position's last trade.
type SequenceError struct {
	Trn  model.Trn
	Last time.Time
}

func (e *SequenceError) Error() string {
	return fmt.Sprintf("transaction %s for %s dated %s is before last trade date %s",
		e.Trn.ID(), e.Trn.Asset().Key(),
		e.Trn.TradeDate().Format(time.DateOnly), e.Last.Format(time.DateOnly))
}

// UnsupportedTrnTypeError is returned when no rule handles a transaction type.
type UnsupportedTrnTypeError struct {
	Type valueobject.TrnType
}

func (e *UnsupportedTrnTypeError) Error() string {
	return fmt.Sprintf("unsupported transaction type %s", e.Type)
}

// UnsupportedCurrencyError lists every requested currency missing from a rate table.
type UnsupportedCurrencyError struct {
	Codes []string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency in request: %s", strings.Join(e.Codes, ", "))
}

// ValuationError wraps a market data failure that aborted a valuation.
// Nothing was mutated, so the caller may retry.
type ValuationError struct {
	Portfolio string
	Err       error
}

func (e *ValuationError) Error() string {
	return fmt.Sprintf("valuing portfolio %s: %v", e.Portfolio, e.Err)
}

func (e *ValuationError) Unwrap() error { return e.Err }

// Retryable is always true; fetch failures are transient from the engine's view.
func (e *ValuationError) Retryable() bool { return true }

// IsBusinessRule reports whether err is a rejection of the input rather than
// an infrastructure failure.
func IsBusinessRule(err error) bool {
	var seq *SequenceError
	var typ *UnsupportedTrnTypeError
	var ccy *UnsupportedCurrencyError
	return errors.As(err, &seq) || errors.As(err, &typ) || errors.As(err, &ccy)
}
