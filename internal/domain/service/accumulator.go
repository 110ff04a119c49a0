package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

// rule applies one transaction type to a position.
type rule interface {
	apply(trn model.Trn, portfolio model.Portfolio, position *model.Position)
}

// Accumulator folds transactions into positions. Rules are indexed by
// TrnType so every type in the closed set has exactly one handler.
type Accumulator struct {
	rules [4]rule
}

// NewAccumulator creates an Accumulator with the buy, sell, dividend and
// split rules.
func NewAccumulator(m MoneyMath) *Accumulator {
	base := contextual{math: m}
	return &Accumulator{
		rules: [...]rule{
			valueobject.TrnTypeBuy:      buyRule{base},
			valueobject.TrnTypeSell:     sellRule{base},
			valueobject.TrnTypeDividend: dividendRule{base},
			valueobject.TrnTypeSplit:    splitRule{base},
		},
	}
}

// Accumulate applies trn to position and returns the same position.
//
// BUY, SELL and SPLIT must not predate the position's last trade; such a
// transaction is rejected with a *SequenceError and the position is left
// untouched.
func (a *Accumulator) Accumulate(trn model.Trn, portfolio model.Portfolio, position *model.Position) (*model.Position, error) {
	t := trn.Type()
	if t < 0 || int(t) >= len(a.rules) || a.rules[t] == nil {
		return position, &UnsupportedTrnTypeError{Type: t}
	}

	last := position.Dates.Last
	if t.IsSequenced() && !last.IsZero() && trn.TradeDate().Before(last) {
		return position, &SequenceError{Trn: trn, Last: last}
	}

	wasOpen := position.IsOpen()
	a.rules[t].apply(trn, portfolio, position)
	a.stampDates(trn, wasOpen, position)
	return position, nil
}

func (a *Accumulator) stampDates(trn model.Trn, wasOpen bool, position *model.Position) {
	if !trn.Type().IsSequenced() {
		return
	}
	date := trn.TradeDate()
	position.Dates.Last = date

	open := position.IsOpen()
	switch {
	case !wasOpen && open:
		position.Dates.Opened = date
		position.Dates.Closed = time.Time{}
	case wasOpen && !open:
		position.Dates.Closed = date
	}
}

// contextual carries what each rule needs to walk the three currency contexts.
type contextual struct {
	math     MoneyMath
	resolver CurrencyResolver
}

// each calls fn with the MoneyValues and rate of every context for trn.
func (c contextual) each(
	trn model.Trn,
	portfolio model.Portfolio,
	position *model.Position,
	fn func(mv *model.MoneyValues, rate decimal.Decimal),
) {
	for _, ctx := range valueobject.Contexts {
		mv := position.MoneyValues(ctx, c.resolver.Resolve(ctx, portfolio, trn.TradeCurrency()))
		fn(mv, c.resolver.Rate(ctx, trn))
	}
}
