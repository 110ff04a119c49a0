package service

import "github.com/shopspring/decimal"

// MathConfig fixes the rounding scales used by MoneyMath.
type MathConfig struct {
	// MoneyScale is the number of decimal places kept on monetary amounts.
	MoneyScale int32
	// RateScale is the number of decimal places kept on FX rates.
	RateScale int32
	// CostScale is the precision of divisions such as average cost.
	CostScale int32
	// QuantityScale is the precision reported for fractional quantities.
	QuantityScale int32
}

// DefaultMathConfig returns the scales used when nothing is configured.
func DefaultMathConfig() MathConfig {
	return MathConfig{MoneyScale: 2, RateScale: 8, CostScale: 10, QuantityScale: 3}
}

// MoneyMath is a set of decimal helpers where a zero rate or divisor means
// "unset" rather than a value.
type MoneyMath struct {
	cfg MathConfig
}

// NewMoneyMath creates MoneyMath. Zero scales fall back to the defaults.
func NewMoneyMath(cfg MathConfig) MoneyMath {
	def := DefaultMathConfig()
	if cfg.MoneyScale <= 0 {
		cfg.MoneyScale = def.MoneyScale
	}
	if cfg.RateScale <= 0 {
		cfg.RateScale = def.RateScale
	}
	if cfg.CostScale <= 0 {
		cfg.CostScale = def.CostScale
	}
	if cfg.QuantityScale <= 0 {
		cfg.QuantityScale = def.QuantityScale
	}
	return MoneyMath{cfg: cfg}
}

// Config returns the effective scales.
func (m MoneyMath) Config() MathConfig { return m.cfg }

// IsUnset reports whether d carries no value.
func IsUnset(d decimal.Decimal) bool {
	return d.IsZero()
}

// Multiply converts amount by rate and returns the absolute result at money
// scale. An unset rate is treated as one.
func (m MoneyMath) Multiply(amount, rate decimal.Decimal) decimal.Decimal {
	if IsUnset(rate) {
		return amount.Abs().Round(m.cfg.MoneyScale)
	}
	return amount.Mul(rate).Abs().Round(m.cfg.MoneyScale)
}

// Divide returns amount / divisor at cost scale. An unset divisor leaves
// amount unchanged.
func (m MoneyMath) Divide(amount, divisor decimal.Decimal) decimal.Decimal {
	if IsUnset(divisor) {
		return amount
	}
	return amount.DivRound(divisor, m.cfg.CostScale)
}

// CrossRate returns from / to at rate scale. An unset divisor leaves from
// unchanged.
func (m MoneyMath) CrossRate(from, to decimal.Decimal) decimal.Decimal {
	if IsUnset(to) {
		return m.Rate(from)
	}
	return from.DivRound(to, m.cfg.RateScale)
}

// Value is a plain product rounded to money scale, used for price x quantity.
func (m MoneyMath) Value(unit, quantity decimal.Decimal) decimal.Decimal {
	return unit.Mul(quantity).Round(m.cfg.MoneyScale)
}

// Money rounds d to money scale.
func (m MoneyMath) Money(d decimal.Decimal) decimal.Decimal {
	return d.Round(m.cfg.MoneyScale)
}

// Rate rounds d to rate scale.
func (m MoneyMath) Rate(d decimal.Decimal) decimal.Decimal {
	return d.Round(m.cfg.RateScale)
}
