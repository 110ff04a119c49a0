package valueobject

import (
	"fmt"
	"strings"
)

// TrnType classifies a transaction. The set is closed.
type TrnType int

const (
	TrnTypeBuy TrnType = iota
	TrnTypeSell
	TrnTypeDividend
	TrnTypeSplit
)

var trnTypeNames = [...]string{
	TrnTypeBuy:      "BUY",
	TrnTypeSell:     "SELL",
	TrnTypeDividend: "DIVI",
	TrnTypeSplit:    "SPLIT",
}

// ParseTrnType parses BUY, SELL, DIVI or SPLIT (case-insensitive).
func ParseTrnType(s string) (TrnType, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range trnTypeNames {
		if name == upper {
			return TrnType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

// String returns the wire name of the type.
func (t TrnType) String() string {
	if t < 0 || int(t) >= len(trnTypeNames) {
		return fmt.Sprintf("TrnType(%d)", int(t))
	}
	return trnTypeNames[t]
}

// IsSequenced reports whether transactions of this type must arrive in
// trade-date order for a position. Dividends are exempt.
func (t TrnType) IsSequenced() bool {
	return t != TrnTypeDividend
}
