package valueobject

import "fmt"

// Context selects which of the three currencies a position is valued in.
type Context int

const (
	// ContextTrade values in the currency the asset was traded in.
	ContextTrade Context = iota
	// ContextBase values in the system base currency.
	ContextBase
	// ContextPortfolio values in the portfolio's reporting currency.
	ContextPortfolio
)

// ContextCount is the number of currency contexts.
const ContextCount = 3

// Contexts lists every context in accumulation order.
var Contexts = [ContextCount]Context{ContextTrade, ContextBase, ContextPortfolio}

func (c Context) String() string {
	switch c {
	case ContextTrade:
		return "TRADE"
	case ContextBase:
		return "BASE"
	case ContextPortfolio:
		return "PORTFOLIO"
	default:
		return fmt.Sprintf("Context(%d)", int(c))
	}
}
