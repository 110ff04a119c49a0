package model

import (
	"iter"
	"sort"
	"sync"
	"time"

	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

// Positions is the set of positions of one portfolio, keyed by asset key.
// Get is safe for concurrent use; each Position must have a single writer.
type Positions struct {
	portfolio Portfolio
	asAt      time.Time

	mu        sync.Mutex
	positions map[string]*Position
	totals    map[valueobject.Context]*Totals
}

// NewPositions returns an empty collection for portfolio.
func NewPositions(portfolio Portfolio, asAt time.Time) *Positions {
	return &Positions{
		portfolio: portfolio,
		asAt:      asAt,
		positions: make(map[string]*Position),
	}
}

func (ps *Positions) Portfolio() Portfolio { return ps.portfolio }
func (ps *Positions) AsAt() time.Time      { return ps.asAt }

// SetAsAt sets the valuation date.
func (ps *Positions) SetAsAt(asAt time.Time) { ps.asAt = asAt }

// Get returns the position for asset, creating it on first access.
func (ps *Positions) Get(asset valueobject.Asset) *Position {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if p, ok := ps.positions[asset.Key()]; ok {
		return p
	}
	p := NewPosition(asset)
	ps.positions[asset.Key()] = p
	return p
}

// Lookup returns the position for key if one exists.
func (ps *Positions) Lookup(key string) (*Position, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.positions[key]
	return p, ok
}

// Len returns the number of positions.
func (ps *Positions) Len() int {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return len(ps.positions)
}

// Keys returns the asset keys in sorted order.
func (ps *Positions) Keys() []string {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	keys := make([]string, 0, len(ps.positions))
	for k := range ps.positions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All iterates positions in asset-key order.
func (ps *Positions) All() iter.Seq2[string, *Position] {
	return func(yield func(string, *Position) bool) {
		for _, k := range ps.Keys() {
			p, _ := ps.Lookup(k)
			if !yield(k, p) {
				return
			}
		}
	}
}

// SetTotals records the totals for a context.
func (ps *Positions) SetTotals(ctx valueobject.Context, t *Totals) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.totals == nil {
		ps.totals = make(map[valueobject.Context]*Totals)
	}
	ps.totals[ctx] = t
}

// Totals returns the totals for ctx, if computed.
func (ps *Positions) Totals(ctx valueobject.Context) (*Totals, bool) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	t, ok := ps.totals[ctx]
	return t, ok
}
