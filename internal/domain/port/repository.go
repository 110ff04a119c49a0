package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/events"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// PortfolioRepository defines persistence operations for portfolios.
type PortfolioRepository interface {
	// Save inserts or updates a portfolio.
	Save(ctx context.Context, portfolio model.Portfolio) error

	// FindByCode retrieves a portfolio by its code.
	FindByCode(ctx context.Context, code string) (model.Portfolio, error)

	// FindByID retrieves a portfolio by ID.
	FindByID(ctx context.Context, id uuid.UUID) (model.Portfolio, error)

	// List returns every portfolio ordered by code.
	List(ctx context.Context) ([]model.Portfolio, error)
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	// Save persists a transaction. Saving the same ID twice is a no-op.
	Save(ctx context.Context, trn model.Trn) error

	// FindByPortfolio returns the portfolio's transactions traded on or before
	// asAt, ordered by trade date then insertion order.
	FindByPortfolio(ctx context.Context, portfolio model.Portfolio, asAt time.Time) ([]model.Trn, error)
}

// RateProvider supplies the pivot-relative FX rate table for a date.
type RateProvider interface {
	RateTable(ctx context.Context, asOf time.Time) (valueobject.RateTable, error)
}

// PriceProvider supplies the latest close per asset, keyed by asset key.
type PriceProvider interface {
	LatestPrices(ctx context.Context, assets []valueobject.Asset, asAt time.Time) (map[string]valueobject.MarketData, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, events ...events.DomainEvent) error
}
