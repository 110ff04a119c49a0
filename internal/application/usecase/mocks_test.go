package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/events"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// --- Mock implementations ---

type mockPortfolioRepo struct {
	byCode map[string]model.Portfolio
	err    error
}

func newMockPortfolioRepo(portfolios ...model.Portfolio) *mockPortfolioRepo {
	m := &mockPortfolioRepo{byCode: make(map[string]model.Portfolio)}
	for _, p := range portfolios {
		m.byCode[p.Code()] = p
	}
	return m
}

func (m *mockPortfolioRepo) Save(_ context.Context, p model.Portfolio) error {
	m.byCode[p.Code()] = p
	return nil
}

func (m *mockPortfolioRepo) FindByCode(_ context.Context, code string) (model.Portfolio, error) {
	if m.err != nil {
		return model.Portfolio{}, m.err
	}
	p, ok := m.byCode[code]
	if !ok {
		return model.Portfolio{}, fmt.Errorf("portfolio %s: %w", code, port.ErrNotFound)
	}
	return p, nil
}

func (m *mockPortfolioRepo) FindByID(_ context.Context, id uuid.UUID) (model.Portfolio, error) {
	for _, p := range m.byCode {
		if p.ID() == id {
			return p, nil
		}
	}
	return model.Portfolio{}, port.ErrNotFound
}

func (m *mockPortfolioRepo) List(_ context.Context) ([]model.Portfolio, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []model.Portfolio
	for _, code := range []string{"ALPHA", "BETA", "TEST"} {
		if p, ok := m.byCode[code]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// mockTrnRepo returns stored transactions in insertion order.
type mockTrnRepo struct {
	mu       sync.Mutex
	saveFunc func(ctx context.Context, trn model.Trn) error
	trns     []model.Trn
}

func (m *mockTrnRepo) Save(ctx context.Context, trn model.Trn) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, trn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trns = append(m.trns, trn)
	return nil
}

func (m *mockTrnRepo) FindByPortfolio(_ context.Context, portfolio model.Portfolio, asAt time.Time) ([]model.Trn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Trn
	for _, trn := range m.trns {
		if trn.PortfolioID() == portfolio.ID() && !trn.TradeDate().After(asAt) {
			out = append(out, trn)
		}
	}
	return out, nil
}

type mockPriceProvider struct {
	latestFunc func(ctx context.Context, assets []valueobject.Asset, asAt time.Time) (map[string]valueobject.MarketData, error)
	calls      int
}

func (m *mockPriceProvider) LatestPrices(ctx context.Context, assets []valueobject.Asset, asAt time.Time) (map[string]valueobject.MarketData, error) {
	m.calls++
	if m.latestFunc != nil {
		return m.latestFunc(ctx, assets, asAt)
	}
	return nil, fmt.Errorf("prices not configured")
}

type mockRateProvider struct {
	tableFunc func(ctx context.Context, asOf time.Time) (valueobject.RateTable, error)
}

func (m *mockRateProvider) RateTable(ctx context.Context, asOf time.Time) (valueobject.RateTable, error) {
	if m.tableFunc != nil {
		return m.tableFunc(ctx, asOf)
	}
	return valueobject.RateTable{}, fmt.Errorf("rates not configured")
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, topic string, events ...events.DomainEvent) error
	publishedEvents []events.DomainEvent
	topics          []string
}

func (m *mockEventPublisher) Publish(ctx context.Context, topic string, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, topic, evts...)
	}
	m.topics = append(m.topics, topic)
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Fixtures ---

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(n int) time.Time { return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC) }

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func testPortfolio(t *testing.T, code string) model.Portfolio {
	t.Helper()
	p, err := model.NewPortfolio(code, code+" portfolio", money.NZD, money.USD)
	require.NoError(t, err)
	return p
}

func testAsset(t *testing.T, code string, ccy money.Currency) valueobject.Asset {
	t.Helper()
	a, err := valueobject.NewAsset(code, "NASDAQ", code, ccy)
	require.NoError(t, err)
	return a
}

func testTrn(t *testing.T, p model.Portfolio, typ valueobject.TrnType, a valueobject.Asset, date time.Time, qty, amount string) model.Trn {
	t.Helper()
	trn, err := model.NewTrn(model.TrnParams{
		PortfolioID:        p.ID(),
		Type:               typ,
		Asset:              a,
		TradeDate:          date,
		Quantity:           d(qty),
		TradeAmount:        d(amount),
		TradeBaseRate:      d("1"),
		TradePortfolioRate: d("1.6"),
	})
	require.NoError(t, err)
	return trn
}

func usdNzdTable(t *testing.T, asOf time.Time) valueobject.RateTable {
	t.Helper()
	usd, err := valueobject.NewFxRate(money.USD, money.USD, d("1"), asOf)
	require.NoError(t, err)
	nzd, err := valueobject.NewFxRate(money.USD, money.NZD, d("1.6"), asOf)
	require.NoError(t, err)
	table, err := valueobject.NewRateTable(asOf, money.USD, []valueobject.FxRate{usd, nzd})
	require.NoError(t, err)
	return table
}
