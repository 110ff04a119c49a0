package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
	pgutil "github.com/monowai/beancounter-sub001/pkg/postgres"
)

// Compile-time interface checks.
var (
	_ port.RateProvider  = (*FxRateRepo)(nil)
	_ port.PriceProvider = (*PriceRepo)(nil)
)

// FxRateRepo serves pivot-relative rate tables from the fx_rates table.
type FxRateRepo struct {
	pool  *pgxpool.Pool
	pivot money.Currency
}

// NewFxRateRepo creates a new FxRateRepo quoting against pivot.
func NewFxRateRepo(pool *pgxpool.Pool, pivot money.Currency) *FxRateRepo {
	return &FxRateRepo{pool: pool, pivot: pivot}
}

// SaveTable stores every rate of table under its as-of date, replacing
// earlier quotes for the same day.
func (r *FxRateRepo) SaveTable(ctx context.Context, table valueobject.RateTable) error {
	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, code := range table.Codes() {
			rate, _ := table.Lookup(code)
			batch.Queue(`
				INSERT INTO fx_rates (rate_date, currency, rate) VALUES ($1, $2, $3)
				ON CONFLICT (rate_date, currency) DO UPDATE SET rate = EXCLUDED.rate
			`, table.AsOf(), code, rate.Rate())
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save fx rates: %w", err)
		}
		return nil
	})
}

// RateTable returns the latest quote per currency on or before asOf. The
// pivot always resolves to one.
func (r *FxRateRepo) RateTable(ctx context.Context, asOf time.Time) (valueobject.RateTable, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (currency) currency, rate, rate_date
		FROM fx_rates
		WHERE rate_date <= $1
		ORDER BY currency, rate_date DESC
	`, asOf)
	if err != nil {
		return valueobject.RateTable{}, fmt.Errorf("query fx rates: %w", err)
	}
	defer rows.Close()

	rates := []valueobject.FxRate{}
	seenPivot := false
	for rows.Next() {
		var (
			code string
			rate decimal.Decimal
			date time.Time
		)
		if err := rows.Scan(&code, &rate, &date); err != nil {
			return valueobject.RateTable{}, fmt.Errorf("scan fx rate: %w", err)
		}
		ccy, err := money.NewCurrency(code)
		if err != nil {
			return valueobject.RateTable{}, err
		}
		if ccy.Equal(r.pivot) {
			seenPivot = true
		}
		fx, err := valueobject.NewFxRate(r.pivot, ccy, rate, date)
		if err != nil {
			return valueobject.RateTable{}, err
		}
		rates = append(rates, fx)
	}
	if err := rows.Err(); err != nil {
		return valueobject.RateTable{}, fmt.Errorf("iterate fx rates: %w", err)
	}
	if !seenPivot {
		fx, err := valueobject.NewFxRate(r.pivot, r.pivot, decimal.NewFromInt(1), asOf)
		if err != nil {
			return valueobject.RateTable{}, err
		}
		rates = append(rates, fx)
	}
	return valueobject.NewRateTable(asOf, r.pivot, rates)
}

// PriceRepo serves closing prices from the market_prices table.
type PriceRepo struct {
	pool *pgxpool.Pool
}

// NewPriceRepo creates a new PriceRepo.
func NewPriceRepo(pool *pgxpool.Pool) *PriceRepo {
	return &PriceRepo{pool: pool}
}

// SavePrice upserts one observation.
func (r *PriceRepo) SavePrice(ctx context.Context, md valueobject.MarketData) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO market_prices (asset_code, market, price_date, open, close, high, low, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (asset_code, market, price_date) DO UPDATE SET
			open = EXCLUDED.open, close = EXCLUDED.close,
			high = EXCLUDED.high, low = EXCLUDED.low, volume = EXCLUDED.volume
	`, md.Asset.Code(), md.Asset.Market(), md.PriceDate, md.Open, md.Close, md.High, md.Low, md.Volume)
	if err != nil {
		return fmt.Errorf("upsert price: %w", err)
	}
	return nil
}

// LatestPrices returns the latest observation on or before asAt for each
// asset, keyed by asset key. Assets without a price are absent.
func (r *PriceRepo) LatestPrices(ctx context.Context, assets []valueobject.Asset, asAt time.Time) (map[string]valueobject.MarketData, error) {
	if len(assets) == 0 {
		return map[string]valueobject.MarketData{}, nil
	}
	codes := make([]string, len(assets))
	markets := make([]string, len(assets))
	byKey := make(map[string]valueobject.Asset, len(assets))
	for i, a := range assets {
		codes[i], markets[i] = a.Code(), a.Market()
		byKey[a.Key()] = a
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT ON (p.asset_code, p.market)
			p.asset_code, p.market, p.price_date, p.open, p.close, p.high, p.low, p.volume
		FROM market_prices p
		JOIN unnest($1::text[], $2::text[]) AS want(asset_code, market)
			ON want.asset_code = p.asset_code AND want.market = p.market
		WHERE p.price_date <= $3
		ORDER BY p.asset_code, p.market, p.price_date DESC
	`, codes, markets, asAt)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	out := make(map[string]valueobject.MarketData, len(assets))
	for rows.Next() {
		var (
			code, market string
			md           valueobject.MarketData
		)
		if err := rows.Scan(&code, &market, &md.PriceDate, &md.Open, &md.Close, &md.High, &md.Low, &md.Volume); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		key := code + ":" + market
		md.Asset = byKey[key]
		out[key] = md
	}
	return out, rows.Err()
}
