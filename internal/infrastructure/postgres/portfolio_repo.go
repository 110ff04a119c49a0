package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Compile-time interface check.
var _ port.PortfolioRepository = (*PortfolioRepo)(nil)

// PortfolioRepo implements PortfolioRepository using PostgreSQL.
type PortfolioRepo struct {
	pool *pgxpool.Pool
}

// NewPortfolioRepo creates a new PortfolioRepo.
func NewPortfolioRepo(pool *pgxpool.Pool) *PortfolioRepo {
	return &PortfolioRepo{pool: pool}
}

const portfolioColumns = `id, code, name, currency, base_currency`

// Save upserts a portfolio by ID.
func (r *PortfolioRepo) Save(ctx context.Context, p model.Portfolio) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO portfolios (id, code, name, currency, base_currency)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name,
			currency = EXCLUDED.currency,
			base_currency = EXCLUDED.base_currency,
			updated_at = now()
	`, p.ID(), p.Code(), p.Name(), p.Currency().Code(), p.Base().Code())
	if err != nil {
		return fmt.Errorf("upsert portfolio: %w", err)
	}
	return nil
}

// FindByCode retrieves a portfolio by its code.
func (r *PortfolioRepo) FindByCode(ctx context.Context, code string) (model.Portfolio, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE code = upper($1)`, code)
	return scanPortfolio(row)
}

// FindByID retrieves a portfolio by ID.
func (r *PortfolioRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Portfolio, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolios WHERE id = $1`, id)
	return scanPortfolio(row)
}

// List returns every portfolio ordered by code.
func (r *PortfolioRepo) List(ctx context.Context) ([]model.Portfolio, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+portfolioColumns+` FROM portfolios ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("query portfolios: %w", err)
	}
	defer rows.Close()

	var out []model.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPortfolio(row pgx.Row) (model.Portfolio, error) {
	var (
		id             uuid.UUID
		code, name     string
		currency, base string
	)
	if err := row.Scan(&id, &code, &name, &currency, &base); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Portfolio{}, port.ErrNotFound
		}
		return model.Portfolio{}, fmt.Errorf("scan portfolio: %w", err)
	}
	ccy, err := money.NewCurrency(currency)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("portfolio %s currency: %w", code, err)
	}
	baseCcy, err := money.NewCurrency(base)
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("portfolio %s base: %w", code, err)
	}
	return model.ReconstructPortfolio(id, code, name, ccy, baseCcy)
}
