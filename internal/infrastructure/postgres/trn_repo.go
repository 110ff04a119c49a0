package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// Compile-time interface check.
var _ port.TransactionRepository = (*TrnRepo)(nil)

// TrnRepo implements TransactionRepository using PostgreSQL.
type TrnRepo struct {
	pool *pgxpool.Pool
}

// NewTrnRepo creates a new TrnRepo.
func NewTrnRepo(pool *pgxpool.Pool) *TrnRepo {
	return &TrnRepo{pool: pool}
}

// Save inserts a transaction. Redelivered transactions are ignored.
func (r *TrnRepo) Save(ctx context.Context, trn model.Trn) error {
	p := trn.Params()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO transactions (
			id, portfolio_id, trn_type, asset_code, market, asset_name, asset_currency,
			trade_date, settle_date, quantity, price, fees, tax, trade_amount, cash_amount,
			trade_currency, cash_currency, trade_cash_rate, trade_base_rate, trade_portfolio_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (id) DO NOTHING
	`, p.ID, p.PortfolioID, p.Type.String(), p.Asset.Code(), p.Asset.Market(), p.Asset.Name(), p.Asset.Currency().Code(),
		p.TradeDate, p.SettleDate, p.Quantity, p.Price, p.Fees, p.Tax, p.TradeAmount, p.CashAmount,
		p.TradeCurrency.Code(), p.CashCurrency.Code(), p.TradeCashRate, p.TradeBaseRate, p.TradePortfolioRate)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// FindByPortfolio returns the portfolio's transactions traded on or before
// asAt, in trade-date then arrival order.
func (r *TrnRepo) FindByPortfolio(ctx context.Context, portfolio model.Portfolio, asAt time.Time) ([]model.Trn, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, portfolio_id, trn_type, asset_code, market, asset_name, asset_currency,
			trade_date, settle_date, quantity, price, fees, tax, trade_amount, cash_amount,
			trade_currency, cash_currency, trade_cash_rate, trade_base_rate, trade_portfolio_rate
		FROM transactions
		WHERE portfolio_id = $1 AND trade_date <= $2
		ORDER BY trade_date, seq
	`, portfolio.ID(), asAt)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var trns []model.Trn
	for rows.Next() {
		trn, err := scanTrn(rows)
		if err != nil {
			return nil, err
		}
		trns = append(trns, trn)
	}
	return trns, rows.Err()
}

func scanTrn(rows pgx.Rows) (model.Trn, error) {
	var (
		id, portfolioID                          uuid.UUID
		trnType, code, market, name, assetCcy    string
		tradeDate, settleDate                    time.Time
		qty, price, fees, tax, tradeAmt, cashAmt decimal.Decimal
		tradeCcy, cashCcy                        string
		tradeCash, tradeBase, tradePortfolio     decimal.Decimal
	)
	if err := rows.Scan(&id, &portfolioID, &trnType, &code, &market, &name, &assetCcy,
		&tradeDate, &settleDate, &qty, &price, &fees, &tax, &tradeAmt, &cashAmt,
		&tradeCcy, &cashCcy, &tradeCash, &tradeBase, &tradePortfolio); err != nil {
		return model.Trn{}, fmt.Errorf("scan transaction: %w", err)
	}

	typ, err := valueobject.ParseTrnType(trnType)
	if err != nil {
		return model.Trn{}, fmt.Errorf("transaction %s: %w", id, err)
	}
	currencies := make([]money.Currency, 3)
	for i, c := range []string{assetCcy, tradeCcy, cashCcy} {
		if currencies[i], err = money.NewCurrency(c); err != nil {
			return model.Trn{}, fmt.Errorf("transaction %s: %w", id, err)
		}
	}
	asset, err := valueobject.NewAsset(code, market, name, currencies[0])
	if err != nil {
		return model.Trn{}, fmt.Errorf("transaction %s: %w", id, err)
	}

	return model.NewTrn(model.TrnParams{
		ID:                 id,
		PortfolioID:        portfolioID,
		Type:               typ,
		Asset:              asset,
		TradeDate:          tradeDate,
		SettleDate:         settleDate,
		Quantity:           qty,
		Price:              price,
		Fees:               fees,
		Tax:                tax,
		TradeAmount:        tradeAmt,
		CashAmount:         cashAmt,
		TradeCurrency:      currencies[1],
		CashCurrency:       currencies[2],
		TradeCashRate:      tradeCash,
		TradeBaseRate:      tradeBase,
		TradePortfolioRate: tradePortfolio,
	})
}
