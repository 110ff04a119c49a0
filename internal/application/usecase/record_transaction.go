package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/domain/event"
	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
	"github.com/monowai/beancounter-sub001/pkg/money"
)

// TopicTrnOutcomes carries trn.recorded and trn.rejected events.
const TopicTrnOutcomes = "portfolio.trn.outcomes"

// RecordTransaction validates and stores an ingested transaction.
type RecordTransaction struct {
	portfolios port.PortfolioRepository
	trns       port.TransactionRepository
	publisher  port.EventPublisher
	logger     *slog.Logger
}

// NewRecordTransaction creates a new RecordTransaction use case.
func NewRecordTransaction(
	portfolios port.PortfolioRepository,
	trns port.TransactionRepository,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *RecordTransaction {
	return &RecordTransaction{portfolios: portfolios, trns: trns, publisher: publisher, logger: logger}
}

// Execute stores input. Input that cannot form a transaction is rejected
// with an error wrapping ErrInvalidRequest and a trn.rejected event.
func (uc *RecordTransaction) Execute(ctx context.Context, input dto.TransactionInput) (dto.RecordTransactionResponse, error) {
	ctx, span := tracer.Start(ctx, "RecordTransaction")
	defer span.End()

	portfolio, err := uc.portfolios.FindByCode(ctx, input.Portfolio)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return dto.RecordTransactionResponse{}, uc.reject(ctx, input, fmt.Errorf("portfolio %q: %w", input.Portfolio, err))
		}
		return dto.RecordTransactionResponse{}, fmt.Errorf("find portfolio: %w", err)
	}

	trn, err := parseTransaction(input, portfolio)
	if err != nil {
		return dto.RecordTransactionResponse{}, uc.reject(ctx, input, err)
	}

	if err := uc.trns.Save(ctx, trn); err != nil {
		return dto.RecordTransactionResponse{}, fmt.Errorf("save transaction: %w", err)
	}

	evt := event.NewTransactionRecorded(trn.ID(), portfolio.ID(), trn.Asset().Key(), trn.Type().String(),
		trn.TradeDate().Format(time.DateOnly))
	if err := uc.publisher.Publish(ctx, TopicTrnOutcomes, evt); err != nil {
		return dto.RecordTransactionResponse{}, fmt.Errorf("publish recorded event: %w", err)
	}

	uc.logger.Info("transaction recorded",
		"trn_id", trn.ID(), "portfolio", portfolio.Code(), "asset", trn.Asset().Key(), "type", trn.Type().String())

	return dto.RecordTransactionResponse{
		ID:          trn.ID(),
		PortfolioID: portfolio.ID(),
		AssetKey:    trn.Asset().Key(),
	}, nil
}

func (uc *RecordTransaction) reject(ctx context.Context, input dto.TransactionInput, cause error) error {
	uc.logger.Warn("transaction rejected", "trn_id", input.ID, "portfolio", input.Portfolio, "error", cause)

	evt := event.NewTransactionRejected(input.ID, input.Portfolio, cause.Error())
	if err := uc.publisher.Publish(ctx, TopicTrnOutcomes, evt); err != nil {
		return fmt.Errorf("publish rejected event: %w", err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidRequest, cause)
}

func parseTransaction(in dto.TransactionInput, portfolio model.Portfolio) (model.Trn, error) {
	trnType, err := valueobject.ParseTrnType(in.Type)
	if err != nil {
		return model.Trn{}, err
	}

	assetCcyCode := in.AssetCurrency
	if assetCcyCode == "" {
		assetCcyCode = in.TradeCurrency
	}
	assetCcy, err := money.NewCurrency(assetCcyCode)
	if err != nil {
		return model.Trn{}, fmt.Errorf("asset currency: %w", err)
	}
	asset, err := valueobject.NewAsset(in.AssetCode, in.Market, in.AssetName, assetCcy)
	if err != nil {
		return model.Trn{}, err
	}

	tradeDate, err := time.Parse(time.DateOnly, in.TradeDate)
	if err != nil {
		return model.Trn{}, fmt.Errorf("trade date %q: %w", in.TradeDate, err)
	}
	var settleDate time.Time
	if in.SettleDate != "" {
		if settleDate, err = time.Parse(time.DateOnly, in.SettleDate); err != nil {
			return model.Trn{}, fmt.Errorf("settle date %q: %w", in.SettleDate, err)
		}
	}

	tradeCcy, err := optionalCurrency(in.TradeCurrency)
	if err != nil {
		return model.Trn{}, fmt.Errorf("trade currency: %w", err)
	}
	cashCcy, err := optionalCurrency(in.CashCurrency)
	if err != nil {
		return model.Trn{}, fmt.Errorf("cash currency: %w", err)
	}

	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	return model.NewTrn(model.TrnParams{
		ID:                 id,
		PortfolioID:        portfolio.ID(),
		Type:               trnType,
		Asset:              asset,
		TradeDate:          tradeDate,
		SettleDate:         settleDate,
		Quantity:           in.Quantity,
		Price:              in.Price,
		Fees:               in.Fees,
		Tax:                in.Tax,
		TradeAmount:        in.TradeAmount,
		CashAmount:         in.CashAmount,
		TradeCurrency:      tradeCcy,
		CashCurrency:       cashCcy,
		TradeCashRate:      in.TradeCashRate,
		TradeBaseRate:      in.TradeBaseRate,
		TradePortfolioRate: in.TradePortfolioRate,
	})
}

func optionalCurrency(code string) (money.Currency, error) {
	if code == "" {
		return money.Currency{}, nil
	}
	return money.NewCurrency(code)
}
