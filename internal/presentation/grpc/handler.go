package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/application/usecase"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/pkg/auth"
)

// PositionsQuery is satisfied by usecase.GetPositions and usecase.ValuePositions.
type PositionsQuery interface {
	Execute(ctx context.Context, req dto.PositionsRequest) (dto.PositionsResponse, error)
}

// FxRatesQuery is satisfied by usecase.GetFxRates.
type FxRatesQuery interface {
	Execute(ctx context.Context, req dto.FxRatesRequest) (dto.FxRatesResponse, error)
}

// Compile-time assertion that Handler implements PositionServiceServer.
var _ PositionServiceServer = (*Handler)(nil)

// Handler implements the PositionServiceServer gRPC interface.
type Handler struct {
	UnimplementedPositionServiceServer
	positions PositionsQuery
	valuation PositionsQuery
	fxRates   FxRatesQuery
	logger    *slog.Logger
}

// NewHandler creates a new gRPC Handler.
func NewHandler(positions, valuation PositionsQuery, fxRates FxRatesQuery, logger *slog.Logger) *Handler {
	return &Handler{
		positions: positions,
		valuation: valuation,
		fxRates:   fxRates,
		logger:    logger,
	}
}

// GetPositions returns accumulated positions without market values.
func (h *Handler) GetPositions(ctx context.Context, req *PositionsRequest) (*PositionsResponse, error) {
	return h.query(ctx, h.positions, req)
}

// ValuePositions returns positions marked to market.
func (h *Handler) ValuePositions(ctx context.Context, req *PositionsRequest) (*PositionsResponse, error) {
	return h.query(ctx, h.valuation, req)
}

func (h *Handler) query(ctx context.Context, q PositionsQuery, req *PositionsRequest) (*PositionsResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.PortfolioCode))
	if code == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_code is required")
	}
	if err := auth.AuthorizePortfolio(ctx, code); err != nil {
		return nil, err
	}
	asAt, err := ParseDate(req.AsAt)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "as_at: %v", err)
	}

	resp, err := q.Execute(ctx, dto.PositionsRequest{PortfolioCode: code, AsAt: asAt})
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &resp, nil
}

// GetFxRates resolves cross rates for the requested pairs.
func (h *Handler) GetFxRates(ctx context.Context, req *FxRatesRequest) (*FxRatesResponse, error) {
	asOf, err := ParseDate(req.AsOf)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "as_of: %v", err)
	}
	resp, err := h.fxRates.Execute(ctx, dto.FxRatesRequest{AsOf: asOf, Pairs: req.Pairs})
	if err != nil {
		return nil, h.toStatus(err)
	}
	return &resp, nil
}

// ParseDate parses an optional ISO date. Empty means "today" downstream.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

// Code maps an application error to a gRPC status code.
func Code(err error) codes.Code {
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	var (
		unsupported *service.UnsupportedCurrencyError
		valuation   *service.ValuationError
	)
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest), errors.As(err, &unsupported):
		return codes.InvalidArgument
	case errors.Is(err, port.ErrNotFound):
		return codes.NotFound
	case errors.As(err, &valuation):
		return codes.Unavailable
	case errors.Is(err, service.ErrPriceNotFound), errors.Is(err, service.ErrRateNotFound):
		return codes.FailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	default:
		return codes.Internal
	}
}

func (h *Handler) toStatus(err error) error {
	code := Code(err)
	if code == codes.Internal {
		h.logger.Error("request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
