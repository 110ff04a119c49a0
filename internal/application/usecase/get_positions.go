package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/domain/port"
)

// GetPositions returns accumulated, unvalued positions for a portfolio.
type GetPositions struct {
	portfolios port.PortfolioRepository
	build      *BuildPositions
	now        func() time.Time
}

// NewGetPositions creates a new GetPositions use case.
func NewGetPositions(portfolios port.PortfolioRepository, build *BuildPositions) *GetPositions {
	return &GetPositions{portfolios: portfolios, build: build, now: time.Now}
}

// Execute builds the positions of req.PortfolioCode as at req.AsAt.
func (uc *GetPositions) Execute(ctx context.Context, req dto.PositionsRequest) (dto.PositionsResponse, error) {
	portfolio, err := uc.portfolios.FindByCode(ctx, req.PortfolioCode)
	if err != nil {
		return dto.PositionsResponse{}, fmt.Errorf("find portfolio %q: %w", req.PortfolioCode, err)
	}

	built, err := uc.build.Execute(ctx, portfolio, asAtOrToday(req.AsAt, uc.now))
	if err != nil {
		return dto.PositionsResponse{}, err
	}
	return toPositionsResponse(built), nil
}

func asAtOrToday(asAt time.Time, now func() time.Time) time.Time {
	if asAt.IsZero() {
		asAt = now()
	}
	y, m, d := asAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
