package usecase

import (
	"time"

	"github.com/monowai/beancounter-sub001/internal/application/dto"
	"github.com/monowai/beancounter-sub001/internal/domain/model"
	"github.com/monowai/beancounter-sub001/internal/domain/service"
	"github.com/monowai/beancounter-sub001/internal/domain/valueobject"
)

func toPositionsResponse(built Built) dto.PositionsResponse {
	positions := built.Positions
	portfolio := positions.Portfolio()

	resp := dto.PositionsResponse{
		Portfolio: dto.PortfolioDTO{
			ID:       portfolio.ID(),
			Code:     portfolio.Code(),
			Name:     portfolio.Name(),
			Currency: portfolio.Currency().Code(),
			Base:     portfolio.Base().Code(),
		},
		AsAt:      positions.AsAt(),
		Positions: make([]dto.PositionDTO, 0, positions.Len()),
	}

	for key, p := range positions.All() {
		resp.Positions = append(resp.Positions, toPositionDTO(key, p))
	}

	for _, ctx := range valueobject.Contexts {
		t, ok := positions.Totals(ctx)
		if !ok {
			continue
		}
		if resp.Totals == nil {
			resp.Totals = make(map[string]dto.TotalsDTO)
		}
		resp.Totals[ctx.String()] = dto.TotalsDTO{
			Currency:       t.Currency.Code(),
			Purchases:      t.Purchases,
			Sales:          t.Sales,
			CostValue:      t.CostValue,
			MarketValue:    t.MarketValue,
			Dividends:      t.Dividends,
			RealisedGain:   t.RealisedGain,
			UnrealisedGain: t.UnrealisedGain,
			TotalGain:      t.TotalGain,
		}
	}

	for _, r := range built.Rejected {
		resp.Rejected = append(resp.Rejected, dto.RejectionDTO{
			TrnID:    r.Trn.ID(),
			AssetKey: r.Trn.Asset().Key(),
			Reason:   r.Err.Error(),
		})
	}
	return resp
}

func toPositionDTO(key string, p *model.Position) dto.PositionDTO {
	out := dto.PositionDTO{
		AssetKey:  key,
		AssetCode: p.Asset.Code(),
		Market:    p.Asset.Market(),
		Quantity: dto.QuantityDTO{
			Purchased:  p.Quantity.Purchased,
			Sold:       p.Quantity.Sold,
			Adjustment: p.Quantity.Adjustment,
			Total:      p.Quantity.Total(),
			Precision:  p.Quantity.Precision(service.DefaultMathConfig().QuantityScale),
		},
		MoneyValues: make(map[string]dto.MoneyValuesDTO, valueobject.ContextCount),
		Dates: dto.DatesDTO{
			Opened: optionalTime(p.Dates.Opened),
			Last:   optionalTime(p.Dates.Last),
			Closed: optionalTime(p.Dates.Closed),
		},
	}
	for _, ctx := range valueobject.Contexts {
		mv := p.Values(ctx)
		out.MoneyValues[ctx.String()] = dto.MoneyValuesDTO{
			Currency:       mv.Currency.Code(),
			Dividends:      mv.Dividends,
			Purchases:      mv.Purchases,
			Sales:          mv.Sales,
			Fees:           mv.Fees,
			CostBasis:      mv.CostBasis,
			CostValue:      mv.CostValue,
			AverageCost:    mv.AverageCost,
			MarketValue:    mv.MarketValue,
			RealisedGain:   mv.RealisedGain,
			UnrealisedGain: mv.UnrealisedGain,
			TotalGain:      mv.TotalGain,
			Price:          mv.Price,
			PriceDate:      optionalTime(mv.PriceDate),
		}
	}
	return out
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
