package services

import (
	"context"

	"stockfolio/internal/logger"
	"stockfolio/internal/models"
	"stockfolio/internal/pricing"
)

// valuationService composes portfolio state with current prices.
type valuationService struct {
	prices pricing.Source
}

// NewValuationService creates a new ValuationServicer.
func NewValuationService(prices pricing.Source) ValuationServicer {
	return &valuationService{prices: prices}
}

// Enrich refreshes the price of every holding in the portfolio. A failed
// lookup zeroes that holding's price and marks it unknown instead of
// aborting, so one bad ticker cannot block viewing the rest. The total is
// computed strictly after all holdings are enriched. Prices are re-fetched
// on every call; there is no cross-request cache.
func (s *valuationService) Enrich(ctx context.Context, portfolio *models.Portfolio) *EnrichedPortfolio {
	for i := range portfolio.Holdings {
		holding := &portfolio.Holdings[i]

		price, err := s.prices.CurrentPrice(ctx, holding.Ticker)
		if err != nil {
			logger.Get().Warnw("price enrichment failed",
				"portfolio_id", portfolio.ID,
				"ticker", holding.Ticker,
				"error", err.Error(),
			)
			holding.CurrentPrice = 0
			holding.PriceUnknown = true
			continue
		}
		holding.CurrentPrice = price
		holding.PriceUnknown = false
	}

	var total float64
	for i := range portfolio.Holdings {
		total += portfolio.Holdings[i].TotalValue()
	}

	return &EnrichedPortfolio{Portfolio: *portfolio, TotalValue: total}
}
