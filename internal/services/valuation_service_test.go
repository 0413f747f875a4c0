package services

import (
	"context"
	"testing"
	"time"

	"stockfolio/internal/models"
	"stockfolio/internal/testutil"
)

func testPortfolio(tickers map[string]float64) *models.Portfolio {
	portfolio := &models.Portfolio{Name: "Test", UserID: 1}
	for ticker, quantity := range tickers {
		portfolio.Holdings = append(portfolio.Holdings, models.Holding{
			Ticker:   ticker,
			Quantity: quantity,
			AddedAt:  time.Now(),
		})
	}
	return portfolio
}

func TestEnrich(t *testing.T) {
	t.Run("total_is_sum_of_holdings", func(t *testing.T) {
		source := &testutil.StubPriceSource{Prices: map[string]float64{
			"AAPL": 150.25,
			"MSFT": 300.75,
		}}
		svc := NewValuationService(source)

		portfolio := testPortfolio(map[string]float64{"AAPL": 2, "MSFT": 3})
		enriched := svc.Enrich(context.Background(), portfolio)

		var expected float64
		for i := range enriched.Holdings {
			expected += enriched.Holdings[i].Quantity * enriched.Holdings[i].CurrentPrice
		}
		if enriched.TotalValue != expected {
			t.Errorf("expected total %v, got %v", expected, enriched.TotalValue)
		}
		if enriched.TotalValue != 2*150.25+3*300.75 {
			t.Errorf("unexpected total %v", enriched.TotalValue)
		}
	})

	t.Run("empty_portfolio", func(t *testing.T) {
		svc := NewValuationService(&testutil.StubPriceSource{})

		enriched := svc.Enrich(context.Background(), testPortfolio(nil))
		if enriched.TotalValue != 0 {
			t.Errorf("expected zero total, got %v", enriched.TotalValue)
		}
	})

	t.Run("fail_open_on_bad_ticker", func(t *testing.T) {
		source := &testutil.StubPriceSource{Prices: map[string]float64{"AAPL": 150.25}}
		svc := NewValuationService(source)

		portfolio := testPortfolio(map[string]float64{"AAPL": 2})
		portfolio.Holdings = append(portfolio.Holdings, models.Holding{
			Ticker:   "BROKEN",
			Quantity: 10,
			AddedAt:  time.Now(),
		})

		enriched := svc.Enrich(context.Background(), portfolio)

		// The failed holding is zeroed and flagged; the rest is priced.
		if enriched.TotalValue != 2*150.25 {
			t.Errorf("expected total %v, got %v", 2*150.25, enriched.TotalValue)
		}
		for i := range enriched.Holdings {
			h := &enriched.Holdings[i]
			switch h.Ticker {
			case "BROKEN":
				if h.CurrentPrice != 0 || !h.PriceUnknown {
					t.Errorf("expected zero unknown price for BROKEN, got %v (unknown=%v)", h.CurrentPrice, h.PriceUnknown)
				}
			case "AAPL":
				if h.CurrentPrice != 150.25 || h.PriceUnknown {
					t.Errorf("expected priced AAPL, got %v (unknown=%v)", h.CurrentPrice, h.PriceUnknown)
				}
			}
		}
	})

	t.Run("refetches_every_call", func(t *testing.T) {
		source := &testutil.StubPriceSource{Prices: map[string]float64{"AAPL": 150.25}}
		svc := NewValuationService(source)

		portfolio := testPortfolio(map[string]float64{"AAPL": 1})
		svc.Enrich(context.Background(), portfolio)

		// Price moves between reads; the next enrichment must see it.
		source.Prices["AAPL"] = 200.00
		enriched := svc.Enrich(context.Background(), portfolio)

		if enriched.TotalValue != 200.00 {
			t.Errorf("expected refreshed total 200.00, got %v", enriched.TotalValue)
		}
		if len(source.Calls()) != 2 {
			t.Errorf("expected one lookup per enrichment, got %d calls", len(source.Calls()))
		}
	})
}
