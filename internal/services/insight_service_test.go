package services

import (
	"context"
	"strings"
	"testing"

	"stockfolio/internal/testutil"

	"gorm.io/gorm"
)

func newTestInsightService(t *testing.T, prices map[string]float64) (InsightServicer, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	source := &testutil.StubPriceSource{Prices: prices}
	portfolios := NewPortfolioService(db, source)
	insights := NewInsightService(portfolios, NewValuationService(source))
	return insights, db, func() { testutil.TeardownTestDB(t, db) }
}

func TestGetInsights(t *testing.T) {
	t.Run("empty_portfolio", func(t *testing.T) {
		svc, db, teardown := newTestInsightService(t, nil)
		defer teardown()

		user := testutil.CreateTestUserWithName(t, db, "alice")
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID)

		report, err := svc.GetInsights(context.Background(), portfolio.ID, "alice")
		testutil.AssertNoError(t, err)

		if report.DiversificationScore != 0 {
			t.Errorf("expected zero score, got %v", report.DiversificationScore)
		}
		if report.RiskLevel != "Low" {
			t.Errorf("expected Low risk for empty portfolio, got %s", report.RiskLevel)
		}
		if report.AssetCount != 0 || report.TotalValue != 0 {
			t.Errorf("expected empty counts, got %d assets worth %v", report.AssetCount, report.TotalValue)
		}
		if !strings.Contains(report.Analysis.Summary, "Empty portfolio") {
			t.Errorf("unexpected summary %q", report.Analysis.Summary)
		}
	})

	t.Run("small_portfolio_high_risk", func(t *testing.T) {
		prices := map[string]float64{"AAPL": 150.25}
		svc, db, teardown := newTestInsightService(t, prices)
		defer teardown()

		user := testutil.CreateTestUserWithName(t, db, "alice")
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
		testutil.CreateTestHolding(t, db, portfolio.ID, "AAPL", 1, 0)

		report, err := svc.GetInsights(context.Background(), portfolio.ID, "alice")
		testutil.AssertNoError(t, err)

		// One technology holding: base 15 plus one sector bonus of 5.
		if report.DiversificationScore != 20 {
			t.Errorf("expected score 20, got %v", report.DiversificationScore)
		}
		if report.RiskLevel != "High" {
			t.Errorf("expected High risk, got %s", report.RiskLevel)
		}
		if report.TotalValue != 150.25 {
			t.Errorf("expected total 150.25, got %v", report.TotalValue)
		}

		var hasDiversify bool
		for _, rec := range report.Recommendations {
			if strings.Contains(rec, "diversification") || strings.Contains(rec, "3-5 different assets") {
				hasDiversify = true
			}
		}
		if !hasDiversify {
			t.Errorf("expected diversification advice, got %v", report.Recommendations)
		}
	})

	t.Run("diversified_portfolio_low_risk", func(t *testing.T) {
		prices := map[string]float64{
			"AAPL": 150.25, "JNJ": 160.00, "JPM": 140.00, "VTI": 220.50, "SPY": 450.25,
		}
		svc, db, teardown := newTestInsightService(t, prices)
		defer teardown()

		user := testutil.CreateTestUserWithName(t, db, "alice")
		portfolio := testutil.CreateTestPortfolio(t, db, user.ID)
		for ticker := range prices {
			testutil.CreateTestHolding(t, db, portfolio.ID, ticker, 20, 0)
		}

		report, err := svc.GetInsights(context.Background(), portfolio.ID, "alice")
		testutil.AssertNoError(t, err)

		if report.AssetCount != 5 {
			t.Errorf("expected 5 assets, got %d", report.AssetCount)
		}
		if report.RiskLevel != "Low" {
			t.Errorf("expected Low risk, got %s", report.RiskLevel)
		}
		// 5 holdings across 4 sectors: 75 base + 20 bonus.
		if report.DiversificationScore != 95 {
			t.Errorf("expected score 95, got %v", report.DiversificationScore)
		}

		// Held tickers must not be suggested again.
		for _, suggestion := range report.SuggestedAssets {
			if strings.HasPrefix(suggestion, "AAPL") || strings.HasPrefix(suggestion, "VTI") || strings.HasPrefix(suggestion, "JNJ") || strings.HasPrefix(suggestion, "JPM") {
				t.Errorf("suggested an already-held ticker: %s", suggestion)
			}
		}
	})

	t.Run("non_owner_denied", func(t *testing.T) {
		svc, db, teardown := newTestInsightService(t, nil)
		defer teardown()

		alice := testutil.CreateTestUserWithName(t, db, "alice")
		testutil.CreateTestUserWithName(t, db, "bob")
		portfolio := testutil.CreateTestPortfolio(t, db, alice.ID)

		_, err := svc.GetInsights(context.Background(), portfolio.ID, "bob")
		testutil.AssertAppError(t, err, "FORBIDDEN")
	})
}
