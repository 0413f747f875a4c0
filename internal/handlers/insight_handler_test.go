package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"stockfolio/internal/testutil"
)

func TestGetInsightsEndpoint(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		env := setupPortfolioTest(t, map[string]float64{"AAPL": 150.25})
		user := testutil.CreateTestUserWithName(t, env.db, "alice")
		portfolio := testutil.CreateTestPortfolio(t, env.db, user.ID)
		testutil.CreateTestHolding(t, env.db, portfolio.ID, "AAPL", 1, 0)

		w := env.do(t, http.MethodGet, fmt.Sprintf("/portfolios/%d/insights", portfolio.ID),
			env.bearerFor(t, "alice"), nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			DiversificationScore float64 `json:"diversification_score"`
			RiskLevel            string  `json:"risk_level"`
			AssetCount           int     `json:"asset_count"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.AssetCount != 1 || resp.RiskLevel != "High" {
			t.Errorf("unexpected report %+v", resp)
		}
		if resp.DiversificationScore != 20 {
			t.Errorf("expected score 20, got %v", resp.DiversificationScore)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		env := setupPortfolioTest(t, nil)
		testutil.CreateTestUserWithName(t, env.db, "alice")

		w := env.do(t, http.MethodGet, "/portfolios/99999/insights", env.bearerFor(t, "alice"), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})

	t.Run("non_owner_denied", func(t *testing.T) {
		env := setupPortfolioTest(t, nil)
		alice := testutil.CreateTestUserWithName(t, env.db, "alice")
		testutil.CreateTestUserWithName(t, env.db, "bob")
		portfolio := testutil.CreateTestPortfolio(t, env.db, alice.ID)

		w := env.do(t, http.MethodGet, fmt.Sprintf("/portfolios/%d/insights", portfolio.ID),
			env.bearerFor(t, "bob"), nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
	})
}
