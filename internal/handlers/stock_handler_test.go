package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/pricing"
)

func TestGetStockInfoEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)

	oracle := pricing.NewOracle(&http.Client{Timeout: time.Second}, "demo", pricing.ReferencePrices())
	handler := NewStockHandler(oracle)

	router := gin.New()
	router.GET("/stocks/:ticker", handler.GetStockInfo)

	t.Run("known_ticker", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stocks/aapl", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var info pricing.StockInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if info.Ticker != "AAPL" || info.CurrentPrice != 150.25 {
			t.Errorf("unexpected info %+v", info)
		}
	})

	t.Run("unknown_ticker_still_priced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/stocks/ZZZZ", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var info pricing.StockInfo
		if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if info.CurrentPrice != 100.0 {
			t.Errorf("expected default price 100.0, got %v", info.CurrentPrice)
		}
	})
}
