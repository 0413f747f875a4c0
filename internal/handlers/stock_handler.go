package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/pricing"
)

// StockHandler handles stock information requests
type StockHandler struct {
	oracle *pricing.Oracle
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(oracle *pricing.Oracle) *StockHandler {
	return &StockHandler{oracle: oracle}
}

// GetStockInfo returns the current price and best-effort descriptive fields for a ticker
// @Summary     Get stock info
// @Description Get the current price for a ticker plus name/sector/industry when the live source is available
// @Tags        stocks
// @Produce     json
// @Param       ticker path string true "Ticker symbol"
// @Success     200 {object} pricing.StockInfo "Stock information"
// @Router      /stocks/{ticker} [get]
func (h *StockHandler) GetStockInfo(c *gin.Context) {
	// The oracle never fails outward: unknown tickers resolve to the
	// default reference price.
	info := h.oracle.StockInfo(c.Request.Context(), c.Param("ticker"))
	c.JSON(http.StatusOK, info)
}
