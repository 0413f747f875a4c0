package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stockfolio/internal/services"
)

// InsightHandler handles portfolio insight requests
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsights returns heuristic analysis for a portfolio
// @Summary     Get portfolio insights
// @Description Get diversification score, risk level, recommendations, and suggested assets for a portfolio
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} services.InsightReport "Insight report"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id}/insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
	username, err := requireUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.insightService.GetInsights(c.Request.Context(), portfolioID, username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
