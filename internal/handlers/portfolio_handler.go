package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/pagination"
	"stockfolio/internal/services"
)

// PortfolioHandler handles portfolio and holding requests
type PortfolioHandler struct {
	portfolioService services.PortfolioServicer
	valuation        services.ValuationServicer
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService services.PortfolioServicer, valuation services.ValuationServicer) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService, valuation: valuation}
}

// CreatePortfolioRequest represents the portfolio creation payload
type CreatePortfolioRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AddAssetRequest represents the add-holding payload
type AddAssetRequest struct {
	Ticker   string  `json:"ticker" binding:"required,ticker"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
}

// CreatePortfolio creates a new empty portfolio for the authenticated user
// @Summary     Create a portfolio
// @Description Create a new empty portfolio owned by the authenticated user
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreatePortfolioRequest true "Portfolio data"
// @Success     201 {object} models.Portfolio "Portfolio created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolios [post]
func (h *PortfolioHandler) CreatePortfolio(c *gin.Context) {
	username, err := requireUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(username, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, portfolio)
}

// ListPortfolios returns the authenticated user's portfolios with fresh valuations
// @Summary     List portfolios
// @Description List the authenticated user's portfolios with current valuations
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[services.EnrichedPortfolio] "Portfolios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolios [get]
func (h *PortfolioHandler) ListPortfolios(c *gin.Context) {
	username, err := requireUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.portfolioService.GetUserPortfolios(username, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	enriched := make([]services.EnrichedPortfolio, 0, len(result.Data))
	for i := range result.Data {
		enriched = append(enriched, *h.valuation.Enrich(c.Request.Context(), &result.Data[i]))
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(enriched, result.Page, result.PageSize, result.TotalItems))
}

// GetPortfolio returns one portfolio with a fresh valuation
// @Summary     Get a portfolio
// @Description Get a portfolio with current holding prices and total value
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Success     200 {object} services.EnrichedPortfolio "Portfolio"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /portfolios/{id} [get]
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
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

	portfolio, err := h.portfolioService.GetPortfolio(portfolioID, username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.valuation.Enrich(c.Request.Context(), portfolio))
}

// AddAsset adds a holding to a portfolio
// @Summary     Add an asset
// @Description Add a quantity of a ticker to a portfolio, aggregating with any existing holding
// @Tags        portfolios
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       request body AddAssetRequest true "Asset data"
// @Success     200 {object} models.Holding "Holding after the add"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     502 {object} ErrorResponse "Price fetch failed"
// @Router      /portfolios/{id}/assets [post]
func (h *PortfolioHandler) AddAsset(c *gin.Context) {
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

	var req AddAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.portfolioService.AddHolding(c.Request.Context(), portfolioID, req.Ticker, req.Quantity, username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, holding)
}

// RemoveAsset removes a holding from a portfolio
// @Summary     Remove an asset
// @Description Remove the holding for a ticker from a portfolio
// @Tags        portfolios
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Portfolio ID"
// @Param       ticker path string true "Ticker symbol"
// @Success     204 "Holding removed"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Access denied"
// @Failure     404 {object} ErrorResponse "Portfolio or asset not found"
// @Router      /portfolios/{id}/assets/{ticker} [delete]
func (h *PortfolioHandler) RemoveAsset(c *gin.Context) {
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

	if err := h.portfolioService.RemoveHolding(portfolioID, c.Param("ticker"), username); err != nil {
		respondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
