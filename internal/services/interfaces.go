package services

import (
	"context"

	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
)

// UserServicer defines the contract for registration and authentication.
// Both Register and Login return a freshly issued bearer token.
type UserServicer interface {
	Register(username, password, email string) (string, error)
	Login(username, password string) (string, error)
	GetUserByUsername(username string) (*models.User, error)
}

// PortfolioServicer defines the contract for portfolio and holding
// persistence. Every operation is scoped to the requesting username;
// ownership is enforced after existence, so a missing portfolio and a
// foreign portfolio fail with different error kinds.
type PortfolioServicer interface {
	CreatePortfolio(username, name string) (*models.Portfolio, error)
	GetUserPortfolios(username string, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error)
	GetPortfolio(portfolioID uint, username string) (*models.Portfolio, error)
	AddHolding(ctx context.Context, portfolioID uint, ticker string, quantity float64, username string) (*models.Holding, error)
	RemoveHolding(portfolioID uint, ticker, username string) error
}

// EnrichedPortfolio is a portfolio whose holdings carry freshly fetched
// prices, with the total value computed after all enrichment completed.
type EnrichedPortfolio struct {
	models.Portfolio
	TotalValue float64 `json:"total_value"`
}

// ValuationServicer composes portfolio state with current prices.
type ValuationServicer interface {
	Enrich(ctx context.Context, portfolio *models.Portfolio) *EnrichedPortfolio
}

// InsightAnalysis is a prose summary of a portfolio's strengths and weaknesses.
type InsightAnalysis struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// InsightReport contains heuristic analysis of an enriched portfolio.
type InsightReport struct {
	DiversificationScore float64         `json:"diversification_score"`
	RiskLevel            string          `json:"risk_level"`
	TotalValue           float64         `json:"total_value"`
	AssetCount           int             `json:"asset_count"`
	Recommendations      []string        `json:"recommendations"`
	Analysis             InsightAnalysis `json:"analysis"`
	SuggestedAssets      []string        `json:"suggested_assets"`
}

// InsightServicer defines the contract for portfolio insight generation.
type InsightServicer interface {
	GetInsights(ctx context.Context, portfolioID uint, username string) (*InsightReport, error)
}
