package services

import (
	"context"
	"fmt"
	"math"
	"strings"
)

// insightService derives heuristic analysis from enriched portfolios.
type insightService struct {
	portfolios PortfolioServicer
	valuation  ValuationServicer
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(portfolios PortfolioServicer, valuation ValuationServicer) InsightServicer {
	return &insightService{portfolios: portfolios, valuation: valuation}
}

// GetInsights returns a heuristic report for the portfolio: diversification
// score, risk level, recommendations, and suggested assets. Ownership rules
// are the portfolio store's; the heuristics themselves are intentionally
// simple and carry no market-data guarantees.
func (s *insightService) GetInsights(ctx context.Context, portfolioID uint, username string) (*InsightReport, error) {
	portfolio, err := s.portfolios.GetPortfolio(portfolioID, username)
	if err != nil {
		return nil, err
	}

	enriched := s.valuation.Enrich(ctx, portfolio)
	score := diversificationScore(enriched)

	return &InsightReport{
		DiversificationScore: math.Round(score*100) / 100,
		RiskLevel:            riskLevel(enriched),
		TotalValue:           enriched.TotalValue,
		AssetCount:           len(enriched.Holdings),
		Recommendations:      recommendations(enriched, score),
		Analysis:             analysis(enriched),
		SuggestedAssets:      suggestedAssets(enriched),
	}, nil
}

// sectorFor is a coarse sector classification by ticker.
func sectorFor(ticker string) string {
	switch {
	case strings.HasPrefix(ticker, "AAPL"), strings.HasPrefix(ticker, "MSFT"):
		return "Technology"
	case strings.HasPrefix(ticker, "JNJ"), strings.HasPrefix(ticker, "PFE"):
		return "Healthcare"
	case strings.HasPrefix(ticker, "JPM"), strings.HasPrefix(ticker, "BAC"):
		return "Financial"
	default:
		return "Other"
	}
}

// diversificationScore scores 0-100 based on holding count with a small
// bonus per distinct sector.
func diversificationScore(p *EnrichedPortfolio) float64 {
	if len(p.Holdings) == 0 {
		return 0
	}

	baseScore := math.Min(100, float64(len(p.Holdings))*15)

	sectors := make(map[string]struct{})
	for i := range p.Holdings {
		sectors[sectorFor(p.Holdings[i].Ticker)] = struct{}{}
	}
	sectorBonus := float64(len(sectors)) * 5

	return math.Min(100, baseScore+sectorBonus)
}

func riskLevel(p *EnrichedPortfolio) string {
	if len(p.Holdings) == 0 {
		return "Low"
	}

	assetCount := len(p.Holdings)
	switch {
	case assetCount >= 5 && p.TotalValue >= 10000:
		return "Low"
	case assetCount >= 3 && p.TotalValue >= 5000:
		return "Medium"
	default:
		return "High"
	}
}

func recommendations(p *EnrichedPortfolio, score float64) []string {
	var recs []string

	if score < 50 {
		recs = append(recs,
			"Consider adding more diverse assets to improve portfolio diversification",
			"Look into ETFs for broad market exposure",
		)
	}
	if len(p.Holdings) < 3 {
		recs = append(recs, "Add at least 3-5 different assets for better risk distribution")
	}
	if p.TotalValue < 1000 {
		recs = append(recs, "Consider increasing your investment amount for better impact")
	}
	if len(recs) == 0 {
		recs = append(recs, "Portfolio shows good diversification. Consider rebalancing quarterly")
	}

	return recs
}

func analysis(p *EnrichedPortfolio) InsightAnalysis {
	if len(p.Holdings) == 0 {
		return InsightAnalysis{
			Summary:    "Empty portfolio - start by adding your first investment",
			Strengths:  []string{"Clean slate to build from"},
			Weaknesses: []string{"No diversification", "No returns potential"},
		}
	}

	return InsightAnalysis{
		Summary:    fmt.Sprintf("Portfolio with %d assets worth $%.2f", len(p.Holdings), p.TotalValue),
		Strengths:  []string{"Multiple assets for diversification", "Real-time price tracking"},
		Weaknesses: []string{"Limited historical data", "No sector analysis"},
	}
}

// suggestedAssets proposes up to three well-known tickers the portfolio does
// not hold yet.
func suggestedAssets(p *EnrichedPortfolio) []string {
	held := make(map[string]struct{}, len(p.Holdings))
	for i := range p.Holdings {
		held[p.Holdings[i].Ticker] = struct{}{}
	}

	candidates := []struct {
		ticker      string
		description string
	}{
		{"AAPL", "AAPL - Apple Inc. (Technology)"},
		{"VTI", "VTI - Vanguard Total Stock Market ETF (Broad Market)"},
		{"JNJ", "JNJ - Johnson & Johnson (Healthcare)"},
		{"JPM", "JPM - JPMorgan Chase & Co. (Financial)"},
	}

	var suggestions []string
	for _, c := range candidates {
		if _, ok := held[c.ticker]; ok {
			continue
		}
		suggestions = append(suggestions, c.description)
		if len(suggestions) == 3 {
			break
		}
	}
	return suggestions
}
