package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/models"
	"stockfolio/internal/pagination"
	"stockfolio/internal/pricing"
)

// portfolioService handles portfolio and holding persistence.
type portfolioService struct {
	db     *gorm.DB
	prices pricing.Source
}

// NewPortfolioService creates a new PortfolioServicer. prices is consulted on
// the write path only; a failure there aborts the write, unlike read-path
// enrichment which fails open.
func NewPortfolioService(db *gorm.DB, prices pricing.Source) PortfolioServicer {
	return &portfolioService{db: db, prices: prices}
}

// CreatePortfolio creates an empty portfolio owned by the given user.
func (s *portfolioService) CreatePortfolio(username, name string) (*models.Portfolio, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Portfolio name is required")
	}

	var owner models.User
	if err := s.db.Where("username = ?", username).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	portfolio := &models.Portfolio{
		Name:   name,
		UserID: owner.ID,
	}
	if err := s.db.Create(portfolio).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return portfolio, nil
}

// GetUserPortfolios returns a paginated list of the user's portfolios in
// creation order, with holdings attached.
func (s *portfolioService) GetUserPortfolios(username string, page pagination.PageRequest) (*pagination.PageResponse[models.Portfolio], error) {
	var owner models.User
	if err := s.db.Where("username = ?", username).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Portfolio{}).Where("user_id = ?", owner.ID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var portfolios []models.Portfolio
	if err := s.db.Where("user_id = ?", owner.ID).Order("created_at ASC").
		Scopes(pagination.Paginate(page)).Find(&portfolios).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range portfolios {
		holdings, err := s.portfolioHoldings(portfolios[i].ID)
		if err != nil {
			return nil, err
		}
		portfolios[i].Holdings = holdings
	}

	result := pagination.NewPageResponse(portfolios, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetPortfolio returns a portfolio with holdings attached if the requester
// owns it. Existence is checked before ownership, so a non-owner learns the
// portfolio exists but nothing more.
func (s *portfolioService) GetPortfolio(portfolioID uint, username string) (*models.Portfolio, error) {
	portfolio, err := s.ownedPortfolio(portfolioID, username)
	if err != nil {
		return nil, err
	}

	holdings, err := s.portfolioHoldings(portfolio.ID)
	if err != nil {
		return nil, err
	}
	portfolio.Holdings = holdings
	return portfolio, nil
}

// AddHolding adds quantity of a ticker to the portfolio. The write is a
// single atomic upsert keyed on (portfolio_id, ticker): if the holding exists,
// or a concurrent add inserts it first, the quantity folds into the existing
// row with a relative increment and the price is refreshed, so concurrent
// adds to the same pair never lose an update. A price-source failure aborts
// the whole operation: holdings are never written with an unknown price.
func (s *portfolioService) AddHolding(ctx context.Context, portfolioID uint, ticker string, quantity float64, username string) (*models.Holding, error) {
	portfolio, err := s.ownedPortfolio(portfolioID, username)
	if err != nil {
		return nil, err
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Ticker is required")
	}
	if quantity <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be positive")
	}

	price, err := s.prices.CurrentPrice(ctx, ticker)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPriceFetchFailed, err)
	}

	// ON CONFLICT folds a concurrent or existing row into a relative
	// increment in the same statement, so no insert-then-retry is needed and
	// the statement behaves identically on postgres and sqlite.
	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "portfolio_id"}, {Name: "ticker"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":      gorm.Expr("quantity + ?", quantity),
			"current_price": price,
			"updated_at":    time.Now(),
		}),
	}).Create(&models.Holding{
		PortfolioID:  portfolio.ID,
		Ticker:       ticker,
		Quantity:     quantity,
		CurrentPrice: price,
		AddedAt:      time.Now(),
	})
	if res.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}

	var holding models.Holding
	if err := s.db.Where("portfolio_id = ? AND ticker = ?", portfolio.ID, ticker).
		First(&holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}

// RemoveHolding deletes the holding for the normalized ticker. The delete is
// keyed on (portfolio_id, ticker) so no partial state can remain.
func (s *portfolioService) RemoveHolding(portfolioID uint, ticker, username string) error {
	portfolio, err := s.ownedPortfolio(portfolioID, username)
	if err != nil {
		return err
	}

	ticker = strings.ToUpper(strings.TrimSpace(ticker))

	res := s.db.Where("portfolio_id = ? AND ticker = ?", portfolio.ID, ticker).
		Delete(&models.Holding{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

// ownedPortfolio loads a portfolio and verifies the requester owns it.
// Existence is checked before ownership.
func (s *portfolioService) ownedPortfolio(portfolioID uint, username string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := s.db.First(&portfolio, portfolioID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPortfolioNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var owner models.User
	if err := s.db.First(&owner, portfolio.UserID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if owner.Username != username {
		return nil, apperrors.ErrForbidden
	}
	return &portfolio, nil
}

// portfolioHoldings returns a portfolio's holdings in the order they were added.
func (s *portfolioService) portfolioHoldings(portfolioID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("portfolio_id = ?", portfolioID).Order("added_at ASC").
		Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}
