package models

import "time"

// Holding represents a priced position in one ticker within a portfolio.
// At most one holding exists per (portfolio_id, ticker) pair; quantity is
// strictly positive. Holdings are hard-deleted on removal so the unique
// index stays free for a later re-add of the same ticker.
type Holding struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	PortfolioID uint    `gorm:"not null;uniqueIndex:uq_holdings_portfolio_ticker" json:"portfolio_id"`
	Ticker      string  `gorm:"not null;size:10;uniqueIndex:uq_holdings_portfolio_ticker" json:"ticker"`
	Quantity    float64 `gorm:"not null" json:"quantity"`

	// CurrentPrice is ephemeral: it is refreshed on every read and on every
	// write that touches the holding, and is never treated as authoritative.
	CurrentPrice float64 `json:"current_price"`

	// PriceUnknown is set during enrichment when the price lookup failed and
	// CurrentPrice was zeroed, so a genuine zero price and an unknown price
	// are distinguishable. Not persisted.
	PriceUnknown bool `gorm:"-" json:"price_unknown,omitempty"`

	AddedAt   time.Time `gorm:"not null" json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TotalValue returns quantity * current price for this holding.
func (h *Holding) TotalValue() float64 {
	return h.Quantity * h.CurrentPrice
}
