package models

// Portfolio represents a named collection of holdings owned by a single user.
// Ownership never changes after creation. Holdings are attached per fetch as
// an owned child collection rather than a live ORM association.
type Portfolio struct {
	Base
	Name   string `gorm:"not null" json:"name"`
	UserID uint   `gorm:"not null;index" json:"user_id"`

	Holdings []Holding `gorm:"foreignKey:PortfolioID" json:"holdings,omitempty"`
}
