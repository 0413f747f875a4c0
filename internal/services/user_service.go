package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/models"
	"stockfolio/internal/token"
)

// userService handles registration and authentication.
type userService struct {
	db     *gorm.DB
	tokens token.Servicer
}

// NewUserService creates a new UserServicer.
func NewUserService(db *gorm.DB, tokens token.Servicer) UserServicer {
	return &userService{db: db, tokens: tokens}
}

// Register creates a new user with a bcrypt-hashed password and returns a
// freshly issued token. Duplicate usernames are rejected by the storage
// layer's unique constraint.
func (s *userService) Register(username, password, email string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "username and password are required")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Username: username,
		Password: string(hashedPassword),
		Email:    email,
	}

	if err := s.db.Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return "", apperrors.ErrDuplicateUsername
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.tokens.Issue(username)
}

// Login authenticates a user and returns a freshly issued token.
func (s *userService) Login(username, password string) (string, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	return s.tokens.Issue(username)
}

// GetUserByUsername retrieves a user by username.
func (s *userService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// isUniqueConstraintError checks if a GORM error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}
