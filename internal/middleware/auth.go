package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/token"
)

// usernameKey is the Gin context key holding the authenticated username.
const usernameKey = "username"

// Auth returns a Gin middleware that extracts the bearer token from the
// Authorization header, verifies it, and stores the subject username in the
// context. Tokens are stateless: the subject is not re-checked against the
// user store here.
func Auth(tokens token.Servicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithAppError(c, apperrors.ErrUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithAppError(c, apperrors.WithMessage(apperrors.ErrUnauthorized, "Invalid authorization header format"))
			return
		}

		username, err := tokens.Verify(parts[1])
		if err != nil {
			abortWithAppError(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(usernameKey, username)
		c.Next()
	}
}

// abortWithAppError writes the standard error envelope and stops the chain.
func abortWithAppError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}

// Username returns the authenticated username stored by Auth.
func Username(c *gin.Context) (string, bool) {
	v, exists := c.Get(usernameKey)
	if !exists {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}
