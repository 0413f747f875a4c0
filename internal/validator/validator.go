// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// tickerRegex matches exchange ticker symbols: 1-10 upper/lower-case letters,
// digits, or dots (e.g. "AAPL", "BRK.B"). Case is normalized downstream.
var tickerRegex = regexp.MustCompile(`^[A-Za-z0-9.]{1,10}$`)

// Register installs custom validators on Gin's default binding engine.
// Call once at startup before handling requests.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("ticker", validateTicker)
}

// validateTicker implements the "ticker" binding tag.
func validateTicker(fl validator.FieldLevel) bool {
	return tickerRegex.MatchString(fl.Field().String())
}
