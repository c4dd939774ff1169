package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every service; validator.Validate is safe for
// concurrent use and caches its parsed tags.
var validate = validator.New()

// validEmail applies the same rule as the HTTP layer's `email` tag, so a
// bare address is required and display-name forms are rejected.
func validEmail(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}
