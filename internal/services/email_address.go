package services

import (
	"regexp"
	"strings"

	"devevent/internal/domain"
)

// emailPattern accepts local@domain.tld: no whitespace, exactly one "@",
// no dot next to either end of the local part and at least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@.](?:[^\s@]*[^\s@.])?@[^\s@.]+(?:\.[^\s@.]+)+$`)

// normalizeEmail trims and lower-cases raw, then checks it against emailPattern.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.NewValidationError(domain.ErrMissingField, "email", "email is required")
	}
	if !emailPattern.MatchString(email) {
		return "", domain.NewValidationError(domain.ErrInvalidFormat, "email", "please provide a valid email address")
	}
	return email, nil
}
