package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"devevent/internal/domain"
)

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// normalizeTimeOfDay validates an "H:MM" or "HH:MM" 24-hour time and returns it zero-padded.
func normalizeTimeOfDay(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.NewValidationError(domain.ErrMissingField, "time", "time is required")
	}
	m := timeOfDayPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", domain.NewValidationError(domain.ErrInvalidFormat, "time", "time must use the HH:MM format")
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return "", domain.NewValidationError(domain.ErrInvalidValue, "time", "time must be between 00:00 and 23:59")
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
