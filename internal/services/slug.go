package services

import (
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var slugSeparator = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lower-cases title, collapses every run outside [a-z0-9] into one hyphen
// and trims hyphens from both ends.
func slugify(title string) string {
	s := slugSeparator.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// slugSuffixer hands out base-36 millisecond stamps that strictly increase,
// even when called twice within the same millisecond.
type slugSuffixer struct {
	last atomic.Int64
}

func (s *slugSuffixer) next(now time.Time) string {
	ms := now.UnixMilli()
	for {
		prev := s.last.Load()
		n := ms
		if n <= prev {
			n = prev + 1
		}
		if s.last.CompareAndSwap(prev, n) {
			return strconv.FormatInt(n, 36)
		}
	}
}
