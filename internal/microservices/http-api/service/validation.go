package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

const maxCopies = 1000

func requireText(verr *ValidationError, field, label, value string, max int) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, fmt.Sprintf("%s is required.", label))
		return
	}
	maxLength(verr, field, label, value, max)
}

func maxLength(verr *ValidationError, field, label, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		verr.Add(field, fmt.Sprintf("%s must be at most %d characters.", label, max))
	}
}

func optionalMaxLength(verr *ValidationError, field, label string, value *string, max int) {
	if value != nil {
		maxLength(verr, field, label, *value, max)
	}
}

func copiesInRange(verr *ValidationError, field, label string, n int) {
	if n < 0 || n > maxCopies {
		verr.Add(field, fmt.Sprintf("%s must be between 0 and %d.", label, maxCopies))
	}
}

// trimmed returns nil for nil or blank strings.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
