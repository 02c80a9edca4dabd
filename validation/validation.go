package validation

import (
	"net/mail"
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// Violations maps a form field to a message code (see i18n).
// The first violation recorded for a field wins.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, exists := v[field]; !exists {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// Length checks the rune count of value. A zero max means unbounded.
func Length(field, value string, minLen, maxLen int, v Violations) {
	n := utf8.RuneCountInString(value)
	if n < minLen {
		v.Add(field, "too_short")
		return
	}
	if maxLen > 0 && n > maxLen {
		v.Add(field, "too_long")
	}
}

func MaxLength(field, value string, maxLen int, v Violations) {
	if utf8.RuneCountInString(value) > maxLen {
		v.Add(field, "too_long")
	}
}

// Email validates a bare address (no display name).
func Email(field, value string, v Violations) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		v.Add(field, "invalid_email")
	}
}

// OptionalURL accepts "" or an absolute http(s) URL.
func OptionalURL(field, value string, v Violations) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.Add(field, "invalid_url")
	}
}

// OneOf checks that value is one of the allowed choices.
func OneOf(field, value string, allowed []string, v Violations) {
	if !slices.Contains(allowed, value) {
		v.Add(field, "invalid_choice")
	}
}

func NonNegativeFloat(field string, val float64, v Violations) {
	if val < 0 {
		v.Add(field, "must_be_positive")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}
