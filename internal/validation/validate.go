package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/kensudogit/job-assistance/domain"
)

// Kind selects the typed validation applied by Validate.
type Kind string

const (
	KindString  Kind = "string"
	KindInteger Kind = "integer"
	KindEmail   Kind = "email"
	KindDate    Kind = "date"
)

// sqlPatterns blocks obvious injection probes in free-text fields: comment
// markers, statement separators, and DML/DDL keyword sequences.
var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`\*/`),
	regexp.MustCompile(`;`),
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i)select\s+.*\s+from`),
	regexp.MustCompile(`(?i)insert\s+into`),
	regexp.MustCompile(`(?i)update\s+.*\s+set`),
	regexp.MustCompile(`(?i)delete\s+from`),
	regexp.MustCompile(`(?i)drop\s+table`),
	regexp.MustCompile(`(?i)exec\s*\(`),
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// String validates a free-text value: rejects SQL metacharacter patterns and
// values longer than maxLength (0 means no length cap).
func String(value string, maxLength int) (string, error) {
	for _, p := range sqlPatterns {
		if p.MatchString(value) {
			return "", fmt.Errorf("%w: contains forbidden character sequence", domain.ErrValidation)
		}
	}
	if maxLength > 0 && len(value) > maxLength {
		return "", fmt.Errorf("%w: exceeds maximum length of %d", domain.ErrValidation, maxLength)
	}
	return value, nil
}

// Integer parses a decimal integer or rejects.
func Integer(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: not an integer", domain.ErrValidation)
	}
	return n, nil
}

// Email validates an RFC-like email shape plus the string blocklist.
func Email(value string, maxLength int) (string, error) {
	if _, err := String(value, maxLength); err != nil {
		return "", err
	}
	if !emailPattern.MatchString(value) {
		return "", fmt.Errorf("%w: invalid email format", domain.ErrValidation)
	}
	return value, nil
}

// Date parses an ISO-8601 date or datetime, accepting a trailing Z.
func Date(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format", domain.ErrValidation)
}

// PasswordStrength enforces the account password policy: 8..128 characters
// drawing on at least three of {upper, lower, digit, special}.
func PasswordStrength(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrWeakPassword)
	}
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", domain.ErrWeakPassword)
	}
	if len(password) > 128 {
		return fmt.Errorf("%w: must be at most 128 characters", domain.ErrWeakPassword)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, c := range password {
		switch {
		case unicode.IsUpper(c):
			hasUpper = true
		case unicode.IsLower(c):
			hasLower = true
		case unicode.IsDigit(c):
			hasDigit = true
		case strings.ContainsRune("!@#$%^&*()_+-=[]{}|;:,.<>?", c):
			hasSpecial = true
		}
	}

	score := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			score++
		}
	}
	if score < 3 {
		return fmt.Errorf("%w: must mix at least three of upper, lower, digit, special", domain.ErrWeakPassword)
	}
	return nil
}
