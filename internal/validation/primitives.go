package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MaxAmount is the largest magnitude accepted for any monetary value.
const MaxAmount = 999_999_999_999

var (
	emailRe = regexp.MustCompile(
		`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*` +
			`@[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)+$`)
	uuidRe     = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyRe = regexp.MustCompile(`^[A-Z]{3}$`)
)

// passwordSpecials is the punctuation set ValidatePassword requires a
// character from.
const passwordSpecials = `!@#$%^&*()_+-=[]{};':"\|,.<>/?~` + "`"

// ValidateString checks a string field against length bounds. An optional
// field left empty is valid; a required one is not. Length bounds apply to
// the trimmed value and count runes, not bytes.
func ValidateString(value, field string, minLen, maxLen int, required bool) []Error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return []Error{{Field: field, Code: CodeRequired, Message: field + " is required"}}
		}
		return nil
	}

	var errs []Error
	length := utf8.RuneCountInString(trimmed)
	if length < minLen {
		errs = append(errs, Error{
			Field:   field,
			Code:    CodeMinLength,
			Message: fmt.Sprintf("%s must be at least %d characters", field, minLen),
		})
	}
	if length > maxLen {
		errs = append(errs, Error{
			Field:   field,
			Code:    CodeMaxLength,
			Message: fmt.Sprintf("%s must be at most %d characters", field, maxLen),
		})
	}
	return errs
}

// ValidateEmail checks a mailbox address. The grammar is strict: proper
// local/domain structure and no consecutive dots.
func ValidateEmail(value string, required bool) []Error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return []Error{{Field: "email", Code: CodeRequired, Message: "email is required"}}
		}
		return nil
	}
	if !emailRe.MatchString(trimmed) {
		return []Error{{Field: "email", Code: CodeInvalidFormat, Message: "email is not a valid address"}}
	}
	return nil
}

// ValidateUUID checks RFC 4122 textual form: version nibble 1-5, variant
// nibble 8, 9, a or b.
func ValidateUUID(value, field string) []Error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []Error{{Field: field, Code: CodeRequired, Message: field + " is required"}}
	}
	if !uuidRe.MatchString(trimmed) {
		return []Error{{Field: field, Code: CodeInvalidFormat, Message: field + " must be a valid UUID"}}
	}
	return nil
}

// ValidateAmount checks a monetary value. NaN and infinities are rejected as
// the wrong type; sign and zero handling are caller policy; magnitude is
// bounded by MaxAmount.
func ValidateAmount(value float64, field string, allowNegative, allowZero bool) []Error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return []Error{{Field: field, Code: CodeInvalidType, Message: field + " must be a number"}}
	}

	var errs []Error
	if value < 0 && !allowNegative {
		errs = append(errs, Error{Field: field, Code: CodeNegativeValue, Message: field + " must not be negative"})
	}
	if value == 0 && !allowZero {
		errs = append(errs, Error{Field: field, Code: CodeZeroValue, Message: field + " must not be zero"})
	}
	if math.Abs(value) > MaxAmount {
		errs = append(errs, Error{Field: field, Code: CodeMaxValue, Message: field + " exceeds the maximum allowed value"})
	}
	return errs
}

// ValidateDate checks a YYYY-MM-DD string. The shape and the calendar are
// verified separately: day 30 of February is rejected, not clamped.
func ValidateDate(value, field string, required bool) []Error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		if required {
			return []Error{{Field: field, Code: CodeRequired, Message: field + " is required"}}
		}
		return nil
	}
	if !dateRe.MatchString(trimmed) {
		return []Error{{Field: field, Code: CodeInvalidFormat, Message: field + " must be in YYYY-MM-DD format"}}
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return []Error{{Field: field, Code: CodeInvalidDate, Message: field + " is not a real calendar date"}}
	}
	return nil
}

// ValidateDateTime checks that a value parses as an ISO-8601 instant.
func ValidateDateTime(value, field string) []Error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return []Error{{Field: field, Code: CodeRequired, Message: field + " is required"}}
	}
	if _, err := ParseDateTime(trimmed); err != nil {
		return []Error{{Field: field, Code: CodeInvalidFormat, Message: field + " must be a valid ISO-8601 datetime"}}
	}
	return nil
}

// ParseDateTime parses an ISO-8601 instant, accepting RFC 3339 and the
// common variant without a zone offset.
func ParseDateTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime %q", value)
}

// ValidateCurrency checks an ISO 4217 currency code shape: exactly 3
// uppercase letters.
func ValidateCurrency(value string) []Error {
	if strings.TrimSpace(value) == "" {
		return []Error{{Field: "currency", Code: CodeRequired, Message: "currency is required"}}
	}
	if !currencyRe.MatchString(value) {
		return []Error{{Field: "currency", Code: CodeInvalidFormat, Message: "currency must be a 3-letter uppercase code"}}
	}
	return nil
}

// ValidatePassword checks password strength. Each missing character class
// and each length violation is reported as its own error so a form can
// highlight multiple issues at once.
func ValidatePassword(value string) []Error {
	var errs []Error

	length := utf8.RuneCountInString(value)
	if length < 8 {
		errs = append(errs, Error{Field: "password", Code: CodeMinLength, Message: "password must be at least 8 characters"})
	}
	if length > 128 {
		errs = append(errs, Error{Field: "password", Code: CodeMaxLength, Message: "password must be at most 128 characters"})
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errs = append(errs, Error{Field: "password", Code: CodeMissingUppercase, Message: "password must contain an uppercase letter"})
	}
	if !hasLower {
		errs = append(errs, Error{Field: "password", Code: CodeMissingLowercase, Message: "password must contain a lowercase letter"})
	}
	if !hasDigit {
		errs = append(errs, Error{Field: "password", Code: CodeMissingNumber, Message: "password must contain a digit"})
	}
	if !hasSpecial {
		errs = append(errs, Error{Field: "password", Code: CodeMissingSpecial, Message: "password must contain a special character"})
	}
	return errs
}
