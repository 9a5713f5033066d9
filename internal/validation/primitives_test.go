package validation

import (
	"math"
	"strings"
	"testing"
)

func codes(errs []Error) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func hasCode(errs []Error, code string) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func TestValidateString(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantCode string
		minLen   int
		maxLen   int
		required bool
		wantErrs int
	}{
		{name: "valid within bounds", value: "hello", minLen: 3, maxLen: 50, required: true, wantErrs: 0},
		{name: "exactly min length", value: "abc", minLen: 3, maxLen: 50, required: true, wantErrs: 0},
		{name: "exactly max length", value: strings.Repeat("a", 50), minLen: 3, maxLen: 50, required: true, wantErrs: 0},
		{name: "below min length", value: "ab", minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeMinLength},
		{name: "above max length", value: strings.Repeat("a", 51), minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeMaxLength},
		{name: "required empty", value: "", minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeRequired},
		{name: "required whitespace only", value: "   ", minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeRequired},
		{name: "optional empty is valid", value: "", minLen: 3, maxLen: 50, required: false, wantErrs: 0},
		{name: "trimmed before measuring", value: "  ab  ", minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeMinLength},
		{name: "multibyte runes counted once", value: strings.Repeat("é", 50), minLen: 3, maxLen: 50, required: true, wantErrs: 0},
		{name: "multibyte above max length", value: strings.Repeat("é", 51), minLen: 3, maxLen: 50, required: true, wantErrs: 1, wantCode: CodeMaxLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateString(tt.value, "field", tt.minLen, tt.maxLen, tt.required)
			if len(errs) != tt.wantErrs {
				t.Fatalf("got %d errors %v, want %d", len(errs), codes(errs), tt.wantErrs)
			}
			if tt.wantErrs > 0 && errs[0].Code != tt.wantCode {
				t.Errorf("got code %s, want %s", errs[0].Code, tt.wantCode)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "simple address", value: "user@example.com", valid: true},
		{name: "dotted local part", value: "first.last@example.com", valid: true},
		{name: "subdomain", value: "user@mail.example.co.uk", valid: true},
		{name: "plus tag", value: "user+tag@example.com", valid: true},
		{name: "consecutive dots rejected", value: "first..last@example.com", valid: false},
		{name: "leading dot rejected", value: ".user@example.com", valid: false},
		{name: "missing domain dot", value: "user@localhost", valid: false},
		{name: "missing at sign", value: "userexample.com", valid: false},
		{name: "domain leading hyphen", value: "user@-example.com", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateEmail(tt.value, true)
			if tt.valid && len(errs) != 0 {
				t.Errorf("expected valid, got %v", codes(errs))
			}
			if !tt.valid && !hasCode(errs, CodeInvalidFormat) {
				t.Errorf("expected INVALID_FORMAT, got %v", codes(errs))
			}
		})
	}

	if errs := ValidateEmail("", true); !hasCode(errs, CodeRequired) {
		t.Errorf("required empty email: got %v", codes(errs))
	}
	if errs := ValidateEmail("", false); len(errs) != 0 {
		t.Errorf("optional empty email should be valid, got %v", codes(errs))
	}
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantCode string
	}{
		{name: "canonical v1", value: "123e4567-e89b-12d3-a456-426614174000"},
		{name: "v4 uppercase", value: "9B2A8C1D-3E4F-4A5B-8C6D-7E8F9A0B1C2D"},
		{name: "empty", value: "", wantCode: CodeRequired},
		{name: "not a uuid", value: "not-a-uuid", wantCode: CodeInvalidFormat},
		{name: "bad version nibble", value: "123e4567-e89b-62d3-a456-426614174000", wantCode: CodeInvalidFormat},
		{name: "bad variant nibble", value: "123e4567-e89b-12d3-c456-426614174000", wantCode: CodeInvalidFormat},
		{name: "missing hyphens", value: "123e4567e89b12d3a456426614174000", wantCode: CodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUUID(tt.value, "id")
			if tt.wantCode == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid, got %v", codes(errs))
				}
				return
			}
			if !hasCode(errs, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, codes(errs))
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name          string
		wantCode      string
		value         float64
		allowNegative bool
		allowZero     bool
	}{
		{name: "positive", value: 10.50},
		{name: "negative allowed", value: -10.50, allowNegative: true},
		{name: "negative disallowed", value: -10.50, wantCode: CodeNegativeValue},
		{name: "zero allowed", value: 0, allowZero: true},
		{name: "zero disallowed", value: 0, wantCode: CodeZeroValue},
		{name: "NaN", value: math.NaN(), wantCode: CodeInvalidType},
		{name: "positive infinity", value: math.Inf(1), wantCode: CodeInvalidType},
		{name: "above maximum", value: 1_000_000_000_000, wantCode: CodeMaxValue},
		{name: "at maximum", value: 999_999_999_999},
		{name: "large negative magnitude", value: -1_000_000_000_000, allowNegative: true, wantCode: CodeMaxValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateAmount(tt.value, "amount", tt.allowNegative, tt.allowZero)
			if tt.wantCode == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid, got %v", codes(errs))
				}
				return
			}
			if !hasCode(errs, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, codes(errs))
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantCode string
	}{
		{name: "valid date", value: "2024-06-15"},
		{name: "leap day", value: "2024-02-29"},
		{name: "non-leap february 29", value: "2023-02-29", wantCode: CodeInvalidDate},
		{name: "february 30 rejected not clamped", value: "2024-02-30", wantCode: CodeInvalidDate},
		{name: "month 13", value: "2024-13-01", wantCode: CodeInvalidDate},
		{name: "wrong shape", value: "15/06/2024", wantCode: CodeInvalidFormat},
		{name: "datetime not a date", value: "2024-06-15T10:00:00Z", wantCode: CodeInvalidFormat},
		{name: "required empty", value: "", wantCode: CodeRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateDate(tt.value, "date", true)
			if tt.wantCode == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid, got %v", codes(errs))
				}
				return
			}
			if !hasCode(errs, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, codes(errs))
			}
		})
	}

	if errs := ValidateDate("", "date", false); len(errs) != 0 {
		t.Errorf("optional empty date should be valid, got %v", codes(errs))
	}
}

func TestValidateDateTime(t *testing.T) {
	valid := []string{
		"2024-06-15T10:30:00Z",
		"2024-06-15T10:30:00+02:00",
		"2024-06-15T10:30:00",
		"2024-06-15",
	}
	for _, v := range valid {
		if errs := ValidateDateTime(v, "date"); len(errs) != 0 {
			t.Errorf("ValidateDateTime(%q): expected valid, got %v", v, codes(errs))
		}
	}

	invalid := []string{"not-a-date", "2024-02-30T10:00:00Z", "15:04:05"}
	for _, v := range invalid {
		if errs := ValidateDateTime(v, "date"); !hasCode(errs, CodeInvalidFormat) {
			t.Errorf("ValidateDateTime(%q): expected INVALID_FORMAT, got %v", v, codes(errs))
		}
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, v := range []string{"USD", "EUR", "GBP", "XXX"} {
		if errs := ValidateCurrency(v); len(errs) != 0 {
			t.Errorf("ValidateCurrency(%q): expected valid, got %v", v, codes(errs))
		}
	}
	for _, v := range []string{"usd", "US", "USDD", "U$D", "123"} {
		if errs := ValidateCurrency(v); !hasCode(errs, CodeInvalidFormat) {
			t.Errorf("ValidateCurrency(%q): expected INVALID_FORMAT, got %v", v, codes(errs))
		}
	}
	if errs := ValidateCurrency(""); !hasCode(errs, CodeRequired) {
		t.Errorf("empty currency: got %v", codes(errs))
	}
}

func TestValidatePassword(t *testing.T) {
	if errs := ValidatePassword("StrongPass123!"); len(errs) != 0 {
		t.Fatalf("strong password rejected: %v", codes(errs))
	}

	errs := ValidatePassword("password")
	for _, want := range []string{CodeMissingUppercase, CodeMissingNumber, CodeMissingSpecial} {
		if !hasCode(errs, want) {
			t.Errorf("weak password missing %s in %v", want, codes(errs))
		}
	}
	if hasCode(errs, CodeMissingLowercase) {
		t.Errorf("weak password should not report MISSING_LOWERCASE: %v", codes(errs))
	}

	// Each violation is its own distinct error.
	errs = ValidatePassword("a")
	for _, want := range []string{CodeMinLength, CodeMissingUppercase, CodeMissingNumber, CodeMissingSpecial} {
		if !hasCode(errs, want) {
			t.Errorf("short password missing %s in %v", want, codes(errs))
		}
	}

	if errs := ValidatePassword(strings.Repeat("Aa1!", 40)); !hasCode(errs, CodeMaxLength) {
		t.Errorf("overlong password: expected MAX_LENGTH, got %v", codes(errs))
	}
}
