package validation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain text untouched", input: "Grocery run", want: "Grocery run"},
		{name: "angle brackets stripped", input: "<script>alert(1)</script>", want: "scriptalert(1)/script"},
		{name: "javascript uri stripped", input: "javascript:alert(1)", want: "alert(1)"},
		{name: "case-insensitive javascript uri", input: "JavaScript:alert(1)", want: "alert(1)"},
		{name: "event handler stripped", input: "x onclick=steal()", want: "x steal()"},
		{name: "surrounding whitespace trimmed", input: "  coffee  ", want: "coffee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeString(tt.input); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeSearchQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "sql injection attempt", input: `'; DROP TABLE transactions; --`},
		{name: "xss attempt", input: `<img src=x onerror=alert(1)>`},
		{name: "quotes everywhere", input: `"double" 'single' ` + "`backtick`"},
		{name: "very long input", input: strings.Repeat("coffee shop ", 30)},
		{name: "very long multibyte input", input: strings.Repeat("café ", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeSearchQuery(tt.input)
			if n := utf8.RuneCountInString(got); n > 100 {
				t.Errorf("output exceeds 100 characters: %d", n)
			}
			if !utf8.ValidString(got) {
				t.Errorf("output is not valid UTF-8: %q", got)
			}
			for _, forbidden := range []string{"<", ">", ";", "'", `"`} {
				if strings.Contains(got, forbidden) {
					t.Errorf("output contains forbidden %q: %q", forbidden, got)
				}
			}
		})
	}

	if got := SanitizeSearchQuery("coffee"); got != "coffee" {
		t.Errorf("benign query mangled: %q", got)
	}

	// An 80-character multibyte term is under the limit even though its byte
	// length is not, so it must pass through whole.
	long := strings.Repeat("é", 80)
	if got := SanitizeSearchQuery(long); got != long {
		t.Errorf("multibyte query truncated: %d runes", utf8.RuneCountInString(got))
	}
}

func TestValidateSortField(t *testing.T) {
	allowed := []string{"amount", "transaction_date"}

	if !ValidateSortField("amount", allowed) {
		t.Error("allow-listed field rejected")
	}
	if ValidateSortField("malicious_field", allowed) {
		t.Error("non-listed field accepted")
	}
	if ValidateSortField("amount; DROP TABLE transactions", allowed) {
		t.Error("injection-shaped field accepted")
	}
	if ValidateSortField("", allowed) {
		t.Error("empty field accepted")
	}
}

func TestValidateSortDirection(t *testing.T) {
	for _, v := range []string{"ASC", "DESC", "asc", "desc", " Asc "} {
		if !ValidateSortDirection(v) {
			t.Errorf("ValidateSortDirection(%q) = false", v)
		}
	}
	for _, v := range []string{"", "up", "ASCENDING", "ASC; --"} {
		if ValidateSortDirection(v) {
			t.Errorf("ValidateSortDirection(%q) = true", v)
		}
	}
}
