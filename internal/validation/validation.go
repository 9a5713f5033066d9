// Package validation rejects or normalizes all inbound ledger data before it
// reaches storage. It is the sole injection-prevention boundary beyond
// parameterized statements.
package validation

// Machine-readable validation error codes. The set is closed; callers switch
// on these to drive form behavior.
const (
	CodeRequired         = "REQUIRED"
	CodeMinLength        = "MIN_LENGTH"
	CodeMaxLength        = "MAX_LENGTH"
	CodeInvalidFormat    = "INVALID_FORMAT"
	CodeInvalidType      = "INVALID_TYPE"
	CodeNegativeValue    = "NEGATIVE_VALUE"
	CodeZeroValue        = "ZERO_VALUE"
	CodeMaxValue         = "MAX_VALUE"
	CodeInvalidDate      = "INVALID_DATE"
	CodeSameAccount      = "SAME_ACCOUNT"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeMissingUppercase = "MISSING_UPPERCASE"
	CodeMissingLowercase = "MISSING_LOWERCASE"
	CodeMissingNumber    = "MISSING_NUMBER"
	CodeMissingSpecial   = "MISSING_SPECIAL"
)

// Error describes a single field-level validation failure. Code is one of
// the Code* constants; Message is human-readable.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Result is the outcome of running a composite validator.
type Result struct {
	Errors  []Error `json:"errors"`
	IsValid bool    `json:"isValid"`
}

// resultOf builds a Result from a collected error list.
func resultOf(errs []Error) Result {
	return Result{IsValid: len(errs) == 0, Errors: errs}
}

// HasCode reports whether the result contains an error with the given code.
func (r Result) HasCode(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// FieldErrors returns the first error message per field, for direct
// consumption by a presentation layer.
func (r Result) FieldErrors() map[string]string {
	if r.IsValid {
		return nil
	}
	fields := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, seen := fields[e.Field]; !seen {
			fields[e.Field] = e.Message
		}
	}
	return fields
}
