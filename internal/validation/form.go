package validation

// FormResult pairs a validation result with a per-field message map (first
// error per field) for direct consumption by a presentation layer.
type FormResult struct {
	Fields map[string]string `json:"fields"`
	Result
}

// NewFormValidator wraps a composite validator so each call also produces
// the per-field message map, without altering the underlying validation
// semantics.
func NewFormValidator[T any](validate func(T) Result) func(T) FormResult {
	return func(req T) FormResult {
		result := validate(req)
		return FormResult{
			Result: result,
			Fields: result.FieldErrors(),
		}
	}
}
