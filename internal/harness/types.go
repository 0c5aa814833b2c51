package harness

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Body is the serialized grid page.
	Body string `json:"body"`

	Page    int `json:"page"`
	Total   int `json:"total"`
	Records int `json:"records"`

	// Skipped lists the columns of filter terms that were not applied.
	Skipped []string `json:"skipped,omitempty"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError adds a mismatch and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
