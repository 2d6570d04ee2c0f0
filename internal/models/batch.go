package models

// BatchFailure records one input of a best-effort batch that could not be processed.
type BatchFailure struct {
	Input string `json:"input"`
	Err   error  `json:"-"`
}

// BatchResult is returned by every best-effort batch operation so that callers decide
// how to surface partial failure.
type BatchResult[T any] struct {
	Succeeded []T
	Failed    []BatchFailure
}

// AddFailure records a failed input.
func (r *BatchResult[T]) AddFailure(input string, err error) {
	r.Failed = append(r.Failed, BatchFailure{Input: input, Err: err})
}

// OK reports whether every input succeeded.
func (r *BatchResult[T]) OK() bool {
	return len(r.Failed) == 0
}

// FailedInputs returns the inputs of the failed entries in order.
func (r *BatchResult[T]) FailedInputs() []string {
	inputs := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		inputs[i] = f.Input
	}
	return inputs
}
