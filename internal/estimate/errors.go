package estimate

import "fmt"

// ComputationError reports that a class or city lookup failed while pricing.
// It never leaves Engine.Quote; it turns the quote into an advisory one.
type ComputationError struct {
	Step string
	Err  error
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

func computationErr(step string, format string, args ...any) error {
	return &ComputationError{Step: step, Err: fmt.Errorf(format, args...)}
}
