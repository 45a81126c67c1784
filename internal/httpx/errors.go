package httpx

import "errors"

// CircuitOpenError is returned without contacting the server while the
// circuit breaker is open.
type CircuitOpenError struct{}

func (e *CircuitOpenError) Error() string {
	return "circuit breaker is open, too many recent failures"
}

// IsCircuitOpen checks if the error is a circuit breaker rejection.
func IsCircuitOpen(err error) bool {
	var e *CircuitOpenError
	return errors.As(err, &e)
}
