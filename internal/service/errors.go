package service

import "fmt"

// ValidationKind tells whether a request was rejected for its shape or its content.
type ValidationKind int

const (
	// InvalidShape marks requests that cannot be interpreted at all (400).
	InvalidShape ValidationKind = iota
	// InvalidContent marks well formed requests carrying unacceptable values (422).
	InvalidContent
)

// ValidationError is returned when client input is rejected before the store is touched.
type ValidationError struct {
	Kind ValidationKind
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func shapeError(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: InvalidShape, Msg: fmt.Sprintf(format, args...)}
}

func contentError(format string, args ...any) *ValidationError {
	return &ValidationError{Kind: InvalidContent, Msg: fmt.Sprintf(format, args...)}
}
