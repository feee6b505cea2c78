package reports

import (
	"fmt"
)

// TransportError is returned when the remote answers with a non-success status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %s", e.Method, e.URL, e.Status)
}

// DecodeError is returned when a body is not valid json, even after
// unwrapping one layer of string encoding.
type DecodeError struct {
	// Snippet is the start of the offending body, or a summary of it
	// when the body is an html page.
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response %q: %s", e.Snippet, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
