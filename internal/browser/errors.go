package browser

import (
	"errors"
	"fmt"
)

var (
	ErrDownloadTimeout  = errors.New("timed out waiting for download")
	ErrDownloadCanceled = errors.New("download was canceled by the browser")
)

// NavigationError is a navigation failure other than the abort caused by a
// download starting.
type NavigationError struct {
	URL    string
	Reason error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %s: %s", e.URL, e.Reason)
}

func (e *NavigationError) Unwrap() error {
	return e.Reason
}
