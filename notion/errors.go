package notion

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/reconquest/karma-go"
)

// FetchError describes a failed API call. Transient failures (rate limits,
// server hiccups, network errors) are worth retrying; permanent ones
// (not-found, auth, malformed responses) are not.
type FetchError struct {
	StatusCode int
	Transient  bool
	Message    string
}

func (err *FetchError) Error() string {
	if err.StatusCode == 0 {
		return err.Message
	}

	return fmt.Sprintf(
		"the Notion API returned unexpected status: %d (%s)",
		err.StatusCode,
		http.StatusText(err.StatusCode),
	)
}

// IsTransient reports whether the given error chain contains a retryable
// fetch failure. Karma hierarchies are descended through their reason.
func IsTransient(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Transient
	}

	if hierarchical, ok := err.(karma.Karma); ok {
		if reason, ok := hierarchical.Reason.(error); ok {
			return IsTransient(reason)
		}
	}

	return false
}

func transientError(format string, args ...interface{}) error {
	return &FetchError{
		Transient: true,
		Message:   fmt.Sprintf(format, args...),
	}
}

func statusError(code int) error {
	return &FetchError{
		StatusCode: code,
		Transient:  code == http.StatusTooManyRequests || code >= 500,
	}
}
