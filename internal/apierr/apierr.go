// Package apierr maps vendor HTTP failures onto the shared error
// categories. Every adapter classifies status codes the same way; only
// the SDK error type each one starts from differs.
package apierr

import (
	"net/http"
	"strconv"
	"time"

	"github.com/parley-ai/parley"
)

// Categorize maps an HTTP status code onto an error category: 429 and
// 5xx are transient, auth failures permanent, malformed requests and
// unknown models user input. Unrecognized codes default to permanent.
func Categorize(code int) parley.ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests:
		return parley.ErrorTransient
	case code >= 500 && code < 600:
		return parley.ErrorTransient
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return parley.ErrorPermanent
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return parley.ErrorUserInput
	default:
		return parley.ErrorPermanent
	}
}

// RetryAfter extracts the Retry-After hint from a response, supporting
// both the delay-seconds and HTTP-date forms. Zero when the header is
// absent or unparseable.
func RetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}
	return 0
}
