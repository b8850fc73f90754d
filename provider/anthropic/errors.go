package anthropic

import (
	"errors"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/apierr"
)

// wrapError wraps an SDK error with parley error categorization. It
// preserves the status code, raw error body, and any Retry-After hint so
// the boundary layer can format the failure. Anthropic's 529 overloaded
// falls in the transient 5xx range.
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var sdkErr *anthropic.Error
	if !errors.As(err, &sdkErr) {
		// Connection-level failure; the retry heuristics classify it.
		return err
	}

	return &parley.APIError{
		Provider:   provider,
		Msg:        err.Error(),
		Cat:        apierr.Categorize(sdkErr.StatusCode),
		Code:       sdkErr.StatusCode,
		Body:       sdkErr.RawJSON(),
		RetryDelay: apierr.RetryAfter(sdkErr.Response),
		Cause:      err,
	}
}
