package oai

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/apierr"
)

// wrapError wraps an SDK error with parley error categorization. It
// preserves the status code, raw error body, and any Retry-After hint so
// the boundary layer can format the failure.
func (c *Core) wrapError(err error) error {
	if err == nil {
		return nil
	}

	var sdkErr *openai.Error
	if !errors.As(err, &sdkErr) {
		// Connection-level failure; the retry heuristics classify it.
		return err
	}

	return &parley.APIError{
		Provider:   c.cfg.Name,
		Msg:        err.Error(),
		Cat:        apierr.Categorize(sdkErr.StatusCode),
		Code:       sdkErr.StatusCode,
		Body:       sdkErr.RawJSON(),
		RetryDelay: apierr.RetryAfter(sdkErr.Response),
		Cause:      err,
	}
}
