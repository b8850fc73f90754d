package gemini

import (
	"errors"

	"google.golang.org/genai"

	"github.com/parley-ai/parley"
	"github.com/parley-ai/parley/internal/apierr"
)

// wrapError wraps a genai SDK error with parley error categorization,
// preserving the status code and error detail for the boundary layer.
func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var sdkErr genai.APIError
	if !errors.As(err, &sdkErr) {
		// Connection-level failure; the retry heuristics classify it.
		return err
	}

	return &parley.APIError{
		Provider: provider,
		Msg:      err.Error(),
		Cat:      apierr.Categorize(sdkErr.Code),
		Code:     sdkErr.Code,
		Body:     sdkErr.Message,
		Cause:    err,
	}
}
