package llm

import (
	"context"
	"errors"
)

// Request carries one prompt, optionally with raw image bytes for
// multimodal scoring. ImageMIME must be set when ImageData is present.
type Request struct {
	Prompt    string
	ImageData []byte
	ImageMIME string
}

// Response is the narrow surface the scoring engine needs from a model
// reply: the generated text, nothing else.
type Response struct {
	Text string
}

// Client generates one completion per request. Implementations must return
// a *RateLimitError (possibly wrapped) when the upstream throttles, so the
// retry policy can tell throttling apart from permanent failures.
type Client interface {
	Generate(ctx context.Context, req Request) (Response, error)
}

// RateLimitError marks a throttled call. Retrying it after a backoff is
// expected to succeed; every other error class is permanent.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return "rate limited: " + e.Err.Error() }

func (e *RateLimitError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err is (or wraps) a RateLimitError. It is
// the transiency predicate used for model calls.
func IsRateLimited(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
