package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestIsRateLimited(t *testing.T) {
	rl := &RateLimitError{Err: errors.New("429")}
	assert.True(t, IsRateLimited(rl))
	assert.True(t, IsRateLimited(fmt.Errorf("call failed: %w", rl)))
	assert.False(t, IsRateLimited(errors.New("bad request")))
	assert.False(t, IsRateLimited(nil))
}

func TestIsThrottled(t *testing.T) {
	assert.True(t, isThrottled(&openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}))
	assert.True(t, isThrottled(&openai.APIError{Code: "insufficient_quota"}))
	assert.False(t, isThrottled(&openai.APIError{HTTPStatusCode: http.StatusBadRequest}))
	assert.False(t, isThrottled(errors.New("connection reset")))

	wrapped := fmt.Errorf("openai: %w", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests})
	assert.True(t, isThrottled(wrapped))
}
