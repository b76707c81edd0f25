package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a forex market analyst. You score how bullish or bearish a piece of news or social-media chatter is for the currency it concerns, on a scale from -1.0 (strongly bearish) to 1.0 (strongly bullish)."

// OpenAIClient scores items through the OpenAI chat completions API.
// Construct one per service and pass it in; there is no package-level
// shared client.
type OpenAIClient struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

// NewOpenAIClient builds a client for the given API key. Model defaults to
// GPT-4o mini when empty.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:      openai.NewClient(apiKey),
		model:       model,
		maxTokens:   300,
		temperature: 0.2, // low temperature for reproducible scoring
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req Request) (Response, error) {
	userMessage := openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	}

	if len(req.ImageData) > 0 {
		dataURI := fmt.Sprintf("data:%s;base64,%s", req.ImageMIME, base64.StdEncoding.EncodeToString(req.ImageData))
		userMessage = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeText, Text: req.Prompt},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    dataURI,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		}
	}

	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: systemPrompt,
				},
				userMessage,
			},
			MaxTokens:   c.maxTokens,
			N:           1,
			Temperature: c.temperature,
		},
	)
	if err != nil {
		if isThrottled(err) {
			return Response{}, &RateLimitError{Err: err}
		}
		return Response{}, fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Response{}, fmt.Errorf("openai returned empty response or choices")
	}

	return Response{Text: resp.Choices[0].Message.Content}, nil
}

// isThrottled matches the API error shapes OpenAI uses for throttling:
// HTTP 429 and the insufficient_quota error code.
func isThrottled(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	if code, ok := apiErr.Code.(string); ok && code == "insufficient_quota" {
		return true
	}
	return false
}
