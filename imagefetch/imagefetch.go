package imagefetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/go-resty/resty/v2"

	"github.com/Dixter999/news-sentiment-sub000/retry"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

const defaultUserAgent = "news-sentiment/1.0"

// Result is a successfully fetched, decodable image.
type Result struct {
	Data     []byte
	MIMEType string
}

// Fetcher downloads referenced images with bounded retries. Connection
// errors, timeouts, 408/429 and 5xx responses are retried; every other
// 4xx and an undecodable payload are permanent (the bytes will not change).
type Fetcher struct {
	client     *resty.Client
	maxRetries int
	baseDelay  time.Duration

	// sleep overrides the backoff wait in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher builds a Fetcher. maxRetries is the total number of network
// attempts per URL; timeout applies to each individual attempt.
func NewFetcher(timeout time.Duration, maxRetries int, baseDelay time.Duration) *Fetcher {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", defaultUserAgent)

	return &Fetcher{
		client:     client,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// fetchError carries the failure class through the retry loop.
type fetchError struct {
	errType   types.ImageErrorType
	transient bool
	msg       string
}

func (e *fetchError) Error() string { return e.msg }

func isTransientFetch(err error) bool {
	var fe *fetchError
	if errors.As(err, &fe) {
		return fe.transient
	}
	return false
}

// Fetch downloads url. On success the error descriptor is nil; on failure
// the Result is nil and the descriptor records the class, the attempt
// count, and when it happened, so the caller can fall back to text-only
// scoring and persist the failure for later batch analysis.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, *types.ImageDownloadError) {
	var result *Result
	attempts := 0

	err := retry.Do(ctx, retry.Config{
		MaxAttempts: f.maxRetries,
		BaseDelay:   f.baseDelay,
		IsTransient: isTransientFetch,
		Sleep:       f.sleep,
	}, func() error {
		attempts++
		res, attemptErr := f.fetchOnce(ctx, url)
		if attemptErr != nil {
			log.Printf("Image fetch attempt %d failed for %s: %s (%s)", attempts, url, attemptErr.msg, attemptErr.errType)
			return attemptErr
		}
		result = res
		return nil
	})

	if err == nil {
		log.Printf("Image fetch succeeded for %s after %d attempt(s) (%s, %d bytes)", url, attempts, result.MIMEType, len(result.Data))
		return result, nil
	}

	var fe *fetchError
	errType := types.ImageErrorConnection
	msg := err.Error()
	retryCount := attempts - 1
	if errors.As(err, &fe) {
		errType = fe.errType
		msg = fe.msg
		if fe.transient {
			// Retries exhausted on a transient failure.
			retryCount = f.maxRetries
		}
	}

	return nil, &types.ImageDownloadError{
		Type:       errType,
		Message:    msg,
		URL:        url,
		RetryCount: retryCount,
		Timestamp:  time.Now().UTC(),
	}
}

// fetchOnce performs a single GET and classifies any failure.
func (f *Fetcher) fetchOnce(ctx context.Context, url string) (*Result, *fetchError) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &fetchError{
				errType:   types.ImageErrorTimeout,
				transient: true,
				msg:       fmt.Sprintf("request timed out: %v", err),
			}
		}
		return nil, &fetchError{
			errType:   types.ImageErrorConnection,
			transient: true,
			msg:       fmt.Sprintf("connection error: %v", err),
		}
	}

	status := resp.StatusCode()
	if status != http.StatusOK {
		return nil, &fetchError{
			errType:   types.ImageErrorHTTPStatus,
			transient: statusIsTransient(status),
			msg:       fmt.Sprintf("HTTP %d fetching image", status),
		}
	}

	data := resp.Body()
	mimeType, ok := detectImageMIME(data)
	if !ok {
		// Retrying returns the same bytes; fail permanently.
		return nil, &fetchError{
			errType:   types.ImageErrorUndecodable,
			transient: false,
			msg:       fmt.Sprintf("payload of %d bytes does not decode as an image", len(data)),
		}
	}

	return &Result{Data: data, MIMEType: mimeType}, nil
}

// statusIsTransient is the status-code-to-policy table: request timeout,
// throttling and server errors are retried, every other client error is
// permanent.
func statusIsTransient(status int) bool {
	if status == http.StatusRequestTimeout || status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500 && status <= 599
}

// detectImageMIME checks magic bytes for the common web image formats and
// falls back to the registered decoders for anything else.
func detectImageMIME(data []byte) (string, bool) {
	if len(data) >= 12 {
		switch {
		case bytes.HasPrefix(data, []byte("\xFF\xD8\xFF")):
			return "image/jpeg", true
		case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
			return "image/png", true
		case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
			return "image/gif", true
		case bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
			return "image/webp", true
		}
	}

	if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		return "image/" + format, true
	}
	return "", false
}
