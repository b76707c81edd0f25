package sentiment

import (
	"context"
	"log"
	"time"

	"github.com/Dixter999/news-sentiment-sub000/imagefetch"
	"github.com/Dixter999/news-sentiment-sub000/llm"
	"github.com/Dixter999/news-sentiment-sub000/prompt"
	"github.com/Dixter999/news-sentiment-sub000/retry"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

// ImageFetcher is the narrow image-acquisition surface the analyzer needs.
// *imagefetch.Fetcher implements it.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) (*imagefetch.Result, *types.ImageDownloadError)
}

// Analyzer scores one item at a time. It holds no shared mutable state, so
// a single Analyzer is safe to use from many goroutines at once.
type Analyzer struct {
	model  llm.Client
	images ImageFetcher

	maxAttempts int
	baseDelay   time.Duration

	// sleep overrides the retry backoff in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// Option adjusts an Analyzer at construction time.
type Option func(*Analyzer)

// WithRetryPolicy sets the rate-limit retry bounds for model calls.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) Option {
	return func(a *Analyzer) {
		a.maxAttempts = maxAttempts
		a.baseDelay = baseDelay
	}
}

// NewAnalyzer builds an Analyzer around an injected model client and image
// fetcher. images may be nil when the deployment never scores image posts.
func NewAnalyzer(model llm.Client, images ImageFetcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		model:       model,
		images:      images,
		maxAttempts: 3,
		baseDelay:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score produces the provenance-tagged sentiment result for one item. It
// never returns an error for model, image or parse failures: those degrade
// to a neutral, flagged result so a batch run cannot abort on one bad item.
func (a *Analyzer) Score(ctx context.Context, item types.Item) types.ScoreResult {
	var (
		image    *imagefetch.Result
		imageErr *types.ImageDownloadError
	)

	imageURL := item.ImageURL()
	if imageURL != "" {
		if a.images != nil {
			image, imageErr = a.images.Fetch(ctx, imageURL)
		} else {
			// A referenced image that cannot even be attempted still gets
			// a recorded descriptor.
			imageErr = &types.ImageDownloadError{
				Type:      types.ImageErrorUnavailable,
				Message:   "no image fetcher configured",
				URL:       imageURL,
				Timestamp: time.Now().UTC(),
			}
		}
	}

	// The prompt explains a missing image only when one was referenced.
	promptText := prompt.Build(item, imageURL != "" && image == nil)

	req := llm.Request{Prompt: promptText}
	if image != nil {
		req.ImageData = image.Data
		req.ImageMIME = image.MIMEType
	}

	var resp llm.Response
	err := retry.Do(ctx, retry.Config{
		MaxAttempts: a.maxAttempts,
		BaseDelay:   a.baseDelay,
		IsTransient: llm.IsRateLimited,
		Sleep:       a.sleep,
	}, func() error {
		var callErr error
		resp, callErr = a.model.Generate(ctx, req)
		return callErr
	})
	if err != nil {
		log.Printf("Model call failed for %s: %v", item.Kind(), err)
		return types.ScoreResult{
			SentimentScore:     0,
			Error:              err.Error(),
			RawResponse:        "",
			ImageDownloadError: imageErr,
		}
	}

	score, reasoning, parseErr := Parse(resp.Text)
	return types.ScoreResult{
		SentimentScore:     Clamp(score),
		Reasoning:          reasoning,
		RawResponse:        resp.Text,
		Error:              parseErr,
		AnalyzedImage:      image != nil,
		ImageDownloadError: imageErr,
	}
}
