package types

import "time"

// Impact is the declared market-impact tier of an economic calendar event.
type Impact string

const (
	ImpactHigh    Impact = "High"
	ImpactMedium  Impact = "Medium"
	ImpactLow     Impact = "Low"
	ImpactHoliday Impact = "Holiday"
)

// ImageErrorType classifies why a referenced image could not be retrieved.
type ImageErrorType string

const (
	ImageErrorTimeout     ImageErrorType = "timeout"
	ImageErrorConnection  ImageErrorType = "connection"
	ImageErrorHTTPStatus  ImageErrorType = "http_status"
	ImageErrorUndecodable ImageErrorType = "undecodable"
	ImageErrorUnavailable ImageErrorType = "unavailable"
)

// ImageDownloadError is recorded on a score whenever an item referenced an
// image that could not be fetched. The score itself may still be valid,
// the model just never saw the image.
type ImageDownloadError struct {
	Type       ImageErrorType `firestore:"type" json:"type"`
	Message    string         `firestore:"message" json:"message"`
	URL        string         `firestore:"url" json:"url"`
	RetryCount int            `firestore:"retryCount" json:"retry_count"`
	Timestamp  time.Time      `firestore:"timestamp" json:"timestamp"`
}

// ScoreResult is the provenance record produced for every scored item.
// SentimentScore is always populated and always within [-1.0, 1.0].
// Error and ImageDownloadError are independent flags: an item can carry a
// usable score and still have a recorded image failure.
type ScoreResult struct {
	SentimentScore     float64             `firestore:"sentimentScore" json:"sentiment_score"`
	Reasoning          string              `firestore:"reasoning" json:"reasoning"`
	RawResponse        string              `firestore:"rawResponse" json:"raw_response"`
	Error              string              `firestore:"error,omitempty" json:"error,omitempty"`
	AnalyzedImage      bool                `firestore:"analyzedImage" json:"analyzed_image"`
	ImageDownloadError *ImageDownloadError `firestore:"imageDownloadError,omitempty" json:"image_download_error,omitempty"`
}

// Item is a scorable record, either an EconomicEvent or a SocialPost.
type Item interface {
	// Kind names the item variant for logging and persistence.
	Kind() string
	// ImageURL returns the URL of a referenced image, or "" when the item
	// carries no image reference.
	ImageURL() string
}

// EconomicEvent is one economic-calendar release, handed in fully populated
// by the scraping collaborator. Actual/Forecast/Previous stay nil when the
// calendar did not publish them; zero is a real value.
type EconomicEvent struct {
	Name      string    `firestore:"name" json:"name"`
	Currency  string    `firestore:"currency" json:"currency"`
	Impact    Impact    `firestore:"impact" json:"impact"`
	Actual    *float64  `firestore:"actual" json:"actual"`
	Forecast  *float64  `firestore:"forecast" json:"forecast"`
	Previous  *float64  `firestore:"previous" json:"previous"`
	DetailURL string    `firestore:"detailUrl,omitempty" json:"detail_url,omitempty"`
	Timestamp time.Time `firestore:"timestamp" json:"timestamp"`
}

func (EconomicEvent) Kind() string { return "economic_event" }

// Calendar detail pages are not images; events never trigger image fetch.
func (EconomicEvent) ImageURL() string { return "" }

// SocialPost is one social-media post, handed in by the feed collaborator.
type SocialPost struct {
	ID            string    `firestore:"id" json:"id"`
	Title         string    `firestore:"title" json:"title"`
	Body          string    `firestore:"body" json:"body"`
	Subreddit     string    `firestore:"subreddit" json:"subreddit"`
	Flair         string    `firestore:"flair" json:"flair"`
	Score         int       `firestore:"score" json:"score"`
	CommentCount  int       `firestore:"commentCount" json:"comment_count"`
	Currency      string    `firestore:"currency" json:"currency"`
	URL           string    `firestore:"url,omitempty" json:"url,omitempty"`
	EmbedImageURL string    `firestore:"embedImageUrl,omitempty" json:"embed_image_url,omitempty"`
	Timestamp     time.Time `firestore:"timestamp" json:"timestamp"`
}

func (SocialPost) Kind() string { return "social_post" }

func (p SocialPost) ImageURL() string { return p.EmbedImageURL }

// ScoredEvent is the persisted record for one scored calendar event.
type ScoredEvent struct {
	Event    EconomicEvent `firestore:"event" json:"event"`
	Result   ScoreResult   `firestore:"result" json:"result"`
	ScoredAt time.Time     `firestore:"scoredAt" json:"scored_at"`
}

// ScoredPost is the persisted record for one scored social post.
type ScoredPost struct {
	Post     SocialPost  `firestore:"post" json:"post"`
	Result   ScoreResult `firestore:"result" json:"result"`
	ScoredAt time.Time   `firestore:"scoredAt" json:"scored_at"`
}
