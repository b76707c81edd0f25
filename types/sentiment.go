package types

import "time"

// Direction classifies a pair's aggregated sentiment.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// ContributingEvent records one event's contribution to a currency average.
type ContributingEvent struct {
	Name           string    `json:"name"`
	SentimentScore float64   `json:"sentiment_score"`
	Impact         Impact    `json:"impact"`
	Weight         float64   `json:"weight"`
	Timestamp      time.Time `json:"timestamp"`
}

// CurrencySentiment is the impact-weighted mean sentiment of one currency
// over a lookback window. EventCount zero means no contributing events;
// Sentiment is then 0.0 and Message explains why.
type CurrencySentiment struct {
	Currency           string              `json:"currency"`
	Sentiment          float64             `json:"sentiment"`
	EventCount         int                 `json:"event_count"`
	ContributingEvents []ContributingEvent `json:"contributing_events"`
	Message            string              `json:"message,omitempty"`
}

// PairSentiment is the directional signal derived from two currencies.
type PairSentiment struct {
	Pair          string    `json:"pair"`
	BaseCurrency  string    `json:"base_currency"`
	QuoteCurrency string    `json:"quote_currency"`
	Sentiment     float64   `json:"sentiment"`
	Direction     Direction `json:"direction"`
	Signal        string    `json:"signal"`
}
