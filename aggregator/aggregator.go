package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"cloud.google.com/go/firestore"

	"github.com/Dixter999/news-sentiment-sub000/db"
	"github.com/Dixter999/news-sentiment-sub000/sentiment"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

// DirectionThreshold is the symmetric cutoff for classifying a pair as
// bullish or bearish. The monitoring loop uses this same constant; there
// is deliberately only one.
const DirectionThreshold = 0.2

// impactWeights scale each event's contribution by its market-impact tier.
var impactWeights = map[types.Impact]float64{
	types.ImpactHigh:    1.0,
	types.ImpactMedium:  0.6,
	types.ImpactLow:     0.3,
	types.ImpactHoliday: 0.0,
}

// ImpactWeight returns the aggregation weight for an impact tier. Unknown
// tiers weigh like Low rather than being dropped.
func ImpactWeight(impact types.Impact) float64 {
	if w, ok := impactWeights[impact]; ok {
		return w
	}
	return impactWeights[types.ImpactLow]
}

// Aggregator computes read-side sentiment signals over persisted scores.
type Aggregator struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Aggregator {
	return &Aggregator{client: client}
}

// CurrencySentiment computes the impact-weighted mean sentiment for one
// currency over the lookback window ending now. An empty window is not an
// error; the result just carries a diagnostic message.
func (a *Aggregator) CurrencySentiment(ctx context.Context, currency string, window time.Duration) (types.CurrencySentiment, error) {
	end := time.Now().UTC()
	start := end.Add(-window)

	events, err := db.GetScoredEventsByCurrency(ctx, a.client, currency, start, end)
	if err != nil {
		return types.CurrencySentiment{}, err
	}

	return ComputeCurrencySentiment(currency, events), nil
}

// ComputeCurrencySentiment is the pure aggregation over an already loaded
// event set: Σ(score·weight) / Σ(weight).
func ComputeCurrencySentiment(currency string, events []types.ScoredEvent) types.CurrencySentiment {
	result := types.CurrencySentiment{Currency: currency}

	if len(events) == 0 {
		result.Message = fmt.Sprintf("no scored events for %s in the lookback window", currency)
		return result
	}

	var weightedSum, weightSum float64
	for _, scored := range events {
		weight := ImpactWeight(scored.Event.Impact)
		weightedSum += scored.Result.SentimentScore * weight
		weightSum += weight

		result.ContributingEvents = append(result.ContributingEvents, types.ContributingEvent{
			Name:           scored.Event.Name,
			SentimentScore: scored.Result.SentimentScore,
			Impact:         scored.Event.Impact,
			Weight:         weight,
			Timestamp:      scored.Event.Timestamp,
		})
	}
	result.EventCount = len(events)

	if weightSum == 0 {
		// Holiday-only windows contribute nothing.
		result.Message = fmt.Sprintf("all %d events for %s carry zero weight", len(events), currency)
		return result
	}

	result.Sentiment = weightedSum / weightSum
	return result
}

// PairSentiment derives the directional signal for a currency pair over
// the lookback window.
func (a *Aggregator) PairSentiment(ctx context.Context, pair string, window time.Duration) (types.PairSentiment, error) {
	base, quote, err := ParsePair(pair)
	if err != nil {
		return types.PairSentiment{}, err
	}

	baseSentiment, err := a.CurrencySentiment(ctx, base, window)
	if err != nil {
		return types.PairSentiment{}, err
	}
	quoteSentiment, err := a.CurrencySentiment(ctx, quote, window)
	if err != nil {
		return types.PairSentiment{}, err
	}

	return DerivePairSentiment(baseSentiment, quoteSentiment), nil
}

// DerivePairSentiment combines two currency readings into a pair signal:
// clamp(base - quote), classified against ±DirectionThreshold.
func DerivePairSentiment(base, quote types.CurrencySentiment) types.PairSentiment {
	score := sentiment.Clamp(base.Sentiment - quote.Sentiment)
	pair := base.Currency + quote.Currency

	direction := types.DirectionNeutral
	switch {
	case score >= DirectionThreshold:
		direction = types.DirectionBullish
	case score <= -DirectionThreshold:
		direction = types.DirectionBearish
	}

	var signal string
	switch direction {
	case types.DirectionBullish:
		signal = fmt.Sprintf("%s bullish: buy %s / sell %s (sentiment %.3f)", pair, base.Currency, quote.Currency, score)
	case types.DirectionBearish:
		signal = fmt.Sprintf("%s bearish: sell %s / buy %s (sentiment %.3f)", pair, base.Currency, quote.Currency, score)
	default:
		signal = fmt.Sprintf("%s neutral: no clear signal (sentiment %.3f)", pair, score)
	}

	return types.PairSentiment{
		Pair:          pair,
		BaseCurrency:  base.Currency,
		QuoteCurrency: quote.Currency,
		Sentiment:     score,
		Direction:     direction,
		Signal:        signal,
	}
}

// ParsePair normalizes a pair string ("EUR/USD", "eur-usd", "EURUSD") and
// splits it into base and quote currencies. Anything that does not reduce
// to exactly six letters is rejected.
func ParsePair(pair string) (string, string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(pair))
	for _, sep := range []string{"/", "-", "_", " "} {
		normalized = strings.ReplaceAll(normalized, sep, "")
	}

	if len(normalized) != 6 {
		return "", "", fmt.Errorf("invalid currency pair %q: expected 6 letters after normalization, got %d", pair, len(normalized))
	}
	for _, r := range normalized {
		if !unicode.IsLetter(r) {
			return "", "", fmt.Errorf("invalid currency pair %q: %q is not a letter", pair, r)
		}
	}

	return normalized[:3], normalized[3:], nil
}
