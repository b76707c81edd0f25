package sentiment

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parser error strings kept on the ScoreResult for audit and reprocessing.
const (
	errEmptyResponse  = "empty response"
	errMissingScore   = "missing 'score' field in response"
	errNullScore      = "score field was null"
	errUsedFallback   = "used text fallback"
	errNothingMatched = "could not parse response; used text fallback"
)

// payload is the structured shape the model is asked for. Score and
// Sentiment stay raw so null, missing and non-numeric values can be told
// apart.
type payload struct {
	Score     json.RawMessage `json:"score"`
	Sentiment json.RawMessage `json:"sentiment"`
	Reasoning string          `json:"reasoning"`
}

var fencedBlockPattern = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// statementPatterns match explicit score statements in free-form text,
// attempted in order over the lowercased response.
var statementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`score\s+is\s+(-?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`score\s*[:=]\s*(-?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`sentiment\s+score\s+(?:of\s+)?(-?\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s+out\s+of\s+1\b`),
}

// keywordCategories map sentiment phrases to scores, most specific first.
// The first category with any matching phrase wins. Phrases match on word
// boundaries so "unfavorable" cannot hit the positive category through its
// "favorable" substring.
var keywordCategories = []struct {
	score   float64
	phrases []*regexp.Regexp
}{
	{0.8, compilePhrases("strongly bullish", "very bullish", "extremely positive")},
	{0.5, compilePhrases("bullish", "positive", "optimistic", "favorable")},
	{-0.8, compilePhrases("strongly bearish", "very bearish", "extremely negative")},
	{-0.5, compilePhrases("bearish", "negative", "pessimistic", "unfavorable")},
	{0.0, compilePhrases("neutral", "no change", "unchanged", "mixed")},
}

func compilePhrases(phrases ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		compiled[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(p) + `\b`)
	}
	return compiled
}

// Parse extracts (score, reasoning, error) from an arbitrary model
// response. It is total: every input, including the empty string, yields a
// score in [-1.0, 1.0]. A non-empty error string means the structured
// output could not be trusted and the score came from a fallback stage or
// defaulted to neutral.
func Parse(raw string) (float64, string, string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, "", errEmptyResponse
	}

	// Stage 1: the whole response is the structured object.
	if score, reasoning, errStr, ok := decodeStructured(text); ok {
		return score, reasoning, errStr
	}

	// Stage 2: a structured object embedded in surrounding prose or a
	// fenced code block.
	if embedded, ok := extractEmbedded(text); ok {
		if score, reasoning, errStr, decoded := decodeStructured(embedded); decoded {
			return score, reasoning, errStr
		}
	}

	lower := strings.ToLower(text)

	// Stage 3: explicit score statements in plain text.
	for _, re := range statementPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if num, err := strconv.ParseFloat(m[1], 64); err == nil {
				return Clamp(num), text, errUsedFallback
			}
		}
	}

	// Stage 4: keyword sentiment mapping.
	for _, cat := range keywordCategories {
		for _, phrase := range cat.phrases {
			if phrase.MatchString(lower) {
				return cat.score, text, errUsedFallback
			}
		}
	}

	return 0, "", errNothingMatched
}

// decodeStructured decodes text as the {"score", "reasoning"} object. The
// last return reports whether text was a JSON object at all; when it was,
// the triple is final and no weaker stage runs, preserving whatever
// reasoning the object carried.
func decodeStructured(text string) (float64, string, string, bool) {
	if !strings.HasPrefix(text, "{") {
		return 0, "", "", false
	}

	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return 0, "", "", false
	}

	raw := p.Score
	if raw == nil {
		raw = p.Sentiment
	}
	if raw == nil {
		return 0, p.Reasoning, errMissingScore, true
	}
	if string(raw) == "null" {
		return 0, p.Reasoning, errNullScore, true
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return Clamp(num), p.Reasoning, "", true
	}

	// Models sometimes quote the number.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if num, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return Clamp(num), p.Reasoning, "", true
		}
		return 0, p.Reasoning, fmt.Sprintf("invalid score value: %q", s), true
	}

	return 0, p.Reasoning, fmt.Sprintf("invalid score value: %s", string(raw)), true
}

// extractEmbedded returns the first bracket-delimited object in text,
// preferring a fenced code block when one exists.
func extractEmbedded(text string) (string, bool) {
	if m := fencedBlockPattern.FindStringSubmatch(text); m != nil {
		return m[1], true
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
