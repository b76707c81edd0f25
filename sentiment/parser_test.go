package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.75, Clamp(0.75))
	assert.Equal(t, -1.0, Clamp(-1.0))
	assert.Equal(t, 1.0, Clamp(1.0))
	assert.Equal(t, 1.0, Clamp(2.5))
	assert.Equal(t, -1.0, Clamp(-42))
	assert.Equal(t, 0.0, Clamp(math.NaN()))
	assert.Equal(t, 1.0, Clamp(math.Inf(1)))
	assert.Equal(t, -1.0, Clamp(math.Inf(-1)))
}

func TestParse_DirectJSON(t *testing.T) {
	score, reasoning, errStr := Parse(`{"score": 0.75, "reasoning": "Actual beat forecast"}`)
	assert.Equal(t, 0.75, score)
	assert.Equal(t, "Actual beat forecast", reasoning)
	assert.Empty(t, errStr)
}

func TestParse_SentimentFieldAlias(t *testing.T) {
	score, _, errStr := Parse(`{"sentiment": -0.4, "reasoning": "weak jobs print"}`)
	assert.Equal(t, -0.4, score)
	assert.Empty(t, errStr)
}

func TestParse_EmbeddedJSON(t *testing.T) {
	score, reasoning, errStr := Parse("Here is my take:\n{\"score\": 0.5, \"reasoning\": \"Mixed\"}\n")
	assert.Equal(t, 0.5, score)
	assert.Equal(t, "Mixed", reasoning)
	assert.Empty(t, errStr)
}

func TestParse_FencedCodeBlock(t *testing.T) {
	raw := "Sure, here's the analysis:\n```json\n{\"score\": -0.6, \"reasoning\": \"hawkish surprise\"}\n```\nHope that helps."
	score, reasoning, errStr := Parse(raw)
	assert.Equal(t, -0.6, score)
	assert.Equal(t, "hawkish surprise", reasoning)
	assert.Empty(t, errStr)
}

func TestParse_OutOfRangeClamped(t *testing.T) {
	score, reasoning, errStr := Parse(`{"score": 2.5, "reasoning": "Very bullish"}`)
	assert.Equal(t, 1.0, score)
	assert.Equal(t, "Very bullish", reasoning)
	assert.Empty(t, errStr)
}

func TestParse_MissingScoreField(t *testing.T) {
	score, reasoning, errStr := Parse(`{"reasoning": "no score"}`)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, "no score", reasoning)
	assert.Equal(t, errMissingScore, errStr)
}

func TestParse_NullScore(t *testing.T) {
	score, _, errStr := Parse(`{"score": null, "reasoning": "unsure"}`)
	assert.Equal(t, 0.0, score)
	assert.Equal(t, errNullScore, errStr)
}

func TestParse_InvalidScoreValue(t *testing.T) {
	score, _, errStr := Parse(`{"score": "very high", "reasoning": "??"}`)
	assert.Equal(t, 0.0, score)
	assert.Contains(t, errStr, "invalid score value")
}

func TestParse_QuotedNumericScore(t *testing.T) {
	score, _, errStr := Parse(`{"score": "0.3", "reasoning": "mildly positive"}`)
	assert.Equal(t, 0.3, score)
	assert.Empty(t, errStr)
}

func TestParse_StatementFallback(t *testing.T) {
	cases := map[string]float64{
		"After weighing everything, the score is 0.4 in my view.": 0.4,
		"Final assessment. Score: -0.25":                           -0.25,
		"I'd give this a sentiment score of 0.7 overall.":          0.7,
		"I rate this 0.6 out of 1 for the dollar.":                 0.6,
	}
	for raw, want := range cases {
		score, reasoning, errStr := Parse(raw)
		assert.Equal(t, want, score, "input: %s", raw)
		assert.Equal(t, errUsedFallback, errStr)
		assert.NotEmpty(t, reasoning)
	}
}

func TestParse_KeywordFallback(t *testing.T) {
	score, _, errStr := Parse("This is strongly bearish.")
	assert.Less(t, score, 0.0)
	assert.Equal(t, -0.8, score)
	assert.Equal(t, errUsedFallback, errStr)

	score, _, _ = Parse("Overall quite bullish for the euro.")
	assert.Equal(t, 0.5, score)

	score, _, _ = Parse("Markets look mixed here.")
	assert.Equal(t, 0.0, score)
}

func TestParse_KeywordOrderMostSpecificFirst(t *testing.T) {
	score, _, _ := Parse("Extremely positive release, hard to overstate.")
	assert.Equal(t, 0.8, score)
}

func TestParse_KeywordWordBoundaries(t *testing.T) {
	// "unfavorable" must not hit the positive category through its
	// "favorable" substring.
	score, _, errStr := Parse("The print is unfavorable for the dollar.")
	assert.Equal(t, -0.5, score)
	assert.Equal(t, errUsedFallback, errStr)

	score, _, _ = Parse("Conditions remain favorable.")
	assert.Equal(t, 0.5, score)
}

func TestParse_EmptyResponse(t *testing.T) {
	score, reasoning, errStr := Parse("")
	assert.Equal(t, 0.0, score)
	assert.Empty(t, reasoning)
	assert.Equal(t, errEmptyResponse, errStr)

	score, _, errStr = Parse("   \n\t ")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, errEmptyResponse, errStr)
}

func TestParse_NothingMatched(t *testing.T) {
	score, _, errStr := Parse("I cannot help with that request.")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, errNothingMatched, errStr)
}

// Parse must be total: any input yields a score in range and no panic.
func TestParse_Totality(t *testing.T) {
	inputs := []string{
		"{",
		"}{",
		"{\"score\": }",
		"```json\n{broken\n```",
		"{\"score\": [1,2]}",
		"score is",
		"-9999 out of 1",
		"{\"score\": 1e309}",
	}
	for _, raw := range inputs {
		score, _, _ := Parse(raw)
		assert.GreaterOrEqual(t, score, -1.0, "input: %q", raw)
		assert.LessOrEqual(t, score, 1.0, "input: %q", raw)
	}
}
