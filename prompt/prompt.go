package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Dixter999/news-sentiment-sub000/types"
)

// missingValue is rendered for absent optional fields so the model always
// sees a complete, consistently shaped prompt.
const missingValue = "N/A"

const responseInstructions = `Respond with only a JSON object of the form {"score": <number>, "reasoning": "<one or two sentences>"}. The score must be between -1.0 (strongly bearish) and 1.0 (strongly bullish), with 0.0 meaning neutral.`

// Build renders the scoring prompt for an item. includeImageContext is set
// only when the item referenced an image that could not be retrieved; the
// prompt then tells the model to reason from the text alone.
func Build(item types.Item, includeImageContext bool) string {
	switch v := item.(type) {
	case types.EconomicEvent:
		return BuildEvent(v, includeImageContext)
	case *types.EconomicEvent:
		return BuildEvent(*v, includeImageContext)
	case types.SocialPost:
		return BuildPost(v, includeImageContext)
	case *types.SocialPost:
		return BuildPost(*v, includeImageContext)
	default:
		return ""
	}
}

// BuildEvent renders the prompt for one economic-calendar event.
func BuildEvent(ev types.EconomicEvent, includeImageContext bool) string {
	var b strings.Builder

	b.WriteString("Score the market sentiment of this economic calendar event for its currency.\n\n")
	fmt.Fprintf(&b, "Event: %s\n", orMissing(ev.Name))
	fmt.Fprintf(&b, "Currency: %s\n", orMissing(ev.Currency))
	fmt.Fprintf(&b, "Impact: %s\n", orMissing(string(ev.Impact)))
	fmt.Fprintf(&b, "Actual: %s\n", formatNumber(ev.Actual))
	fmt.Fprintf(&b, "Forecast: %s\n", formatNumber(ev.Forecast))
	fmt.Fprintf(&b, "Previous: %s\n", formatNumber(ev.Previous))

	if includeImageContext {
		writeImageContext(&b, ev.ImageURL())
	}

	b.WriteString("\n")
	b.WriteString(responseInstructions)
	return b.String()
}

// BuildPost renders the prompt for one social-media post.
func BuildPost(p types.SocialPost, includeImageContext bool) string {
	var b strings.Builder

	b.WriteString("Score the market sentiment of this social-media post for the currency it discusses.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", orMissing(p.Title))
	fmt.Fprintf(&b, "Body: %s\n", orMissing(p.Body))
	fmt.Fprintf(&b, "Subreddit: %s\n", orMissing(p.Subreddit))
	fmt.Fprintf(&b, "Flair: %s\n", orMissing(p.Flair))
	fmt.Fprintf(&b, "Post score: %d\n", p.Score)
	fmt.Fprintf(&b, "Comments: %d\n", p.CommentCount)
	fmt.Fprintf(&b, "Currency: %s\n", orMissing(p.Currency))

	if includeImageContext {
		writeImageContext(&b, p.ImageURL())
	}

	b.WriteString("\n")
	b.WriteString(responseInstructions)
	return b.String()
}

func writeImageContext(b *strings.Builder, url string) {
	fmt.Fprintf(b, "\nNote: the item references an image at %s that could not be retrieved. Base your judgement on the title, body and context fields above alone.\n", orMissing(url))
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missingValue
	}
	return s
}

// formatNumber renders nil as the missing-value sentinel. Zero is a real
// reading and renders as "0".
func formatNumber(v *float64) string {
	if v == nil {
		return missingValue
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
