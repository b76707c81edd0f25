package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dixter999/news-sentiment-sub000/types"
)

func TestEventDocID_StableAndDistinct(t *testing.T) {
	ts := time.Date(2025, 6, 6, 12, 30, 0, 0, time.UTC)
	ev := types.EconomicEvent{Name: "Non-Farm Payrolls", Currency: "USD", Timestamp: ts}

	assert.Equal(t, EventDocID(ev), EventDocID(ev), "same event must map to the same doc ID")

	other := ev
	other.Currency = "EUR"
	assert.NotEqual(t, EventDocID(ev), EventDocID(other))

	later := ev
	later.Timestamp = ts.Add(time.Hour)
	assert.NotEqual(t, EventDocID(ev), EventDocID(later))
}

func TestPostDocID(t *testing.T) {
	withID := types.SocialPost{ID: "t3_abc123", Title: "whatever"}
	assert.Equal(t, HashString("t3_abc123"), PostDocID(withID))

	noID := types.SocialPost{URL: "https://example.com/p/1", Title: "EUR thread"}
	assert.Equal(t, HashString("https://example.com/p/1|EUR thread"), PostDocID(noID))
}
