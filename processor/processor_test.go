package processor

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dixter999/news-sentiment-sub000/db"
	"github.com/Dixter999/news-sentiment-sub000/llm"
	"github.com/Dixter999/news-sentiment-sub000/sentiment"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

// fakeModel returns one fixed response for every call.
type fakeModel struct {
	text string
}

func (f fakeModel) Generate(ctx context.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{Text: f.text}, nil
}

func testEvents() []types.EconomicEvent {
	ts := time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC)
	return []types.EconomicEvent{
		{Name: "CPI y/y", Currency: "USD", Impact: types.ImpactHigh, Timestamp: ts},
		{Name: "GDP q/q", Currency: "EUR", Impact: types.ImpactMedium, Timestamp: ts},
		{Name: "Housing Starts", Currency: "USD", Impact: types.ImpactLow, Timestamp: ts},
	}
}

func TestScoreEventsPersistsBatchOnce(t *testing.T) {
	events := testEvents()
	failID := db.EventDocID(events[1])

	var calls int
	var savedBatch []types.ScoredEvent
	proc := New(sentiment.NewAnalyzer(fakeModel{`{"score": 0.4, "reasoning": "beat"}`}, nil), nil)
	proc.saveEvents = func(_ context.Context, _ *firestore.Client, scored []types.ScoredEvent) []string {
		calls++
		savedBatch = scored
		return []string{failID}
	}

	batch := proc.ScoreEvents(context.Background(), events)

	assert.Equal(t, 1, calls, "the whole batch must go through one bulk save")
	require.Len(t, savedBatch, len(events))
	for _, scored := range savedBatch {
		assert.Equal(t, 0.4, scored.Result.SentimentScore)
		assert.False(t, scored.ScoredAt.IsZero())
	}

	assert.NotEmpty(t, batch.BatchID)
	require.Len(t, batch.Results, len(events))
	for _, item := range batch.Results {
		assert.Empty(t, item.ScoreError)
		if item.DocID == failID {
			assert.True(t, item.ErrorSaving)
		} else {
			assert.False(t, item.ErrorSaving)
		}
	}
}

func TestScoreEventsEmptyBatch(t *testing.T) {
	var saved [][]types.ScoredEvent
	proc := New(sentiment.NewAnalyzer(fakeModel{`{"score": 0}`}, nil), nil)
	proc.saveEvents = func(_ context.Context, _ *firestore.Client, scored []types.ScoredEvent) []string {
		saved = append(saved, scored)
		return nil
	}

	batch := proc.ScoreEvents(context.Background(), nil)

	assert.Empty(t, batch.Results)
	require.Len(t, saved, 1)
	assert.Empty(t, saved[0])
}
