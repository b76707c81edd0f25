package processor

import (
	"context"
	"log"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/Dixter999/news-sentiment-sub000/db"
	"github.com/Dixter999/news-sentiment-sub000/sentiment"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

// maxConcurrentScores bounds in-flight model calls for a single batch so a
// large feed pull cannot fan out into hundreds of simultaneous requests.
const maxConcurrentScores = 4

// BatchItemResult reports the outcome of scoring one item in a batch.
type BatchItemResult struct {
	DocID        string `json:"docId"`
	Name         string `json:"name"`
	AlreadyExist bool   `json:"alreadyExist"`
	ErrorSaving  bool   `json:"errorSaving"`
	ScoreError   string `json:"scoreError,omitempty"`
}

// BatchResult groups the per-item outcomes of one scoring run under a
// batch ID, so a run can be traced through the logs.
type BatchResult struct {
	BatchID string            `json:"batchId"`
	Results []BatchItemResult `json:"results"`
}

// Processor runs batch scoring over events and posts, persisting each
// result as it completes.
type Processor struct {
	analyzer *sentiment.Analyzer
	client   *firestore.Client

	// saveEvents overrides batch persistence in tests.
	saveEvents func(ctx context.Context, client *firestore.Client, scored []types.ScoredEvent) []string
}

func New(analyzer *sentiment.Analyzer, client *firestore.Client) *Processor {
	return &Processor{
		analyzer:   analyzer,
		client:     client,
		saveEvents: db.SaveScoredEvents,
	}
}

// scoredEventOutcome carries one event's score and its batch entry from
// the scoring goroutines back to the batch writer.
type scoredEventOutcome struct {
	scored types.ScoredEvent
	item   BatchItemResult
}

// ScoreEvents scores a batch of economic events concurrently, then persists
// the whole batch in one BulkWriter pass. Events are always rescored;
// calendar values change between pulls.
func (p *Processor) ScoreEvents(ctx context.Context, events []types.EconomicEvent) BatchResult {
	batch := BatchResult{BatchID: uuid.NewString()}
	log.Printf("Batch %s: scoring %d events", batch.BatchID, len(events))

	resultsChan := make(chan scoredEventOutcome, len(events))
	sem := make(chan struct{}, maxConcurrentScores)
	var wg sync.WaitGroup

	for _, e := range events {
		wg.Add(1)
		event := e
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resultsChan <- p.scoreEvent(ctx, event)
		}()
	}

	wg.Wait()
	close(resultsChan)

	scored := make([]types.ScoredEvent, 0, len(events))
	batch.Results = make([]BatchItemResult, 0, len(events))
	for outcome := range resultsChan {
		scored = append(scored, outcome.scored)
		batch.Results = append(batch.Results, outcome.item)
	}

	failedIDs := make(map[string]bool)
	for _, docID := range p.saveEvents(ctx, p.client, scored) {
		failedIDs[docID] = true
	}
	for i := range batch.Results {
		if failedIDs[batch.Results[i].DocID] {
			batch.Results[i].ErrorSaving = true
		}
	}
	return batch
}

func (p *Processor) scoreEvent(ctx context.Context, event types.EconomicEvent) scoredEventOutcome {
	scored := types.ScoredEvent{
		Event:    event,
		Result:   p.analyzer.Score(ctx, event),
		ScoredAt: time.Now().UTC(),
	}
	return scoredEventOutcome{
		scored: scored,
		item: BatchItemResult{
			DocID:      db.EventDocID(event),
			Name:       event.Name,
			ScoreError: scored.Result.Error,
		},
	}
}

// ScorePosts scores a batch of social posts concurrently. Posts already in
// Firestore are skipped; their content does not change after publication.
func (p *Processor) ScorePosts(ctx context.Context, posts []types.SocialPost) BatchResult {
	batch := BatchResult{BatchID: uuid.NewString()}
	log.Printf("Batch %s: scoring %d posts", batch.BatchID, len(posts))

	resultsChan := make(chan BatchItemResult, len(posts))
	sem := make(chan struct{}, maxConcurrentScores)
	var wg sync.WaitGroup

	for _, sp := range posts {
		if sp.ID == "" && sp.URL == "" {
			continue
		}
		wg.Add(1)
		post := sp
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resultsChan <- p.scorePost(ctx, post)
		}()
	}

	wg.Wait()
	close(resultsChan)

	batch.Results = make([]BatchItemResult, 0, len(posts))
	for result := range resultsChan {
		batch.Results = append(batch.Results, result)
	}
	return batch
}

func (p *Processor) scorePost(ctx context.Context, post types.SocialPost) BatchItemResult {
	item := BatchItemResult{DocID: db.PostDocID(post), Name: post.Title}

	exists, err := db.ScoredPostExists(ctx, p.client, post)
	if err != nil {
		log.Printf("Error checking for scored post %q: %v", post.Title, err)
		item.ErrorSaving = true
		return item
	}
	if exists {
		item.AlreadyExist = true
		return item
	}

	scored := types.ScoredPost{
		Post:     post,
		Result:   p.analyzer.Score(ctx, post),
		ScoredAt: time.Now().UTC(),
	}
	item.ScoreError = scored.Result.Error

	if _, err := db.SaveScoredPost(ctx, p.client, scored); err != nil {
		log.Printf("Error saving scored post %q: %v", post.Title, err)
		item.ErrorSaving = true
	}
	return item
}

// ReprocessSummary reports a reprocessing pass over previously failed scores.
type ReprocessSummary struct {
	EventsRetried int `json:"eventsRetried"`
	EventsFixed   int `json:"eventsFixed"`
	PostsRetried  int `json:"postsRetried"`
	PostsFixed    int `json:"postsFixed"`
}

// ReprocessFailures rescores every event and post persisted since the
// given time whose stored result carries an error, updating documents
// whose retry succeeded.
func (p *Processor) ReprocessFailures(ctx context.Context, since time.Time) (ReprocessSummary, error) {
	var summary ReprocessSummary

	failedEvents, err := db.GetFailedScoredEvents(ctx, p.client, since)
	if err != nil {
		return summary, err
	}
	for _, doc := range failedEvents {
		summary.EventsRetried++
		result := p.analyzer.Score(ctx, doc.Event)
		if result.Error != "" {
			continue
		}
		if err := db.UpdateEventResult(ctx, p.client, doc.DocID, result); err != nil {
			log.Printf("Error updating rescored event %s: %v", doc.DocID, err)
			continue
		}
		summary.EventsFixed++
	}

	failedPosts, err := db.GetFailedScoredPosts(ctx, p.client, since)
	if err != nil {
		return summary, err
	}
	for _, doc := range failedPosts {
		summary.PostsRetried++
		result := p.analyzer.Score(ctx, doc.Post)
		if result.Error != "" || result.ImageDownloadError != nil {
			continue
		}
		if err := db.UpdatePostResult(ctx, p.client, doc.DocID, result); err != nil {
			log.Printf("Error updating rescored post %s: %v", doc.DocID, err)
			continue
		}
		summary.PostsFixed++
	}

	return summary, nil
}
