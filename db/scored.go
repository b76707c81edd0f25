package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Dixter999/news-sentiment-sub000/types"
)

// EventDocID derives the stable document ID for a calendar event from its
// identity fields, so re-scraping the same release never duplicates it.
func EventDocID(ev types.EconomicEvent) string {
	return HashString(fmt.Sprintf("%s|%s|%s", ev.Name, ev.Currency, ev.Timestamp.UTC().Format(time.RFC3339)))
}

// PostDocID derives the stable document ID for a social post.
func PostDocID(p types.SocialPost) string {
	if p.ID != "" {
		return HashString(p.ID)
	}
	return HashString(p.URL + "|" + p.Title)
}

// ScoredEventDoc pairs a persisted event with its document ID, for callers
// that update the record later (reprocessing).
type ScoredEventDoc struct {
	DocID string
	types.ScoredEvent
}

// ScoredPostDoc pairs a persisted post with its document ID.
type ScoredPostDoc struct {
	DocID string
	types.ScoredPost
}

// SaveScoredPost writes one scored post under its derived doc ID.
func SaveScoredPost(ctx context.Context, client *firestore.Client, scored types.ScoredPost) (string, error) {
	docID := PostDocID(scored.Post)
	_, err := client.Collection(postsCollection).Doc(docID).Set(ctx, scored)
	if err != nil {
		return "", fmt.Errorf("failed to save scored post %s: %w", scored.Post.ID, err)
	}
	return docID, nil
}

// SaveScoredEvents writes a batch of scored events with BulkWriter for
// efficient non-transactional writes. It returns the doc IDs that failed
// to persist so the caller can flag the corresponding items.
func SaveScoredEvents(ctx context.Context, client *firestore.Client, scored []types.ScoredEvent) []string {
	if len(scored) == 0 {
		log.Println("No scored events to save.")
		return nil
	}

	bw := client.BulkWriter(ctx)
	collection := client.Collection(eventsCollection)

	var failed []string
	jobs := make(map[string]*firestore.BulkWriterJob, len(scored))
	for i := range scored {
		docID := EventDocID(scored[i].Event)
		job, err := bw.Set(collection.Doc(docID), scored[i])
		if err != nil {
			log.Printf("Error enqueueing scored event %s for save: %v", scored[i].Event.Name, err)
			failed = append(failed, docID)
			continue
		}
		jobs[docID] = job
	}

	bw.Flush()

	for docID, job := range jobs {
		if _, err := job.Results(); err != nil {
			log.Printf("Error saving scored event %s: %v", docID, err)
			failed = append(failed, docID)
		}
	}

	log.Printf("BulkWriter flushed. Saved %d of %d scored events.", len(scored)-len(failed), len(scored))
	return failed
}

// ScoredPostExists reports whether a post was already scored and saved.
func ScoredPostExists(ctx context.Context, client *firestore.Client, post types.SocialPost) (bool, error) {
	_, err := client.Collection(postsCollection).Doc(PostDocID(post)).Get(ctx)
	if err == nil {
		return true, nil
	}
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	return false, err
}

// GetScoredEventsByCurrency bulk-reads scored events for one currency whose
// event timestamp falls inside [start, end]. This is the aggregator's read
// path; it takes no lock and tolerates concurrent writers.
func GetScoredEventsByCurrency(ctx context.Context, client *firestore.Client, currency string, start, end time.Time) ([]types.ScoredEvent, error) {
	var events []types.ScoredEvent

	iter := client.Collection(eventsCollection).
		Where("event.currency", "==", currency).
		Where("event.timestamp", ">=", start).
		Where("event.timestamp", "<=", end).
		Documents(ctx)

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating scored events for %s: %w", currency, err)
		}

		var scored types.ScoredEvent
		if err := doc.DataTo(&scored); err != nil {
			return nil, fmt.Errorf("error converting scored event doc %s: %w", doc.Ref.ID, err)
		}
		events = append(events, scored)
	}

	return events, nil
}

// GetFailedScoredEvents returns events whose scoring recorded a parse or
// model error, for targeted reprocessing. The error field is omitted on
// clean scores, so any doc carrying it is a failure.
func GetFailedScoredEvents(ctx context.Context, client *firestore.Client, since time.Time) ([]ScoredEventDoc, error) {
	docs, err := client.Collection(eventsCollection).
		Where("result.error", "!=", "").
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("error querying failed scored events: %w", err)
	}

	var failed []ScoredEventDoc
	for _, doc := range docs {
		var scored types.ScoredEvent
		if err := doc.DataTo(&scored); err != nil {
			return nil, fmt.Errorf("error converting failed event doc %s: %w", doc.Ref.ID, err)
		}
		if scored.ScoredAt.Before(since) {
			continue
		}
		failed = append(failed, ScoredEventDoc{DocID: doc.Ref.ID, ScoredEvent: scored})
	}
	return failed, nil
}

// GetFailedScoredPosts returns posts with a recorded scoring error or a
// failed image download.
func GetFailedScoredPosts(ctx context.Context, client *firestore.Client, since time.Time) ([]ScoredPostDoc, error) {
	seen := make(map[string]bool)
	var failed []ScoredPostDoc

	collect := func(query firestore.Query) error {
		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if seen[doc.Ref.ID] {
				continue
			}
			var scored types.ScoredPost
			if err := doc.DataTo(&scored); err != nil {
				return fmt.Errorf("error converting failed post doc %s: %w", doc.Ref.ID, err)
			}
			if scored.ScoredAt.Before(since) {
				continue
			}
			seen[doc.Ref.ID] = true
			failed = append(failed, ScoredPostDoc{DocID: doc.Ref.ID, ScoredPost: scored})
		}
		return nil
	}

	posts := client.Collection(postsCollection)
	if err := collect(posts.Where("result.error", "!=", "")); err != nil {
		return nil, fmt.Errorf("error querying failed scored posts: %w", err)
	}
	if err := collect(posts.Where("result.imageDownloadError.type", "!=", "")); err != nil {
		return nil, fmt.Errorf("error querying image-failure posts: %w", err)
	}

	return failed, nil
}

// UpdateEventResult replaces the result on an existing scored event doc.
func UpdateEventResult(ctx context.Context, client *firestore.Client, docID string, result types.ScoreResult) error {
	_, err := client.Collection(eventsCollection).Doc(docID).Set(ctx, map[string]interface{}{
		"result":   result,
		"scoredAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("error updating scored event %s: %w", docID, err)
	}
	return nil
}

// UpdatePostResult replaces the result on an existing scored post doc.
func UpdatePostResult(ctx context.Context, client *firestore.Client, docID string, result types.ScoreResult) error {
	_, err := client.Collection(postsCollection).Doc(docID).Set(ctx, map[string]interface{}{
		"result":   result,
		"scoredAt": time.Now().UTC(),
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("error updating scored post %s: %w", docID, err)
	}
	return nil
}

// FailureSummary counts error classes across both collections inside a
// window, so operators can spot systemic failure patterns (one image host
// timing out, a spike of parse fallbacks) and reprocess just that subset.
func FailureSummary(ctx context.Context, client *firestore.Client, start, end time.Time) (map[string]int, error) {
	counts := make(map[string]int)

	tally := func(collection string) error {
		iter := client.Collection(collection).
			Where("scoredAt", ">=", start).
			Where("scoredAt", "<=", end).
			Documents(ctx)

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				return nil
			}
			if err != nil {
				return err
			}

			var record struct {
				Result types.ScoreResult `firestore:"result"`
			}
			if err := doc.DataTo(&record); err != nil {
				log.Printf("Skipping unreadable doc %s in %s: %v", doc.Ref.ID, collection, err)
				continue
			}

			if record.Result.Error != "" {
				counts["score_error: "+record.Result.Error]++
			}
			if record.Result.ImageDownloadError != nil {
				counts["image_error: "+string(record.Result.ImageDownloadError.Type)]++
			}
		}
	}

	if err := tally(eventsCollection); err != nil {
		return nil, fmt.Errorf("error summarizing %s: %w", eventsCollection, err)
	}
	if err := tally(postsCollection); err != nil {
		return nil, fmt.Errorf("error summarizing %s: %w", postsCollection, err)
	}

	return counts, nil
}
