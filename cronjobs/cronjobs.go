package cronjobs

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/bluesky-social/indigo/xrpc"
	"github.com/robfig/cron/v3"

	"github.com/Dixter999/news-sentiment-sub000/aggregator"
	"github.com/Dixter999/news-sentiment-sub000/processor"
	"github.com/Dixter999/news-sentiment-sub000/types"
)

const feedMethod = "app.bsky.feed.getFeed"

// Curated finance feeds, keyed by the currency their posts mostly move.
var financeFeeds = []struct {
	label    string
	currency string
	uri      string
}{
	{"forex", "USD", "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaaeconomyfeed"},
	{"markets", "USD", "at://did:plc:qiknc4t5rq7yngvz7g4aezq7/app.bsky.feed.generator/aaamarketsfeed"},
}

// watchedPairs are logged by the monitoring job each cycle.
var watchedPairs = []string{"EURUSD", "GBPUSD", "USDJPY"}

type feedCallParameters struct {
	label    string
	currency string
	uri      string
	limit    int
}

// fetchFeedPosts pulls a hydrated feed from the public Bluesky endpoint
// and maps each entry onto a social post ready for scoring.
func fetchFeedPosts(ctx context.Context, p feedCallParameters) ([]types.SocialPost, error) {
	client := &xrpc.Client{
		Client:    &http.Client{Timeout: 10 * time.Second},
		Host:      "https://public.api.bsky.app",
		UserAgent: nil,
	}

	limit := 25
	if p.limit != 0 {
		limit = p.limit
	}

	params := map[string]interface{}{
		"feed":  p.uri,
		"limit": limit,
	}

	var out types.FeedResponse
	if err := client.Do(ctx, xrpc.Query, "json", feedMethod, params, nil, &out); err != nil {
		return nil, err
	}

	posts := make([]types.SocialPost, 0, len(out.Feed))
	for _, entry := range out.Feed {
		if entry.Post.URI == "" || entry.Post.Record.Text == "" {
			continue
		}
		posts = append(posts, feedEntryToPost(entry, p.label, p.currency))
	}
	return posts, nil
}

func feedEntryToPost(entry types.FeedEntry, label, currency string) types.SocialPost {
	post := types.SocialPost{
		ID:           entry.Post.URI,
		Title:        entry.Post.Record.Text,
		Subreddit:    label,
		Score:        entry.Post.LikeCount,
		CommentCount: entry.Post.ReplyCount,
		Currency:     currency,
	}

	if ts, err := time.Parse(time.RFC3339, entry.Post.Record.CreatedAt); err == nil {
		post.Timestamp = ts
	}

	if entry.Post.Embed != nil && len(entry.Post.Embed.Images) > 0 {
		post.EmbedImageURL = entry.Post.Embed.Images[0].Fullsize
	}

	return post
}

func runFeedJob(proc *processor.Processor, p feedCallParameters) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	posts, err := fetchFeedPosts(ctx, p)
	if err != nil {
		log.Printf("Error fetching %s feed via xrpc: %v", p.label, err)
		return
	}
	if len(posts) == 0 {
		log.Printf("No usable posts in %s feed", p.label)
		return
	}

	batch := proc.ScorePosts(ctx, posts)

	var newCount, skipped, failed int
	for _, r := range batch.Results {
		switch {
		case r.AlreadyExist:
			skipped++
		case r.ErrorSaving:
			failed++
		default:
			newCount++
		}
	}
	log.Printf("Feed %s: %d scored, %d already stored, %d save errors", p.label, newCount, skipped, failed)
}

func runPairMonitor(agg *aggregator.Aggregator) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, pair := range watchedPairs {
		result, err := agg.PairSentiment(ctx, pair, 24*time.Hour)
		if err != nil {
			log.Printf("Error computing sentiment for %s: %v", pair, err)
			continue
		}
		log.Println(result.Signal)
	}
}

func InitCronJobs(proc *processor.Processor, agg *aggregator.Aggregator) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Finance feeds: staggered 2 minutes apart, every 10 minutes.
	for i, feed := range financeFeeds {
		feed := feed
		spec := "*/10 * * * *"
		if i > 0 {
			spec = "2-59/10 * * * *"
		}
		_, err := c.AddFunc(spec, func() {
			log.Printf("\nCronJob: %s feed running", feed.label)
			runFeedJob(proc, feedCallParameters{
				label:    feed.label,
				currency: feed.currency,
				uri:      feed.uri,
				limit:    25,
			})
		})
		if err != nil {
			log.Println("Error scheduling feed job:", err)
		}
	}

	// Pair monitor: every 15 minutes.
	_, err := c.AddFunc("*/15 * * * *", func() {
		log.Println("\nCronJob: pair monitor running")
		runPairMonitor(agg)
	})
	if err != nil {
		log.Println("Error scheduling pair monitor:", err)
	}

	c.Start()
}
