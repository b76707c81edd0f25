package cronjobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Dixter999/news-sentiment-sub000/types"
)

func TestFeedEntryToPost(t *testing.T) {
	entry := types.FeedEntry{
		Post: types.Post{
			URI:        "at://did:plc:abc/app.bsky.feed.post/xyz",
			LikeCount:  42,
			ReplyCount: 7,
			Record: types.Record{
				Text:      "Dollar rallies after strong CPI print",
				CreatedAt: "2026-03-10T13:30:00Z",
			},
			Embed: &types.Embed{
				Type: "app.bsky.embed.images#view",
				Images: []types.ImageEmbed{
					{Fullsize: "https://cdn.bsky.app/img/full.jpg", Thumb: "https://cdn.bsky.app/img/thumb.jpg"},
				},
			},
		},
	}

	post := feedEntryToPost(entry, "forex", "USD")

	assert.Equal(t, "at://did:plc:abc/app.bsky.feed.post/xyz", post.ID)
	assert.Equal(t, "Dollar rallies after strong CPI print", post.Title)
	assert.Equal(t, "forex", post.Subreddit)
	assert.Equal(t, "USD", post.Currency)
	assert.Equal(t, 42, post.Score)
	assert.Equal(t, 7, post.CommentCount)
	assert.Equal(t, "https://cdn.bsky.app/img/full.jpg", post.EmbedImageURL)
	assert.Equal(t, time.Date(2026, 3, 10, 13, 30, 0, 0, time.UTC), post.Timestamp)
}

func TestFeedEntryToPostNoEmbedBadTimestamp(t *testing.T) {
	entry := types.FeedEntry{
		Post: types.Post{
			URI:    "at://did:plc:abc/app.bsky.feed.post/noimg",
			Record: types.Record{Text: "Euro steady ahead of ECB", CreatedAt: "not-a-time"},
		},
	}

	post := feedEntryToPost(entry, "markets", "EUR")

	assert.Empty(t, post.EmbedImageURL)
	assert.True(t, post.Timestamp.IsZero())
}
