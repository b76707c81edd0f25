package types

// FeedResponse represents the root structure of a Bluesky feed response.
type FeedResponse struct {
	Cursor string      `json:"cursor"`
	Feed   []FeedEntry `json:"feed"`
}

// FeedEntry represents each post in the feed.
type FeedEntry struct {
	Post Post `json:"post"`
}

// Post represents the structure of an individual post.
type Post struct {
	Author      Author `json:"author"`
	CID         string `json:"cid"`
	Embed       *Embed `json:"embed,omitempty"` // Nullable field
	IndexedAt   string `json:"indexedAt"`
	LikeCount   int    `json:"likeCount"`
	QuoteCount  int    `json:"quoteCount"`
	Record      Record `json:"record"`
	ReplyCount  int    `json:"replyCount"`
	RepostCount int    `json:"repostCount"`
	URI         string `json:"uri"`
}

// Author represents the author of a post.
type Author struct {
	Avatar      string `json:"avatar"`
	CreatedAt   string `json:"createdAt"`
	DID         string `json:"did"`
	DisplayName string `json:"displayName"`
	Handle      string `json:"handle"`
}

// Embed represents an embedded image or external media in a post.
type Embed struct {
	Type   string       `json:"$type"`
	Images []ImageEmbed `json:"images,omitempty"`
}

// ImageEmbed represents an image embedded in a post.
type ImageEmbed struct {
	Alt      string `json:"alt"`
	Fullsize string `json:"fullsize"`
	Thumb    string `json:"thumb"`
}

// Record represents the content of a post.
type Record struct {
	Type      string   `json:"$type"`
	CreatedAt string   `json:"createdAt"`
	Langs     []string `json:"langs"`
	Text      string   `json:"text"`
}
