package models

// FeedPost is the public projection of a scored post served by the feed
// endpoint: truncated content, display category name, score rounded for
// presentation.
type FeedPost struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Category       string   `json:"category"`
	CreatedAt      string   `json:"createdAt"`
	LikeCount      int      `json:"likeCount"`
	RelevanceScore float64  `json:"relevanceScore"`
	Tags           []string `json:"tags,omitempty"`
}

// Pagination carries the cursors for resuming the feed in either direction.
type Pagination struct {
	NextCursor *string `json:"nextCursor"`
	PrevCursor *string `json:"prevCursor"`
	Limit      int     `json:"limit"`
	TotalCount int64   `json:"totalCount"`
}

// FeedMeta describes how the response was produced.
type FeedMeta struct {
	Category     string `json:"category,omitempty"`
	CacheHit     bool   `json:"cacheHit"`
	ResponseTime string `json:"responseTime"`
	Timestamp    string `json:"timestamp"`
}

// FeedResponse is the full feed envelope.
type FeedResponse struct {
	Data       []FeedPost `json:"data"`
	Pagination Pagination `json:"pagination"`
	Meta       FeedMeta   `json:"meta"`
}
