package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post is the stored shape of a user post. The feed path only ever reads a
// denormalized copy of these rows; writes go through the store.
type Post struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string        `bson:"title" json:"title"`
	Content   string        `bson:"content" json:"content"`
	Category  string        `bson:"category" json:"category"`
	AuthorID  bson.ObjectID `bson:"author_id" json:"authorId"`
	Tags      []string      `bson:"tags,omitempty" json:"tags,omitempty"`
	LikeCount int           `bson:"like_count" json:"likeCount"`
	IsActive  bool          `bson:"is_active" json:"-"`
	CreatedAt time.Time     `bson:"created_at" json:"createdAt"`
}

// ScoredPost is a Post plus its relevance score for the current request.
// Scores are derived on every read and never persisted.
type ScoredPost struct {
	Post
	RelevanceScore float64 `json:"relevanceScore"`
}

// RawSet is the unscored candidate set for one category scope, as cached or
// freshly fetched. TotalCount is the exact store count, which may exceed
// len(Rows) when the fetch cap kicked in.
type RawSet struct {
	Rows       []Post `json:"rows"`
	TotalCount int64  `json:"totalCount"`
}
