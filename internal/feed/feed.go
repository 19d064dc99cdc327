package feed

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ripplehq/ripple/internal/cache"
	"github.com/ripplehq/ripple/internal/logging"
	"github.com/ripplehq/ripple/internal/models"
	"github.com/ripplehq/ripple/internal/scoring"
	"github.com/ripplehq/ripple/internal/store"
)

// DefaultLimit is the page size when the caller does not specify one.
const DefaultLimit = 20

// MaxLimit is the largest allowed page size.
const MaxLimit = 100

// ErrNotFound is returned for lookups of posts that do not exist.
var ErrNotFound = errors.New("post not found")

// Query is a validated feed request. Handlers are responsible for rejecting
// malformed cursors, unknown categories and out-of-range limits before
// constructing one; by the time a Query reaches the service, its fields are
// well-formed or zero.
type Query struct {
	Category string
	Cursor   *Cursor
	Limit    int
}

// Service composes the cache gateway, scorer and pagination engine into the
// feed, and routes writes through the store with eager cache invalidation.
// It holds no mutable state of its own; every request computes a fresh view.
type Service struct {
	gateway *cache.RawSetGateway
	posts   store.PostStore
	logger  logging.Logger
	now     func() time.Time
}

// NewService creates the feed service.
func NewService(gateway *cache.RawSetGateway, posts store.PostStore, logger logging.Logger) *Service {
	return &Service{
		gateway: gateway,
		posts:   posts,
		logger:  logger,
		now:     time.Now,
	}
}

// GetFeed serves one page of the relevance-ranked feed. Scores are
// recomputed for the full candidate set on every call against the current
// hour bucket; the cache only ever holds raw rows.
func (s *Service) GetFeed(ctx context.Context, q Query) (*models.FeedResponse, error) {
	start := time.Now()
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}

	raw, hit, err := s.gateway.GetRawSet(ctx, q.Category)
	if err != nil {
		return nil, fmt.Errorf("get feed: %w", err)
	}

	eval := s.now()
	scored := make([]models.ScoredPost, len(raw.Rows))
	for i, post := range raw.Rows {
		// Like counts are floored at zero on write, but rows persisted
		// before that floor may still carry negatives; clamp here so every
		// score, and every cursor minted from one, stays non-negative.
		likes := post.LikeCount
		if likes < 0 {
			likes = 0
		}
		scored[i] = models.ScoredPost{
			Post:           post,
			RelevanceScore: scoring.Score(likes, post.CreatedAt, eval),
		}
	}

	page := Paginate(scored, q.Limit, q.Cursor)

	data := make([]models.FeedPost, 0, len(page.Data))
	for _, row := range page.Data {
		data = append(data, projectPost(row))
	}

	return &models.FeedResponse{
		Data: data,
		Pagination: models.Pagination{
			NextCursor: page.NextCursor,
			PrevCursor: page.PrevCursor,
			Limit:      q.Limit,
			TotalCount: raw.TotalCount,
		},
		Meta: models.FeedMeta{
			Category:     q.Category,
			CacheHit:     hit,
			ResponseTime: time.Since(start).Round(time.Microsecond).String(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

// CreatePost stores a new post and eagerly drops the affected raw set cache
// keys. Invalidation only runs once the store write has committed; its own
// failures never surface.
func (s *Service) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	created, err := s.posts.Create(ctx, post)
	if err != nil {
		return models.Post{}, fmt.Errorf("create post: %w", err)
	}
	s.gateway.Invalidate(ctx, created.Category)
	return created, nil
}

// LikePost adjusts a post's like count by delta and invalidates the affected
// raw sets. The store applies the delta atomically with a zero floor and
// returns the post as updated, so the response reflects concurrent likes and
// the count never goes negative.
func (s *Service) LikePost(ctx context.Context, id bson.ObjectID, delta int) (models.Post, error) {
	post, err := s.posts.IncrementLikeCount(ctx, id, delta)
	if err != nil {
		return models.Post{}, s.mapStoreErr(err)
	}
	s.gateway.Invalidate(ctx, post.Category)
	return post, nil
}

// GetPost looks up a single post by id.
func (s *Service) GetPost(ctx context.Context, id bson.ObjectID) (models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return models.Post{}, s.mapStoreErr(err)
	}
	return post, nil
}

func (s *Service) mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// projectPost maps a scored row to its public shape: truncated content,
// display category name, score rounded to one decimal.
func projectPost(row models.ScoredPost) models.FeedPost {
	return models.FeedPost{
		ID:             row.ID.Hex(),
		Title:          row.Title,
		Content:        TruncateContent(row.Content, maxContentLength),
		Category:       models.CategoryDisplayName(row.Category),
		CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
		LikeCount:      row.LikeCount,
		RelevanceScore: math.Round(row.RelevanceScore*10) / 10,
		Tags:           row.Tags,
	}
}
