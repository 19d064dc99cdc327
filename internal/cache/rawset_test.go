package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ripplehq/ripple/internal/logging"
	"github.com/ripplehq/ripple/internal/models"
)

type stubStore struct {
	rows      []models.Post
	total     int64
	findCalls int
	err       error
}

func (s *stubStore) FindActivePosts(_ context.Context, category string, limit int) ([]models.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.findCalls++
	if len(s.rows) > limit {
		return s.rows[:limit], nil
	}
	return s.rows, nil
}

func (s *stubStore) CountActive(context.Context, string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.total, nil
}

func (s *stubStore) Create(_ context.Context, p models.Post) (models.Post, error) { return p, nil }

func (s *stubStore) IncrementLikeCount(context.Context, bson.ObjectID, int) (models.Post, error) {
	return models.Post{}, nil
}

func (s *stubStore) FindByID(context.Context, bson.ObjectID) (models.Post, error) {
	return models.Post{}, nil
}

func newGateway(t *testing.T, posts *stubStore) (*RawSetGateway, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRawSetGateway(client, posts, logging.NewLogger(), DefaultOptions()), mr
}

func samplePosts(n int) []models.Post {
	rows := make([]models.Post, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.Post{
			ID:        bson.NewObjectID(),
			Title:     "row",
			Category:  "science",
			LikeCount: i,
			IsActive:  true,
			CreatedAt: time.Now().UTC().Add(-time.Duration(i) * time.Minute),
		})
	}
	return rows
}

func TestGetRawSetMissPopulatesAndHits(t *testing.T) {
	posts := &stubStore{rows: samplePosts(3), total: 3}
	gw, mr := newGateway(t, posts)
	ctx := context.Background()

	set, hit, err := gw.GetRawSet(ctx, "")
	if err != nil {
		t.Fatalf("GetRawSet: %v", err)
	}
	if hit {
		t.Fatal("first read should miss")
	}
	if len(set.Rows) != 3 || set.TotalCount != 3 {
		t.Fatalf("unexpected raw set: %d rows, total %d", len(set.Rows), set.TotalCount)
	}
	if !mr.Exists("posts::raw") {
		t.Fatal("miss should populate the cache")
	}

	again, hit, err := gw.GetRawSet(ctx, "")
	if err != nil {
		t.Fatalf("GetRawSet (second): %v", err)
	}
	if !hit {
		t.Fatal("second read should hit")
	}
	if posts.findCalls != 1 {
		t.Fatalf("store queried %d times, want 1", posts.findCalls)
	}
	if len(again.Rows) != 3 || again.TotalCount != 3 {
		t.Fatalf("cached raw set diverged: %d rows, total %d", len(again.Rows), again.TotalCount)
	}
}

func TestGetRawSetCategoryTTL(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 1}
	gw, mr := newGateway(t, posts)
	ctx := context.Background()

	if _, _, err := gw.GetRawSet(ctx, "science"); err != nil {
		t.Fatalf("GetRawSet: %v", err)
	}
	if ttl := mr.TTL("posts:science:raw"); ttl != 15*time.Minute {
		t.Fatalf("category TTL = %v, want 15m", ttl)
	}

	if _, _, err := gw.GetRawSet(ctx, ""); err != nil {
		t.Fatalf("GetRawSet global: %v", err)
	}
	if ttl := mr.TTL("posts::raw"); ttl != 5*time.Minute {
		t.Fatalf("global TTL = %v, want 5m", ttl)
	}
}

func TestGetRawSetExpiresToMiss(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 1}
	gw, mr := newGateway(t, posts)
	ctx := context.Background()

	if _, _, err := gw.GetRawSet(ctx, ""); err != nil {
		t.Fatalf("warm: %v", err)
	}
	mr.FastForward(5*time.Minute + time.Second)

	_, hit, err := gw.GetRawSet(ctx, "")
	if err != nil {
		t.Fatalf("GetRawSet after expiry: %v", err)
	}
	if hit {
		t.Fatal("expired entry must read as a miss")
	}
	if posts.findCalls != 2 {
		t.Fatalf("store queried %d times, want 2", posts.findCalls)
	}
}

func TestGetRawSetCorruptEntryFallsBack(t *testing.T) {
	posts := &stubStore{rows: samplePosts(2), total: 2}
	gw, mr := newGateway(t, posts)
	if err := mr.Set("posts::raw", "{not json"); err != nil {
		t.Fatalf("seed corrupt entry: %v", err)
	}

	set, hit, err := gw.GetRawSet(context.Background(), "")
	if err != nil {
		t.Fatalf("GetRawSet: %v", err)
	}
	if hit {
		t.Fatal("corrupt entry must not count as a hit")
	}
	if len(set.Rows) != 2 {
		t.Fatalf("expected store rows, got %d", len(set.Rows))
	}
}

func TestGetRawSetStoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("mongo down")
	gw, _ := newGateway(t, &stubStore{err: wantErr})

	if _, _, err := gw.GetRawSet(context.Background(), ""); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestGetRawSetRedisDownDegradesToStore(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 1}
	gw, mr := newGateway(t, posts)
	mr.Close()

	set, hit, err := gw.GetRawSet(context.Background(), "")
	if err != nil {
		t.Fatalf("GetRawSet with redis down: %v", err)
	}
	if hit {
		t.Fatal("redis outage must report a miss")
	}
	if len(set.Rows) != 1 {
		t.Fatalf("expected store rows, got %d", len(set.Rows))
	}
}

func TestGetRawSetNilClient(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 1}
	gw := NewRawSetGateway(nil, posts, logging.NewLogger(), DefaultOptions())

	set, hit, err := gw.GetRawSet(context.Background(), "")
	if err != nil {
		t.Fatalf("GetRawSet with nil client: %v", err)
	}
	if hit || len(set.Rows) != 1 {
		t.Fatalf("nil client should behave as a plain store read, hit=%v rows=%d", hit, len(set.Rows))
	}

	// Invalidate must also be a no-op rather than a panic.
	gw.Invalidate(context.Background(), "science")
}

func TestInvalidateDropsBothKeysAndIsIdempotent(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 1}
	gw, mr := newGateway(t, posts)
	ctx := context.Background()

	if _, _, err := gw.GetRawSet(ctx, ""); err != nil {
		t.Fatalf("warm global: %v", err)
	}
	if _, _, err := gw.GetRawSet(ctx, "science"); err != nil {
		t.Fatalf("warm category: %v", err)
	}

	gw.Invalidate(ctx, "science")
	if mr.Exists("posts::raw") || mr.Exists("posts:science:raw") {
		t.Fatal("both keys should be gone after invalidation")
	}

	// Second invalidation is a no-op: no error, no resurrection.
	gw.Invalidate(ctx, "science")
	if mr.Exists("posts::raw") || mr.Exists("posts:science:raw") {
		t.Fatal("keys resurrected by repeated invalidation")
	}
}

func TestCachedPayloadShape(t *testing.T) {
	posts := &stubStore{rows: samplePosts(1), total: 41}
	gw, mr := newGateway(t, posts)

	if _, _, err := gw.GetRawSet(context.Background(), ""); err != nil {
		t.Fatalf("GetRawSet: %v", err)
	}

	payload, err := mr.Get("posts::raw")
	if err != nil {
		t.Fatalf("read cached payload: %v", err)
	}
	var set models.RawSet
	if err := json.Unmarshal([]byte(payload), &set); err != nil {
		t.Fatalf("cached payload not valid JSON: %v", err)
	}
	if set.TotalCount != 41 || len(set.Rows) != 1 {
		t.Fatalf("cached payload diverged: total %d, %d rows", set.TotalCount, len(set.Rows))
	}
}
