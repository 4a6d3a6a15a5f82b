package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/example/comment-board/services/board/internal/store"
)

var (
	_ Cache = (*TTLCache)(nil)
	_ Cache = (*RedisCache)(nil)

	_ store.PostStore = (*CachedPosts)(nil)
)

func TestTTLCache_GetSetExpire(t *testing.T) {
	c := NewTTLCache(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	var got []string
	if hit, _ := c.Get(ctx, PostsKey, &got); hit {
		t.Fatal("expected miss on empty cache")
	}
	if err := c.Set(ctx, PostsKey, []string{"a", "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	hit, err := c.Get(ctx, PostsKey, &got)
	if err != nil || !hit || len(got) != 2 {
		t.Fatalf("expected hit, got %v %v %v", hit, err, got)
	}

	now = now.Add(time.Minute)
	if hit, _ := c.Get(ctx, PostsKey, &got); hit {
		t.Fatal("expected entry to expire")
	}
}

func TestTTLCache_Invalidate(t *testing.T) {
	c := NewTTLCache(time.Minute)
	ctx := context.Background()
	_ = c.Set(ctx, PostsKey, 1)
	_ = c.Set(ctx, "board:other", 2)
	_ = c.Set(ctx, "unrelated", 3)

	_ = c.Invalidate(ctx, PostsKey)
	var v int
	if hit, _ := c.Get(ctx, PostsKey, &v); hit {
		t.Fatal("expected posts key dropped")
	}
	if hit, _ := c.Get(ctx, "board:other", &v); !hit {
		t.Fatal("expected other key kept")
	}

	_ = c.Invalidate(ctx, All)
	if hit, _ := c.Get(ctx, "board:other", &v); hit {
		t.Fatal("expected board keys dropped on ALL")
	}
	if hit, _ := c.Get(ctx, "unrelated", &v); !hit {
		t.Fatal("expected foreign key to survive ALL")
	}
}

type countingPosts struct {
	store.PostStore
	calls int
	err   error
}

func (c *countingPosts) ListPosts(context.Context) ([]store.PostSummary, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []store.PostSummary{{ID: "p1", Title: "One"}}, nil
}

func TestCachedPosts_ServesFromCache(t *testing.T) {
	backing := &countingPosts{}
	p := NewCachedPosts(backing, NewTTLCache(time.Minute), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		posts, err := p.ListPosts(ctx)
		if err != nil || len(posts) != 1 || posts[0].Title != "One" {
			t.Fatalf("list %d: %v %+v", i, err, posts)
		}
	}
	if backing.calls != 1 {
		t.Fatalf("expected one store call, got %d", backing.calls)
	}
}

func TestCachedPosts_ErrorsAreNotCached(t *testing.T) {
	backing := &countingPosts{err: errors.New("db down")}
	c := NewTTLCache(time.Minute)
	p := NewCachedPosts(backing, c, nil)

	if _, err := p.ListPosts(context.Background()); err == nil {
		t.Fatal("expected store error")
	}
	var v []store.PostSummary
	if hit, _ := c.Get(context.Background(), PostsKey, &v); hit {
		t.Fatal("failed read must not populate the cache")
	}
}

func TestCachedPosts_DetailPassesThrough(t *testing.T) {
	s := store.NewMemoryStore()
	post, _ := s.CreatePost(context.Background(), "T", "B")
	p := NewCachedPosts(s, NewTTLCache(time.Minute), nil)

	d, err := p.GetPostDetail(context.Background(), post.ID, "")
	if err != nil || d.Title != "T" {
		t.Fatalf("detail: %v %+v", err, d)
	}
}

func TestRedisCache_Integration(t *testing.T) {
	url := os.Getenv("BOARD_TEST_REDIS_URL")
	if url == "" {
		t.Skip("BOARD_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(url, time.Minute)
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, PostsKey, []store.PostSummary{{ID: "1", Title: "x"}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got []store.PostSummary
	if hit, err := c.Get(ctx, PostsKey, &got); err != nil || !hit || got[0].Title != "x" {
		t.Fatalf("get: %v %v %+v", hit, err, got)
	}
	if err := c.Invalidate(ctx, All); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if hit, _ := c.Get(ctx, PostsKey, &got); hit {
		t.Fatal("expected miss after ALL")
	}
}

func TestSubscribe_Integration(t *testing.T) {
	url := os.Getenv("BOARD_TEST_NATS_URL")
	if url == "" {
		t.Skip("BOARD_TEST_NATS_URL not set")
	}
	nc, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("nats: %v", err)
	}
	defer nc.Close()

	c := NewTTLCache(time.Minute)
	_ = c.Set(context.Background(), PostsKey, 1)
	sub, err := Subscribe(nc, c, nil)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	if err := PublishInvalidate(nc, All); err != nil {
		t.Fatalf("publish: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	var v int
	for time.Now().Before(deadline) {
		if hit, _ := c.Get(context.Background(), PostsKey, &v); !hit {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("cache was not invalidated")
}
