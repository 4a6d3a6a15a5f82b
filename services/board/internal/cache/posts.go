package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/comment-board/services/board/internal/store"
)

// CachedPosts serves the post list from a Cache. Post detail is viewer
// specific (likedByMe) and always goes to the store.
type CachedPosts struct {
	store.PostStore
	cache Cache
	log   *zap.Logger
}

func NewCachedPosts(ps store.PostStore, c Cache, log *zap.Logger) *CachedPosts {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedPosts{PostStore: ps, cache: c, log: log}
}

func (p *CachedPosts) ListPosts(ctx context.Context) ([]store.PostSummary, error) {
	var posts []store.PostSummary
	hit, err := p.cache.Get(ctx, PostsKey, &posts)
	if err != nil {
		p.log.Warn("post cache read failed", zap.Error(err))
	}
	if hit && err == nil {
		return posts, nil
	}

	posts, err = p.PostStore.ListPosts(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.cache.Set(ctx, PostsKey, posts); err != nil {
		p.log.Warn("post cache write failed", zap.Error(err))
	}
	return posts, nil
}
