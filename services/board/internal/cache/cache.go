// Package cache keeps read-mostly board responses out of the database.
//
// Posts are never written through the API, so the post list is cached until
// its TTL runs out or an invalidation arrives on InvalidateSubject.
package cache

import "context"

const (
	// PostsKey holds the post list.
	PostsKey = "board:posts"
	// All is the invalidation payload that drops every board key.
	All = "ALL"

	keyPrefix = "board:"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the value under key into dest and reports whether it was
	// present.
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	// Invalidate drops key, or every board key when key is All.
	Invalidate(ctx context.Context, key string) error
}
