package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/example/comment-board/internal/platform/analytics"
	"github.com/example/comment-board/services/board/internal/store"
)

type Deps struct {
	Posts    store.PostStore
	Comments store.CommentStore
	Events   *analytics.Publisher
}

// Mount registers the board routes on r. Identity middleware is the
// caller's concern.
func Mount(r chi.Router, d Deps) {
	r.Get("/posts", ListPosts(d.Posts))
	r.Get("/posts/{id}", GetPost(d.Posts))
	r.Post("/posts/{id}/comments", CreateComment(d.Comments, d.Events))
	r.Put("/posts/{postId}/comments/{commentId}", UpdateComment(d.Comments, d.Events))
	r.Delete("/posts/{postId}/comments/{commentId}", DeleteComment(d.Comments, d.Events))
	r.Post("/posts/{postId}/comments/{commentId}/toggleLike", ToggleLike(d.Comments, d.Events))
}
