package handlers

import (
	"errors"
	"net/http"

	"github.com/example/comment-board/internal/platform/api"
	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/internal/platform/httpserver"
	"github.com/example/comment-board/services/board/internal/store"
)

// ListPosts handles GET /posts
func ListPosts(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := ps.ListPosts(r.Context())
		if err != nil {
			api.StoreFailure(w, err, httpserver.RequestIDFromContext(r.Context()))
			return
		}
		api.WriteJSON(w, http.StatusOK, posts)
	}
}

// GetPost handles GET /posts/{id}
func GetPost(ps store.PostStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rid := httpserver.RequestIDFromContext(r.Context())
		// Anonymous viewers simply see likedByMe=false everywhere.
		viewerID, _ := auth.UserIDFromContext(r.Context())

		detail, err := ps.GetPostDetail(r.Context(), pathParam(r, "id"), viewerID)
		if errors.Is(err, store.ErrNotFound) {
			api.NotFound(w, "POST_NOT_FOUND", "post not found", rid)
			return
		}
		if err != nil {
			api.StoreFailure(w, err, rid)
			return
		}
		api.WriteJSON(w, http.StatusOK, detail)
	}
}
