package handlers

import (
	"errors"
	"net/http"

	"github.com/example/comment-board/internal/platform/analytics"
	"github.com/example/comment-board/internal/platform/api"
	"github.com/example/comment-board/internal/platform/httpserver"
	"github.com/example/comment-board/services/board/internal/store"
)

type updateResponse struct {
	Message string `json:"message"`
}

// CreateComment handles POST /posts/{id}/comments
func CreateComment(cs store.CommentStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		req, ok := decodeMessage(w, r)
		if !ok {
			return
		}

		postID := pathParam(r, "id")
		created, err := cs.CreateComment(r.Context(), store.NewComment{
			PostID:   postID,
			UserID:   userID,
			Message:  *req.Message,
			ParentID: req.ParentID,
		})
		if err != nil {
			rid := httpserver.RequestIDFromContext(r.Context())
			switch {
			case errors.Is(err, store.ErrNotFound):
				api.NotFound(w, "POST_NOT_FOUND", "post not found", rid)
			case errors.Is(err, store.ErrUnknownUser):
				unknownUser(w, rid)
			case errors.Is(err, store.ErrInvalidParent):
				api.BadRequest(w, "INVALID_PARENT", "parent comment does not belong to this post", rid,
					map[string]any{"parentId": *req.ParentID})
			default:
				api.StoreFailure(w, err, rid)
			}
			return
		}

		events.Publish(analytics.SubjectCommentCreated, "comment_created", userID, map[string]any{
			"post_id":    postID,
			"comment_id": created.ID,
			"is_reply":   created.ParentID != nil,
		})
		api.WriteJSON(w, http.StatusOK, created)
	}
}

// UpdateComment handles PUT /posts/{postId}/comments/{commentId}
func UpdateComment(cs store.CommentStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}
		req, ok := decodeMessage(w, r)
		if !ok {
			return
		}

		commentID := pathParam(r, "commentId")
		msg, err := cs.UpdateComment(r.Context(), commentID, userID, *req.Message)
		if err != nil {
			writeCommentError(w, r, err, "edit")
			return
		}

		events.Publish(analytics.SubjectCommentUpdated, "comment_updated", userID, map[string]any{
			"post_id":    pathParam(r, "postId"),
			"comment_id": commentID,
		})
		api.WriteJSON(w, http.StatusOK, updateResponse{Message: msg})
	}
}

// DeleteComment handles DELETE /posts/{postId}/comments/{commentId}
func DeleteComment(cs store.CommentStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		commentID := pathParam(r, "commentId")
		if err := cs.DeleteComment(r.Context(), commentID, userID); err != nil {
			writeCommentError(w, r, err, "delete")
			return
		}

		events.Publish(analytics.SubjectCommentDeleted, "comment_deleted", userID, map[string]any{
			"post_id":    pathParam(r, "postId"),
			"comment_id": commentID,
		})
		api.WriteJSON(w, http.StatusOK, updateResponse{Message: "Comment deleted successfully"})
	}
}
