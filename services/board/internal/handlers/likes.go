package handlers

import (
	"net/http"

	"github.com/example/comment-board/internal/platform/analytics"
	"github.com/example/comment-board/internal/platform/api"
	"github.com/example/comment-board/services/board/internal/store"
)

type toggleLikeResponse struct {
	AddLike bool `json:"addLike"`
}

// ToggleLike handles POST /posts/{postId}/comments/{commentId}/toggleLike
func ToggleLike(cs store.CommentStore, events *analytics.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := requireUser(w, r)
		if !ok {
			return
		}

		commentID := pathParam(r, "commentId")
		added, err := cs.ToggleLike(r.Context(), commentID, userID)
		if err != nil {
			writeCommentError(w, r, err, "like")
			return
		}

		events.Publish(analytics.SubjectLikeToggled, "like_toggled", userID, map[string]any{
			"post_id":    pathParam(r, "postId"),
			"comment_id": commentID,
			"added":      added,
		})
		api.WriteJSON(w, http.StatusOK, toggleLikeResponse{AddLike: added})
	}
}
