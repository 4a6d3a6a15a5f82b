package grpcapi

import "github.com/example/comment-board/services/board/internal/store"

type ListPostsRequest struct{}

type ListPostsResponse struct {
	Posts []store.PostSummary `json:"posts"`
}

type GetPostRequest struct {
	PostID string `json:"post_id"`
}

type GetPostResponse struct {
	Post store.PostDetail `json:"post"`
}

type CreateCommentRequest struct {
	PostID   string  `json:"post_id"`
	Message  string  `json:"message"`
	ParentID *string `json:"parent_id,omitempty"`
}

type CreateCommentResponse struct {
	Comment store.Comment `json:"comment"`
}

type UpdateCommentRequest struct {
	CommentID string `json:"comment_id"`
	Message   string `json:"message"`
}

type UpdateCommentResponse struct {
	Message string `json:"message"`
}

type DeleteCommentRequest struct {
	CommentID string `json:"comment_id"`
}

type DeleteCommentResponse struct {
	Message string `json:"message"`
}

type ToggleLikeRequest struct {
	CommentID string `json:"comment_id"`
}

type ToggleLikeResponse struct {
	AddLike bool `json:"add_like"`
}
