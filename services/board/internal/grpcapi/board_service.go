package grpcapi

import (
	"context"
	"strings"

	"github.com/example/comment-board/internal/platform/analytics"
	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/services/board/internal/store"
)

// BoardService implements BoardServer over the same stores as the HTTP API.
// The acting user comes from the context, put there by StandInInterceptor.
type BoardService struct {
	Posts    store.PostStore
	Comments store.CommentStore
	Events   *analytics.Publisher
}

var _ BoardServer = (*BoardService)(nil)

func requireUser(ctx context.Context) (string, error) {
	uid, _ := auth.UserIDFromContext(ctx)
	if strings.TrimSpace(uid) == "" {
		return "", errUnauthenticated("no acting user")
	}
	return uid, nil
}

func (s *BoardService) ListPosts(ctx context.Context, _ *ListPostsRequest) (*ListPostsResponse, error) {
	posts, err := s.Posts.ListPosts(ctx)
	if err != nil {
		return nil, errFromStore(err, "POST_NOT_FOUND", "")
	}
	return &ListPostsResponse{Posts: posts}, nil
}

func (s *BoardService) GetPost(ctx context.Context, req *GetPostRequest) (*GetPostResponse, error) {
	postID := strings.TrimSpace(req.PostID)
	if postID == "" {
		return nil, errInvalidArgument("MISSING_ID", "post_id is required", map[string]string{"post_id": "required"})
	}
	viewer, _ := auth.UserIDFromContext(ctx)
	detail, err := s.Posts.GetPostDetail(ctx, postID, viewer)
	if err != nil {
		return nil, errFromStore(err, "POST_NOT_FOUND", "")
	}
	return &GetPostResponse{Post: detail}, nil
}

func (s *BoardService) CreateComment(ctx context.Context, req *CreateCommentRequest) (*CreateCommentResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, errInvalidArgument("MESSAGE_REQUIRED", "Message is required", map[string]string{"message": "required"})
	}
	parentID := req.ParentID
	if parentID != nil && strings.TrimSpace(*parentID) == "" {
		parentID = nil
	}

	created, err := s.Comments.CreateComment(ctx, store.NewComment{
		PostID:   strings.TrimSpace(req.PostID),
		UserID:   userID,
		Message:  req.Message,
		ParentID: parentID,
	})
	if err != nil {
		return nil, errFromStore(err, "POST_NOT_FOUND", "")
	}
	s.Events.Publish(analytics.SubjectCommentCreated, "comment_created", userID, map[string]any{
		"post_id":    req.PostID,
		"comment_id": created.ID,
		"is_reply":   created.ParentID != nil,
		"transport":  "grpc",
	})
	return &CreateCommentResponse{Comment: created}, nil
}

func (s *BoardService) UpdateComment(ctx context.Context, req *UpdateCommentRequest) (*UpdateCommentResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Message == "" {
		return nil, errInvalidArgument("MESSAGE_REQUIRED", "Message is required", map[string]string{"message": "required"})
	}

	msg, err := s.Comments.UpdateComment(ctx, req.CommentID, userID, req.Message)
	if err != nil {
		return nil, errFromStore(err, "COMMENT_NOT_FOUND", "edit")
	}
	s.Events.Publish(analytics.SubjectCommentUpdated, "comment_updated", userID, map[string]any{
		"comment_id": req.CommentID,
		"transport":  "grpc",
	})
	return &UpdateCommentResponse{Message: msg}, nil
}

func (s *BoardService) DeleteComment(ctx context.Context, req *DeleteCommentRequest) (*DeleteCommentResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.Comments.DeleteComment(ctx, req.CommentID, userID); err != nil {
		return nil, errFromStore(err, "COMMENT_NOT_FOUND", "delete")
	}
	s.Events.Publish(analytics.SubjectCommentDeleted, "comment_deleted", userID, map[string]any{
		"comment_id": req.CommentID,
		"transport":  "grpc",
	})
	return &DeleteCommentResponse{Message: "Comment deleted successfully"}, nil
}

func (s *BoardService) ToggleLike(ctx context.Context, req *ToggleLikeRequest) (*ToggleLikeResponse, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	added, err := s.Comments.ToggleLike(ctx, req.CommentID, userID)
	if err != nil {
		return nil, errFromStore(err, "COMMENT_NOT_FOUND", "like")
	}
	s.Events.Publish(analytics.SubjectLikeToggled, "like_toggled", userID, map[string]any{
		"comment_id": req.CommentID,
		"added":      added,
		"transport":  "grpc",
	})
	return &ToggleLikeResponse{AddLike: added}, nil
}
