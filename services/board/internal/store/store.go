// Package store persists users, posts, comments and likes.
//
// Two backends share the same contract: PostgresStore for real deployments
// and MemoryStore for development and tests.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("comment not owned by user")
	ErrInvalidParent = errors.New("parent comment does not belong to post")
	ErrUnknownUser   = errors.New("acting user does not exist")
)

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostSummary is a row of the post list.
type PostSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Comment is a comment as seen by one viewer.
type Comment struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `json:"user"`
	LikeCount int       `json:"likeCount"`
	LikedByMe bool      `json:"likedByMe"`
}

// PostDetail holds a post with its comments flattened, newest first.
type PostDetail struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Comments []Comment `json:"comments"`
}

type NewComment struct {
	PostID   string
	UserID   string
	Message  string
	ParentID *string
}

type PostStore interface {
	ListPosts(ctx context.Context) ([]PostSummary, error)
	// GetPostDetail returns ErrNotFound when the post does not exist.
	GetPostDetail(ctx context.Context, postID, viewerID string) (PostDetail, error)
}

type CommentStore interface {
	// CreateComment returns ErrNotFound for an unknown post,
	// ErrInvalidParent when the parent is missing or on another post and
	// ErrUnknownUser when the author does not exist.
	CreateComment(ctx context.Context, c NewComment) (Comment, error)
	// UpdateComment and DeleteComment only touch rows owned by userID:
	// ErrNotFound when the comment is missing, ErrForbidden otherwise.
	UpdateComment(ctx context.Context, commentID, userID, message string) (string, error)
	DeleteComment(ctx context.Context, commentID, userID string) error
	// ToggleLike flips the (user, comment) like and reports whether it now
	// exists. It returns ErrUnknownUser when the user does not exist.
	ToggleLike(ctx context.Context, commentID, userID string) (bool, error)
}

type UserStore interface {
	FindUserByName(ctx context.Context, name string) (User, error)
}

// Seeder inserts the out-of-band data the API never creates.
type Seeder interface {
	CreateUser(ctx context.Context, name string) (User, error)
	CreatePost(ctx context.Context, title, body string) (Post, error)
}

type Store interface {
	PostStore
	CommentStore
	UserStore
	Seeder
	Ping(ctx context.Context) error
	Close()
}
