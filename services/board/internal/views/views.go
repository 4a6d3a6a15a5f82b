// Package views holds the client-side state of the post list and post
// detail screens and renders them as text.
package views

import (
	"context"
	"fmt"

	"github.com/example/comment-board/services/board/internal/client"
)

// API is the subset of the board client the views drive.
type API interface {
	ListPosts(ctx context.Context) ([]client.PostSummary, error)
	GetPost(ctx context.Context, postID string) (*client.PostDetail, error)
	CreateComment(ctx context.Context, postID, message string, parentID *string) (*client.Comment, error)
	UpdateComment(ctx context.Context, postID, commentID, message string) (string, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ToggleLike(ctx context.Context, postID, commentID string) (bool, error)
}

var _ API = (*client.Client)(nil)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type PostListView struct {
	api   API
	State State
	Posts []client.PostSummary
	Err   error
}

func NewPostListView(api API) *PostListView {
	return &PostListView{api: api}
}

func (v *PostListView) Load(ctx context.Context) error {
	v.State = Loading
	posts, err := v.api.ListPosts(ctx)
	if err != nil {
		v.State, v.Err = Failed, err
		return err
	}
	v.State, v.Posts, v.Err = Loaded, posts, nil
	return nil
}

// PostDetailView keeps the flat comment list as the server sent it and
// applies each successful action locally instead of reloading.
type PostDetailView struct {
	api      API
	PostID   string
	State    State
	Title    string
	Body     string
	Comments []client.Comment
	Err      error
}

func NewPostDetailView(api API, postID string) *PostDetailView {
	return &PostDetailView{api: api, PostID: postID}
}

func (v *PostDetailView) Load(ctx context.Context) error {
	v.State = Loading
	d, err := v.api.GetPost(ctx, v.PostID)
	if err != nil {
		v.State, v.Err = Failed, err
		return err
	}
	v.State, v.Err = Loaded, nil
	v.Title, v.Body, v.Comments = d.Title, d.Body, d.Comments
	return nil
}

func (v *PostDetailView) Tree() []*Node {
	return BuildTree(v.Comments)
}

// Reply posts a comment; parentID nil makes it top level. The new comment is
// prepended, matching the newest-first order of the server.
func (v *PostDetailView) Reply(ctx context.Context, parentID *string, message string) (*client.Comment, error) {
	c, err := v.api.CreateComment(ctx, v.PostID, message, parentID)
	if err != nil {
		return nil, err
	}
	v.Comments = append([]client.Comment{*c}, v.Comments...)
	return c, nil
}

func (v *PostDetailView) Edit(ctx context.Context, commentID, message string) error {
	msg, err := v.api.UpdateComment(ctx, v.PostID, commentID, message)
	if err != nil {
		return err
	}
	if i := v.index(commentID); i >= 0 {
		v.Comments[i].Message = msg
	}
	return nil
}

// Delete removes the comment and, as the server does, all of its replies.
func (v *PostDetailView) Delete(ctx context.Context, commentID string) error {
	if err := v.api.DeleteComment(ctx, v.PostID, commentID); err != nil {
		return err
	}
	gone := Descendants(v.Comments, commentID)
	gone[commentID] = true
	kept := v.Comments[:0]
	for _, c := range v.Comments {
		if !gone[c.ID] {
			kept = append(kept, c)
		}
	}
	v.Comments = kept
	return nil
}

func (v *PostDetailView) ToggleLike(ctx context.Context, commentID string) (bool, error) {
	added, err := v.api.ToggleLike(ctx, v.PostID, commentID)
	if err != nil {
		return false, err
	}
	if i := v.index(commentID); i >= 0 {
		c := &v.Comments[i]
		switch {
		case added && !c.LikedByMe:
			c.LikeCount++
		case !added && c.LikedByMe && c.LikeCount > 0:
			c.LikeCount--
		}
		c.LikedByMe = added
	}
	return added, nil
}

func (v *PostDetailView) index(commentID string) int {
	for i := range v.Comments {
		if v.Comments[i].ID == commentID {
			return i
		}
	}
	return -1
}
