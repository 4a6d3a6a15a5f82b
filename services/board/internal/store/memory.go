package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memComment struct {
	id        string
	message   string
	userID    string
	postID    string
	parentID  *string
	createdAt time.Time
	seq       int64
}

type likeKey struct {
	userID    string
	commentID string
}

// MemoryStore is a development-only in-memory implementation.
type MemoryStore struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]User
	posts    map[string]Post
	order    []string // post ids in insertion order
	comments map[string]*memComment
	likes    map[likeKey]struct{}
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]User),
		posts:    make(map[string]Post),
		comments: make(map[string]*memComment),
		likes:    make(map[likeKey]struct{}),
		now:      time.Now,
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() {}

func (s *MemoryStore) CreateUser(_ context.Context, name string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	u := User{ID: uuid.NewString(), Name: name}
	s.users[u.ID] = u
	return u, nil
}

func (s *MemoryStore) CreatePost(_ context.Context, title, body string) (Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Post{ID: uuid.NewString(), Title: title, Body: body, CreatedAt: s.now().UTC()}
	s.posts[p.ID] = p
	s.order = append(s.order, p.ID)
	return p, nil
}

func (s *MemoryStore) FindUserByName(_ context.Context, name string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var found *User
	for _, u := range s.users {
		if u.Name != name {
			continue
		}
		if found == nil || u.ID < found.ID {
			u := u
			found = &u
		}
	}
	if found == nil {
		return User{}, ErrNotFound
	}
	return *found, nil
}

func (s *MemoryStore) ListPosts(context.Context) ([]PostSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]PostSummary, 0, len(s.order))
	for _, id := range s.order {
		p := s.posts[id]
		out = append(out, PostSummary{ID: p.ID, Title: p.Title})
	}
	return out, nil
}

func (s *MemoryStore) GetPostDetail(_ context.Context, postID, viewerID string) (PostDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[postID]
	if !ok {
		return PostDetail{}, ErrNotFound
	}

	var rows []*memComment
	for _, c := range s.comments {
		if c.postID == postID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].seq > rows[j].seq
	})

	counts := make(map[string]int)
	for k := range s.likes {
		counts[k.commentID]++
	}

	detail := PostDetail{Title: p.Title, Body: p.Body, Comments: make([]Comment, 0, len(rows))}
	for _, c := range rows {
		out := s.view(c)
		out.LikeCount = counts[c.id]
		_, out.LikedByMe = s.likes[likeKey{userID: viewerID, commentID: c.id}]
		detail.Comments = append(detail.Comments, out)
	}
	return detail, nil
}

func (s *MemoryStore) CreateComment(_ context.Context, nc NewComment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[nc.PostID]; !ok {
		return Comment{}, ErrNotFound
	}
	if _, ok := s.users[nc.UserID]; !ok {
		return Comment{}, ErrUnknownUser
	}
	var parentID *string
	if nc.ParentID != nil {
		parent, ok := s.comments[*nc.ParentID]
		if !ok || parent.postID != nc.PostID {
			return Comment{}, ErrInvalidParent
		}
		pid := parent.id
		parentID = &pid
	}

	s.seq++
	c := &memComment{
		id:        uuid.NewString(),
		message:   nc.Message,
		userID:    nc.UserID,
		postID:    nc.PostID,
		parentID:  parentID,
		createdAt: s.now().UTC(),
		seq:       s.seq,
	}
	s.comments[c.id] = c
	return s.view(c), nil
}

func (s *MemoryStore) UpdateComment(_ context.Context, commentID, userID, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return "", ErrNotFound
	}
	if c.userID != userID {
		return "", ErrForbidden
	}
	c.message = message
	return c.message, nil
}

func (s *MemoryStore) DeleteComment(_ context.Context, commentID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	if c.userID != userID {
		return ErrForbidden
	}

	// Replies and their likes go with the comment.
	doomed := map[string]bool{commentID: true}
	for changed := true; changed; {
		changed = false
		for id, other := range s.comments {
			if doomed[id] || other.parentID == nil {
				continue
			}
			if doomed[*other.parentID] {
				doomed[id] = true
				changed = true
			}
		}
	}
	for id := range doomed {
		delete(s.comments, id)
	}
	for k := range s.likes {
		if doomed[k.commentID] {
			delete(s.likes, k)
		}
	}
	return nil
}

func (s *MemoryStore) ToggleLike(_ context.Context, commentID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[commentID]; !ok {
		return false, ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return false, ErrUnknownUser
	}
	k := likeKey{userID: userID, commentID: commentID}
	if _, ok := s.likes[k]; ok {
		delete(s.likes, k)
		return false, nil
	}
	s.likes[k] = struct{}{}
	return true, nil
}

// view must be called with s.mu held.
func (s *MemoryStore) view(c *memComment) Comment {
	out := Comment{
		ID:        c.id,
		Message:   c.message,
		CreatedAt: c.createdAt,
		User:      s.users[c.userID],
	}
	if c.parentID != nil {
		pid := *c.parentID
		out.ParentID = &pid
	}
	return out
}
