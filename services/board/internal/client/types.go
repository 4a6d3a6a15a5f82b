package client

import (
	"fmt"
	"time"
)

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PostSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Comment struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	ParentID  *string   `json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	User      User      `json:"user"`
	LikeCount int       `json:"likeCount"`
	LikedByMe bool      `json:"likedByMe"`
}

type PostDetail struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Comments []Comment `json:"comments"`
}

// APIError is a non-2xx answer decoded from the error envelope.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("board api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("board api: status %d %s: %s", e.Status, e.Code, e.Message)
}

// Temporary reports whether retrying the same call could succeed.
func (e *APIError) Temporary() bool {
	return e.Status >= 500
}
