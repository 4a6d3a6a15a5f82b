package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/services/board/internal/store"
)

// setupReq builds a request with chi URL params and optional user id in context.
func setupReq(method, url string, body string, params map[string]string, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, bytes.NewBufferString(body))
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userID != "" {
		ctx = auth.WithUserID(ctx, userID)
	}
	return req.WithContext(ctx)
}

type seeded struct {
	s     *store.MemoryStore
	kyle  store.User
	sally store.User
	post  store.Post
}

func seed(t *testing.T) seeded {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	kyle, _ := s.CreateUser(ctx, "Kyle")
	sally, _ := s.CreateUser(ctx, "Sally")
	post, _ := s.CreatePost(ctx, "Hello", "world")
	return seeded{s: s, kyle: kyle, sally: sally, post: post}
}

func (sd seeded) comment(t *testing.T, userID, message string) store.Comment {
	t.Helper()
	c, err := sd.s.CreateComment(context.Background(), store.NewComment{PostID: sd.post.ID, UserID: userID, Message: message})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return c
}

func (sd seeded) commentCount(t *testing.T) int {
	t.Helper()
	d, err := sd.s.GetPostDetail(context.Background(), sd.post.ID, "")
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	return len(d.Comments)
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Error.Code
}

func TestCreateComment(t *testing.T) {
	sd := seed(t)
	handler := CreateComment(sd.s, nil)

	req := setupReq(http.MethodPost, "/posts/"+sd.post.ID+"/comments", `{"message":"hello world"}`,
		map[string]string{"id": sd.post.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var c store.Comment
	if err := json.NewDecoder(rr.Body).Decode(&c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Message != "hello world" || c.User.Name != "Kyle" {
		t.Fatalf("unexpected comment: %+v", c)
	}
	if c.LikeCount != 0 || c.LikedByMe || c.ParentID != nil {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestCreateComment_Reply(t *testing.T) {
	sd := seed(t)
	parent := sd.comment(t, sd.sally.ID, "parent")

	body := `{"message":"reply","parentId":"` + parent.ID + `"}`
	req := setupReq(http.MethodPost, "/", body, map[string]string{"id": sd.post.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var c store.Comment
	_ = json.NewDecoder(rr.Body).Decode(&c)
	if c.ParentID == nil || *c.ParentID != parent.ID {
		t.Fatalf("expected parent %s, got %v", parent.ID, c.ParentID)
	}
}

func TestCreateComment_EmptyParentIsTopLevel(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"hi","parentId":""}`, map[string]string{"id": sd.post.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateComment_Validation(t *testing.T) {
	cases := map[string]struct {
		body string
		code string
	}{
		"empty":      {`{"message":""}`, "MESSAGE_REQUIRED"},
		"null":       {`{"message":null}`, "MESSAGE_REQUIRED"},
		"missing":    {`{}`, "MESSAGE_REQUIRED"},
		"bad json":   {`{"message":`, "INVALID_JSON"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sd := seed(t)
			req := setupReq(http.MethodPost, "/", tc.body, map[string]string{"id": sd.post.ID}, sd.kyle.ID)
			rr := httptest.NewRecorder()
			CreateComment(sd.s, nil).ServeHTTP(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if got := errorCode(t, rr); got != tc.code {
				t.Fatalf("expected %s, got %s", tc.code, got)
			}
			if n := sd.commentCount(t); n != 0 {
				t.Fatalf("expected no comments stored, got %d", n)
			}
		})
	}
}

func TestCreateComment_UnknownPost(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"hi"}`, map[string]string{"id": "nope"}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if got := errorCode(t, rr); got != "POST_NOT_FOUND" {
		t.Fatalf("expected POST_NOT_FOUND, got %s", got)
	}
}

func TestCreateComment_InvalidParent(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"hi","parentId":"ghost"}`,
		map[string]string{"id": sd.post.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := errorCode(t, rr); got != "INVALID_PARENT" {
		t.Fatalf("expected INVALID_PARENT, got %s", got)
	}
}

func TestCreateComment_WhitespaceMessageIsAccepted(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"   "}`, map[string]string{"id": sd.post.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var c store.Comment
	_ = json.NewDecoder(rr.Body).Decode(&c)
	if c.Message != "   " {
		t.Fatalf("expected message stored verbatim, got %q", c.Message)
	}
}

func TestCreateComment_UnknownAuthor(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"hi"}`, map[string]string{"id": sd.post.ID}, "ghost")
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := errorCode(t, rr); got != "UNAUTHENTICATED" {
		t.Fatalf("expected UNAUTHENTICATED, got %s", got)
	}
}

func TestCreateComment_Unauthenticated(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPost, "/", `{"message":"hi"}`, map[string]string{"id": sd.post.ID}, "")
	rr := httptest.NewRecorder()
	CreateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestUpdateComment(t *testing.T) {
	sd := seed(t)
	c := sd.comment(t, sd.kyle.ID, "before")

	req := setupReq(http.MethodPut, "/", `{"message":"after"}`,
		map[string]string{"postId": sd.post.ID, "commentId": c.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	UpdateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Message != "after" {
		t.Fatalf("expected 'after', got %q", resp.Message)
	}
}

func TestUpdateComment_NotOwner(t *testing.T) {
	sd := seed(t)
	c := sd.comment(t, sd.sally.ID, "sally's")

	req := setupReq(http.MethodPut, "/", `{"message":"hijack"}`,
		map[string]string{"postId": sd.post.ID, "commentId": c.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	UpdateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := errorCode(t, rr); got != "NOT_OWNER" {
		t.Fatalf("expected NOT_OWNER, got %s", got)
	}
	d, _ := sd.s.GetPostDetail(context.Background(), sd.post.ID, sd.kyle.ID)
	if d.Comments[0].Message != "sally's" {
		t.Fatalf("comment changed to %q", d.Comments[0].Message)
	}
}

func TestUpdateComment_EmptyMessage(t *testing.T) {
	sd := seed(t)
	c := sd.comment(t, sd.kyle.ID, "keep")

	req := setupReq(http.MethodPut, "/", `{"message":""}`,
		map[string]string{"postId": sd.post.ID, "commentId": c.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	UpdateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUpdateComment_NotFound(t *testing.T) {
	sd := seed(t)
	req := setupReq(http.MethodPut, "/", `{"message":"x"}`,
		map[string]string{"postId": sd.post.ID, "commentId": "ghost"}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	UpdateComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteComment(t *testing.T) {
	sd := seed(t)
	c := sd.comment(t, sd.kyle.ID, "bye")

	req := setupReq(http.MethodDelete, "/", "", map[string]string{"postId": sd.post.ID, "commentId": c.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	DeleteComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Message != "Comment deleted successfully" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	if n := sd.commentCount(t); n != 0 {
		t.Fatalf("expected comment removed, %d remain", n)
	}
}

func TestDeleteComment_NotOwner(t *testing.T) {
	sd := seed(t)
	c := sd.comment(t, sd.sally.ID, "mine")

	req := setupReq(http.MethodDelete, "/", "", map[string]string{"postId": sd.post.ID, "commentId": c.ID}, sd.kyle.ID)
	rr := httptest.NewRecorder()
	DeleteComment(sd.s, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if n := sd.commentCount(t); n != 1 {
		t.Fatalf("expected comment kept, got %d", n)
	}
}

type failingStore struct {
	store.Store
}

func (failingStore) UpdateComment(context.Context, string, string, string) (string, error) {
	return "", errors.New("connection refused")
}

func TestUpdateComment_StoreFailureEchoesMessage(t *testing.T) {
	req := setupReq(http.MethodPut, "/", `{"message":"x"}`,
		map[string]string{"postId": "p", "commentId": "c"}, "user-a")
	rr := httptest.NewRecorder()
	UpdateComment(failingStore{}, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("connection refused")) {
		t.Fatalf("expected store message in body, got %s", rr.Body.String())
	}
}
