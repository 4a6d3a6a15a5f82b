package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/comment-board/internal/platform/api"
	"github.com/example/comment-board/internal/platform/auth"
	"github.com/example/comment-board/internal/platform/httpserver"
	"github.com/example/comment-board/services/board/internal/store"
)

const maxBodyBytes = 1 << 20

type messageRequest struct {
	Message  *string `json:"message"`
	ParentID *string `json:"parentId,omitempty"`
}

// decodeMessage reads the body and validates its message. It writes the 400
// itself and reports false when the handler should stop.
func decodeMessage(w http.ResponseWriter, r *http.Request) (messageRequest, bool) {
	rid := httpserver.RequestIDFromContext(r.Context())

	var req messageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		api.BadRequest(w, "INVALID_JSON", "invalid JSON", rid, nil)
		return req, false
	}
	if req.Message == nil || *req.Message == "" {
		api.BadRequest(w, "MESSAGE_REQUIRED", "Message is required", rid, nil)
		return req, false
	}
	if req.ParentID != nil && strings.TrimSpace(*req.ParentID) == "" {
		req.ParentID = nil
	}
	return req, true
}

func unknownUser(w http.ResponseWriter, rid string) {
	api.Unauthorized(w, "UNAUTHENTICATED", "User not authenticated or invalid userId", rid)
}

// requireUser pulls the acting user out of context or answers 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok || strings.TrimSpace(userID) == "" {
		unknownUser(w, httpserver.RequestIDFromContext(r.Context()))
		return "", false
	}
	return userID, true
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// writeCommentError maps store sentinels for comment mutations. verb names
// the action in the ownership message ("edit", "delete").
func writeCommentError(w http.ResponseWriter, r *http.Request, err error, verb string) {
	rid := httpserver.RequestIDFromContext(r.Context())
	switch {
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, "COMMENT_NOT_FOUND", "comment not found", rid)
	case errors.Is(err, store.ErrUnknownUser):
		unknownUser(w, rid)
	case errors.Is(err, store.ErrForbidden):
		api.Unauthorized(w, "NOT_OWNER", "You do not have permission to "+verb+" this message", rid)
	default:
		api.StoreFailure(w, err, rid)
	}
}
